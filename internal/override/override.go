// SPDX-License-Identifier: MPL-2.0

// Package override collapses same-named member candidates to the most
// derived one.
//
// Rather than re-walking inheritance chains per comparison, resolution
// builds one small explicit "replaces" DAG per duplicate group: an edge
// A -> B means A's base chain contains B, so A replaces B. The winner is
// the group's only unreplaced node. Duplicates with no inheritance
// relationship (the diamond case) have no defined winner; the last
// discovered is kept and the ambiguity is surfaced as a diagnostic instead
// of being silently replicated.
package override

import (
	"fmt"

	"github.com/regista/regista/internal/dag"
	"github.com/regista/regista/internal/diag"
	"github.com/regista/regista/internal/discovery"
	"github.com/regista/regista/pkg/registamod"
)

// Resolution is the outcome of deduplicating one candidate list.
type Resolution struct {
	// Winners holds the surviving candidates. Each winner occupies the scan
	// position of its group's first occurrence, so member order stays scan
	// order.
	Winners []discovery.Candidate

	// Diagnostics reports ambiguous duplicate groups.
	Diagnostics []diag.Diagnostic
}

// Resolve deduplicates candidates by declaration name. svc and graph are
// required for base-chain resolution; nil panics (wiring bug).
func Resolve(candidates []discovery.Candidate, svc *discovery.Service, graph *registamod.Graph) Resolution {
	if svc == nil {
		panic("override: Resolve called with nil discovery service")
	}
	if graph == nil {
		panic("override: Resolve called with nil graph")
	}

	groups := make(map[string][]discovery.Candidate)
	var order []string
	for _, c := range candidates {
		name := c.Decl.Name
		if _, seen := groups[name]; !seen {
			order = append(order, name)
		}
		groups[name] = append(groups[name], c)
	}

	var res Resolution
	for _, name := range order {
		group := groups[name]
		if len(group) == 1 {
			res.Winners = append(res.Winners, group[0])
			continue
		}

		winner, d := resolveGroup(group, svc, graph)
		res.Winners = append(res.Winners, winner)
		if d != nil {
			res.Diagnostics = append(res.Diagnostics, *d)
		}
	}
	return res
}

// resolveGroup picks the most-derived candidate of one duplicate group via
// the replaces DAG. Cost is O(k^2) chain-containment checks for group size
// k; groups are tiny in practice.
func resolveGroup(group []discovery.Candidate, svc *discovery.Service, graph *registamod.Graph) (discovery.Candidate, *diag.Diagnostic) {
	byFQN := make(map[string]discovery.Candidate, len(group))
	replaces := dag.New()
	for _, c := range group {
		byFQN[c.FQN()] = c
		replaces.AddNode(c.FQN())
	}

	for _, a := range group {
		for _, base := range svc.BaseChain(a, graph) {
			if _, inGroup := byFQN[base.FQN()]; inGroup && base.FQN() != a.FQN() {
				replaces.AddEdge(a.FQN(), base.FQN())
			}
		}
	}

	roots := replaces.Roots()
	if len(roots) == 1 {
		return byFQN[roots[0]], nil
	}

	// No single most-derived candidate. Keep the last discovered of the
	// unreplaced ones and report the ambiguity.
	var unreplaced []discovery.Candidate
	for _, c := range group {
		for _, r := range roots {
			if c.FQN() == r {
				unreplaced = append(unreplaced, c)
				break
			}
		}
	}
	winner := unreplaced[len(unreplaced)-1]

	d := &diag.Diagnostic{
		Severity: diag.SeverityWarning,
		Code:     diag.CodeDuplicateAmbiguous,
		Category: diag.CategoryDiscovery,
		Message: fmt.Sprintf(
			"duplicate declarations of %q have no inheritance relationship; keeping last discovered %s over %s",
			winner.Decl.Name, winner.FQN(), fqns(unreplaced[:len(unreplaced)-1])),
	}
	return winner, d
}

func fqns(cs []discovery.Candidate) string {
	s := ""
	for i, c := range cs {
		if i > 0 {
			s += ", "
		}
		s += c.FQN()
	}
	return s
}
