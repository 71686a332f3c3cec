// SPDX-License-Identifier: MPL-2.0

// Package diag defines the structured build diagnostics threaded through
// the generation pipeline. Structural and emission failures become
// diagnostics that degrade a single registry; they never abort sibling
// registries or fail the build.
package diag

import (
	"fmt"
	"sync"
)

const (
	// SeverityError indicates a diagnostic that degrades its registry.
	SeverityError Severity = "error"
	// SeverityWarning indicates a recoverable diagnostic.
	SeverityWarning Severity = "warning"

	// CategoryStructure groups structural-constraint violations.
	CategoryStructure Category = "structure"
	// CategoryDiscovery groups cross-module discovery diagnostics.
	CategoryDiscovery Category = "discovery"
	// CategoryEmission groups code-emission diagnostics.
	CategoryEmission Category = "emission"
)

// Stable diagnostic codes. These are part of the output contract: build
// tooling filters on them, so changing a value is a breaking change.
const (
	// CodeAbstractProperty reports an abstract property on a registry base
	// type. Registries carry per-member data via constructor parameters;
	// abstract properties would force every generated member to implement
	// accessors individually.
	CodeAbstractProperty = "abstract_property"

	// CodeUnresolvedBase reports a registry base type that cannot be
	// resolved anywhere in the module graph.
	CodeUnresolvedBase = "unresolved_base"

	// CodeDuplicateAmbiguous reports duplicate member names with no
	// inheritance relationship between them; the last discovered wins.
	CodeDuplicateAmbiguous = "duplicate_ambiguous"

	// CodeEmissionFailed reports a recovered failure while emitting one
	// registry.
	CodeEmissionFailed = "emission_failed"
)

type (
	// Severity is the diagnostic level.
	Severity string

	// Category is the pipeline stage a diagnostic belongs to.
	Category string

	// Diagnostic is one structured build diagnostic. Diagnostics are
	// returned to the host build's diagnostic channel rather than written
	// to stderr, keeping rendering policy with the caller.
	Diagnostic struct {
		// Severity is the diagnostic level.
		Severity Severity
		// Code is a stable machine-readable identifier.
		Code string
		// Category is the originating pipeline stage.
		Category Category
		// Registry names the affected registry collection (optional).
		Registry string
		// Message is the human-readable description.
		Message string
		// Path is the file path associated with the diagnostic (optional).
		Path string
		// Cause is the underlying error, for programmatic inspection
		// (optional).
		Cause error
	}

	// Result carries a value or the diagnostics explaining its absence
	// through the pipeline. A Result may hold both: a degraded value plus
	// warnings.
	Result[T any] struct {
		Value       *T
		Diagnostics []Diagnostic
	}

	// Reporter collects diagnostics from concurrently processed registries.
	Reporter struct {
		mu    sync.Mutex
		diags []Diagnostic
	}
)

// String renders the diagnostic in "severity code: message" form.
func (d Diagnostic) String() string {
	s := fmt.Sprintf("%s %s/%s: %s", d.Severity, d.Category, d.Code, d.Message)
	if d.Registry != "" {
		s = fmt.Sprintf("%s [registry %s]", s, d.Registry)
	}
	if d.Path != "" {
		s = fmt.Sprintf("%s (%s)", s, d.Path)
	}
	return s
}

// Ok reports whether the result carries a usable value.
func (r Result[T]) Ok() bool { return r.Value != nil }

// OkResult builds a Result holding a value and any accompanying warnings.
func OkResult[T any](value *T, diags ...Diagnostic) Result[T] {
	return Result[T]{Value: value, Diagnostics: diags}
}

// Report appends diagnostics. Safe for concurrent use.
func (r *Reporter) Report(diags ...Diagnostic) {
	if len(diags) == 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.diags = append(r.diags, diags...)
}

// All returns the collected diagnostics in report order.
func (r *Reporter) All() []Diagnostic {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Diagnostic, len(r.diags))
	copy(out, r.diags)
	return out
}

// HasErrors reports whether any collected diagnostic has error severity.
func (r *Reporter) HasErrors() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.diags {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}
