// SPDX-License-Identifier: MPL-2.0

// Package pipeline runs a full generation pass: load the module graph,
// discover registry markers and their members, resolve overrides, build
// registry definitions and emit generated source. Faults are isolated per
// registry: a malformed or even panicking registry surfaces as a
// diagnostic while its healthy siblings still generate.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/regista/regista/internal/diag"
	"github.com/regista/regista/internal/discovery"
	"github.com/regista/regista/internal/emit"
	"github.com/regista/regista/internal/override"
	"github.com/regista/regista/internal/registry"
	"github.com/regista/regista/pkg/registafile"
	"github.com/regista/regista/pkg/registamod"
)

type (
	// Options configures one generation pass.
	Options struct {
		// RootDir is the root declaration module directory.
		RootDir string
		// OutDir is where generated files and the lock manifest land.
		OutDir string
		// Package is the package name of generated files.
		Package string
		// CaseSensitiveNames disables case-insensitive name lookups in
		// generated registries.
		CaseSensitiveNames bool
		// DefaultStrategy applies to registries whose marker picks no
		// strategy; empty means static.
		DefaultStrategy string
		// DryRun builds and renders everything but writes nothing.
		DryRun bool
		// Logger receives pass progress; nil falls back to slog.Default.
		Logger *slog.Logger
	}

	// Output describes one registry processed by a pass.
	Output struct {
		Registry string
		File     string
		Hash     uint64
		// Skipped is set when the manifest proved the file current.
		Skipped bool
		// Degraded is set when the registry was reduced to its sentinel.
		Degraded bool
	}

	// Summary is the result of a pass.
	Summary struct {
		// PassID correlates log lines of one pass.
		PassID      string
		Outputs     []Output
		Diagnostics []diag.Diagnostic
	}
)

// HasErrors reports whether any diagnostic is error severity.
func (s *Summary) HasErrors() bool {
	for _, d := range s.Diagnostics {
		if d.Severity == diag.SeverityError {
			return true
		}
	}
	return false
}

// Run executes one generation pass. Structural failures of the root module
// graph return an error; per-registry failures are reported as diagnostics
// in the summary instead.
func Run(ctx context.Context, opts Options) (*Summary, error) {
	if opts.RootDir == "" {
		panic("pipeline: Run called with empty root directory")
	}
	if opts.OutDir == "" {
		panic("pipeline: Run called with empty output directory")
	}
	if opts.Package == "" {
		panic("pipeline: Run called with empty package name")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	summary := &Summary{PassID: uuid.NewString()}
	logger = logger.With("pass", summary.PassID)

	graph, err := registamod.LoadGraph(opts.RootDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load module graph from %s: %w", opts.RootDir, err)
	}
	logger.Info("module graph loaded",
		"root", graph.Root().ID(),
		"modules", len(graph.Modules()))

	svc := discovery.New()
	reporter := &diag.Reporter{}

	defs := buildDefinitions(ctx, graph, svc, reporter, logger)

	files := make([]*emit.File, len(defs))
	emitOpts := emit.Options{
		Package:            opts.Package,
		CaseSensitiveNames: opts.CaseSensitiveNames,
		DefaultStrategy:    emit.Strategy(opts.DefaultStrategy),
	}

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range defs {
		g.Go(func() error {
			files[i] = emitOne(&defs[i], emitOpts, reporter, logger)
			return nil
		})
	}
	_ = g.Wait()

	if err := writeOutputs(opts, summary, defs, files); err != nil {
		return nil, err
	}

	summary.Diagnostics = reporter.All()
	logger.Info("pass complete",
		"registries", len(defs),
		"diagnostics", len(summary.Diagnostics))
	return summary, nil
}

// buildDefinitions discovers every registry marker and builds its
// definition. Marker order follows scan order, so output is deterministic.
func buildDefinitions(ctx context.Context, graph *registamod.Graph, svc *discovery.Service, reporter *diag.Reporter, logger *slog.Logger) []registry.Definition {
	markers := svc.FindByAnnotation(registafile.CollectionAnnotation, graph)

	var defs []registry.Definition
	for _, marker := range markers {
		if ctx.Err() != nil {
			break
		}

		members := collectMembers(marker, svc, graph)
		res := override.Resolve(members, svc, graph)
		reporter.Report(res.Diagnostics...)

		built := registry.Build(marker, res.Winners, graph, svc)
		reporter.Report(built.Diagnostics...)
		if !built.Ok() {
			continue
		}

		logger.Debug("registry built",
			"registry", built.Value.Collection,
			"members", len(built.Value.Members),
			"degraded", built.Value.Degraded)
		defs = append(defs, *built.Value)
	}
	return defs
}

// collectMembers unions inheritance-discovered and annotation-tagged
// members of one marker, deduplicated by qualified name, marker excluded.
// A tagged member's optional collection filter must match the marker's
// collection name.
func collectMembers(marker discovery.Candidate, svc *discovery.Service, graph *registamod.Graph) []discovery.Candidate {
	members := svc.FindByInheritance(marker.Decl.Name, graph)

	seen := make(map[string]bool, len(members)+1)
	seen[marker.FQN()] = true
	for _, m := range members {
		seen[m.FQN()] = true
	}

	for _, tagged := range svc.FindByAnnotation(registafile.MemberAnnotation, graph) {
		ann := tagged.Decl.FindAnnotation(registafile.MemberAnnotation)
		if ann == nil || !registry.TaggedFor(ann, marker) || seen[tagged.FQN()] {
			continue
		}
		seen[tagged.FQN()] = true
		members = append(members, tagged)
	}
	return members
}

// emitOne renders a single registry, converting a panic anywhere in
// emission into an emission-failed diagnostic so sibling registries are
// unaffected.
func emitOne(def *registry.Definition, opts emit.Options, reporter *diag.Reporter, logger *slog.Logger) (file *emit.File) {
	defer func() {
		if r := recover(); r != nil {
			file = nil
			reporter.Report(diag.Diagnostic{
				Severity: diag.SeverityError,
				Code:     diag.CodeEmissionFailed,
				Category: diag.CategoryEmission,
				Registry: def.Collection,
				Message:  fmt.Sprintf("emission panicked: %v", r),
			})
			logger.Error("emission panicked", "registry", def.Collection, "panic", r)
		}
	}()

	f, err := emit.Emit(def, opts)
	if err != nil {
		reporter.Report(diag.Diagnostic{
			Severity: diag.SeverityError,
			Code:     diag.CodeEmissionFailed,
			Category: diag.CategoryEmission,
			Registry: def.Collection,
			Message:  err.Error(),
			Cause:    err,
		})
		return nil
	}
	return f
}

// writeOutputs persists generated files, skipping those the manifest
// proves current, then prunes stale entries and saves the manifest.
func writeOutputs(opts Options, summary *Summary, defs []registry.Definition, files []*emit.File) error {
	manifest := loadManifest(opts.OutDir)
	live := make(map[string]bool, len(defs))

	if !opts.DryRun {
		if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory %s: %w", opts.OutDir, err)
		}
	}

	for i := range defs {
		def := &defs[i]
		f := files[i]
		if f == nil {
			continue
		}
		live[def.Collection] = true

		out := Output{
			Registry: def.Collection,
			File:     f.Name,
			Hash:     def.Hash(),
			Degraded: def.Degraded,
		}

		if opts.DryRun {
			summary.Outputs = append(summary.Outputs, out)
			continue
		}

		if manifest.upToDate(opts.OutDir, def.Collection, f.Name, out.Hash) {
			out.Skipped = true
			summary.Outputs = append(summary.Outputs, out)
			continue
		}

		if err := os.WriteFile(filepath.Join(opts.OutDir, f.Name), f.Source, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", f.Name, err)
		}
		manifest.record(def.Collection, f.Name, out.Hash)
		summary.Outputs = append(summary.Outputs, out)
	}

	if opts.DryRun {
		return nil
	}

	manifest.prune(opts.OutDir, live)
	return saveManifest(opts.OutDir, manifest)
}
