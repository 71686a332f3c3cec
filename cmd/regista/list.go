// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/regista/regista/internal/discovery"
	"github.com/regista/regista/internal/emit"
	"github.com/regista/regista/internal/override"
	"github.com/regista/regista/internal/registry"
	"github.com/regista/regista/pkg/registafile"
	"github.com/regista/regista/pkg/registamod"
)

// newListCommand creates the `regista list` command.
func newListCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list [module-dir]",
		Short: "List discovered registries and their members",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, app, firstOrEmpty(args))
		},
	}
}

func runList(cmd *cobra.Command, app *App, arg string) error {
	cfg, err := loadConfig(cmd.Context(), app)
	if err != nil {
		return err
	}

	rootDir, err := resolveRootModule(arg, cfg)
	if err != nil {
		return err
	}

	graph, err := registamod.LoadGraph(rootDir)
	if err != nil {
		fmt.Fprintln(app.stderr, ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, verbose))
		return &ExitError{Code: 1, Err: err}
	}

	fmt.Fprintln(app.stdout, TitleStyle.Render("Modules"))
	for _, mod := range graph.Modules() {
		fmt.Fprintf(app.stdout, "  %s %s\n",
			RegistryStyle.Render(mod.ID()),
			SubtitleStyle.Render(mod.Path))
	}
	fmt.Fprintln(app.stdout)

	svc := discovery.New()
	markers := svc.FindByAnnotation(registafile.CollectionAnnotation, graph)

	fmt.Fprintln(app.stdout, TitleStyle.Render("Registries"))
	if len(markers) == 0 {
		fmt.Fprintln(app.stdout, SubtitleStyle.Render("  none discovered"))
		return nil
	}

	for _, marker := range markers {
		built := registry.Build(marker, resolvedMembers(marker, svc, graph), graph, svc)
		if !built.Ok() {
			continue
		}
		def := built.Value

		status := ""
		if def.Degraded {
			status = " " + WarningStyle.Render("(degraded)")
		}
		fmt.Fprintf(app.stdout, "  %s %s%s\n",
			RegistryStyle.Render(def.Collection),
			SubtitleStyle.Render(fmt.Sprintf("[%s, %s]", def.ModuleID, emit.SelectStrategy(def, emit.Strategy(cfg.DefaultStrategy)))),
			status)
		for _, m := range def.Members {
			fmt.Fprintf(app.stdout, "    %s %s\n", m.DisplayName, VerboseStyle.Render(m.FQN))
		}
	}
	return nil
}

// resolvedMembers gathers a marker's member set with overrides applied,
// mirroring what a generation pass would build.
func resolvedMembers(marker discovery.Candidate, svc *discovery.Service, graph *registamod.Graph) []discovery.Candidate {
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

	return override.Resolve(members, svc, graph).Winners
}
