// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/regista/regista/internal/config"
	"github.com/regista/regista/internal/diag"
	"github.com/regista/regista/internal/issue"
	"github.com/regista/regista/internal/pipeline"
	"github.com/regista/regista/pkg/registamod"
)

// newGenerateCommand creates the `regista generate` command.
func newGenerateCommand(app *App) *cobra.Command {
	var (
		outDir     string
		outPackage string
		dryRun     bool
	)

	genCmd := &cobra.Command{
		Use:   "generate [module-dir]",
		Short: "Generate registries from declaration modules",
		Long: `Generate registries from declaration modules.

Scans the given module directory (or the current directory) and every
module it requires, discovers registry markers and members, and writes
one generated Go file per registry plus an incremental lock manifest.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd.Context(), app, generateFlags{
				arg:        firstOrEmpty(args),
				outDir:     outDir,
				outPackage: outPackage,
				dryRun:     dryRun,
			})
		},
	}

	genCmd.Flags().StringVarP(&outDir, "out", "o", "", "output directory (default from config: gen)")
	genCmd.Flags().StringVarP(&outPackage, "package", "p", "", "package name of generated files (default from config: registry)")
	genCmd.Flags().BoolVar(&dryRun, "dry-run", false, "build and render everything but write nothing")

	return genCmd
}

type generateFlags struct {
	arg        string
	outDir     string
	outPackage string
	dryRun     bool
}

func runGenerate(ctx context.Context, app *App, flags generateFlags) error {
	cfg, err := loadConfig(ctx, app)
	if err != nil {
		return err
	}

	rootDir, err := resolveRootModule(flags.arg, cfg)
	if err != nil {
		return err
	}

	opts := pipeline.Options{
		RootDir:            rootDir,
		OutDir:             cfg.OutDir,
		Package:            string(cfg.OutPackage),
		CaseSensitiveNames: cfg.LookupCaseSensitive,
		DefaultStrategy:    string(cfg.DefaultStrategy),
		DryRun:             flags.dryRun,
		Logger:             newLogger(app.stderr, verbose || cfg.Verbose),
	}
	if flags.outDir != "" {
		opts.OutDir = flags.outDir
	}
	if flags.outPackage != "" {
		opts.Package = flags.outPackage
	}

	summary, err := pipeline.Run(ctx, opts)
	if err != nil {
		fmt.Fprintln(app.stderr, ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, verbose))
		return &ExitError{Code: 1, Err: err}
	}

	printDiagnostics(app, summary.Diagnostics)
	printOutputs(app, summary, flags.dryRun)

	if summary.HasErrors() {
		return &ExitError{Code: 1, Err: fmt.Errorf("generation finished with errors")}
	}
	return nil
}

func printOutputs(app *App, summary *pipeline.Summary, dryRun bool) {
	for _, out := range summary.Outputs {
		name := RegistryStyle.Render(out.Registry)
		switch {
		case dryRun:
			fmt.Fprintf(app.stdout, "%s %s (dry run)\n", name, out.File)
		case out.Skipped:
			fmt.Fprintf(app.stdout, "%s %s %s\n", name, out.File, VerboseStyle.Render("(up to date)"))
		case out.Degraded:
			fmt.Fprintf(app.stdout, "%s %s %s\n", name, out.File, WarningStyle.Render("(degraded: sentinel only)"))
		default:
			fmt.Fprintf(app.stdout, "%s %s %s\n", name, out.File, SuccessStyle.Render("(generated)"))
		}
	}
	if len(summary.Outputs) == 0 {
		fmt.Fprintln(app.stdout, SubtitleStyle.Render("No registries discovered."))
	}
}

func printDiagnostics(app *App, diags []diag.Diagnostic) {
	for _, d := range diags {
		style := WarningStyle
		if d.Severity == diag.SeverityError {
			style = ErrorStyle
		}
		fmt.Fprintln(app.stderr, style.Render(string(d.Severity)+": ")+d.String())
	}
}

// loadConfig reads configuration honoring the global --config flag and
// renders load failures as actionable guidance.
func loadConfig(ctx context.Context, app *App) (*config.Config, error) {
	cfg, err := app.Config.Load(ctx, config.LoadOptions{ConfigFilePath: cfgFile})
	if err != nil {
		if rendered, renderErr := issue.Get(issue.ConfigLoadFailedId).Render("dark"); renderErr == nil {
			fmt.Fprint(app.stderr, rendered)
		}
		return nil, err
	}
	return cfg, nil
}

// resolveRootModule picks the root declaration module directory: an
// explicit *.registamod path, a directory containing exactly one such
// module, or the first match under the configured search paths.
func resolveRootModule(arg string, cfg *config.Config) (string, error) {
	candidates := []string{arg}
	if arg == "" {
		candidates = []string{"."}
		for _, p := range cfg.SearchPaths {
			candidates = append(candidates, string(p))
		}
	}

	for _, dir := range candidates {
		if dir == "" {
			continue
		}
		if strings.HasSuffix(filepath.Base(dir), registamod.ModuleSuffix) {
			if info, err := os.Stat(dir); err == nil && info.IsDir() {
				return dir, nil
			}
			continue
		}
		matches, err := filepath.Glob(filepath.Join(dir, "*"+registamod.ModuleSuffix))
		if err != nil || len(matches) == 0 {
			continue
		}
		sort.Strings(matches)
		return matches[0], nil
	}

	return "", issue.NewErrorContext().
		WithOperation("locate declaration module").
		WithResource(arg).
		WithSuggestion("Create a <name>.registamod directory with a registamod.cue").
		WithSuggestion("Pass the module directory explicitly: regista generate ./mylib.registamod").
		WithSuggestion("Add the module's parent directory to search_paths in your config").
		Wrap(fmt.Errorf("no %s directory found", registamod.ModuleSuffix)).
		BuildError()
}

func firstOrEmpty(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
