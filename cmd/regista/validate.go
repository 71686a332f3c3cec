// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/regista/regista/internal/pipeline"
)

// newValidateCommand creates the `regista validate` command.
func newValidateCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [module-dir]",
		Short: "Run structural checks without emitting code",
		Long: `Run structural checks without emitting code.

Loads the module graph, discovers every registry and resolves its
members, reporting all structural diagnostics. Nothing is written.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, app, firstOrEmpty(args))
		},
	}
}

func runValidate(cmd *cobra.Command, app *App, arg string) error {
	cfg, err := loadConfig(cmd.Context(), app)
	if err != nil {
		return err
	}

	rootDir, err := resolveRootModule(arg, cfg)
	if err != nil {
		return err
	}

	summary, err := pipeline.Run(cmd.Context(), pipeline.Options{
		RootDir:            rootDir,
		OutDir:             cfg.OutDir,
		Package:            string(cfg.OutPackage),
		CaseSensitiveNames: cfg.LookupCaseSensitive,
		DefaultStrategy:    string(cfg.DefaultStrategy),
		DryRun:             true,
		Logger:             newLogger(app.stderr, verbose || cfg.Verbose),
	})
	if err != nil {
		fmt.Fprintln(app.stderr, ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, verbose))
		return &ExitError{Code: 1, Err: err}
	}

	printDiagnostics(app, summary.Diagnostics)

	switch {
	case summary.HasErrors():
		return &ExitError{Code: 1, Err: fmt.Errorf("validation finished with errors")}
	case len(summary.Diagnostics) > 0:
		fmt.Fprintln(app.stdout, WarningStyle.Render("Valid with warnings."))
	default:
		fmt.Fprintf(app.stdout, "%s %d registries checked.\n",
			SuccessStyle.Render("Valid."), len(summary.Outputs))
	}
	return nil
}
