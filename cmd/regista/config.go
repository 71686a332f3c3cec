// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/regista/regista/internal/config"
)

// newConfigCommand creates the `regista config` command tree.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage regista configuration",
		Long: `Manage regista configuration.

Configuration is stored in:
  - Linux: ~/.config/regista/config.cue
  - macOS: ~/Library/Application Support/regista/config.cue
  - Windows: %APPDATA%\regista\config.cue`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd.Context(), app)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.CreateDefaultConfig(); err != nil {
				return err
			}
			fmt.Fprintln(app.stdout, SuccessStyle.Render("Configuration initialized."))
			return showConfigPath(app)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfigPath(app)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output raw configuration as CUE",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd.Context(), app)
			if err != nil {
				return err
			}

			fmt.Fprint(app.stdout, config.GenerateCUE(cfg))
			return nil
		},
	})

	return cfgCmd
}

func showConfig(ctx context.Context, app *App) error {
	cfg, err := loadConfig(ctx, app)
	if err != nil {
		return err
	}

	keyStyle := RegistryStyle
	valueStyle := SuccessStyle

	fmt.Fprintln(app.stdout, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(app.stdout)

	if len(cfg.SearchPaths) == 0 {
		fmt.Fprintf(app.stdout, "%s: %s\n", keyStyle.Render("search_paths"), SubtitleStyle.Render("(none)"))
	} else {
		fmt.Fprintf(app.stdout, "%s:\n", keyStyle.Render("search_paths"))
		for _, p := range cfg.SearchPaths {
			fmt.Fprintf(app.stdout, "  - %s\n", valueStyle.Render(string(p)))
		}
	}
	fmt.Fprintf(app.stdout, "%s: %s\n", keyStyle.Render("out_dir"), valueStyle.Render(cfg.OutDir))
	fmt.Fprintf(app.stdout, "%s: %s\n", keyStyle.Render("out_package"), valueStyle.Render(string(cfg.OutPackage)))
	fmt.Fprintf(app.stdout, "%s: %s\n", keyStyle.Render("lookup_case_sensitive"), valueStyle.Render(fmt.Sprint(cfg.LookupCaseSensitive)))
	fmt.Fprintf(app.stdout, "%s: %s\n", keyStyle.Render("default_strategy"), valueStyle.Render(string(cfg.DefaultStrategy)))
	fmt.Fprintf(app.stdout, "%s: %s\n", keyStyle.Render("verbose"), valueStyle.Render(fmt.Sprint(cfg.Verbose)))

	return nil
}

func showConfigPath(app *App) error {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}
	fmt.Fprintln(app.stdout, filepath.Join(cfgDir, config.ConfigFileName+"."+config.ConfigFileExt))
	return nil
}
