// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"io"
	"log/slog"
	"os"

	charmlog "github.com/charmbracelet/log"

	"github.com/regista/regista/internal/config"
)

type (
	// App wires CLI services and shared dependencies. It is the composition
	// root for the CLI layer: all Cobra command handlers receive an App
	// reference and delegate business logic through its services.
	App struct {
		Config config.Provider
		Logger *slog.Logger
		stdout io.Writer
		stderr io.Writer
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp. Tests can
	// supply substitutes to isolate specific behavior.
	Dependencies struct {
		Config config.Provider
		Logger *slog.Logger
		Stdout io.Writer
		Stderr io.Writer
	}
)

// NewApp builds an App, filling nil dependencies with production defaults.
func NewApp(deps Dependencies) *App {
	app := &App{
		Config: deps.Config,
		Logger: deps.Logger,
		stdout: deps.Stdout,
		stderr: deps.Stderr,
	}
	if app.Config == nil {
		app.Config = config.NewProvider()
	}
	if app.stdout == nil {
		app.stdout = os.Stdout
	}
	if app.stderr == nil {
		app.stderr = os.Stderr
	}
	if app.Logger == nil {
		app.Logger = newLogger(app.stderr, false)
	}
	return app
}

// newLogger builds the CLI logger on top of charmbracelet/log, which
// doubles as an slog.Handler.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	handler := charmlog.NewWithOptions(w, charmlog.Options{
		ReportTimestamp: false,
	})
	if verbose {
		handler.SetLevel(charmlog.DebugLevel)
	}
	return slog.New(handler)
}
