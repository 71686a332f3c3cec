// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"path/filepath"
	"testing"

	"github.com/regista/regista/internal/config"
	"github.com/regista/regista/internal/testutil"
)

func TestResolveRootModule(t *testing.T) {
	root := t.TempDir()
	libDir := filepath.Join(root, "lib.registamod")
	appDir := filepath.Join(root, "app.registamod")
	testutil.MustMkdirAll(t, libDir, 0o755)
	testutil.MustMkdirAll(t, appDir, 0o755)

	t.Run("explicit module directory", func(t *testing.T) {
		got, err := resolveRootModule(libDir, &config.Config{})
		if err != nil {
			t.Fatalf("resolveRootModule() error = %v", err)
		}
		if got != libDir {
			t.Errorf("got %q, want %q", got, libDir)
		}
	})

	t.Run("explicit missing directory", func(t *testing.T) {
		missing := filepath.Join(root, "absent.registamod")
		if _, err := resolveRootModule(missing, &config.Config{}); err == nil {
			t.Fatal("expected error for missing explicit module")
		}
	})

	t.Run("search paths pick first sorted match", func(t *testing.T) {
		cfg := &config.Config{SearchPaths: []config.SearchPath{config.SearchPath(root)}}
		got, err := resolveRootModule("", cfg)
		if err != nil {
			t.Fatalf("resolveRootModule() error = %v", err)
		}
		if got != appDir {
			t.Errorf("got %q, want the first sorted match %q", got, appDir)
		}
	})

	t.Run("current directory wins over search paths", func(t *testing.T) {
		cwd := t.TempDir()
		testutil.MustMkdirAll(t, filepath.Join(cwd, "local.registamod"), 0o755)
		restore := testutil.MustChdir(t, cwd)
		defer restore()

		got, err := resolveRootModule("", &config.Config{SearchPaths: []config.SearchPath{config.SearchPath(root)}})
		if err != nil {
			t.Fatalf("resolveRootModule() error = %v", err)
		}
		if filepath.Base(got) != "local.registamod" {
			t.Errorf("got %q, want the module next to the working directory", got)
		}
	})

	t.Run("nothing found", func(t *testing.T) {
		empty := t.TempDir()
		restore := testutil.MustChdir(t, empty)
		defer restore()

		if _, err := resolveRootModule("", &config.Config{}); err == nil {
			t.Fatal("expected error when no module can be located")
		}
	})
}

func TestFirstOrEmpty(t *testing.T) {
	if got := firstOrEmpty(nil); got != "" {
		t.Errorf("firstOrEmpty(nil) = %q", got)
	}
	if got := firstOrEmpty([]string{"a", "b"}); got != "a" {
		t.Errorf("firstOrEmpty = %q, want %q", got, "a")
	}
}
