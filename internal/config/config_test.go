// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/regista/regista/internal/issue"
)

func writeConfigFile(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ConfigFileName+"."+ConfigFileExt)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config fixture: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	// Empty config dir: load must succeed on built-in defaults.
	cfg, path, err := LoadWithPath(context.Background(), LoadOptions{ConfigDirPath: t.TempDir()})
	if err != nil {
		t.Fatalf("LoadWithPath() error = %v", err)
	}
	if path != "" {
		t.Errorf("resolved path = %q, want empty for defaults", path)
	}
	if cfg.OutDir != "gen" {
		t.Errorf("OutDir = %q, want gen", cfg.OutDir)
	}
	if cfg.OutPackage != "registry" {
		t.Errorf("OutPackage = %q, want registry", cfg.OutPackage)
	}
	if cfg.DefaultStrategy != StrategyStatic {
		t.Errorf("DefaultStrategy = %q, want static", cfg.DefaultStrategy)
	}
	if cfg.LookupCaseSensitive {
		t.Error("LookupCaseSensitive should default to false")
	}
}

func TestLoad_FromConfigDir(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, `
out_dir:               "build/registries"
out_package:           "palettes"
lookup_case_sensitive: true
default_strategy:      "singleton"
search_paths: ["./vendor/modules"]
`)

	cfg, path, err := LoadWithPath(context.Background(), LoadOptions{ConfigDirPath: dir})
	if err != nil {
		t.Fatalf("LoadWithPath() error = %v", err)
	}
	if path == "" {
		t.Error("resolved path should point at the loaded file")
	}
	if cfg.OutDir != "build/registries" {
		t.Errorf("OutDir = %q", cfg.OutDir)
	}
	if cfg.OutPackage != "palettes" {
		t.Errorf("OutPackage = %q", cfg.OutPackage)
	}
	if !cfg.LookupCaseSensitive {
		t.Error("LookupCaseSensitive should be true")
	}
	if cfg.DefaultStrategy != StrategySingleton {
		t.Errorf("DefaultStrategy = %q", cfg.DefaultStrategy)
	}
	if len(cfg.SearchPaths) != 1 || cfg.SearchPaths[0] != "./vendor/modules" {
		t.Errorf("SearchPaths = %v", cfg.SearchPaths)
	}
}

func TestLoad_ExplicitFile(t *testing.T) {
	dir := t.TempDir()
	path := writeConfigFile(t, dir, `out_dir: "explicit"`)

	cfg, resolved, err := LoadWithPath(context.Background(), LoadOptions{ConfigFilePath: path})
	if err != nil {
		t.Fatalf("LoadWithPath() error = %v", err)
	}
	if resolved != path {
		t.Errorf("resolved path = %q, want %q", resolved, path)
	}
	if cfg.OutDir != "explicit" {
		t.Errorf("OutDir = %q", cfg.OutDir)
	}
	// Untouched keys keep defaults.
	if cfg.OutPackage != "registry" {
		t.Errorf("OutPackage = %q, want default", cfg.OutPackage)
	}
}

func TestLoad_ExplicitFileMissing(t *testing.T) {
	_, _, err := LoadWithPath(context.Background(), LoadOptions{
		ConfigFilePath: filepath.Join(t.TempDir(), "nope.cue"),
	})
	if err == nil {
		t.Fatal("missing explicit config file should fail")
	}

	var actionable *issue.ActionableError
	if !errors.As(err, &actionable) {
		t.Fatalf("error should be actionable, got %T", err)
	}
	if !actionable.HasSuggestions() {
		t.Error("actionable error should carry suggestions")
	}
}

func TestLoad_InvalidCUESyntax(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, `out_dir: [unbalanced`)

	_, _, err := LoadWithPath(context.Background(), LoadOptions{ConfigDirPath: dir})
	if err == nil {
		t.Fatal("invalid CUE should fail")
	}
}

func TestLoad_SchemaViolation(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "unknown strategy", content: `default_strategy: "lazy"`},
		{name: "bad package identifier", content: `out_package: "my-pkg"`},
		{name: "empty search path", content: `search_paths: [""]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeConfigFile(t, dir, tt.content)

			_, _, err := LoadWithPath(context.Background(), LoadOptions{ConfigDirPath: dir})
			if err == nil {
				t.Fatal("schema violation should fail")
			}
		})
	}
}

func TestLoad_DuplicateSearchPaths(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, `search_paths: ["./mods", "mods"]`)

	_, _, err := LoadWithPath(context.Background(), LoadOptions{ConfigDirPath: dir})
	if err == nil {
		t.Fatal("duplicate search paths should fail")
	}
	if !strings.Contains(err.Error(), "duplicate path") {
		t.Errorf("error should name the duplicate, got %v", err)
	}
}

func TestLoad_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := LoadWithPath(ctx, LoadOptions{ConfigDirPath: t.TempDir()})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("canceled context should surface, got %v", err)
	}
}

func TestProvider_Load(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, `verbose: true`)

	cfg, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: dir})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !cfg.Verbose {
		t.Error("Verbose should be true")
	}
}

func TestGenerateCUE_RoundTrip(t *testing.T) {
	want := &Config{
		SearchPaths:         []SearchPath{"./a", "./b"},
		OutDir:              "out",
		OutPackage:          "gen",
		LookupCaseSensitive: true,
		DefaultStrategy:     StrategyFactory,
		Verbose:             true,
	}

	dir := t.TempDir()
	writeConfigFile(t, dir, GenerateCUE(want))

	got, _, err := LoadWithPath(context.Background(), LoadOptions{ConfigDirPath: dir})
	if err != nil {
		t.Fatalf("reloading generated CUE failed: %v", err)
	}
	if got.OutDir != want.OutDir || got.OutPackage != want.OutPackage ||
		got.LookupCaseSensitive != want.LookupCaseSensitive ||
		got.DefaultStrategy != want.DefaultStrategy || got.Verbose != want.Verbose {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, want)
	}
	if len(got.SearchPaths) != 2 {
		t.Errorf("SearchPaths = %v", got.SearchPaths)
	}
}

func TestConfigDir_Override(t *testing.T) {
	t.Cleanup(Reset)

	dir := t.TempDir()
	SetConfigDirOverride(dir)

	got, err := ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir() error = %v", err)
	}
	if got != dir {
		t.Errorf("ConfigDir() = %q, want override %q", got, dir)
	}
}
