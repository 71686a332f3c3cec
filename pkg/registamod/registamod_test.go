// SPDX-License-Identifier: MPL-2.0

package registamod

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestRegistamod_ExportsTo(t *testing.T) {
	tests := []struct {
		name     string
		exports  []string
		consumer string
		want     bool
	}{
		{name: "always visible to itself", exports: nil, consumer: "com.example.lib", want: true},
		{name: "no exports hides from others", exports: nil, consumer: "com.example.app", want: false},
		{name: "wildcard exports to all", exports: []string{"*"}, consumer: "com.example.app", want: true},
		{name: "named consumer allowed", exports: []string{"com.example.app"}, consumer: "com.example.app", want: true},
		{name: "unnamed consumer denied", exports: []string{"com.example.app"}, consumer: "com.example.other", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Registamod{Module: "com.example.lib", Exports: tt.exports}
			if got := m.ExportsTo(tt.consumer); got != tt.want {
				t.Errorf("ExportsTo(%q) = %v, want %v", tt.consumer, got, tt.want)
			}
		})
	}
}

func TestParseBytes_Meta(t *testing.T) {
	data := []byte(`
module:      "io.regista.sample"
version:     "0.1.0"
description: "sample module"
requires: [{path: "../base.registamod"}]
exports: ["*"]
`)

	meta, err := ParseBytes(data, "registamod.cue")
	if err != nil {
		t.Fatalf("ParseBytes() error = %v", err)
	}
	if meta.Module != "io.regista.sample" {
		t.Errorf("Module = %q", meta.Module)
	}
	if len(meta.Requires) != 1 || meta.Requires[0].Path != "../base.registamod" {
		t.Errorf("Requires = %+v", meta.Requires)
	}
	if meta.FilePath != "registamod.cue" {
		t.Errorf("FilePath = %q", meta.FilePath)
	}
}

func TestParseBytes_MetaSchemaViolations(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "missing module", data: `version: "1"`},
		{name: "bad module id", data: `module: "not a module id"`},
		{name: "leading digit segment", data: `module: "com.1bad.lib"`},
		{name: "requirement without path", data: `module: "a.b", requires: [{}]`},
		{name: "empty export", data: `module: "a.b", exports: [""]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseBytes([]byte(tt.data), "registamod.cue"); err == nil {
				t.Fatal("expected a schema error")
			}
		})
	}
}

func TestParse_MetaNotFound(t *testing.T) {
	_, err := Parse(filepath.Join(t.TempDir(), MetaFileName))
	if !errors.Is(err, ErrMetaNotFound) {
		t.Errorf("missing metadata should wrap ErrMetaNotFound, got %v", err)
	}
}
