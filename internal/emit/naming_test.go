// SPDX-License-Identifier: MPL-2.0

package emit

import "testing"

func TestGoIdent(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"hex_code", "HexCode"},
		{"hex-code", "HexCode"},
		{"deep blue", "DeepBlue"},
		{"Color", "Color"},
		{"color", "Color"},
		{"com.example.app", "ComExampleApp"},
		{"3d", "X3d"},
		{"", "X"},
		{"!!!", "X"},
	}

	for _, tt := range tests {
		if got := goIdent(tt.in); got != tt.want {
			t.Errorf("goIdent(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestGoType(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"int", "int"},
		{"Integer", "int"},
		{"long", "int"},
		{"string", "string"},
		{"Boolean", "bool"},
		{"float", "float64"},
		{"double", "float64"},
		{"decimal", "float64"},
		{"Widget", "any"},
	}

	for _, tt := range tests {
		if got := goType(tt.in); got != tt.want {
			t.Errorf("goType(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestGoLiteral(t *testing.T) {
	tests := []struct {
		name string
		v    any
		typ  string
		want string
	}{
		{"string", "Red", "string", `"Red"`},
		{"string with quotes", `a"b`, "string", `"a\"b"`},
		{"int", 3, "int", "3"},
		{"int64", int64(9), "int", "9"},
		{"bool", true, "bool", "true"},
		{"integral float into int", float64(4), "int", "4"},
		{"float", 1.5, "float64", "1.5"},
		{"nil falls back to zero", nil, "string", `""`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := goLiteral(tt.v, tt.typ); got != tt.want {
				t.Errorf("goLiteral(%v, %q) = %q, want %q", tt.v, tt.typ, got, tt.want)
			}
		})
	}
}

func TestZeroValue(t *testing.T) {
	tests := []struct {
		typ  string
		want string
	}{
		{"int", "0"},
		{"string", `""`},
		{"bool", "false"},
		{"float64", "0"},
		{"any", "nil"},
	}

	for _, tt := range tests {
		if got := zeroValue(tt.typ); got != tt.want {
			t.Errorf("zeroValue(%q) = %q, want %q", tt.typ, got, tt.want)
		}
	}
}
