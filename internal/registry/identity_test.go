// SPDX-License-Identifier: MPL-2.0

package registry

import (
	"testing"

	"github.com/regista/regista/pkg/registafile"
)

var idNameParams = []registafile.Param{
	{Name: "id", Type: "int"},
	{Name: "name", Type: "string"},
}

func declWithBase(base any) *registafile.Decl {
	return &registafile.Decl{
		Name: "Red",
		Ctors: []registafile.Constructor{
			{Public: true, Base: base},
		},
	}
}

func TestExtractIdentity(t *testing.T) {
	tests := []struct {
		name   string
		decl   *registafile.Decl
		consts map[string]any
		want   int
		wantOk bool
	}{
		{
			name:   "positional list",
			decl:   declWithBase([]any{3, "Red"}),
			want:   3,
			wantOk: true,
		},
		{
			name:   "full body form",
			decl:   declWithBase(map[string]any{"args": []any{5, "Red"}}),
			want:   5,
			wantOk: true,
		},
		{
			name:   "structural named form",
			decl:   declWithBase(map[string]any{"name": "Red", "id": 3}),
			want:   3,
			wantOk: true,
		},
		{
			name:   "named form is case insensitive",
			decl:   declWithBase(map[string]any{"ID": 4}),
			want:   4,
			wantOk: true,
		},
		{
			name:   "expr constant",
			decl:   declWithBase([]any{map[string]any{"expr": "RedID"}, "Red"}),
			consts: map[string]any{"RedID": 7},
			want:   7,
			wantOk: true,
		},
		{
			name:   "expr arithmetic over consts",
			decl:   declWithBase([]any{map[string]any{"expr": "BaseID + 2"}}),
			consts: map[string]any{"BaseID": 10},
			want:   12,
			wantOk: true,
		},
		{
			name:   "expr referencing unknown name is not constant",
			decl:   declWithBase([]any{map[string]any{"expr": "someParam"}}),
			wantOk: false,
		},
		{
			name:   "param ref is never constant",
			decl:   declWithBase([]any{map[string]any{"param": "id"}}),
			wantOk: false,
		},
		{
			name:   "no base call",
			decl:   &registafile.Decl{Name: "Red", Ctors: []registafile.Constructor{{Public: true}}},
			wantOk: false,
		},
		{
			name: "private constructors are ignored",
			decl: &registafile.Decl{
				Name: "Red",
				Ctors: []registafile.Constructor{
					{Public: false, Base: []any{9}},
				},
			},
			wantOk: false,
		},
		{
			name: "first base-carrying constructor wins",
			decl: &registafile.Decl{
				Name: "Red",
				Ctors: []registafile.Constructor{
					{Public: true},
					{Public: true, Base: []any{2}},
					{Public: true, Base: []any{8}},
				},
			},
			want:   2,
			wantOk: true,
		},
		{
			name:   "non integral value is not an identity",
			decl:   declWithBase([]any{1.5}),
			wantOk: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractIdentity(tt.decl, idNameParams, tt.consts)
			if ok != tt.wantOk {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOk)
			}
			if ok && got != tt.want {
				t.Errorf("identity = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestNormalizeBaseCall_NamedForm(t *testing.T) {
	args := NormalizeBaseCall(map[string]any{"name": "Red", "unknown": true}, idNameParams, nil)
	if len(args) != 2 {
		t.Fatalf("len(args) = %d, want one slot per base parameter", len(args))
	}
	if args[0].Constant {
		t.Error("missing slot should stay non-constant")
	}
	if !args[1].Constant || args[1].Value != "Red" {
		t.Errorf("args[1] = %+v, want the named value in its parameter position", args[1])
	}
}

func TestNormalizeBaseCall_UnsupportedShape(t *testing.T) {
	if args := NormalizeBaseCall("bogus", idNameParams, nil); args != nil {
		t.Errorf("NormalizeBaseCall = %v, want nil", args)
	}
	if args := NormalizeBaseCall(nil, idNameParams, nil); args != nil {
		t.Errorf("NormalizeBaseCall(nil) = %v, want nil", args)
	}
}

func TestCaptureCtors(t *testing.T) {
	decl := &registafile.Decl{
		Name: "Blue",
		Ctors: []registafile.Constructor{
			{
				Public: true,
				Params: []registafile.Param{{Name: "shade", Type: "string"}},
				Base:   []any{2, map[string]any{"param": "shade"}},
			},
			{Public: false, Base: []any{99}},
			{Public: true},
		},
	}

	sigs := CaptureCtors(decl, idNameParams, nil)
	if len(sigs) != 2 {
		t.Fatalf("len(sigs) = %d, want public constructors only", len(sigs))
	}
	if len(sigs[0].Params) != 1 || sigs[0].Params[0].Name != "shade" {
		t.Errorf("sigs[0].Params = %v", sigs[0].Params)
	}
	if len(sigs[0].BaseArgs) != 2 {
		t.Fatalf("sigs[0].BaseArgs = %v", sigs[0].BaseArgs)
	}
	if sigs[0].BaseArgs[1].Kind != ArgParamRef || sigs[0].BaseArgs[1].Param != "shade" {
		t.Errorf("BaseArgs[1] = %+v, want a parameter reference", sigs[0].BaseArgs[1])
	}
	if sigs[1].BaseArgs != nil {
		t.Errorf("constructor without base call should have nil BaseArgs, got %v", sigs[1].BaseArgs)
	}
}
