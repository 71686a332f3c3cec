// SPDX-License-Identifier: MPL-2.0

package registafile

import (
	"errors"
	"strings"
	"testing"
)

const paletteDecls = `
consts: {
	RedID:  3
	BlueID: 5
}

decls: [
	{
		name:     "Color"
		abstract: true
		annotations: [
			{
				name: "RegistryCollection"
				args: ["Color", "Colors"]
				named: {useDictionaryStorage: true}
			},
		]
		ctors: [
			{
				params: [
					{name: "id", type: "int"},
					{name: "name", type: "string"},
					{name: "hex", type: "string", default: "\"#000\""},
				]
			},
		]
		properties: [
			{
				name: "hex"
				type: "string"
				annotations: [{name: "RegistryLookup", args: ["ByHex"]}]
			},
		]
	},
	{
		name: "Red"
		extends: {name: "Color"}
		ctors: [
			{base: [{expr: "RedID"}, "Red", "#f00"]},
		]
	},
	{
		name: "Blue"
		extends: {name: "Color"}
		ctors: [
			{base: {id: {expr: "BlueID"}, name: "Blue", hex: "#00f"}},
		]
	},
	{
		name:   "Palette"
		static: true
	},
]
`

func TestParseBytes_Valid(t *testing.T) {
	rf, err := ParseBytes([]byte(paletteDecls), "registafile.cue")
	if err != nil {
		t.Fatalf("ParseBytes() error = %v", err)
	}

	if rf.FilePath != "registafile.cue" {
		t.Errorf("FilePath = %q", rf.FilePath)
	}
	if len(rf.Decls) != 4 {
		t.Fatalf("Decls = %d, want 4", len(rf.Decls))
	}
	if len(rf.Consts) != 2 {
		t.Errorf("Consts = %v", rf.Consts)
	}

	color := &rf.Decls[0]
	if !color.Abstract || color.IsConcrete() {
		t.Error("Color should be abstract and not concrete")
	}
	if got := len(color.PublicCtors()); got != 1 {
		t.Errorf("PublicCtors() = %d, want 1 (public defaults to true)", got)
	}

	red := &rf.Decls[1]
	if !red.IsConcrete() {
		t.Error("Red should be concrete")
	}
	if red.Extends == nil || red.Extends.Name != "Color" {
		t.Errorf("Red.Extends = %+v", red.Extends)
	}
	if _, ok := red.Ctors[0].Base.([]any); !ok {
		t.Errorf("positional base call should decode as a list, got %T", red.Ctors[0].Base)
	}

	blue := &rf.Decls[2]
	if _, ok := blue.Ctors[0].Base.(map[string]any); !ok {
		t.Errorf("structural base call should decode as a map, got %T", blue.Ctors[0].Base)
	}

	static := &rf.Decls[3]
	if static.IsConcrete() {
		t.Error("static declarations are not concrete")
	}
}

func TestParseBytes_AnnotationAccess(t *testing.T) {
	rf, err := ParseBytes([]byte(paletteDecls), "registafile.cue")
	if err != nil {
		t.Fatalf("ParseBytes() error = %v", err)
	}

	color := &rf.Decls[0]
	ann := color.FindAnnotation("registrycollection")
	if ann == nil {
		t.Fatal("annotation lookup should be case-insensitive")
	}
	if base, ok := ann.StringArg(0); !ok || base != "Color" {
		t.Errorf("StringArg(0) = %q, %v", base, ok)
	}
	if coll, ok := ann.StringArg(1); !ok || coll != "Colors" {
		t.Errorf("StringArg(1) = %q, %v", coll, ok)
	}
	if _, ok := ann.StringArg(2); ok {
		t.Error("StringArg past the end should report absent")
	}
	if !ann.NamedBool("useDictionaryStorage") {
		t.Error("NamedBool should read the named argument")
	}
	if ann.NamedBool("alwaysStatic") {
		t.Error("absent named bool should be false")
	}
	if ann.NamedString("returnType") != "" {
		t.Error("absent named string should be empty")
	}

	prop := &color.Properties[0]
	lookup := prop.FindAnnotation("RegistryLookupAnnotation")
	if lookup == nil {
		t.Fatal("suffix form should match the bare annotation name")
	}
	if acc, _ := lookup.StringArg(0); acc != "ByHex" {
		t.Errorf("accessor = %q", acc)
	}
}

func TestAnnotationNameMatches(t *testing.T) {
	tests := []struct {
		declared string
		query    string
		want     bool
	}{
		{"RegistryCollection", "RegistryCollection", true},
		{"RegistryCollectionAnnotation", "RegistryCollection", true},
		{"RegistryCollection", "RegistryCollectionAnnotation", true},
		{"registrycollection", "RegistryCollection", true},
		{"RegistryMember", "RegistryCollection", false},
		{"Annotation", "", true}, // bare suffix trims to empty on both sides
	}

	for _, tt := range tests {
		if got := AnnotationNameMatches(tt.declared, tt.query); got != tt.want {
			t.Errorf("AnnotationNameMatches(%q, %q) = %v, want %v", tt.declared, tt.query, got, tt.want)
		}
	}
}

func TestParseBytes_SchemaViolations(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "missing decls", data: `consts: {}`},
		{name: "bad identifier", data: `decls: [{name: "3bad"}]`},
		{name: "empty type", data: `decls: [{name: "X", properties: [{name: "p", type: ""}]}]`},
		{name: "bad base arg", data: `decls: [{name: "X", ctors: [{base: [{bogus: 1}]}]}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseBytes([]byte(tt.data), "registafile.cue"); err == nil {
				t.Fatal("expected a schema error")
			}
		})
	}
}

func TestParseBytes_StructuralValidation(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{
			name: "duplicate declaration",
			data: `decls: [{name: "X"}, {name: "X"}]`,
			want: "duplicate declaration name",
		},
		{
			name: "self extension",
			data: `decls: [{name: "X", extends: {name: "X"}}]`,
			want: "extends itself",
		},
		{
			name: "static with constructors",
			data: `decls: [{name: "X", static: true, ctors: [{}]}]`,
			want: "static declaration cannot declare constructors",
		},
		{
			name: "duplicate constructor parameter",
			data: `decls: [{name: "X", ctors: [{params: [{name: "a", type: "int"}, {name: "a", type: "int"}]}]}]`,
			want: `duplicate constructor parameter "a"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseBytes([]byte(tt.data), "registafile.cue")
			if err == nil {
				t.Fatal("expected a validation error")
			}

			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("error should be a ValidationError, got %T: %v", err, err)
			}
			if !strings.Contains(verr.Error(), tt.want) {
				t.Errorf("error %q should mention %q", verr, tt.want)
			}
		})
	}
}

func TestParseBytes_QualifiedOverrideIsNotSelfExtension(t *testing.T) {
	// An override extends the declaration it replaces under the same name,
	// qualified with the owning module. That must parse.
	data := `decls: [{name: "Red", extends: {name: "Red", module: "com.example.app"}}]`

	rf, err := ParseBytes([]byte(data), "registafile.cue")
	if err != nil {
		t.Fatalf("ParseBytes() error = %v", err)
	}
	if rf.Decls[0].Extends.Module != "com.example.app" {
		t.Errorf("Extends = %+v", rf.Decls[0].Extends)
	}
}

func TestParseBytes_DepthBound(t *testing.T) {
	var sb strings.Builder
	sb.WriteString(`decls: [`)
	for i := 0; i <= MaxDeclDepth; i++ {
		sb.WriteString(`{name: "N", types: [`)
	}
	sb.WriteString(`{name: "Leaf"}`)
	for i := 0; i <= MaxDeclDepth; i++ {
		sb.WriteString(`]}`)
	}
	sb.WriteString(`]`)

	_, err := ParseBytes([]byte(sb.String()), "registafile.cue")
	if !errors.Is(err, ErrDeclTooDeep) {
		t.Errorf("over-deep nesting should wrap ErrDeclTooDeep, got %v", err)
	}
}

func TestParse_MissingFile(t *testing.T) {
	if _, err := Parse(t.TempDir() + "/absent.cue"); err == nil {
		t.Error("missing file should fail")
	}
}
