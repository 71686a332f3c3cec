// SPDX-License-Identifier: MPL-2.0

// Package emit turns registry definitions into generated Go source.
//
// One file is emitted per registry: the member value type, per-member
// values, an identity-indexed and a name-indexed lookup table, the empty
// sentinel, the accessor set and one factory function per captured
// constructor signature. Output is rendered from a single template and
// normalized with go/format, so an unchanged definition always produces
// byte-identical source.
package emit

import (
	"bytes"
	"fmt"
	"go/format"
	"strings"

	"github.com/regista/regista/internal/registry"
)

type (
	// Options configures emission for one build pass.
	Options struct {
		// Package is the package name of generated files.
		Package string
		// CaseSensitiveNames disables the default case-insensitive
		// name-table folding.
		CaseSensitiveNames bool
		// DefaultStrategy applies to registries whose marker picks no
		// strategy; empty means static.
		DefaultStrategy Strategy
	}

	// File is one generated source unit.
	File struct {
		// Name is the file name (without directory).
		Name string
		// Source is gofmt-formatted Go source.
		Source []byte
	}

	fieldData struct {
		Name string // Go field identifier
		Type string // Go type
	}

	lookupData struct {
		Accessor string
		Field    string
		Type     string
	}

	factoryData struct {
		Name    string
		Params  []paramData
		Literal string // composite literal the factory returns
	}

	paramData struct {
		Name string
		Type string
	}

	memberData struct {
		Ident     string
		VarName   string
		NameKey   string
		ID        int
		HasID     bool
		InIDTable bool
		InNameTab bool
		Literal   string // composite literal of the member value
		Ref       string // expression tables use: the var name, or the literal
		Factories []factoryData
	}

	fileData struct {
		Package      string
		Collection   string
		LowerColl    string
		TypeName     string
		RegistryType string
		EmptyVar     string
		Strategy     Strategy
		Dictionary   bool
		Fold         bool // fold name keys to lower case
		Imports      []string
		Fields       []fieldData
		Lookups      []lookupData
		Members      []memberData

		// Recv is the method receiver clause; AllRef, ByIDRef and
		// ByNameRef are the expressions method bodies use to reach the
		// member slice and tables.
		Recv      string
		AllRef    string
		ByIDRef   string
		ByNameRef string
		UseTables bool

		// HasMemberVars is set when members are exported package values.
		HasMemberVars bool
		// AllVar, ByIDVar and ByNameVar name the package-level tables of
		// the static strategy.
		AllVar    string
		ByIDVar   string
		ByNameVar string
	}
)

// Emit generates the source unit for one registry definition.
func Emit(def *registry.Definition, opts Options) (*File, error) {
	if def == nil {
		panic("emit: Emit called with nil definition")
	}
	if opts.Package == "" {
		panic("emit: Emit called with empty package name")
	}

	data := buildData(def, opts)

	var buf bytes.Buffer
	if err := registryTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render registry %s: %w", def.Collection, err)
	}

	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("generated source for registry %s does not format: %w", def.Collection, err)
	}

	return &File{
		Name:   fileName(def.Collection),
		Source: src,
	}, nil
}

// fileName derives the generated file name from the collection name:
// "ColorPalette" -> "color_palette_registry.gen.go".
func fileName(collection string) string {
	var sb strings.Builder
	for i, r := range goIdent(collection) {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				sb.WriteByte('_')
			}
			sb.WriteRune(r + ('a' - 'A'))
		} else {
			sb.WriteRune(r)
		}
	}
	return sb.String() + "_registry.gen.go"
}

func buildData(def *registry.Definition, opts Options) *fileData {
	collection := goIdent(def.Collection)
	typeName := goIdent(def.ReturnType)
	if typeName == "Any" || def.ReturnType == registry.TopType {
		// A top-typed registry still needs a concrete generated value type.
		typeName = goIdent(def.BaseType)
	}
	lower := unexported(collection)

	strategy := SelectStrategy(def, opts.DefaultStrategy)

	d := &fileData{
		Package:      opts.Package,
		Collection:   collection,
		LowerColl:    lower,
		TypeName:     typeName,
		RegistryType: collection + "Registry",
		EmptyVar:     lower + "Empty",
		Strategy:     strategy,
		Dictionary:   def.UseDictionaryStorage,
		Fold:         !opts.CaseSensitiveNames,
	}

	d.Fields = buildFields(def)
	for _, l := range def.Lookups {
		if l.Accessor == "" {
			continue
		}
		d.Lookups = append(d.Lookups, lookupData{
			Accessor: goIdent(l.Accessor),
			Field:    goIdent(l.Name),
			Type:     goType(l.Type),
		})
	}

	if !def.Degraded {
		d.Members = buildMembers(def, d)
	}

	// Table membership: scan order wins, so the first holder of a key
	// stays in the table.
	seenID := make(map[int]bool)
	seenName := make(map[string]bool)
	for i := range d.Members {
		m := &d.Members[i]
		if m.HasID && !seenID[m.ID] {
			seenID[m.ID] = true
			m.InIDTable = true
		}
		if !seenName[m.NameKey] {
			seenName[m.NameKey] = true
			m.InNameTab = true
		}
	}

	switch strategy {
	case StrategySingleton, StrategyService:
		d.Recv = "(r *" + d.RegistryType + ")"
		d.AllRef, d.ByIDRef, d.ByNameRef = "r.all", "r.byID", "r.byName"
		d.UseTables = d.Dictionary
		d.HasMemberVars = strategy == StrategySingleton
	case StrategyFactoryPerCall:
		d.Recv = "(r " + d.RegistryType + ")"
		d.AllRef = "r.build()"
	default: // StrategyStatic
		d.Recv = "(r " + d.RegistryType + ")"
		d.AllVar, d.ByIDVar, d.ByNameVar = lower+"All", lower+"ByID", lower+"ByName"
		d.AllRef, d.ByIDRef, d.ByNameRef = d.AllVar, d.ByIDVar, d.ByNameVar
		d.UseTables = d.Dictionary
		d.HasMemberVars = true
	}

	for i := range d.Members {
		m := &d.Members[i]
		if d.HasMemberVars {
			m.Ref = m.VarName
		} else {
			m.Ref = m.Literal
		}
	}

	d.Imports = append(d.Imports, "iter")
	if d.Fold {
		d.Imports = append(d.Imports, "strings")
	}
	if strategy == StrategySingleton {
		d.Imports = append(d.Imports, "sync")
	}

	return d
}

// buildFields lays out the generated value struct: identity, display name,
// then one field per lookup property not already covered.
func buildFields(def *registry.Definition) []fieldData {
	fields := []fieldData{
		{Name: "ID", Type: "int"},
		{Name: "Name", Type: "string"},
	}
	for _, l := range def.Lookups {
		ident := goIdent(l.Name)
		if ident == "ID" || ident == "Name" {
			continue
		}
		fields = append(fields, fieldData{Name: ident, Type: goType(l.Type)})
	}
	return fields
}

func buildMembers(def *registry.Definition, d *fileData) []memberData {
	members := make([]memberData, 0, len(def.Members))
	for _, m := range def.Members {
		ident := goIdent(m.DisplayName)
		md := memberData{
			Ident:   ident,
			VarName: d.TypeName + ident,
			NameKey: m.DisplayName,
			ID:      m.Identity,
			HasID:   m.HasIdentity,
		}
		if d.Fold {
			md.NameKey = strings.ToLower(md.NameKey)
		}

		md.Literal = structLiteral(d.TypeName, d.Fields, fieldValues(def, d, &m, nil, nil))
		md.Factories = buildFactories(def, d, &m)
		members = append(members, md)
	}
	return members
}

// fieldValues renders the Go expression for each struct field of one
// member, resolving base-call arguments by position against the base
// parameters. When sig is non-nil, {param: ...} references resolve to the
// factory parameter identifier; otherwise they fall back to the parameter
// default, then to the zero value.
func fieldValues(def *registry.Definition, d *fileData, m *registry.Member, sig *registry.CtorSig, paramIdents map[string]string) []string {
	args := primaryBaseArgs(m, sig)

	values := make([]string, len(d.Fields))
	for i, f := range d.Fields {
		switch f.Name {
		case "Name":
			values[i] = goLiteral(m.DisplayName, f.Type)
		case "ID":
			if m.HasIdentity && sig == nil {
				values[i] = goLiteral(m.Identity, f.Type)
				continue
			}
			values[i] = argExpr(argForField(def, args, f.Name), f.Type, paramIdents, sig)
		default:
			values[i] = argExpr(argForField(def, args, f.Name), f.Type, paramIdents, sig)
		}
	}
	return values
}

// primaryBaseArgs returns the base arguments backing a member's values: the
// given constructor's, or the first public constructor carrying a base call.
func primaryBaseArgs(m *registry.Member, sig *registry.CtorSig) []registry.Arg {
	if sig != nil {
		return sig.BaseArgs
	}
	for _, c := range m.Ctors {
		if len(c.BaseArgs) > 0 {
			return c.BaseArgs
		}
	}
	return nil
}

// argForField finds the base argument positionally matching a struct field
// via the base parameter names.
func argForField(def *registry.Definition, args []registry.Arg, field string) *registry.Arg {
	for i, p := range def.BaseParams {
		if i >= len(args) {
			break
		}
		if goIdent(p.Name) == field {
			return &args[i]
		}
	}
	return nil
}

func argExpr(arg *registry.Arg, goTyp string, paramIdents map[string]string, sig *registry.CtorSig) string {
	if arg == nil {
		return zeroValue(goTyp)
	}
	switch {
	case arg.Constant:
		return goLiteral(arg.Value, goTyp)
	case arg.Kind == registry.ArgParamRef:
		if ident, ok := paramIdents[arg.Param]; ok {
			return ident
		}
		if sig != nil {
			for _, p := range sig.Params {
				if p.Name == arg.Param && p.Default != "" {
					return p.Default
				}
			}
		}
		return zeroValue(goTyp)
	default:
		return zeroValue(goTyp)
	}
}

// buildFactories emits one factory per captured public constructor,
// parameters forwarded positionally; a member with no public constructors
// gets a single no-argument factory.
func buildFactories(def *registry.Definition, d *fileData, m *registry.Member) []factoryData {
	base := "New" + d.TypeName + goIdent(m.DisplayName)

	if len(m.Ctors) == 0 {
		return []factoryData{{
			Name:    base,
			Literal: structLiteral(d.TypeName, d.Fields, fieldValues(def, d, m, nil, nil)),
		}}
	}

	factories := make([]factoryData, 0, len(m.Ctors))
	for i := range m.Ctors {
		sig := &m.Ctors[i]
		name := base
		if i > 0 {
			name = fmt.Sprintf("%s%d", base, i+1)
		}

		f := factoryData{Name: name}
		paramIdents := make(map[string]string, len(sig.Params))
		for _, p := range sig.Params {
			ident := unexported(goIdent(p.Name))
			paramIdents[p.Name] = ident
			f.Params = append(f.Params, paramData{Name: ident, Type: goType(p.Type)})
		}
		f.Literal = structLiteral(d.TypeName, d.Fields, fieldValues(def, d, m, sig, paramIdents))
		factories = append(factories, f)
	}
	return factories
}

// structLiteral renders a keyed composite literal for the value type,
// omitting fields still at their zero value.
func structLiteral(typeName string, fields []fieldData, values []string) string {
	var sb strings.Builder
	sb.WriteString(typeName)
	sb.WriteByte('{')
	first := true
	for i, f := range fields {
		if values[i] == zeroValue(f.Type) {
			continue
		}
		if !first {
			sb.WriteString(", ")
		}
		first = false
		sb.WriteString(f.Name)
		sb.WriteString(": ")
		sb.WriteString(values[i])
	}
	sb.WriteByte('}')
	return sb.String()
}
