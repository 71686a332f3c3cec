// SPDX-License-Identifier: MPL-2.0

package registry

import (
	"strings"

	"github.com/expr-lang/expr"

	"github.com/regista/regista/pkg/registafile"
)

// ExtractIdentity recovers the member's numeric identity from its
// base-constructor call: the first positional slot of the first public
// constructor that carries a base call, evaluated as a compile-time
// constant. Named arguments are resolved to positions against baseParams
// before the slot is read, so Base(name: "Red", id: 3) and Base(3, "Red")
// both yield 3. Returns false when no base call exists or the slot is not
// constant - that is a valid outcome, not an error.
func ExtractIdentity(decl *registafile.Decl, baseParams []registafile.Param, consts map[string]any) (int, bool) {
	for _, ctor := range decl.PublicCtors() {
		if ctor.Base == nil {
			continue
		}
		args := NormalizeBaseCall(ctor.Base, baseParams, consts)
		if len(args) == 0 {
			continue
		}
		first := args[0]
		if !first.Constant {
			return 0, false
		}
		return asInt(first.Value)
	}
	return 0, false
}

// CaptureCtors captures every public constructor's full parameter list and
// normalized base call, in declared order, for factory generation.
func CaptureCtors(decl *registafile.Decl, baseParams []registafile.Param, consts map[string]any) []CtorSig {
	var sigs []CtorSig
	for _, ctor := range decl.PublicCtors() {
		sig := CtorSig{Params: ctor.Params}
		if ctor.Base != nil {
			sig.BaseArgs = NormalizeBaseCall(ctor.Base, baseParams, consts)
		}
		sigs = append(sigs, sig)
	}
	return sigs
}

// NormalizeBaseCall resolves a base call in any of its three spellings to a
// positional argument list:
//
//   - compact positional list: base: [3, "Red"]
//   - full body form:          base: {args: [3, "Red"]}
//   - structural named form:   base: {id: 3, name: "Red"}
//
// The named form maps keys to positions via baseParams (case-insensitive);
// unknown keys are dropped, missing slots stay non-constant. Each argument
// is classified and, when possible, constant-folded against the module
// consts.
func NormalizeBaseCall(base any, baseParams []registafile.Param, consts map[string]any) []Arg {
	switch v := base.(type) {
	case []any:
		return classifyAll(v, consts)

	case map[string]any:
		if raw, ok := v["args"]; ok {
			if list, ok := raw.([]any); ok {
				return classifyAll(list, consts)
			}
			return nil
		}

		// Structural named form: resolve by position, not by spelling.
		args := make([]Arg, len(baseParams))
		for i, p := range baseParams {
			found := false
			for key, raw := range v {
				if strings.EqualFold(key, p.Name) {
					args[i] = classifyArg(raw, consts)
					found = true
					break
				}
			}
			if !found {
				args[i] = Arg{Kind: ArgLiteral}
			}
		}
		return args

	default:
		return nil
	}
}

func classifyAll(raw []any, consts map[string]any) []Arg {
	args := make([]Arg, len(raw))
	for i, v := range raw {
		args[i] = classifyArg(v, consts)
	}
	return args
}

// classifyArg discriminates the argument forms the schema admits. Literals
// are constants as-is; {expr: ...} is folded against the module consts;
// {param: ...} forwards a constructor parameter and is never constant.
func classifyArg(v any, consts map[string]any) Arg {
	if m, ok := v.(map[string]any); ok {
		if e, ok := m["expr"]; ok {
			src, _ := e.(string)
			arg := Arg{Kind: ArgExpr, Expr: src}
			if folded, ok := foldConst(src, consts); ok {
				arg.Value = folded
				arg.Constant = true
			}
			return arg
		}
		if p, ok := m["param"]; ok {
			name, _ := p.(string)
			return Arg{Kind: ArgParamRef, Param: name}
		}
		return Arg{Kind: ArgLiteral}
	}
	return Arg{Kind: ArgLiteral, Value: v, Constant: v != nil}
}

// foldConst evaluates src as a compile-time constant expression over the
// module-level consts. Anything that fails to compile or evaluate (e.g. a
// reference to a constructor parameter) is simply not a constant.
func foldConst(src string, consts map[string]any) (any, bool) {
	if strings.TrimSpace(src) == "" {
		return nil, false
	}
	env := consts
	if env == nil {
		env = map[string]any{}
	}
	prog, err := expr.Compile(src, expr.Env(env))
	if err != nil {
		return nil, false
	}
	out, err := expr.Run(prog, env)
	if err != nil {
		return nil, false
	}
	return out, true
}

// asInt coerces the numeric kinds CUE and expr evaluation produce.
func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case uint64:
		return int(n), true
	case float64:
		if n == float64(int(n)) {
			return int(n), true
		}
		return 0, false
	default:
		return 0, false
	}
}
