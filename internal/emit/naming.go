// SPDX-License-Identifier: MPL-2.0

package emit

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// goIdent converts a declared name into an exported Go identifier:
// separators split words, each word is capitalized, anything else
// non-alphanumeric is dropped. "hex_code" -> "HexCode".
func goIdent(name string) string {
	var sb strings.Builder
	upperNext := true
	for _, r := range name {
		switch {
		case r == '_' || r == '-' || r == ' ' || r == '.':
			upperNext = true
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if upperNext {
				sb.WriteRune(unicode.ToUpper(r))
				upperNext = false
			} else {
				sb.WriteRune(r)
			}
		}
	}
	s := sb.String()
	if s == "" {
		return "X"
	}
	if unicode.IsDigit(rune(s[0])) {
		s = "X" + s
	}
	return s
}

// unexported lowercases the first rune of an identifier.
func unexported(ident string) string {
	if ident == "" {
		return ident
	}
	return strings.ToLower(ident[:1]) + ident[1:]
}

// goType maps a declared parameter/property type to a Go type.
func goType(declared string) string {
	switch strings.ToLower(declared) {
	case "int", "integer", "long":
		return "int"
	case "string":
		return "string"
	case "bool", "boolean":
		return "bool"
	case "float", "double", "number", "decimal":
		return "float64"
	default:
		return "any"
	}
}

// goLiteral renders a constant value as Go source.
func goLiteral(v any, goTyp string) string {
	switch n := v.(type) {
	case nil:
		return zeroValue(goTyp)
	case string:
		return strconv.Quote(n)
	case bool:
		return strconv.FormatBool(n)
	case int:
		return strconv.Itoa(n)
	case int64:
		return strconv.FormatInt(n, 10)
	case uint64:
		return strconv.FormatUint(n, 10)
	case float64:
		if goTyp == "int" && n == float64(int(n)) {
			return strconv.Itoa(int(n))
		}
		return strconv.FormatFloat(n, 'g', -1, 64)
	default:
		return fmt.Sprintf("%v", n)
	}
}

// zeroValue renders the zero value of a Go type.
func zeroValue(goTyp string) string {
	switch goTyp {
	case "int":
		return "0"
	case "string":
		return `""`
	case "bool":
		return "false"
	case "float64":
		return "0"
	default:
		return "nil"
	}
}
