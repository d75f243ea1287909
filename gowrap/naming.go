package gowrap

import (
	"strings"
	"unicode"

	"github.com/chazu/gobind/bind"
)

// GoPackageToNamespace converts a Go import path to a namespace path.
// e.g., "encoding/json" → "Go::Json", "github.com/acme/geo-math" → "Go::GeoMath"
func GoPackageToNamespace(importPath string) string {
	parts := strings.Split(importPath, "/")
	last := parts[len(parts)-1]
	return "Go::" + toPascal(last)
}

// GoNameToScriptName converts an exported Go identifier to the lowerCamel
// name scripts see. A leading run of capitals is lowered as one word.
// e.g., "ReadAll" → "readAll", "URLPath" → "urlPath", "X" → "x"
func GoNameToScriptName(name string) string {
	runes := []rune(name)
	n := 0
	for n < len(runes) && unicode.IsUpper(runes[n]) {
		n++
	}
	switch {
	case n == 0:
		return name
	case n == 1 || n == len(runes):
		// "Len" → "len", "ID" → "id"
	default:
		// keep the capital that starts the next word: "URLPath" → "urlPath"
		n--
	}
	for i := 0; i < n; i++ {
		runes[i] = unicode.ToLower(runes[i])
	}
	return string(runes)
}

// OperatorForMethod reports the operator a method implements, judged by
// name and parameter count. A postfix operator may omit its marker.
func OperatorForMethod(fm FunctionModel) (bind.Operator, bool) {
	if !fm.IsMethod || fm.Variadic {
		return 0, false
	}
	op, ok := bind.OperatorByMethod(fm.Name)
	if !ok {
		return 0, false
	}
	n := len(fm.Params)
	if n == op.Arity() || (op.IsPostfix() && n == op.Arity()-1) {
		return op, true
	}
	return 0, false
}

// IsStringer reports whether fm is a String() string method.
func IsStringer(fm FunctionModel) bool {
	return fm.IsMethod && fm.Name == "String" && len(fm.Params) == 0 &&
		len(fm.Results) == 1 && fm.Results[0].TypeStr == "string"
}

// toPascal converts a string to PascalCase.
// Handles hyphenated and underscore-separated names.
func toPascal(s string) string {
	if len(s) == 0 {
		return s
	}

	var b strings.Builder
	nextUpper := true
	for _, r := range s {
		if r == '-' || r == '_' || r == '.' {
			nextUpper = true
			continue
		}
		if nextUpper {
			b.WriteRune(unicode.ToUpper(r))
			nextUpper = false
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
