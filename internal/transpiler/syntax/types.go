package syntax

import (
	"strings"
)

// TypeExpr is a type as written in the source: on a val, a lambda parameter,
// an ascription or a type application.
type TypeExpr interface {
	String() string
	BaseName() string
	typeExpr()
}

// NamedType represents a type name like Int or A.
type NamedType struct {
	Name string
}

func (t NamedType) String() string   { return t.Name }
func (t NamedType) BaseName() string { return t.Name }
func (NamedType) typeExpr()          {}

// GenericType represents an applied type like Option[Int] or Either[String, Int].
type GenericType struct {
	Base   string
	Params []TypeExpr
}

func (t GenericType) String() string {
	var sb strings.Builder
	sb.WriteString(t.Base)
	sb.WriteByte('[')
	for i, p := range t.Params {
		if i > 0 {
			sb.WriteString(", ")
		}
		if p != nil {
			sb.WriteString(p.String())
		}
	}
	sb.WriteByte(']')
	return sb.String()
}
func (t GenericType) BaseName() string { return t.Base }
func (GenericType) typeExpr()          {}

// FuncType represents a function type (A, B) => C.
type FuncType struct {
	Params []TypeExpr
	Result TypeExpr
}

func (t FuncType) String() string {
	params := make([]string, len(t.Params))
	for i, p := range t.Params {
		params[i] = p.String()
	}
	return "(" + strings.Join(params, ", ") + ") => " + t.Result.String()
}
func (t FuncType) BaseName() string { return "func" }
func (FuncType) typeExpr()          {}

// ByNameType marks a parameter whose argument is evaluated lazily: => A.
type ByNameType struct {
	Elem TypeExpr
}

func (t ByNameType) String() string   { return "=> " + t.Elem.String() }
func (t ByNameType) BaseName() string { return "=>" }
func (ByNameType) typeExpr()          {}

// HoleType is the "_" placeholder of a partially applied constructor such as
// Either[String, _].
type HoleType struct{}

func (HoleType) String() string   { return "_" }
func (HoleType) BaseName() string { return "_" }
func (HoleType) typeExpr()        {}

// ParseType parses a type written in surface syntax. It is used by
// configuration loading and tests; the parser builds types directly.
func ParseType(s string) TypeExpr {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if s == "_" {
		return HoleType{}
	}
	if strings.HasPrefix(s, "=>") {
		return ByNameType{Elem: ParseType(s[2:])}
	}
	if strings.HasPrefix(s, "(") {
		closing := matchingParen(s)
		if closing != -1 {
			rest := strings.TrimSpace(s[closing+1:])
			if strings.HasPrefix(rest, "=>") {
				var params []TypeExpr
				for _, p := range splitTopLevel(s[1:closing]) {
					params = append(params, ParseType(p))
				}
				return FuncType{Params: params, Result: ParseType(rest[2:])}
			}
			if rest == "" {
				return ParseType(s[1:closing])
			}
		}
	}
	if strings.Contains(s, "[") && strings.HasSuffix(s, "]") {
		idx := strings.Index(s, "[")
		var params []TypeExpr
		for _, p := range splitTopLevel(s[idx+1 : len(s)-1]) {
			params = append(params, ParseType(p))
		}
		return GenericType{Base: strings.TrimSpace(s[:idx]), Params: params}
	}
	return NamedType{Name: s}
}

func matchingParen(s string) int {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// splitTopLevel splits by comma, respecting nested brackets and parens.
func splitTopLevel(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var parts []string
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '[', '(':
			depth++
		case ']', ')':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}
