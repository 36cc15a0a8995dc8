package infer

import (
	"fmt"
	"strings"
)

// Type represents a type in the Hindley-Milner system.
type Type interface {
	fmt.Stringer
	Apply(s Substitution) Type
	FreeTypeVars() map[*TypeVariable]bool
}

// Names of the built-in type constructors.
const (
	FuncName   = "func"
	ByNameName = "=>"
)

// TypeVariable represents a type variable (e.g., 'a, 'b). A variable may
// stand for a proper type or for a type constructor.
type TypeVariable struct {
	ID int
}

func (t *TypeVariable) String() string {
	return fmt.Sprintf("t%d", t.ID)
}

func (t *TypeVariable) Apply(s Substitution) Type {
	if next, ok := s[t]; ok {
		return next.Apply(s)
	}
	return t
}

func (t *TypeVariable) FreeTypeVars() map[*TypeVariable]bool {
	return map[*TypeVariable]bool{t: true}
}

// TypeConst represents a type constant (e.g., Int, String, Boolean).
type TypeConst struct {
	Name string
}

func (t *TypeConst) String() string {
	return t.Name
}

func (t *TypeConst) Apply(s Substitution) Type {
	return t
}

func (t *TypeConst) FreeTypeVars() map[*TypeVariable]bool {
	return map[*TypeVariable]bool{}
}

// TypeApp represents a fully applied type (e.g., Option[Int]). Functions
// are TypeApp{Name: "func", Args: params ++ [result]}.
type TypeApp struct {
	Name string
	Args []Type
}

func (t *TypeApp) String() string {
	if len(t.Args) == 0 {
		return t.Name
	}
	args := make([]string, len(t.Args))
	for i, arg := range t.Args {
		args[i] = arg.String()
	}
	switch t.Name {
	case FuncName:
		return fmt.Sprintf("(%s) => %s", strings.Join(args[:len(args)-1], ", "), args[len(args)-1])
	case ByNameName:
		return "=> " + args[0]
	}
	return fmt.Sprintf("%s[%s]", t.Name, strings.Join(args, ", "))
}

func (t *TypeApp) Apply(s Substitution) Type {
	return &TypeApp{Name: t.Name, Args: applyAll(t.Args, s)}
}

func (t *TypeApp) FreeTypeVars() map[*TypeVariable]bool {
	return freeAll(t.Args)
}

// TypeCon is a type constructor of kind * -> * obtained by fixing all but
// the last parameter of Name: Option[_] is TypeCon{"Option", nil},
// Either[String, _] is TypeCon{"Either", [String]}.
type TypeCon struct {
	Name string
	Args []Type
}

func (t *TypeCon) String() string {
	args := make([]string, 0, len(t.Args)+1)
	for _, arg := range t.Args {
		args = append(args, arg.String())
	}
	args = append(args, "_")
	return fmt.Sprintf("%s[%s]", t.Name, strings.Join(args, ", "))
}

func (t *TypeCon) Apply(s Substitution) Type {
	return &TypeCon{Name: t.Name, Args: applyAll(t.Args, s)}
}

func (t *TypeCon) FreeTypeVars() map[*TypeVariable]bool {
	return freeAll(t.Args)
}

// TypeHApp applies a constructor-valued type to an argument: F[a] where F
// is a variable. Once Head resolves to a TypeCon the application reduces
// to a TypeApp.
type TypeHApp struct {
	Head Type
	Arg  Type
}

func (t *TypeHApp) String() string {
	return fmt.Sprintf("%s[%s]", t.Head, t.Arg)
}

func (t *TypeHApp) Apply(s Substitution) Type {
	head := t.Head.Apply(s)
	arg := t.Arg.Apply(s)
	if con, ok := head.(*TypeCon); ok {
		args := append(append([]Type{}, con.Args...), arg)
		return &TypeApp{Name: con.Name, Args: args}
	}
	return &TypeHApp{Head: head, Arg: arg}
}

func (t *TypeHApp) FreeTypeVars() map[*TypeVariable]bool {
	res := t.Head.FreeTypeVars()
	for k, v := range t.Arg.FreeTypeVars() {
		res[k] = v
	}
	return res
}

func applyAll(ts []Type, s Substitution) []Type {
	out := make([]Type, len(ts))
	for i, t := range ts {
		out[i] = t.Apply(s)
	}
	return out
}

func freeAll(ts []Type) map[*TypeVariable]bool {
	res := make(map[*TypeVariable]bool)
	for _, t := range ts {
		for k, v := range t.FreeTypeVars() {
			res[k] = v
		}
	}
	return res
}

// NewFunc returns the function type (params) => result.
func NewFunc(result Type, params ...Type) *TypeApp {
	return &TypeApp{Name: FuncName, Args: append(append([]Type{}, params...), result)}
}

// FuncParts splits a function type into its parameters and result.
func FuncParts(t Type) (params []Type, result Type, ok bool) {
	app, isApp := t.(*TypeApp)
	if !isApp || app.Name != FuncName || len(app.Args) == 0 {
		return nil, nil, false
	}
	return app.Args[:len(app.Args)-1], app.Args[len(app.Args)-1], true
}

// ByNameElem returns A for the by-name parameter type => A.
func ByNameElem(t Type) (Type, bool) {
	if app, ok := t.(*TypeApp); ok && app.Name == ByNameName && len(app.Args) == 1 {
		return app.Args[0], true
	}
	return nil, false
}

// IsGround reports whether t contains no type variables and no unreduced
// constructor applications.
func IsGround(t Type) bool {
	switch t := t.(type) {
	case *TypeVariable, *TypeHApp:
		return false
	case *TypeApp:
		for _, a := range t.Args {
			if !IsGround(a) {
				return false
			}
		}
	case *TypeCon:
		for _, a := range t.Args {
			if !IsGround(a) {
				return false
			}
		}
	}
	return true
}

// Substitution is a mapping from type variables to types. The checker
// extends one substitution in place; Apply follows chains of bindings.
type Substitution map[*TypeVariable]Type

func (s Substitution) Compose(other Substitution) Substitution {
	res := make(Substitution)
	for k, v := range other {
		res[k] = v.Apply(s)
	}
	for k, v := range s {
		res[k] = v
	}
	return res
}

// Scheme represents a type scheme (quantified type).
type Scheme struct {
	Vars []*TypeVariable
	Type Type
}

func (s *Scheme) Apply(sub Substitution) *Scheme {
	if len(s.Vars) == 0 {
		return &Scheme{Type: s.Type.Apply(sub)}
	}
	newSub := make(Substitution)
	for k, v := range sub {
		newSub[k] = v
	}
	for _, v := range s.Vars {
		delete(newSub, v)
	}
	return &Scheme{
		Vars: s.Vars,
		Type: s.Type.Apply(newSub),
	}
}

func (s *Scheme) FreeTypeVars() map[*TypeVariable]bool {
	res := s.Type.FreeTypeVars()
	for _, v := range s.Vars {
		delete(res, v)
	}
	return res
}

func (s *Scheme) String() string {
	if len(s.Vars) == 0 {
		return s.Type.String()
	}
	vars := make([]string, len(s.Vars))
	for i, v := range s.Vars {
		vars[i] = v.String()
	}
	return fmt.Sprintf("forall %s. %s", strings.Join(vars, ", "), s.Type.String())
}
