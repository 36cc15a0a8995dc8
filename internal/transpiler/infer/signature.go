package infer

import (
	"fmt"
	"unicode/utf8"

	"martianoff/effectful/internal/transpiler/syntax"
)

// RepeatedName marks a variadic last parameter: (Repeated[a]) => List[a].
const RepeatedName = "Repeated"

// ParseScheme parses a signature such as "(F[a], (a) => F[b]) => F[b]".
// Single-letter names are type variables and are quantified in order of
// first appearance; F[x] with a variable head is a constructor
// application, and a trailing "_" (Either[e, _]) builds a constructor.
func ParseScheme(sig string) (*Scheme, error) {
	te := syntax.ParseType(sig)
	if te == nil {
		return nil, fmt.Errorf("empty signature")
	}
	conv := &typeConverter{vars: map[string]*TypeVariable{}, nextID: -1}
	t, err := conv.convert(te)
	if err != nil {
		return nil, err
	}
	return &Scheme{Vars: conv.order, Type: t}, nil
}

// FromTypeExpr converts a type written in the source. Type variable names
// get fresh variables from inf; vars keeps them consistent across one
// annotation site.
func (inf *Inferer) FromTypeExpr(te syntax.TypeExpr, vars map[string]*TypeVariable) (Type, error) {
	conv := &typeConverter{vars: vars, fresh: inf.NewTypeVar}
	return conv.convert(te)
}

type typeConverter struct {
	vars  map[string]*TypeVariable
	order []*TypeVariable
	fresh func() *TypeVariable
	// nextID numbers scheme variables with negative IDs so they never
	// collide with inference variables.
	nextID int
}

// IsTypeVarName reports whether name denotes a type variable.
func IsTypeVarName(name string) bool {
	return utf8.RuneCountInString(name) == 1 && name != "_"
}

func (c *typeConverter) variable(name string) *TypeVariable {
	if v, ok := c.vars[name]; ok {
		return v
	}
	var v *TypeVariable
	if c.fresh != nil {
		v = c.fresh()
	} else {
		v = &TypeVariable{ID: c.nextID}
		c.nextID--
	}
	c.vars[name] = v
	c.order = append(c.order, v)
	return v
}

func (c *typeConverter) convert(te syntax.TypeExpr) (Type, error) {
	switch te := te.(type) {
	case syntax.NamedType:
		if IsTypeVarName(te.Name) {
			return c.variable(te.Name), nil
		}
		return &TypeConst{Name: te.Name}, nil
	case syntax.GenericType:
		if len(te.Params) == 0 {
			return nil, fmt.Errorf("type %s has no arguments", te.Base)
		}
		if IsTypeVarName(te.Base) {
			if len(te.Params) != 1 {
				return nil, fmt.Errorf("constructor variable %s takes one argument", te.Base)
			}
			head := c.variable(te.Base)
			arg, err := c.convert(te.Params[0])
			if err != nil {
				return nil, err
			}
			return &TypeHApp{Head: head, Arg: arg}, nil
		}
		last := len(te.Params) - 1
		_, partial := te.Params[last].(syntax.HoleType)
		fixed := te.Params
		if partial {
			fixed = te.Params[:last]
		}
		args := make([]Type, 0, len(fixed))
		for _, p := range fixed {
			if _, hole := p.(syntax.HoleType); hole {
				return nil, fmt.Errorf("only the last argument of %s may be _", te.Base)
			}
			arg, err := c.convert(p)
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
		}
		if partial {
			return &TypeCon{Name: te.Base, Args: args}, nil
		}
		return &TypeApp{Name: te.Base, Args: args}, nil
	case syntax.FuncType:
		params := make([]Type, len(te.Params))
		for i, p := range te.Params {
			pt, err := c.convert(p)
			if err != nil {
				return nil, err
			}
			params[i] = pt
		}
		res, err := c.convert(te.Result)
		if err != nil {
			return nil, err
		}
		return NewFunc(res, params...), nil
	case syntax.ByNameType:
		elem, err := c.convert(te.Elem)
		if err != nil {
			return nil, err
		}
		return &TypeApp{Name: ByNameName, Args: []Type{elem}}, nil
	case syntax.HoleType:
		return nil, fmt.Errorf("unexpected _ in type")
	case nil:
		return nil, fmt.Errorf("missing type")
	}
	return nil, fmt.Errorf("unsupported type %v", te)
}
