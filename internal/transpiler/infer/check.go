package infer

import (
	"fmt"

	"martianoff/effectful/internal/transpiler/syntax"
)

// TypeError is a typing diagnostic. Unresolved errors only mean that a
// type was not known yet; a later pass may resolve them.
type TypeError struct {
	Pos        syntax.Pos
	Msg        string
	Unresolved bool
}

func (e *TypeError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
	}
	return e.Msg
}

// Entry is a call to a rewrite entry point together with the environment
// visible at the call.
type Entry struct {
	Call *syntax.Call
	env  TypeEnv
}

// Typing is the result of checking a tree.
type Typing struct {
	Entries    []*Entry
	Unresolved []*TypeError

	types map[syntax.Node]Type
	inf   *Inferer
}

// TypeOf returns the resolved type of n, or nil when n was not checked.
func (t *Typing) TypeOf(n syntax.Node) Type {
	ty, ok := t.types[n]
	if !ok {
		return nil
	}
	return t.inf.Resolve(ty)
}

// EnvAt returns the environment visible at an entry point, with every type
// resolved.
func (t *Typing) EnvAt(e *Entry) TypeEnv {
	return e.env.Apply(t.inf.sub)
}

// Checker types trees of the surface language.
type Checker struct {
	Env TypeEnv
	// Supertypes is the linearization used to widen arguments.
	Supertypes map[string][]string
	// EntryPoints names the calls whose scope is recorded in Typing.Entries.
	EntryPoints map[string]bool
	// Lenient reports member accesses on unknown types as unresolved
	// instead of failing.
	Lenient bool
}

// NewChecker returns a lenient checker over the prelude.
func NewChecker() *Checker {
	return &Checker{
		Env:         Prelude(),
		Supertypes:  PreludeSupertypes,
		EntryPoints: map[string]bool{"effectfully": true, "effectfullyUnapply": true},
		Lenient:     true,
	}
}

// Scoped returns a copy of c that checks in env, typically one obtained
// from Typing.EnvAt.
func (c *Checker) Scoped(env TypeEnv) *Checker {
	scoped := *c
	scoped.Env = env
	return &scoped
}

// Check types n in the checker's environment. On failure the returned
// Typing holds whatever was typed before the error.
func (c *Checker) Check(n syntax.Node) (*Typing, error) {
	inf := NewInferer()
	if c.Supertypes != nil {
		inf.supertypes = c.Supertypes
	}
	s := &checkState{Checker: c, inf: inf, typing: &Typing{types: map[syntax.Node]Type{}, inf: inf}}
	_, err := s.infer(c.Env.Extend(), n)
	return s.typing, err
}

type checkState struct {
	*Checker
	inf    *Inferer
	typing *Typing
}

func (s *checkState) errorf(pos syntax.Pos, format string, args ...any) error {
	return &TypeError{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

// unresolved records that the type at pos is unknown. In strict mode it is
// an error; otherwise the expression gets a fresh type.
func (s *checkState) unresolved(pos syntax.Pos, format string, args ...any) (Type, error) {
	e := &TypeError{Pos: pos, Msg: fmt.Sprintf(format, args...), Unresolved: true}
	if !s.Lenient {
		return nil, e
	}
	s.typing.Unresolved = append(s.typing.Unresolved, e)
	return s.inf.NewTypeVar(), nil
}

func (s *checkState) record(n syntax.Node, t Type) Type {
	s.typing.types[n] = t
	return t
}

func (s *checkState) infer(env TypeEnv, n syntax.Node) (Type, error) {
	t, err := s.inferNode(env, n, nil)
	if err != nil {
		return nil, err
	}
	return s.record(n, t), nil
}

// check infers n with an expected type used to type lambda parameters.
func (s *checkState) check(env TypeEnv, n syntax.Node, expected Type) (Type, error) {
	t, err := s.inferNode(env, n, expected)
	if err != nil {
		return nil, err
	}
	return s.record(n, t), nil
}

func (s *checkState) inferNode(env TypeEnv, n syntax.Node, expected Type) (Type, error) {
	switch n := n.(type) {
	case *syntax.Literal:
		switch n.Kind {
		case syntax.IntLit:
			return &TypeConst{Name: "Int"}, nil
		case syntax.StringLit:
			return &TypeConst{Name: "String"}, nil
		case syntax.BoolLit:
			return &TypeConst{Name: "Boolean"}, nil
		}
		return &TypeConst{Name: "Unit"}, nil

	case *syntax.Ident:
		scheme, ok := env[n.Name]
		if !ok {
			return nil, s.errorf(n.Pos(), "undefined: %s", n.Name)
		}
		return s.inf.instantiate(scheme), nil

	case *syntax.TypeApply:
		if id, ok := n.Fun.(*syntax.Ident); ok {
			scheme, found := env[id.Name]
			if !found {
				return nil, s.errorf(id.Pos(), "undefined: %s", id.Name)
			}
			explicit := make([]Type, len(n.TypeArgs))
			vars := map[string]*TypeVariable{}
			for i, ta := range n.TypeArgs {
				t, err := s.inf.FromTypeExpr(ta, vars)
				if err != nil {
					return nil, s.errorf(n.Pos(), "%v", err)
				}
				explicit[i] = t
			}
			return s.record(id, s.inf.instantiate(scheme, explicit...)), nil
		}
		return s.infer(env, n.Fun)

	case *syntax.Select:
		recv, err := s.infer(env, n.Recv)
		if err != nil {
			return nil, err
		}
		return s.member(env, n, recv)

	case *syntax.Call:
		return s.call(env, n)

	case *syntax.ValDef:
		var declared Type
		if n.Type != nil {
			t, err := s.inf.FromTypeExpr(n.Type, map[string]*TypeVariable{})
			if err != nil {
				return nil, s.errorf(n.Pos(), "%v", err)
			}
			declared = t
		}
		t, err := s.check(env, n.Init, declared)
		if err != nil {
			return nil, err
		}
		if declared != nil {
			if err := s.inf.subsume(t, declared); err != nil {
				return nil, s.errorf(n.Init.Pos(), "type mismatch: expected %s, found %s", s.inf.Resolve(declared), s.inf.Resolve(t))
			}
			t = declared
		}
		env[n.Name] = &Scheme{Type: t}
		return &TypeConst{Name: "Unit"}, nil

	case *syntax.Block:
		scope := env.Extend()
		for _, stmt := range n.Stmts {
			if _, err := s.infer(scope, stmt); err != nil {
				return nil, err
			}
		}
		return s.check(scope, n.Result, expected)

	case *syntax.If:
		cond, err := s.infer(env, n.Cond)
		if err != nil {
			return nil, err
		}
		if err := s.inf.unify(cond, &TypeConst{Name: "Boolean"}); err != nil {
			return nil, s.errorf(n.Cond.Pos(), "if condition must be Boolean, got %s", s.inf.Resolve(cond))
		}
		then, err := s.check(env, n.Then, expected)
		if err != nil {
			return nil, err
		}
		els, err := s.check(env, n.Else, expected)
		if err != nil {
			return nil, err
		}
		if err := s.inf.unify(then, els); err != nil {
			return nil, s.errorf(n.Pos(), "if branches must have same type: %s and %s", s.inf.Resolve(then), s.inf.Resolve(els))
		}
		return then, nil

	case *syntax.Match:
		scrut, err := s.infer(env, n.Scrutinee)
		if err != nil {
			return nil, err
		}
		var result Type = s.inf.NewTypeVar()
		for _, c := range n.Cases {
			scope := env.Extend()
			if err := s.pattern(scope, c.Pattern, scrut); err != nil {
				return nil, err
			}
			if c.Guard != nil {
				g, err := s.infer(scope, c.Guard)
				if err != nil {
					return nil, err
				}
				if err := s.inf.unify(g, &TypeConst{Name: "Boolean"}); err != nil {
					return nil, s.errorf(c.Guard.Pos(), "guard must be Boolean, got %s", s.inf.Resolve(g))
				}
			}
			body, err := s.check(scope, c.Body, expected)
			if err != nil {
				return nil, err
			}
			if err := s.inf.unify(result, body); err != nil {
				return nil, s.errorf(c.Body.Pos(), "case bodies must have same type: %s and %s", s.inf.Resolve(result), s.inf.Resolve(body))
			}
		}
		return result, nil

	case *syntax.Ascribe:
		declared, err := s.inf.FromTypeExpr(n.Type, map[string]*TypeVariable{})
		if err != nil {
			return nil, s.errorf(n.Pos(), "%v", err)
		}
		t, err := s.check(env, n.Inner, declared)
		if err != nil {
			return nil, err
		}
		if err := s.inf.subsume(t, declared); err != nil {
			return nil, s.errorf(n.Pos(), "type mismatch: expected %s, found %s", s.inf.Resolve(declared), s.inf.Resolve(t))
		}
		return declared, nil

	case *syntax.Annotated:
		return s.check(env, n.Inner, expected)

	case *syntax.Func:
		return s.function(env, n, expected)
	}
	return nil, s.errorf(n.Pos(), "cannot type %T", n)
}

// member types recv.name. Methods are stored with the receiver as first
// parameter; a method taking only the receiver is read as a property.
func (s *checkState) member(env TypeEnv, n *syntax.Select, recv Type) (Type, error) {
	head, ok := headName(s.inf.Resolve(recv))
	if !ok {
		return s.unresolved(n.Pos(), "cannot resolve member %s of %s", n.Name, s.inf.Resolve(recv))
	}
	var scheme *Scheme
	for _, h := range append([]string{head}, s.inf.supertypes[head]...) {
		if sc, found := env[h+"."+n.Name]; found {
			scheme = sc
			break
		}
	}
	if scheme == nil {
		return nil, s.errorf(n.Pos(), "%s has no member %s", s.inf.Resolve(recv), n.Name)
	}
	params, res, isFunc := FuncParts(s.inf.instantiate(scheme))
	if !isFunc || len(params) == 0 {
		return nil, s.errorf(n.Pos(), "malformed member %s.%s", head, n.Name)
	}
	if err := s.inf.subsume(recv, params[0]); err != nil {
		return nil, s.errorf(n.Pos(), "%s cannot receive %s: %v", s.inf.Resolve(recv), n.Name, err)
	}
	if len(params) == 1 {
		return res, nil
	}
	return NewFunc(res, params[1:]...), nil
}

func headName(t Type) (string, bool) {
	switch t := t.(type) {
	case *TypeApp:
		return t.Name, true
	case *TypeConst:
		return t.Name, true
	}
	return "", false
}

func (s *checkState) call(env TypeEnv, n *syntax.Call) (Type, error) {
	if id, ok := n.Fun.(*syntax.Ident); ok && s.EntryPoints[id.Name] && len(n.Args) == 1 {
		s.typing.Entries = append(s.typing.Entries, &Entry{Call: n, env: env.Extend()})
	}

	fn, err := s.infer(env, n.Fun)
	if err != nil {
		return nil, err
	}
	fn = s.inf.Resolve(fn)
	params, res, ok := FuncParts(fn)
	if !ok {
		if _, isVar := fn.(*TypeVariable); !isVar {
			return nil, s.errorf(n.Pos(), "%s is not a function", fn)
		}
		params = make([]Type, len(n.Args))
		for i := range params {
			params[i] = s.inf.NewTypeVar()
		}
		res = s.inf.NewTypeVar()
		if err := s.inf.unify(fn, NewFunc(res, params...)); err != nil {
			return nil, s.errorf(n.Pos(), "%v", err)
		}
	}

	params = expandRepeated(params, len(n.Args))
	if len(params) != len(n.Args) {
		return nil, s.errorf(n.Pos(), "wrong number of arguments: expected %d, got %d", len(params), len(n.Args))
	}
	for i, arg := range n.Args {
		expected := params[i]
		if elem, byName := ByNameElem(s.inf.Resolve(expected)); byName {
			expected = elem
		}
		at, err := s.check(env, arg, s.inf.Resolve(expected))
		if err != nil {
			return nil, err
		}
		if err := s.inf.subsume(at, expected); err != nil {
			return nil, s.errorf(arg.Pos(), "type mismatch: expected %s, found %s", s.inf.Resolve(expected), s.inf.Resolve(at))
		}
	}
	return res, nil
}

// expandRepeated replaces a trailing Repeated[a] parameter by as many a's
// as there are remaining arguments.
func expandRepeated(params []Type, nargs int) []Type {
	if len(params) == 0 {
		return params
	}
	last, ok := params[len(params)-1].(*TypeApp)
	if !ok || last.Name != RepeatedName || len(last.Args) != 1 {
		return params
	}
	out := append([]Type{}, params[:len(params)-1]...)
	for len(out) < nargs {
		out = append(out, last.Args[0])
	}
	return out
}

func (s *checkState) function(env TypeEnv, n *syntax.Func, expected Type) (Type, error) {
	hints, _, _ := FuncParts(expected)
	if len(hints) != len(n.Params) {
		hints = nil
	}
	scope := env.Extend()
	params := make([]Type, len(n.Params))
	vars := map[string]*TypeVariable{}
	for i, p := range n.Params {
		switch {
		case p.Type != nil:
			te := p.Type
			if bn, ok := te.(syntax.ByNameType); ok {
				te = bn.Elem
			}
			t, err := s.inf.FromTypeExpr(te, vars)
			if err != nil {
				return nil, s.errorf(n.Pos(), "%v", err)
			}
			params[i] = t
		case hints != nil:
			params[i] = hints[i]
		default:
			params[i] = s.inf.NewTypeVar()
		}
		scope[p.Name] = &Scheme{Type: params[i]}
	}
	var bodyHint Type
	if _, res, ok := FuncParts(expected); ok {
		bodyHint = res
	}
	body, err := s.check(scope, n.Body, bodyHint)
	if err != nil {
		return nil, err
	}
	return NewFunc(body, params...), nil
}

func (s *checkState) pattern(scope TypeEnv, p syntax.Pattern, scrut Type) error {
	switch p := p.(type) {
	case *syntax.WildcardPattern:
		return nil
	case *syntax.BindPattern:
		scope[p.Name] = &Scheme{Type: scrut}
		return nil
	case *syntax.LiteralPattern:
		lt, err := s.inferNode(scope, p.Lit, nil)
		if err != nil {
			return err
		}
		if err := s.inf.unify(lt, scrut); err != nil {
			return s.errorf(p.Pos(), "pattern type mismatch: %v", err)
		}
		return nil
	case *syntax.ConstructorPattern:
		scheme, ok := scope[p.Name]
		if !ok {
			return s.errorf(p.Pos(), "unknown constructor %s", p.Name)
		}
		t := s.inf.instantiate(scheme)
		params, res, isFunc := FuncParts(t)
		if !isFunc {
			if len(p.Args) > 0 {
				return s.errorf(p.Pos(), "%s takes no arguments", p.Name)
			}
			res = t
		} else if len(params) != len(p.Args) {
			return s.errorf(p.Pos(), "%s expects %d arguments, got %d", p.Name, len(params), len(p.Args))
		}
		if err := s.inf.unify(res, scrut); err != nil {
			return s.errorf(p.Pos(), "pattern type mismatch: %v", err)
		}
		for i, arg := range p.Args {
			if err := s.pattern(scope, arg, params[i]); err != nil {
				return err
			}
		}
		return nil
	}
	return s.errorf(p.Pos(), "unsupported pattern")
}
