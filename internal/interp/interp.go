// Package interp evaluates programs of the surface language over the std
// runtime. It runs rewritten programs; evaluating a marker that was not
// rewritten fails with std.ErrUnwrapOutsideBlock.
package interp

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"martianoff/effectful/internal/transpiler/syntax"
	"martianoff/effectful/std"
)

// RuntimeError is a failure while evaluating a program.
type RuntimeError struct {
	Pos syntax.Pos
	Msg string
	Err error
}

func (e *RuntimeError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("runtime error at %s: %s", e.Pos, e.Msg)
	}
	return "runtime error: " + e.Msg
}

func (e *RuntimeError) Unwrap() error { return e.Err }

// Func is a callable runtime value.
type Func func(args []any) any

// Interpreter evaluates trees. It is not safe for concurrent use.
type Interpreter struct {
	out     io.Writer
	globals *env
}

// New returns an interpreter whose println writes to out.
func New(out io.Writer) *Interpreter {
	in := &Interpreter{out: out}
	in.globals = in.builtins()
	return in
}

// Eval evaluates n in a fresh scope over the builtins.
func (in *Interpreter) Eval(n syntax.Node) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = asRuntimeError(r)
		}
	}()
	return in.eval(in.globals.child(), n), nil
}

func asRuntimeError(r any) error {
	switch r := r.(type) {
	case *RuntimeError:
		return r
	case error:
		return &RuntimeError{Msg: r.Error(), Err: r}
	}
	return &RuntimeError{Msg: fmt.Sprint(r)}
}

func fail(pos syntax.Pos, format string, args ...any) {
	panic(&RuntimeError{Pos: pos, Msg: fmt.Sprintf(format, args...)})
}

type env struct {
	vars   map[string]any
	parent *env
}

func (e *env) child() *env {
	return &env{vars: make(map[string]any), parent: e}
}

func (e *env) lookup(name string) (any, bool) {
	for s := e; s != nil; s = s.parent {
		if v, ok := s.vars[name]; ok {
			return v, true
		}
	}
	return nil, false
}

func (in *Interpreter) eval(e *env, n syntax.Node) any {
	switch n := n.(type) {
	case *syntax.Literal:
		return literal(n)
	case *syntax.Ident:
		v, ok := e.lookup(n.Name)
		if !ok {
			fail(n.Pos(), "undefined: %s", n.Name)
		}
		return v
	case *syntax.TypeApply:
		return in.eval(e, n.Fun)
	case *syntax.Select:
		return in.member(n, in.eval(e, n.Recv))
	case *syntax.Call:
		return in.call(e, n)
	case *syntax.ValDef:
		e.vars[n.Name] = in.eval(e, n.Init)
		return std.Unit{}
	case *syntax.Block:
		scope := e.child()
		for _, s := range n.Stmts {
			in.eval(scope, s)
		}
		return in.eval(scope, n.Result)
	case *syntax.If:
		if in.truth(e, n.Cond) {
			return in.eval(e, n.Then)
		}
		return in.eval(e, n.Else)
	case *syntax.Match:
		return in.match(e, n)
	case *syntax.Ascribe:
		return in.eval(e, n.Inner)
	case *syntax.Annotated:
		return in.eval(e, n.Inner)
	case *syntax.Func:
		return in.closure(e, n)
	}
	fail(n.Pos(), "cannot evaluate %T", n)
	return nil
}

func literal(n *syntax.Literal) any {
	switch n.Kind {
	case syntax.IntLit:
		v, err := strconv.Atoi(n.Value)
		if err != nil {
			fail(n.Pos(), "bad integer %s", n.Value)
		}
		return v
	case syntax.StringLit:
		return n.Value
	case syntax.BoolLit:
		return n.Value == "true"
	}
	return std.Unit{}
}

func (in *Interpreter) truth(e *env, n syntax.Node) bool {
	b, ok := in.eval(e, n).(bool)
	if !ok {
		fail(n.Pos(), "condition is not a Boolean")
	}
	return b
}

func (in *Interpreter) closure(e *env, n *syntax.Func) Func {
	return func(args []any) any {
		if len(args) != len(n.Params) {
			fail(n.Pos(), "function takes %d arguments, got %d", len(n.Params), len(args))
		}
		scope := e.child()
		for i, p := range n.Params {
			scope.vars[p.Name] = args[i]
		}
		return in.eval(scope, n.Body)
	}
}

// lazyArgs lists the arguments evaluated by the callee: the right operand
// of && and || and the default of getOrElse.
var lazyArgs = map[string]int{"&&": 1, "||": 1, "getOrElse": 0}

func (in *Interpreter) call(e *env, n *syntax.Call) any {
	if id, ok := n.Fun.(*syntax.Ident); ok && (id.Name == "&&" || id.Name == "||") && len(n.Args) == 2 {
		left := in.truth(e, n.Args[0])
		if left == (id.Name == "||") {
			return left
		}
		return in.truth(e, n.Args[1])
	}

	lazy := -1
	if sel, ok := n.Fun.(*syntax.Select); ok {
		if i, found := lazyArgs[sel.Name]; found {
			lazy = i
		}
	}
	fn := in.eval(e, n.Fun)
	args := make([]any, len(n.Args))
	for i, a := range n.Args {
		if i == lazy {
			arg := a
			args[i] = Func(func([]any) any { return in.eval(e, arg) })
			continue
		}
		args[i] = in.eval(e, a)
	}
	return apply(n.Pos(), fn, args)
}

func apply(pos syntax.Pos, fn any, args []any) any {
	f, ok := fn.(Func)
	if !ok {
		fail(pos, "%s is not a function", std.Show(fn))
	}
	return f(args)
}

// unary adapts a runtime function to the std callback shape.
func unary(pos syntax.Pos, fn any) func(any) any {
	return func(v any) any { return apply(pos, fn, []any{v}) }
}

func (in *Interpreter) match(e *env, n *syntax.Match) any {
	v := in.eval(e, n.Scrutinee)
	for _, c := range n.Cases {
		scope := e.child()
		if !bind(scope, c.Pattern, v) {
			continue
		}
		if c.Guard != nil && !in.truth(scope, c.Guard) {
			continue
		}
		return in.eval(scope, c.Body)
	}
	fail(n.Pos(), "match error: no case for %s", std.Show(v))
	return nil
}

func bind(scope *env, p syntax.Pattern, v any) bool {
	switch p := p.(type) {
	case *syntax.WildcardPattern:
		return true
	case *syntax.BindPattern:
		scope.vars[p.Name] = v
		return true
	case *syntax.LiteralPattern:
		return std.Equal(literal(p.Lit), v)
	case *syntax.ConstructorPattern:
		fields, ok := std.Unapply(v, p.Name)
		if !ok || len(fields) != len(p.Args) {
			return false
		}
		for i, a := range p.Args {
			if !bind(scope, a, fields[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// Display renders a value for println: strings are written raw.
func Display(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return std.Show(v)
}

// IsUnwrapOutsideBlock reports whether err comes from evaluating a marker.
func IsUnwrapOutsideBlock(err error) bool {
	return errors.Is(err, std.ErrUnwrapOutsideBlock)
}
