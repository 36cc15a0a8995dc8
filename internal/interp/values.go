package interp

import (
	"fmt"

	"martianoff/effectful/internal/transpiler/syntax"
	"martianoff/effectful/std"
)

// unwrapOps is the runtime value of the postfix marker's conversion.
type unwrapOps struct{}

func (in *Interpreter) builtins() *env {
	g := &env{vars: map[string]any{}}
	v := g.vars

	ints := func(name string, op func(a, b int) any) {
		v[name] = Func(func(args []any) any {
			a, okA := args[0].(int)
			b, okB := args[1].(int)
			if !okA || !okB {
				fail(syntax.Pos{}, "%s expects Int operands", name)
			}
			return op(a, b)
		})
	}
	ints("+", func(a, b int) any { return a + b })
	ints("-", func(a, b int) any { return a - b })
	ints("*", func(a, b int) any { return a * b })
	ints("/", func(a, b int) any {
		if b == 0 {
			fail(syntax.Pos{}, "division by zero")
		}
		return a / b
	})
	ints("%", func(a, b int) any {
		if b == 0 {
			fail(syntax.Pos{}, "division by zero")
		}
		return a % b
	})
	ints("<", func(a, b int) any { return a < b })
	ints("<=", func(a, b int) any { return a <= b })
	ints(">", func(a, b int) any { return a > b })
	ints(">=", func(a, b int) any { return a >= b })
	v["=="] = Func(func(args []any) any { return std.Equal(args[0], args[1]) })
	v["!="] = Func(func(args []any) any { return !std.Equal(args[0], args[1]) })
	v["unary_-"] = Func(func(args []any) any { return -args[0].(int) })
	v["unary_!"] = Func(func(args []any) any { return !args[0].(bool) })

	v["println"] = Func(func(args []any) any {
		fmt.Fprintln(in.out, Display(args[0]))
		return std.Unit{}
	})
	v["concat"] = Func(func(args []any) any {
		return args[0].(string) + Display(args[1])
	})

	v["Some"] = Func(func(args []any) any { return std.Some(args[0]) })
	v["None"] = std.None[any]()
	v["List"] = Func(func(args []any) any { return std.ListOf(args...) })
	v["Nil"] = std.Nil[any]()
	v["NonEmptyList"] = Func(func(args []any) any {
		if len(args) == 0 {
			fail(syntax.Pos{}, "NonEmptyList needs at least one element")
		}
		return std.NonEmptyListOf(args[0], args[1:]...)
	})
	v["Left"] = Func(func(args []any) any { return std.Left[any, any](args[0]) })
	v["Right"] = Func(func(args []any) any { return std.Right[any, any](args[0]) })

	v["OptionMonad"] = std.OptionMonad
	v["ListMonad"] = std.ListMonad
	v["EitherMonad"] = std.EitherMonad
	v["ListTraverse"] = std.ListTraverse
	v["OptionTraverse"] = std.OptionTraverse

	v["unwrap"] = Func(func([]any) any { panic(std.ErrUnwrapOutsideBlock) })
	v["unwrapOps"] = Func(func([]any) any { return unwrapOps{} })
	identity := Func(func(args []any) any { return args[0] })
	v["effectfully"] = identity
	v["effectfullyUnapply"] = identity
	return g
}

// Define adds a global binding, for hosts that extend the runtime.
func (in *Interpreter) Define(name string, value any) {
	in.globals.vars[name] = value
}

// method returns a Func taking the arguments after the receiver.
func method(f func(args []any) any) Func {
	return Func(f)
}

// member resolves recv.name. Members without parameters are evaluated on
// access; the others are returned as functions.
func (in *Interpreter) member(n *syntax.Select, recv any) any {
	pos := n.Pos()
	switch r := recv.(type) {
	case std.Option[any]:
		return optionMember(pos, r, n.Name)
	case std.List[any]:
		return listMember(pos, r, n.Name)
	case std.NonEmptyList[any]:
		return listMember(pos, r.List, n.Name)
	case std.Either[any, any]:
		return eitherMember(pos, r, n.Name)
	case *std.Traverse:
		switch n.Name {
		case "traverse":
			return method(func(args []any) any { return r.Traverse(args[0], unary(pos, args[1])) })
		case "filterM":
			return method(func(args []any) any { return r.FilterM(args[0], unary(pos, args[1])) })
		}
	case std.Monad:
		switch n.Name {
		case "pure":
			return method(func(args []any) any { return r.Pure(args[0]) })
		case "bind":
			return method(func(args []any) any { return r.Bind(args[0], unary(pos, args[1])) })
		case "map":
			return method(func(args []any) any { return std.MapM(r, args[0], unary(pos, args[1])) })
		}
	case std.Traversable:
		if n.Name == "over" {
			return method(func(args []any) any {
				m, ok := args[0].(std.Monad)
				if !ok {
					fail(pos, "over expects a Monad")
				}
				return std.Over(r, m)
			})
		}
	case unwrapOps:
		if n.Name == syntax.PostfixMarker {
			panic(std.ErrUnwrapOutsideBlock)
		}
	}
	fail(pos, "%s has no member %s", std.Show(recv), n.Name)
	return nil
}

func optionMember(pos syntax.Pos, o std.Option[any], name string) any {
	switch name {
	case "isDefined":
		return o.IsDefined()
	case "flatten":
		return std.OptionFlatMap(o, func(v any) std.Option[any] { return v.(std.Option[any]) })
	case "map":
		return method(func(args []any) any { return std.OptionMap(o, unary(pos, args[0])) })
	case "flatMap":
		return method(func(args []any) any {
			f := unary(pos, args[0])
			return std.OptionFlatMap(o, func(v any) std.Option[any] { return f(v).(std.Option[any]) })
		})
	case "foreach":
		return method(func(args []any) any {
			f := unary(pos, args[0])
			o.ForEach(func(v any) { f(v) })
			return std.Unit{}
		})
	case "filter", "withFilter":
		return method(func(args []any) any {
			f := unary(pos, args[0])
			return o.Filter(func(v any) bool { return f(v).(bool) })
		})
	case "getOrElse":
		return method(func(args []any) any {
			return o.GetOrElse(func() any { return apply(pos, args[0], nil) })
		})
	}
	fail(pos, "Option has no member %s", name)
	return nil
}

func listMember(pos syntax.Pos, l std.List[any], name string) any {
	switch name {
	case "size":
		return l.Size()
	case "head":
		return l.Head()
	case "sum":
		total := 0
		for _, v := range l.Items() {
			total += v.(int)
		}
		return total
	case "flatten":
		return std.ListFlatMap(l, func(v any) std.List[any] { return std.AsList(v) })
	case "map":
		return method(func(args []any) any { return std.ListMap(l, unary(pos, args[0])) })
	case "flatMap":
		return method(func(args []any) any {
			f := unary(pos, args[0])
			return std.ListFlatMap(l, func(v any) std.List[any] { return std.AsList(f(v)) })
		})
	case "foreach":
		return method(func(args []any) any {
			f := unary(pos, args[0])
			l.ForEach(func(v any) { f(v) })
			return std.Unit{}
		})
	case "filter", "withFilter":
		return method(func(args []any) any {
			f := unary(pos, args[0])
			return l.Filter(func(v any) bool { return f(v).(bool) })
		})
	case "contains":
		return method(func(args []any) any { return l.Contains(args[0]) })
	}
	fail(pos, "List has no member %s", name)
	return nil
}

func eitherMember(pos syntax.Pos, e std.Either[any, any], name string) any {
	switch name {
	case "map":
		return method(func(args []any) any { return std.EitherMap(e, unary(pos, args[0])) })
	case "flatMap":
		return method(func(args []any) any {
			f := unary(pos, args[0])
			return std.EitherFlatMap(e, func(v any) std.Either[any, any] { return f(v).(std.Either[any, any]) })
		})
	case "getOrElse":
		return method(func(args []any) any {
			return e.GetOrElse(func() any { return apply(pos, args[0], nil) })
		})
	}
	fail(pos, "Either has no member %s", name)
	return nil
}
