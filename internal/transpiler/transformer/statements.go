package transformer

import (
	"martianoff/effectful/internal/transpiler/syntax"
)

// extractBlock sequences the statements of a block. Statements before the
// last one producing bindings are threaded into the chain so that they
// still run in order; the rest stay literal statements of the residual.
func (p *pass) extractBlock(b *syntax.Block) *BindGroup {
	all := append(append([]syntax.Node{}, b.Stmts...), b.Result)
	groups := make([]*BindGroup, len(all))
	last := -1
	for i, s := range all {
		groups[i] = p.extract(s)
		if len(groups[i].Bindings) > 0 {
			last = i
		}
	}
	if last < 0 {
		last = 0
	}

	var bindings []Binding
	var pending []syntax.Node
	for i := 0; i <= last; i++ {
		g := groups[i]
		if len(g.Bindings) > 0 {
			for _, s := range pending {
				if t, ok := p.thread(s); ok {
					bindings = append(bindings, t)
				}
			}
			pending = nil
			bindings = append(bindings, g.Bindings...)
		}
		if i < last {
			pending = append(pending, g.Residual)
		}
	}

	rest := make([]syntax.Node, 0, len(all)-last)
	for _, g := range groups[last:] {
		rest = append(rest, g.Residual)
	}
	if len(rest) == 1 {
		return &BindGroup{Bindings: bindings, Residual: rest[0]}
	}
	return &BindGroup{
		Bindings: bindings,
		Residual: &syntax.Block{At: b.At, Stmts: rest[:len(rest)-1], Result: rest[len(rest)-1]},
	}
}

// thread turns a statement preceding a binding into a binding of its own.
// A val keeps its name; a bare reference has no effect and is dropped.
func (p *pass) thread(s syntax.Node) (Binding, bool) {
	switch s := s.(type) {
	case *syntax.ValDef:
		init := s.Init
		if s.Type != nil {
			init = &syntax.Ascribe{At: s.At, Inner: init, Type: s.Type}
		}
		return Binding{Name: s.Name, Source: p.pure(init)}, true
	case *syntax.Ident:
		return Binding{}, false
	}
	return Binding{Name: p.names.Fresh(), Source: p.pure(s)}, true
}
