package transformer

import (
	"martianoff/effectful/internal/transpiler/syntax"
)

// extract collects the effectful sub-expressions of n in evaluation order.
// Unsupported markers are recorded in p.errs and n is returned unchanged.
func (p *pass) extract(n syntax.Node) *BindGroup {
	if arg, ok := p.markerArg(n); ok {
		g := p.extract(arg)
		return p.bindFresh(g.Bindings, g.Residual, n.Pos())
	}
	if p.isEntry(n) || !p.containsMarker(n) {
		return leaf(n)
	}
	if h, ok := p.higherOrder(n); ok {
		return p.extractHigherOrder(h)
	}

	switch n := n.(type) {
	case *syntax.Call:
		return p.extractCall(n)
	case *syntax.TypeApply:
		g := p.extract(n.Fun)
		return &BindGroup{
			Bindings: g.Bindings,
			Residual: &syntax.TypeApply{At: n.At, Fun: g.Residual, TypeArgs: n.TypeArgs},
		}
	case *syntax.Select:
		g := p.extract(n.Recv)
		return &BindGroup{
			Bindings: g.Bindings,
			Residual: &syntax.Select{At: n.At, Recv: g.Residual, Name: n.Name},
		}
	case *syntax.ValDef:
		g := p.extract(n.Init)
		return &BindGroup{
			Bindings: g.Bindings,
			Residual: &syntax.ValDef{At: n.At, Name: n.Name, Type: n.Type, Init: g.Residual},
		}
	case *syntax.Block:
		g := p.extractBlock(n)
		if len(g.Bindings) == 0 {
			return g
		}
		// the block's vals are scoped to its own chain
		return p.bindFresh(nil, p.codegen(g, true), n.Pos())
	case *syntax.If:
		return p.extractIf(n)
	case *syntax.Match:
		return p.extractMatch(n)
	case *syntax.Ascribe:
		return p.extract(n.Inner)
	case *syntax.Annotated:
		g := p.extract(n.Inner)
		g.Residual = &syntax.Annotated{At: n.At, Inner: g.Residual, Annotation: n.Annotation}
		return g
	case *syntax.Func:
		p.unsupported(n, "a function literal")
		return leaf(n)
	}
	p.unsupported(n, "this expression")
	return leaf(n)
}

// extractInto extracts n, appends its bindings to bs and returns the
// residual.
func (p *pass) extractInto(bs *[]Binding, n syntax.Node) syntax.Node {
	g := p.extract(n)
	*bs = append(*bs, g.Bindings...)
	return g.Residual
}

// bindFresh binds src to a new name after bs and returns a reference to it.
func (p *pass) bindFresh(bs []Binding, src syntax.Node, pos syntax.Pos) *BindGroup {
	name := p.names.Fresh()
	return &BindGroup{
		Bindings: append(bs, Binding{Name: name, Source: src}),
		Residual: syntax.NewIdent(pos, name),
	}
}

// extractRoot extracts n as the outermost expression of a chain. A block
// there is sequenced flat, since nothing follows it.
func (p *pass) extractRoot(n syntax.Node) *BindGroup {
	if b, ok := n.(*syntax.Block); ok && p.containsMarker(b) {
		return p.extractBlock(b)
	}
	return p.extract(n)
}

// lift turns n into a full effect expression of the block's monad.
func (p *pass) lift(n syntax.Node) syntax.Node {
	return p.codegen(p.extractRoot(n), true)
}
