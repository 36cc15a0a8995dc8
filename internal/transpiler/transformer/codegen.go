package transformer

import (
	"martianoff/effectful/internal/transpiler/syntax"
)

// codegen folds the bindings of g right to left into nested binds:
//
//	[]             => residual, or m.pure(residual)
//	(n, src) :: bs => m.bind(src, (n) => codegen(bs))
func (p *pass) codegen(g *BindGroup, pure bool) syntax.Node {
	body := g.Residual
	if pure {
		body = p.pure(body)
	}
	for i := len(g.Bindings) - 1; i >= 0; i-- {
		b := g.Bindings[i]
		pos := b.Source.Pos()
		body = syntax.NewMethodCall(pos, p.monadRef(pos), "bind", b.Source, syntax.NewLambda(pos, body, b.Name))
	}
	return body
}

func (p *pass) pure(n syntax.Node) syntax.Node {
	return syntax.NewMethodCall(n.Pos(), p.monadRef(n.Pos()), "pure", n)
}
