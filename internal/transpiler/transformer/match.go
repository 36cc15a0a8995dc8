package transformer

import (
	"martianoff/effectful/internal/transpiler/syntax"
)

// extractIf takes bindings from the condition only. When a branch holds a
// marker each branch is lifted on its own, so only the taken branch runs
// its effects, and the conditional becomes a binding.
func (p *pass) extractIf(n *syntax.If) *BindGroup {
	cond := p.extract(n.Cond)
	if !p.containsMarker(n.Then) && !p.containsMarker(n.Else) {
		return &BindGroup{
			Bindings: cond.Bindings,
			Residual: &syntax.If{At: n.At, Cond: cond.Residual, Then: n.Then, Else: n.Else},
		}
	}
	lifted := &syntax.If{At: n.At, Cond: cond.Residual, Then: p.lift(n.Then), Else: p.lift(n.Else)}
	return p.bindFresh(cond.Bindings, lifted, n.Pos())
}

// extractMatch follows extractIf with the scrutinee in place of the
// condition. A guard holding a marker is lifted by splitting the match at
// its case, see liftCases.
func (p *pass) extractMatch(n *syntax.Match) *BindGroup {
	scrut := p.extract(n.Scrutinee)

	effectfulGuard, effectfulBody := false, false
	for _, c := range n.Cases {
		effectfulGuard = effectfulGuard || p.containsMarker(c.Guard)
		effectfulBody = effectfulBody || p.containsMarker(c.Body)
	}

	switch {
	case effectfulGuard:
		s := p.names.Fresh()
		sel := &syntax.Block{
			At:     n.At,
			Stmts:  []syntax.Node{&syntax.ValDef{At: n.At, Name: s, Init: scrut.Residual}},
			Result: p.liftCases(n.At, s, n.Cases),
		}
		return p.bindFresh(scrut.Bindings, sel, n.Pos())
	case effectfulBody:
		m := &syntax.Match{At: n.At, Scrutinee: scrut.Residual, Cases: p.liftBodies(n.Cases)}
		return p.bindFresh(scrut.Bindings, m, n.Pos())
	}
	return &BindGroup{
		Bindings: scrut.Bindings,
		Residual: &syntax.Match{At: n.At, Scrutinee: scrut.Residual, Cases: n.Cases},
	}
}

func (p *pass) liftBodies(cases []*syntax.Case) []*syntax.Case {
	out := make([]*syntax.Case, len(cases))
	for i, c := range cases {
		out[i] = &syntax.Case{At: c.At, Pattern: c.Pattern, Guard: c.Guard, Body: p.lift(c.Body)}
	}
	return out
}

// liftCases matches the value named s against cases, producing an effect.
// At the first case whose guard holds a marker the match is cut in two:
//
//	s match {
//	  case P => bind(lift(guard), (ok) => if (ok) lift(body) else REST)
//	  case _ => REST
//	}
//
// where REST matches s against the remaining cases. The guard's effects
// only run when P matches.
func (p *pass) liftCases(pos syntax.Pos, s string, cases []*syntax.Case) syntax.Node {
	split := -1
	for i, c := range cases {
		if p.containsMarker(c.Guard) {
			split = i
			break
		}
	}
	if split < 0 {
		return &syntax.Match{At: pos, Scrutinee: syntax.NewIdent(pos, s), Cases: p.liftBodies(cases)}
	}

	c := cases[split]
	rest := p.liftCases(pos, s, cases[split+1:])
	ok := p.names.Fresh()
	cont := syntax.NewLambda(c.At, &syntax.If{
		At:   c.At,
		Cond: syntax.NewIdent(c.At, ok),
		Then: p.lift(c.Body),
		Else: rest,
	}, ok)
	guarded := &syntax.Case{
		At:      c.At,
		Pattern: c.Pattern,
		Body:    syntax.NewMethodCall(c.At, p.monadRef(c.At), "bind", p.lift(c.Guard), cont),
	}

	out := p.liftBodies(cases[:split])
	out = append(out, guarded, &syntax.Case{
		At:      c.At,
		Pattern: &syntax.WildcardPattern{At: c.At},
		Body:    syntax.Clone(rest),
	})
	return &syntax.Match{At: pos, Scrutinee: syntax.NewIdent(pos, s), Cases: out}
}
