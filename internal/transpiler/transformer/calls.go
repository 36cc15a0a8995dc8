package transformer

import (
	"martianoff/effectful/internal/transpiler/infer"
	"martianoff/effectful/internal/transpiler/syntax"
)

// extractCall extracts the function, receiver included, before the
// arguments from left to right. Arguments passed by name are evaluated by
// the callee and cannot host a marker.
func (p *pass) extractCall(c *syntax.Call) *BindGroup {
	params := p.types.paramTypes(c)

	var bindings []Binding
	fun := p.extractInto(&bindings, c.Fun)
	args := make([]syntax.Node, len(c.Args))
	for i, a := range c.Args {
		if i < len(params) && p.containsMarker(a) {
			if _, byName := infer.ByNameElem(params[i]); byName {
				p.unsupported(a, "a by-name argument")
				args[i] = a
				continue
			}
		}
		args[i] = p.extractInto(&bindings, a)
	}
	return &BindGroup{
		Bindings: bindings,
		Residual: &syntax.Call{At: c.At, Fun: fun, Args: args, Synthetic: c.Synthetic},
	}
}
