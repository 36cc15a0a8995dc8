package transformer

import (
	"martianoff/effectful/internal/transpiler/syntax"
)

// normalize strips what the host added while resolving types, top-down
// and in place: calls whose trailing arguments were synthesized are
// replaced by the written call, and implicit conversions by their operand.
// Synthesized arguments of the marker and the adapter conversion itself
// are kept, since markers are recognized through them. withFilter is
// renamed filter wherever it appears.
func (d *Driver) normalize(n syntax.Node) syntax.Node {
	if c, ok := n.(*syntax.Call); ok {
		switch c.Synthetic {
		case syntax.SynthArgs:
			if !isIdentNamed(c.Fun, d.opts.Unwrap) && !isIdentNamed(c.Fun, d.opts.Adapter) {
				return d.normalize(c.Fun)
			}
		case syntax.SynthCoercion:
			if !isIdentNamed(c.Fun, d.opts.Adapter) && len(c.Args) == 1 {
				return d.normalize(c.Args[0])
			}
		}
	}
	if sel, ok := n.(*syntax.Select); ok && sel.Name == "withFilter" {
		sel.Name = "filter"
	}
	syntax.MapChildren(n, d.normalize)
	return n
}
