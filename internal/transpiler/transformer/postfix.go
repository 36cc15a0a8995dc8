package transformer

import (
	"martianoff/effectful/internal/transpiler/syntax"
)

// Markers come in two spellings: the call unwrap(m) and the postfix m!,
// which the parser reads as adapter(m).! with adapter an implicit
// conversion.

// markerArg returns the effectful operand of a marker.
func (d *Driver) markerArg(n syntax.Node) (syntax.Node, bool) {
	switch n := n.(type) {
	case *syntax.Call:
		if isIdentNamed(n.Fun, d.opts.Unwrap) && len(n.Args) == 1 {
			return n.Args[0], true
		}
	case *syntax.Select:
		if n.Name != syntax.PostfixMarker {
			return nil, false
		}
		conv, ok := n.Recv.(*syntax.Call)
		if ok && isIdentNamed(conv.Fun, d.opts.Adapter) && len(conv.Args) == 1 {
			return conv.Args[0], true
		}
	}
	return nil, false
}

// isEntry reports whether n starts a rewrite of its own. Markers inside it
// belong to that rewrite.
func (d *Driver) isEntry(n syntax.Node) bool {
	c, ok := n.(*syntax.Call)
	if !ok || len(c.Args) != 1 {
		return false
	}
	return isIdentNamed(c.Fun, d.opts.Direct) || isIdentNamed(c.Fun, d.opts.Indirect)
}

// markers returns the markers below n in pre-order, not looking into nested
// entry points.
func (d *Driver) markers(n syntax.Node) []syntax.Node {
	var found []syntax.Node
	syntax.Inspect(n, func(c syntax.Node) bool {
		if d.isEntry(c) {
			return false
		}
		if _, ok := d.markerArg(c); ok {
			found = append(found, c)
		}
		return true
	})
	return found
}

func (d *Driver) containsMarker(n syntax.Node) bool {
	if n == nil {
		return false
	}
	found := false
	syntax.Inspect(n, func(c syntax.Node) bool {
		if found || d.isEntry(c) {
			return false
		}
		if _, ok := d.markerArg(c); ok {
			found = true
			return false
		}
		return true
	})
	return found
}

func isIdentNamed(n syntax.Node, name string) bool {
	id, ok := n.(*syntax.Ident)
	return ok && id.Name == name
}
