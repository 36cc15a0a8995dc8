package transformer

import (
	"martianoff/effectful/efferr"
	"martianoff/effectful/internal/transpiler/syntax"
)

// higherOrderMethods are the container methods whose function argument may
// hold markers.
var higherOrderMethods = map[string]bool{
	"map":        true,
	"flatMap":    true,
	"foreach":    true,
	"filter":     true,
	"withFilter": true,
}

// higherOrderCall is c.method(x => body), optionally c.method[T](...).
type higherOrderCall struct {
	call   *syntax.Call
	recv   syntax.Node
	method string
	fn     *syntax.Func
}

// higherOrder recognizes a container call whose function body holds a
// marker.
func (p *pass) higherOrder(n syntax.Node) (*higherOrderCall, bool) {
	c, ok := n.(*syntax.Call)
	if !ok || len(c.Args) != 1 {
		return nil, false
	}
	fun := c.Fun
	if ta, ok := fun.(*syntax.TypeApply); ok {
		fun = ta.Fun
	}
	sel, ok := fun.(*syntax.Select)
	if !ok || !higherOrderMethods[sel.Name] {
		return nil, false
	}
	fn, ok := c.Args[0].(*syntax.Func)
	if !ok || len(fn.Params) != 1 {
		return nil, false
	}
	if !p.containsMarker(fn.Body) {
		return nil, false
	}
	return &higherOrderCall{call: c, recv: sel.Recv, method: sel.Name, fn: fn}, true
}

// extractHigherOrder runs the function over the container inside the
// block's monad:
//
//	c.map(x => b)     => t.traverse(c, (x) => lift(b))
//	c.flatMap(x => b) => m.map(t.traverse(c, (x) => lift(b)), (xs) => xs.flatten)
//	c.foreach(x => b) => m.map(t.traverse(c, (x) => lift(b)), (u) => ())
//	c.filter(x => b)  => t.filterM(c, (x) => lift(b))
//
// The result is bound like a marker, after the receiver's bindings.
func (p *pass) extractHigherOrder(h *higherOrderCall) *BindGroup {
	pos := h.call.Pos()
	container, ok := typeHead(p.types.typeOf(h.recv))
	if !ok {
		p.fail(efferr.TypeCapabilityNotFound, pos, "cannot traverse %s: its container type is not known", syntax.Format(h.recv))
		return leaf(h.call)
	}
	t, ok := p.traverse(container, pos)
	if !ok {
		return leaf(h.call)
	}

	recv := p.extract(h.recv)
	f := &syntax.Func{At: h.fn.At, Params: h.fn.Params, Body: p.lift(h.fn.Body)}
	traversal := func(method string) syntax.Node {
		return syntax.NewMethodCall(pos, syntax.NewIdent(pos, t), method, recv.Residual, f)
	}

	var call syntax.Node
	switch h.method {
	case "map":
		call = traversal("traverse")
	case "flatMap":
		xs := p.names.Fresh()
		flatten := &syntax.Select{At: pos, Recv: syntax.NewIdent(pos, xs), Name: "flatten"}
		call = syntax.NewMethodCall(pos, p.monadRef(pos), "map", traversal("traverse"), syntax.NewLambda(pos, flatten, xs))
	case "foreach":
		u := p.names.Fresh()
		call = syntax.NewMethodCall(pos, p.monadRef(pos), "map", traversal("traverse"), syntax.NewLambda(pos, syntax.NewUnit(pos), u))
	default:
		call = traversal("filterM")
	}
	return p.bindFresh(recv.Bindings, call, pos)
}
