package transformer

import (
	"martianoff/effectful/efferr"
	"martianoff/effectful/internal/transpiler/infer"
	"martianoff/effectful/internal/transpiler/syntax"
)

// Binding names the value of one effectful expression of type M[T].
type Binding struct {
	Name   string
	Source syntax.Node
}

// BindGroup is the result of extracting the effectful sub-expressions of a
// node: the bindings in evaluation order and the residual node, in which
// every marker is replaced by a reference to its binding.
type BindGroup struct {
	Bindings []Binding
	Residual syntax.Node
}

func leaf(n syntax.Node) *BindGroup {
	return &BindGroup{Residual: n}
}

// Strategy selects how the effect constructor is read off a marker's type.
type Strategy int

const (
	// Direct requires the type to be a single-parameter constructor
	// application M[T].
	Direct Strategy = iota
	// Indirect first decomposes the type into a constructor and the
	// parameter that carries the value, using the registered unapply
	// shape.
	Indirect
)

func (s Strategy) String() string {
	if s == Indirect {
		return "indirect"
	}
	return "direct"
}

// Oracle types a tree in the scope of the block being rewritten.
// *infer.Checker implements it.
type Oracle interface {
	Check(n syntax.Node) (*infer.Typing, error)
}

// Result is the outcome of one rewrite: *Rewritten, *Deferred or *Failed.
type Result interface {
	result()
}

// Rewritten carries the explicit effect-sequencing expression.
type Rewritten struct {
	Tree syntax.Node
}

// Deferred means type information was not available yet. The original
// tree is returned unchanged so the caller can retry in a later pass.
type Deferred struct {
	Original syntax.Node
	Reason   *efferr.RewriteError
}

// Failed carries every diagnostic found in the block.
type Failed struct {
	Errors []*efferr.RewriteError
}

func (*Rewritten) result() {}
func (*Deferred) result()  {}
func (*Failed) result()    {}

// Err returns the diagnostics as one error.
func (f *Failed) Err() error {
	errs := make([]error, len(f.Errors))
	for i, e := range f.Errors {
		errs[i] = e
	}
	return &efferr.MultiError{Errors: errs}
}

// typeAttachment gives access to the types computed for the tree being
// rewritten. It lives for one rewrite.
type typeAttachment struct {
	typing *infer.Typing
}

// typeOf returns the resolved type of n, or nil for nodes created during
// the rewrite.
func (a typeAttachment) typeOf(n syntax.Node) infer.Type {
	return a.typing.TypeOf(n)
}

// paramTypes returns the parameter types of the function applied by c.
func (a typeAttachment) paramTypes(c *syntax.Call) []infer.Type {
	params, _, ok := infer.FuncParts(a.typeOf(c.Fun))
	if !ok {
		return nil
	}
	return params
}
