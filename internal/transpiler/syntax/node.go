// Package syntax defines the expression trees read by the parser, rewritten
// by the transformer and printed by the generator.
//
// Every node owns its children exclusively: a tree never shares a subtree
// between two parents and never contains cycles. Passes that need to reuse a
// subtree in two places must Clone it.
package syntax

import "fmt"

// Pos is a 1-based source position. The zero Pos means "synthesized".
type Pos struct {
	Line   int
	Column int
}

func (p Pos) IsValid() bool { return p.Line > 0 }

func (p Pos) String() string {
	if !p.IsValid() {
		return "-"
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Node is an expression or statement.
type Node interface {
	Pos() Pos
	node()
}

// LitKind is the kind of a Literal.
type LitKind int

const (
	IntLit LitKind = iota
	StringLit
	BoolLit
	UnitLit
)

// Literal is a constant. Value holds the unquoted text.
type Literal struct {
	At    Pos
	Kind  LitKind
	Value string
}

// Ident is a reference to a name.
type Ident struct {
	At   Pos
	Name string
}

// Synthesis tells whether a Call was written by the user or inserted while
// the host resolved types.
type Synthesis int

const (
	// Written is a call present in the source.
	Written Synthesis = iota
	// SynthArgs is a call whose arguments were filled in by the host
	// (defaulted or implicit arguments). Fun holds the user-written part.
	SynthArgs
	// SynthCoercion is a single-argument implicit conversion.
	SynthCoercion
)

// Call applies Fun to Args.
type Call struct {
	At        Pos
	Fun       Node
	Args      []Node
	Synthetic Synthesis
}

// TypeApply instantiates a generic function with explicit type arguments.
type TypeApply struct {
	At       Pos
	Fun      Node
	TypeArgs []TypeExpr
}

// Select is a member access Recv.Name.
type Select struct {
	At   Pos
	Recv Node
	Name string
}

// ValDef introduces a local binding. Type is nil when not declared.
type ValDef struct {
	At   Pos
	Name string
	Type TypeExpr
	Init Node
}

// Block evaluates Stmts in order and yields Result.
type Block struct {
	At     Pos
	Stmts  []Node
	Result Node
}

// If is a conditional expression; Else is never nil.
type If struct {
	At   Pos
	Cond Node
	Then Node
	Else Node
}

// Match is a pattern match over Scrutinee.
type Match struct {
	At        Pos
	Scrutinee Node
	Cases     []*Case
}

// Case is one alternative of a Match. Guard is nil when absent.
type Case struct {
	At      Pos
	Pattern Pattern
	Guard   Node
	Body    Node
}

// Ascribe is a type ascription (Inner: Type).
type Ascribe struct {
	At    Pos
	Inner Node
	Type  TypeExpr
}

// Annotated is an expression carrying an annotation: @name Inner.
type Annotated struct {
	At         Pos
	Inner      Node
	Annotation string
}

// Param is a function literal parameter. Type is nil when not declared.
type Param struct {
	Name string
	Type TypeExpr
}

// Func is a function literal.
type Func struct {
	At     Pos
	Params []*Param
	Body   Node
}

func (n *Literal) Pos() Pos   { return n.At }
func (n *Ident) Pos() Pos     { return n.At }
func (n *Call) Pos() Pos      { return n.At }
func (n *TypeApply) Pos() Pos { return n.At }
func (n *Select) Pos() Pos    { return n.At }
func (n *ValDef) Pos() Pos    { return n.At }
func (n *Block) Pos() Pos     { return n.At }
func (n *If) Pos() Pos        { return n.At }
func (n *Match) Pos() Pos     { return n.At }
func (n *Ascribe) Pos() Pos   { return n.At }
func (n *Annotated) Pos() Pos { return n.At }
func (n *Func) Pos() Pos      { return n.At }

func (*Literal) node()   {}
func (*Ident) node()     {}
func (*Call) node()      {}
func (*TypeApply) node() {}
func (*Select) node()    {}
func (*ValDef) node()    {}
func (*Block) node()     {}
func (*If) node()        {}
func (*Match) node()     {}
func (*Ascribe) node()   {}
func (*Annotated) node() {}
func (*Func) node()      {}

// Pattern is the left-hand side of a Case.
type Pattern interface {
	Pos() Pos
	pattern()
}

// WildcardPattern matches anything: _.
type WildcardPattern struct {
	At Pos
}

// BindPattern matches anything and binds it to Name.
type BindPattern struct {
	At   Pos
	Name string
}

// LiteralPattern matches a constant.
type LiteralPattern struct {
	At  Pos
	Lit *Literal
}

// ConstructorPattern matches a constructor application: Some(x), None.
type ConstructorPattern struct {
	At   Pos
	Name string
	Args []Pattern
}

func (p *WildcardPattern) Pos() Pos    { return p.At }
func (p *BindPattern) Pos() Pos        { return p.At }
func (p *LiteralPattern) Pos() Pos     { return p.At }
func (p *ConstructorPattern) Pos() Pos { return p.At }

func (*WildcardPattern) pattern()    {}
func (*BindPattern) pattern()        {}
func (*LiteralPattern) pattern()     {}
func (*ConstructorPattern) pattern() {}

// PatternBinders returns the names bound by p, in order.
func PatternBinders(p Pattern) []string {
	switch p := p.(type) {
	case *BindPattern:
		return []string{p.Name}
	case *ConstructorPattern:
		var names []string
		for _, a := range p.Args {
			names = append(names, PatternBinders(a)...)
		}
		return names
	}
	return nil
}

// NewIdent returns an identifier at pos.
func NewIdent(pos Pos, name string) *Ident {
	return &Ident{At: pos, Name: name}
}

// NewCall returns a written call at pos.
func NewCall(pos Pos, fun Node, args ...Node) *Call {
	return &Call{At: pos, Fun: fun, Args: args}
}

// NewMethodCall returns recv.name(args...).
func NewMethodCall(pos Pos, recv Node, name string, args ...Node) *Call {
	return &Call{At: pos, Fun: &Select{At: pos, Recv: recv, Name: name}, Args: args}
}

// NewLambda returns a function literal with untyped parameters.
func NewLambda(pos Pos, body Node, params ...string) *Func {
	ps := make([]*Param, len(params))
	for i, name := range params {
		ps[i] = &Param{Name: name}
	}
	return &Func{At: pos, Params: ps, Body: body}
}

// NewUnit returns the unit literal ().
func NewUnit(pos Pos) *Literal {
	return &Literal{At: pos, Kind: UnitLit, Value: "()"}
}
