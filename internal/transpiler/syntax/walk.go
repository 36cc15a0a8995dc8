package syntax

// Children returns the direct child nodes of n in evaluation order.
// Patterns are not nodes and are not returned.
func Children(n Node) []Node {
	switch n := n.(type) {
	case *Call:
		return append([]Node{n.Fun}, n.Args...)
	case *TypeApply:
		return []Node{n.Fun}
	case *Select:
		return []Node{n.Recv}
	case *ValDef:
		return []Node{n.Init}
	case *Block:
		return append(append([]Node{}, n.Stmts...), n.Result)
	case *If:
		return []Node{n.Cond, n.Then, n.Else}
	case *Match:
		children := []Node{n.Scrutinee}
		for _, c := range n.Cases {
			if c.Guard != nil {
				children = append(children, c.Guard)
			}
			children = append(children, c.Body)
		}
		return children
	case *Ascribe:
		return []Node{n.Inner}
	case *Annotated:
		return []Node{n.Inner}
	case *Func:
		return []Node{n.Body}
	}
	return nil
}

// MapChildren replaces every direct child c of n by f(c), in place, in
// evaluation order.
func MapChildren(n Node, f func(Node) Node) {
	switch n := n.(type) {
	case *Call:
		n.Fun = f(n.Fun)
		for i, a := range n.Args {
			n.Args[i] = f(a)
		}
	case *TypeApply:
		n.Fun = f(n.Fun)
	case *Select:
		n.Recv = f(n.Recv)
	case *ValDef:
		n.Init = f(n.Init)
	case *Block:
		for i, s := range n.Stmts {
			n.Stmts[i] = f(s)
		}
		n.Result = f(n.Result)
	case *If:
		n.Cond = f(n.Cond)
		n.Then = f(n.Then)
		n.Else = f(n.Else)
	case *Match:
		n.Scrutinee = f(n.Scrutinee)
		for _, c := range n.Cases {
			if c.Guard != nil {
				c.Guard = f(c.Guard)
			}
			c.Body = f(c.Body)
		}
	case *Ascribe:
		n.Inner = f(n.Inner)
	case *Annotated:
		n.Inner = f(n.Inner)
	case *Func:
		n.Body = f(n.Body)
	}
}

// Replace substitutes every node of root that is a key of repl by its
// value and returns the new root. Replacements are not searched again.
func Replace(root Node, repl map[Node]Node) Node {
	if len(repl) == 0 {
		return root
	}
	var walk func(Node) Node
	walk = func(n Node) Node {
		if r, ok := repl[n]; ok {
			return r
		}
		MapChildren(n, walk)
		return n
	}
	return walk(root)
}

// Inspect traverses the tree rooted at n in pre-order, calling f for each
// node. If f returns false the children of that node are skipped.
func Inspect(n Node, f func(Node) bool) {
	if n == nil || !f(n) {
		return
	}
	for _, c := range Children(n) {
		Inspect(c, f)
	}
}

// Idents returns every identifier name that occurs in n, including
// val names, lambda parameters and pattern binders.
func Idents(n Node) map[string]bool {
	names := make(map[string]bool)
	Inspect(n, func(n Node) bool {
		switch n := n.(type) {
		case *Ident:
			names[n.Name] = true
		case *ValDef:
			names[n.Name] = true
		case *Func:
			for _, p := range n.Params {
				names[p.Name] = true
			}
		case *Match:
			for _, c := range n.Cases {
				for _, b := range PatternBinders(c.Pattern) {
					names[b] = true
				}
			}
		}
		return true
	})
	return names
}

// Clone returns a deep copy of n. Type expressions are immutable values and
// are shared.
func Clone(n Node) Node {
	switch n := n.(type) {
	case nil:
		return nil
	case *Literal:
		c := *n
		return &c
	case *Ident:
		c := *n
		return &c
	case *Call:
		return &Call{At: n.At, Fun: Clone(n.Fun), Args: cloneAll(n.Args), Synthetic: n.Synthetic}
	case *TypeApply:
		return &TypeApply{At: n.At, Fun: Clone(n.Fun), TypeArgs: append([]TypeExpr(nil), n.TypeArgs...)}
	case *Select:
		return &Select{At: n.At, Recv: Clone(n.Recv), Name: n.Name}
	case *ValDef:
		return &ValDef{At: n.At, Name: n.Name, Type: n.Type, Init: Clone(n.Init)}
	case *Block:
		return &Block{At: n.At, Stmts: cloneAll(n.Stmts), Result: Clone(n.Result)}
	case *If:
		return &If{At: n.At, Cond: Clone(n.Cond), Then: Clone(n.Then), Else: Clone(n.Else)}
	case *Match:
		cases := make([]*Case, len(n.Cases))
		for i, c := range n.Cases {
			cases[i] = CloneCase(c)
		}
		return &Match{At: n.At, Scrutinee: Clone(n.Scrutinee), Cases: cases}
	case *Ascribe:
		return &Ascribe{At: n.At, Inner: Clone(n.Inner), Type: n.Type}
	case *Annotated:
		return &Annotated{At: n.At, Inner: Clone(n.Inner), Annotation: n.Annotation}
	case *Func:
		params := make([]*Param, len(n.Params))
		for i, p := range n.Params {
			cp := *p
			params[i] = &cp
		}
		return &Func{At: n.At, Params: params, Body: Clone(n.Body)}
	}
	panic("syntax.Clone: unknown node")
}

// CloneCase returns a deep copy of c.
func CloneCase(c *Case) *Case {
	return &Case{At: c.At, Pattern: ClonePattern(c.Pattern), Guard: Clone(c.Guard), Body: Clone(c.Body)}
}

// ClonePattern returns a deep copy of p.
func ClonePattern(p Pattern) Pattern {
	switch p := p.(type) {
	case *WildcardPattern:
		c := *p
		return &c
	case *BindPattern:
		c := *p
		return &c
	case *LiteralPattern:
		lit := *p.Lit
		return &LiteralPattern{At: p.At, Lit: &lit}
	case *ConstructorPattern:
		args := make([]Pattern, len(p.Args))
		for i, a := range p.Args {
			args[i] = ClonePattern(a)
		}
		return &ConstructorPattern{At: p.At, Name: p.Name, Args: args}
	}
	return p
}

func cloneAll(nodes []Node) []Node {
	if nodes == nil {
		return nil
	}
	out := make([]Node, len(nodes))
	for i, n := range nodes {
		out[i] = Clone(n)
	}
	return out
}
