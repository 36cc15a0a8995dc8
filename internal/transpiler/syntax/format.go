package syntax

import (
	"strconv"
	"strings"
)

var binaryOps = map[string]bool{
	"||": true, "&&": true,
	"==": true, "!=": true, "<": true, "<=": true, ">": true, ">=": true,
	"+": true, "-": true, "*": true, "/": true, "%": true,
}

// IsBinaryOperator reports whether name is an infix operator.
func IsBinaryOperator(name string) bool { return binaryOps[name] }

// Unary operators are plain identifiers with this prefix: -x is unary_-(x).
const UnaryPrefix = "unary_"

// PostfixMarker is the member name of the adapter's postfix unwrap: m!.
const PostfixMarker = "!"

// Format renders n in surface syntax. The output parses back to a tree of
// the same shape (positions aside).
func Format(n Node) string {
	p := &printer{}
	p.node(n)
	return p.sb.String()
}

// FormatPattern renders a case pattern.
func FormatPattern(pat Pattern) string {
	p := &printer{}
	p.pattern(pat)
	return p.sb.String()
}

type printer struct {
	sb     strings.Builder
	indent int
}

func (p *printer) write(s string) { p.sb.WriteString(s) }

func (p *printer) newline() {
	p.sb.WriteByte('\n')
	p.sb.WriteString(strings.Repeat("  ", p.indent))
}

func (p *printer) node(n Node) {
	switch n := n.(type) {
	case nil:
		p.write("<nil>")
	case *Literal:
		p.literal(n)
	case *Ident:
		p.write(n.Name)
	case *Call:
		p.call(n)
	case *TypeApply:
		p.operand(n.Fun)
		p.write("[")
		for i, t := range n.TypeArgs {
			if i > 0 {
				p.write(", ")
			}
			p.write(t.String())
		}
		p.write("]")
	case *Select:
		if inner, ok := postfixOperand(n); ok {
			p.operand(inner)
			p.write(PostfixMarker)
			return
		}
		p.operand(n.Recv)
		p.write(".")
		p.write(n.Name)
	case *ValDef:
		p.write("val ")
		p.write(n.Name)
		if n.Type != nil {
			p.write(": ")
			p.write(n.Type.String())
		}
		p.write(" = ")
		p.node(n.Init)
	case *Block:
		p.write("{")
		p.indent++
		for _, s := range n.Stmts {
			p.newline()
			p.node(s)
		}
		p.newline()
		p.node(n.Result)
		p.indent--
		p.newline()
		p.write("}")
	case *If:
		p.write("if (")
		p.node(n.Cond)
		p.write(") ")
		p.node(n.Then)
		p.write(" else ")
		p.node(n.Else)
	case *Match:
		p.operand(n.Scrutinee)
		p.write(" match {")
		p.indent++
		for _, c := range n.Cases {
			p.newline()
			p.write("case ")
			p.pattern(c.Pattern)
			if c.Guard != nil {
				p.write(" if ")
				p.operand(c.Guard)
			}
			p.write(" => ")
			p.node(c.Body)
		}
		p.indent--
		p.newline()
		p.write("}")
	case *Ascribe:
		p.write("(")
		p.node(n.Inner)
		p.write(": ")
		p.write(n.Type.String())
		p.write(")")
	case *Annotated:
		p.write("@")
		p.write(n.Annotation)
		p.write(" ")
		p.operand(n.Inner)
	case *Func:
		p.write("(")
		for i, param := range n.Params {
			if i > 0 {
				p.write(", ")
			}
			p.write(param.Name)
			if param.Type != nil {
				p.write(": ")
				p.write(param.Type.String())
			}
		}
		p.write(") => ")
		p.node(n.Body)
	}
}

func (p *printer) literal(n *Literal) {
	switch n.Kind {
	case StringLit:
		p.write(strconv.Quote(n.Value))
	case UnitLit:
		p.write("()")
	default:
		p.write(n.Value)
	}
}

func (p *printer) call(n *Call) {
	if id, ok := n.Fun.(*Ident); ok {
		if binaryOps[id.Name] && len(n.Args) == 2 {
			p.write("(")
			p.operand(n.Args[0])
			p.write(" " + id.Name + " ")
			p.operand(n.Args[1])
			p.write(")")
			return
		}
		if strings.HasPrefix(id.Name, UnaryPrefix) && len(n.Args) == 1 {
			p.write("(")
			p.write(strings.TrimPrefix(id.Name, UnaryPrefix))
			p.operand(n.Args[0])
			p.write(")")
			return
		}
	}
	p.operand(n.Fun)
	p.write("(")
	for i, a := range n.Args {
		if i > 0 {
			p.write(", ")
		}
		p.node(a)
	}
	p.write(")")
}

// operand prints n, parenthesized when it would not otherwise bind tighter
// than a postfix or infix context.
func (p *printer) operand(n Node) {
	switch n.(type) {
	case *Func, *If, *Match, *Annotated, *ValDef:
		p.write("(")
		p.node(n)
		p.write(")")
	default:
		p.node(n)
	}
}

func (p *printer) pattern(pat Pattern) {
	switch pat := pat.(type) {
	case *WildcardPattern:
		p.write("_")
	case *BindPattern:
		p.write(pat.Name)
	case *LiteralPattern:
		p.literal(pat.Lit)
	case *ConstructorPattern:
		p.write(pat.Name)
		if len(pat.Args) > 0 {
			p.write("(")
			for i, a := range pat.Args {
				if i > 0 {
					p.write(", ")
				}
				p.pattern(a)
			}
			p.write(")")
		}
	}
}

// postfixOperand recognizes the adapter form of a postfix marker,
// conv(m).!, and returns m.
func postfixOperand(n *Select) (Node, bool) {
	if n.Name != PostfixMarker {
		return nil, false
	}
	conv, ok := n.Recv.(*Call)
	if !ok || conv.Synthetic != SynthCoercion || len(conv.Args) != 1 {
		return nil, false
	}
	return conv.Args[0], true
}
