// Package parser reads the surface expression language into syntax trees.
package parser

import (
	"fmt"
	"unicode"

	"martianoff/effectful/efferr"
	"martianoff/effectful/internal/transpiler/syntax"
)

// DefaultAdapter is the conversion the parser inserts for the postfix
// marker m!, the way a host inserts an implicit conversion.
const DefaultAdapter = "unwrapOps"

const (
	precLowest = iota
	precOr
	precAnd
	precEquality
	precCompare
	precSum
	precProduct
	precPrefix
)

var infixPrecedence = map[tokenType]int{
	tokOrOr:    precOr,
	tokAndAnd:  precAnd,
	tokEq:      precEquality,
	tokNeq:     precEquality,
	tokLt:      precCompare,
	tokLe:      precCompare,
	tokGt:      precCompare,
	tokGe:      precCompare,
	tokPlus:    precSum,
	tokMinus:   precSum,
	tokStar:    precProduct,
	tokSlash:   precProduct,
	tokPercent: precProduct,
}

// Parser parses programs of the surface language.
type Parser struct {
	// Adapter names the conversion wrapped around the operand of a postfix
	// marker.
	Adapter string
}

// New returns a parser using DefaultAdapter.
func New() *Parser {
	return &Parser{Adapter: DefaultAdapter}
}

// bailout aborts parsing after the first syntax error.
type bailout struct{}

type state struct {
	tokens   []token
	pos      int
	adapter  string
	listener *errorListener
	// noBareLambda disables "x => e" while parsing case guards, where the
	// arrow belongs to the case.
	noBareLambda int
}

// Parse parses a program: a sequence of statements whose last expression is
// the result. The program is returned as a Block.
func (p *Parser) Parse(input string) (node syntax.Node, err error) {
	listener := &errorListener{}
	tokens := newLexer(input, listener).tokenize()
	if len(listener.Errors) > 0 {
		return nil, &efferr.MultiError{Errors: listener.Errors}
	}
	adapter := p.Adapter
	if adapter == "" {
		adapter = DefaultAdapter
	}
	s := &state{tokens: tokens, adapter: adapter, listener: listener}

	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(bailout); !ok {
				panic(r)
			}
			node, err = nil, &efferr.MultiError{Errors: listener.Errors}
		}
	}()

	start := s.cur()
	stmts := s.parseStatements(tokEOF)
	return s.toBlock(posOf(start), stmts), nil
}

// ParseExpr parses a single expression.
func (p *Parser) ParseExpr(input string) (syntax.Node, error) {
	prog, err := p.Parse(input)
	if err != nil {
		return nil, err
	}
	b := prog.(*syntax.Block)
	if len(b.Stmts) == 0 {
		return b.Result, nil
	}
	return b, nil
}

func posOf(t token) syntax.Pos {
	return syntax.Pos{Line: t.Line, Column: t.Column}
}

func (s *state) cur() token { return s.tokens[s.pos] }

func (s *state) peekAt(offset int) token {
	if s.pos+offset < len(s.tokens) {
		return s.tokens[s.pos+offset]
	}
	return s.tokens[len(s.tokens)-1]
}

func (s *state) is(tt tokenType) bool { return s.cur().Type == tt }

func (s *state) advance() token {
	t := s.cur()
	if t.Type != tokEOF {
		s.pos++
	}
	return t
}

func (s *state) fail(t token, format string, args ...any) {
	s.listener.SyntaxError(t.Line, t.Column, fmt.Sprintf(format, args...))
	panic(bailout{})
}

func (s *state) expect(tt tokenType, what string) token {
	if !s.is(tt) {
		s.fail(s.cur(), "expected %s, found %s", what, s.cur())
	}
	return s.advance()
}

func (s *state) skipNewlines() {
	for s.is(tokNewline) {
		s.advance()
	}
}

func (s *state) skipSeparators() {
	for s.is(tokNewline) || s.is(tokSemi) {
		s.advance()
	}
}

// peekPastNewlines returns the first token that is not a newline.
func (s *state) peekPastNewlines() token {
	for i := s.pos; i < len(s.tokens); i++ {
		if s.tokens[i].Type != tokNewline {
			return s.tokens[i]
		}
	}
	return s.tokens[len(s.tokens)-1]
}

// parseStatements parses statements up to (not including) end.
func (s *state) parseStatements(end tokenType) []syntax.Node {
	var stmts []syntax.Node
	s.skipSeparators()
	for !s.is(end) && !s.is(tokEOF) {
		stmts = append(stmts, s.parseStatement())
		if !s.is(end) && !s.is(tokNewline) && !s.is(tokSemi) {
			s.fail(s.cur(), "expected end of statement, found %s", s.cur())
		}
		s.skipSeparators()
	}
	if end != tokEOF && !s.is(end) {
		s.fail(s.cur(), "unexpected end of input")
	}
	return stmts
}

func (s *state) toBlock(pos syntax.Pos, stmts []syntax.Node) *syntax.Block {
	if len(stmts) == 0 {
		return &syntax.Block{At: pos, Result: syntax.NewUnit(pos)}
	}
	last := stmts[len(stmts)-1]
	if _, isVal := last.(*syntax.ValDef); isVal {
		return &syntax.Block{At: pos, Stmts: stmts, Result: syntax.NewUnit(last.Pos())}
	}
	return &syntax.Block{At: pos, Stmts: stmts[:len(stmts)-1], Result: last}
}

func (s *state) parseStatement() syntax.Node {
	if s.is(tokVal) {
		start := s.advance()
		name := s.expect(tokIdent, "name after val")
		var typ syntax.TypeExpr
		if s.is(tokColon) {
			s.advance()
			typ = s.parseType()
		}
		s.expect(tokAssign, "'='")
		s.skipNewlines()
		init := s.parseExpr(precLowest)
		return &syntax.ValDef{At: posOf(start), Name: name.Text, Type: typ, Init: init}
	}
	return s.parseExpr(precLowest)
}

func (s *state) parseExpr(prec int) syntax.Node {
	left := s.parsePrefix()
	for {
		op := s.cur()
		opPrec, ok := infixPrecedence[op.Type]
		if !ok || opPrec <= prec {
			break
		}
		s.advance()
		s.skipNewlines()
		right := s.parseExpr(opPrec)
		left = syntax.NewCall(posOf(op), syntax.NewIdent(posOf(op), op.Text), left, right)
	}
	if prec == precLowest {
		for s.is(tokMatch) {
			left = s.parseMatch(left)
		}
	}
	return left
}

func (s *state) parsePrefix() syntax.Node {
	t := s.cur()
	switch t.Type {
	case tokMinus, tokBang:
		s.advance()
		operand := s.parseExpr(precPrefix)
		return syntax.NewCall(posOf(t), syntax.NewIdent(posOf(t), syntax.UnaryPrefix+t.Text), operand)
	case tokAt:
		s.advance()
		name := s.expect(tokIdent, "annotation name")
		inner := s.parseExpr(precPrefix)
		return &syntax.Annotated{At: posOf(t), Inner: inner, Annotation: name.Text}
	case tokIf:
		return s.parseIf()
	case tokFor:
		return s.parseFor()
	case tokIdent:
		if s.peekAt(1).Type == tokArrow && s.noBareLambda == 0 {
			s.advance()
			s.advance()
			s.skipNewlines()
			body := s.parseExpr(precLowest)
			return &syntax.Func{At: posOf(t), Params: []*syntax.Param{{Name: t.Text}}, Body: body}
		}
	case tokLParen:
		if s.isLambdaAhead() {
			return s.parseLambda()
		}
	}
	return s.parsePostfix(s.parsePrimary())
}

func (s *state) parsePrimary() syntax.Node {
	t := s.advance()
	pos := posOf(t)
	switch t.Type {
	case tokInt:
		return &syntax.Literal{At: pos, Kind: syntax.IntLit, Value: t.Text}
	case tokString:
		return &syntax.Literal{At: pos, Kind: syntax.StringLit, Value: t.Text}
	case tokTrue, tokFalse:
		return &syntax.Literal{At: pos, Kind: syntax.BoolLit, Value: t.Text}
	case tokIdent:
		return syntax.NewIdent(pos, t.Text)
	case tokLParen:
		if s.is(tokRParen) {
			s.advance()
			return syntax.NewUnit(pos)
		}
		inner := s.parseExpr(precLowest)
		if s.is(tokColon) {
			s.advance()
			typ := s.parseType()
			s.expect(tokRParen, "')'")
			return &syntax.Ascribe{At: pos, Inner: inner, Type: typ}
		}
		s.expect(tokRParen, "')'")
		return inner
	case tokLBracket:
		elems := s.parseArgs(tokRBracket, "']'")
		return syntax.NewCall(pos, syntax.NewIdent(pos, "List"), elems...)
	case tokLBrace:
		stmts := s.parseStatements(tokRBrace)
		s.expect(tokRBrace, "'}'")
		return s.toBlock(pos, stmts)
	}
	s.fail(t, "unexpected %s", t)
	return nil
}

// parsePostfix applies calls, type arguments, member accesses, trailing
// blocks and postfix markers to base.
func (s *state) parsePostfix(base syntax.Node) syntax.Node {
	for {
		t := s.cur()
		switch t.Type {
		case tokLParen:
			s.advance()
			args := s.parseArgs(tokRParen, "')'")
			base = syntax.NewCall(base.Pos(), base, args...)
		case tokLBracket:
			s.advance()
			var targs []syntax.TypeExpr
			for !s.is(tokRBracket) {
				targs = append(targs, s.parseType())
				if !s.is(tokComma) {
					break
				}
				s.advance()
			}
			s.expect(tokRBracket, "']'")
			base = &syntax.TypeApply{At: base.Pos(), Fun: base, TypeArgs: targs}
		case tokDot:
			s.advance()
			name := s.expect(tokIdent, "member name")
			base = &syntax.Select{At: posOf(name), Recv: base, Name: name.Text}
		case tokBang:
			s.advance()
			conv := &syntax.Call{
				At:        base.Pos(),
				Fun:       syntax.NewIdent(posOf(t), s.adapter),
				Args:      []syntax.Node{base},
				Synthetic: syntax.SynthCoercion,
			}
			base = &syntax.Select{At: base.Pos(), Recv: conv, Name: syntax.PostfixMarker}
		case tokLBrace:
			prev := s.tokens[s.pos-1]
			if prev.Line != t.Line {
				return base
			}
			s.advance()
			stmts := s.parseStatements(tokRBrace)
			s.expect(tokRBrace, "'}'")
			var arg syntax.Node = s.toBlock(posOf(t), stmts)
			if len(stmts) == 1 {
				if fn, ok := stmts[0].(*syntax.Func); ok {
					arg = fn
				}
			}
			base = syntax.NewCall(base.Pos(), base, arg)
		case tokNewline:
			if s.peekPastNewlines().Type != tokDot {
				return base
			}
			s.skipNewlines()
		default:
			return base
		}
	}
}

func (s *state) parseArgs(end tokenType, what string) []syntax.Node {
	saved := s.noBareLambda
	s.noBareLambda = 0
	defer func() { s.noBareLambda = saved }()
	var args []syntax.Node
	for !s.is(end) {
		args = append(args, s.parseExpr(precLowest))
		if !s.is(tokComma) {
			break
		}
		s.advance()
	}
	s.expect(end, what)
	return args
}

// isLambdaAhead reports whether the parenthesis at the cursor opens a
// parameter list: its matching ')' is followed by '=>'.
func (s *state) isLambdaAhead() bool {
	depth := 0
	for i := s.pos; i < len(s.tokens); i++ {
		switch s.tokens[i].Type {
		case tokLParen, tokLBracket:
			depth++
		case tokRParen, tokRBracket:
			depth--
			if depth == 0 {
				return i+1 < len(s.tokens) && s.tokens[i+1].Type == tokArrow
			}
		case tokEOF:
			return false
		}
	}
	return false
}

func (s *state) parseLambda() syntax.Node {
	start := s.expect(tokLParen, "'('")
	var params []*syntax.Param
	for !s.is(tokRParen) {
		name := s.expect(tokIdent, "parameter name")
		param := &syntax.Param{Name: name.Text}
		if s.is(tokColon) {
			s.advance()
			param.Type = s.parseType()
		}
		params = append(params, param)
		if !s.is(tokComma) {
			break
		}
		s.advance()
	}
	s.expect(tokRParen, "')'")
	s.expect(tokArrow, "'=>'")
	s.skipNewlines()
	body := s.parseExpr(precLowest)
	return &syntax.Func{At: posOf(start), Params: params, Body: body}
}

func (s *state) parseIf() syntax.Node {
	start := s.expect(tokIf, "'if'")
	s.expect(tokLParen, "'('")
	cond := s.parseExpr(precLowest)
	s.expect(tokRParen, "')'")
	s.skipNewlines()
	then := s.parseExpr(precLowest)
	var els syntax.Node
	if s.peekPastNewlines().Type == tokElse {
		s.skipNewlines()
		s.advance()
		s.skipNewlines()
		els = s.parseExpr(precLowest)
	} else {
		els = syntax.NewUnit(posOf(start))
	}
	return &syntax.If{At: posOf(start), Cond: cond, Then: then, Else: els}
}

func (s *state) parseMatch(scrutinee syntax.Node) syntax.Node {
	start := s.expect(tokMatch, "'match'")
	s.expect(tokLBrace, "'{'")
	s.skipSeparators()
	m := &syntax.Match{At: posOf(start), Scrutinee: scrutinee}
	for s.is(tokCase) {
		caseTok := s.advance()
		pat := s.parsePattern()
		var guard syntax.Node
		if s.is(tokIf) {
			s.advance()
			s.noBareLambda++
			guard = s.parseExpr(precLowest)
			s.noBareLambda--
		}
		s.expect(tokArrow, "'=>'")
		var body []syntax.Node
		s.skipSeparators()
		for !s.is(tokCase) && !s.is(tokRBrace) && !s.is(tokEOF) {
			body = append(body, s.parseStatement())
			s.skipSeparators()
		}
		var bodyNode syntax.Node
		if len(body) == 1 {
			if _, isVal := body[0].(*syntax.ValDef); !isVal {
				bodyNode = body[0]
			}
		}
		if bodyNode == nil {
			bodyNode = s.toBlock(posOf(caseTok), body)
		}
		m.Cases = append(m.Cases, &syntax.Case{At: posOf(caseTok), Pattern: pat, Guard: guard, Body: bodyNode})
	}
	s.expect(tokRBrace, "'}'")
	return m
}

func (s *state) parsePattern() syntax.Pattern {
	t := s.advance()
	pos := posOf(t)
	switch t.Type {
	case tokInt:
		return &syntax.LiteralPattern{At: pos, Lit: &syntax.Literal{At: pos, Kind: syntax.IntLit, Value: t.Text}}
	case tokMinus:
		n := s.expect(tokInt, "number")
		return &syntax.LiteralPattern{At: pos, Lit: &syntax.Literal{At: pos, Kind: syntax.IntLit, Value: "-" + n.Text}}
	case tokString:
		return &syntax.LiteralPattern{At: pos, Lit: &syntax.Literal{At: pos, Kind: syntax.StringLit, Value: t.Text}}
	case tokTrue, tokFalse:
		return &syntax.LiteralPattern{At: pos, Lit: &syntax.Literal{At: pos, Kind: syntax.BoolLit, Value: t.Text}}
	case tokIdent:
		if t.Text == "_" {
			return &syntax.WildcardPattern{At: pos}
		}
		if s.is(tokLParen) {
			s.advance()
			var args []syntax.Pattern
			for !s.is(tokRParen) {
				args = append(args, s.parsePattern())
				if !s.is(tokComma) {
					break
				}
				s.advance()
			}
			s.expect(tokRParen, "')'")
			return &syntax.ConstructorPattern{At: pos, Name: t.Text, Args: args}
		}
		if unicode.IsUpper([]rune(t.Text)[0]) {
			return &syntax.ConstructorPattern{At: pos, Name: t.Text}
		}
		return &syntax.BindPattern{At: pos, Name: t.Text}
	}
	s.fail(t, "expected pattern, found %s", t)
	return nil
}

type generator struct {
	pos     syntax.Pos
	name    string
	source  syntax.Node
	filters []syntax.Node
}

// parseFor parses a for comprehension and desugars it into map, flatMap,
// foreach and withFilter calls.
func (s *state) parseFor() syntax.Node {
	start := s.expect(tokFor, "'for'")
	s.expect(tokLParen, "'('")
	var gens []*generator
	for !s.is(tokRParen) {
		name := s.expect(tokIdent, "generator variable")
		s.expect(tokLArrow, "'<-'")
		g := &generator{pos: posOf(name), name: name.Text, source: s.parseExpr(precLowest)}
		for s.is(tokIf) {
			s.advance()
			g.filters = append(g.filters, s.parseExpr(precLowest))
		}
		gens = append(gens, g)
		if !s.is(tokSemi) {
			break
		}
		s.advance()
	}
	s.expect(tokRParen, "')'")
	isYield := false
	if s.is(tokYield) {
		s.advance()
		isYield = true
	}
	s.skipNewlines()
	body := s.parseExpr(precLowest)
	return desugarFor(posOf(start), gens, isYield, body)
}

func desugarFor(pos syntax.Pos, gens []*generator, isYield bool, body syntax.Node) syntax.Node {
	g := gens[0]
	src := g.source
	for _, f := range g.filters {
		src = syntax.NewMethodCall(f.Pos(), src, "withFilter", syntax.NewLambda(f.Pos(), f, g.name))
	}
	var method string
	var inner syntax.Node
	switch {
	case len(gens) == 1 && isYield:
		method, inner = "map", body
	case len(gens) == 1:
		method, inner = "foreach", body
	case isYield:
		method, inner = "flatMap", desugarFor(pos, gens[1:], isYield, body)
	default:
		method, inner = "foreach", desugarFor(pos, gens[1:], isYield, body)
	}
	return syntax.NewMethodCall(g.pos, src, method, syntax.NewLambda(g.pos, inner, g.name))
}

// parseType parses a type annotation.
func (s *state) parseType() syntax.TypeExpr {
	t := s.cur()
	switch t.Type {
	case tokArrow:
		s.advance()
		return syntax.ByNameType{Elem: s.parseType()}
	case tokLParen:
		s.advance()
		var params []syntax.TypeExpr
		for !s.is(tokRParen) {
			params = append(params, s.parseType())
			if !s.is(tokComma) {
				break
			}
			s.advance()
		}
		s.expect(tokRParen, "')'")
		if s.is(tokArrow) {
			s.advance()
			return syntax.FuncType{Params: params, Result: s.parseType()}
		}
		if len(params) != 1 {
			s.fail(t, "expected '=>' after parameter types")
		}
		return params[0]
	case tokIdent:
		s.advance()
		if t.Text == "_" {
			return syntax.HoleType{}
		}
		if !s.is(tokLBracket) {
			return syntax.NamedType{Name: t.Text}
		}
		s.advance()
		var params []syntax.TypeExpr
		for !s.is(tokRBracket) {
			params = append(params, s.parseType())
			if !s.is(tokComma) {
				break
			}
			s.advance()
		}
		s.expect(tokRBracket, "']'")
		return syntax.GenericType{Base: t.Text, Params: params}
	}
	s.fail(t, "expected type, found %s", t)
	return nil
}
