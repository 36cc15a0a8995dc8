package transpiler

import (
	"martianoff/effectful/internal/parser"
	"martianoff/effectful/internal/transpiler/syntax"
)

type sourceParser struct {
	wrapper *parser.Parser
}

// NewSourceParser creates a SourceParser. adapter names the conversion
// inserted for the postfix marker; empty means parser.DefaultAdapter.
func NewSourceParser(adapter string) SourceParser {
	p := parser.New()
	if adapter != "" {
		p.Adapter = adapter
	}
	return &sourceParser{wrapper: p}
}

// Parse implements the SourceParser interface.
func (p *sourceParser) Parse(input string) (syntax.Node, error) {
	return p.wrapper.Parse(input)
}

// Ensure sourceParser implements SourceParser interface.
var _ SourceParser = (*sourceParser)(nil)
