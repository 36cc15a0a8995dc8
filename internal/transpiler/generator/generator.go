package generator

import (
	"fmt"
	"strings"

	"martianoff/effectful/internal/transpiler"
	"martianoff/effectful/internal/transpiler/syntax"
)

type sourceGenerator struct {
}

// NewSourceGenerator creates a new instance of CodeGenerator that renders
// programs in surface syntax.
func NewSourceGenerator() transpiler.CodeGenerator {
	return &sourceGenerator{}
}

// Generate implements the CodeGenerator interface. A program block is
// printed as top-level statements; a trailing unit result is omitted.
func (g *sourceGenerator) Generate(tree syntax.Node) (string, error) {
	if tree == nil {
		return "", fmt.Errorf("nothing to generate")
	}
	prog, ok := tree.(*syntax.Block)
	if !ok {
		return syntax.Format(tree) + "\n", nil
	}
	var sb strings.Builder
	for _, stmt := range prog.Stmts {
		sb.WriteString(syntax.Format(stmt))
		sb.WriteByte('\n')
	}
	if lit, isLit := prog.Result.(*syntax.Literal); !isLit || lit.Kind != syntax.UnitLit || len(prog.Stmts) == 0 {
		sb.WriteString(syntax.Format(prog.Result))
		sb.WriteByte('\n')
	}
	return sb.String(), nil
}

var _ transpiler.CodeGenerator = (*sourceGenerator)(nil)
