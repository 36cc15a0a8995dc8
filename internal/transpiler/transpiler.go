// Package transpiler wires the parser, the effect rewrite and the source
// generator into one pipeline.
package transpiler

import (
	"time"

	"go.uber.org/zap"

	"martianoff/effectful/internal/transpiler/syntax"
)

// SourceParser parses source text into a syntax tree.
type SourceParser interface {
	Parse(input string) (syntax.Node, error)
}

// ASTTransformer rewrites a parsed program.
type ASTTransformer interface {
	Transform(tree syntax.Node) (syntax.Node, error)
}

// CodeGenerator renders a syntax tree as source text.
type CodeGenerator interface {
	Generate(tree syntax.Node) (string, error)
}

// Transpiler defines the high-level interface for rewriting a program.
type Transpiler interface {
	Transpile(input string) (string, error)
}

// EffectfulTranspiler orchestrates the rewrite pipeline.
type EffectfulTranspiler struct {
	parser      SourceParser
	transformer ASTTransformer
	generator   CodeGenerator
	log         *zap.Logger
}

// NewEffectfulTranspiler creates a new instance of EffectfulTranspiler with its dependencies.
func NewEffectfulTranspiler(
	parser SourceParser,
	transformer ASTTransformer,
	generator CodeGenerator,
) *EffectfulTranspiler {
	return &EffectfulTranspiler{
		parser:      parser,
		transformer: transformer,
		generator:   generator,
		log:         zap.NewNop(),
	}
}

// WithLogger sets the logger used for pipeline timings.
func (t *EffectfulTranspiler) WithLogger(log *zap.Logger) *EffectfulTranspiler {
	t.log = log
	return t
}

// Transpile executes the full pipeline.
func (t *EffectfulTranspiler) Transpile(input string) (string, error) {
	tree, err := t.TransformSource(input)
	if err != nil {
		return "", err
	}
	return t.generator.Generate(tree)
}

// TransformSource parses and rewrites input without rendering it.
func (t *EffectfulTranspiler) TransformSource(input string) (syntax.Node, error) {
	start := time.Now()
	tree, err := t.parser.Parse(input)
	if err != nil {
		return nil, err
	}
	t.log.Debug("parsed", zap.Duration("elapsed", time.Since(start)))

	start = time.Now()
	out, err := t.transformer.Transform(tree)
	if err != nil {
		return nil, err
	}
	t.log.Debug("transformed", zap.Duration("elapsed", time.Since(start)))
	return out, nil
}
