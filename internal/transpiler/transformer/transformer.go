package transformer

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"martianoff/effectful/efferr"
	"martianoff/effectful/internal/transpiler"
	"martianoff/effectful/internal/transpiler/infer"
	"martianoff/effectful/internal/transpiler/syntax"
)

type effectfulTransformer struct {
	driver  *Driver
	checker *infer.Checker
	log     *zap.Logger
}

// NewEffectfulTransformer returns the program-level rewrite. checker types
// the whole program; nil means infer.NewChecker().
func NewEffectfulTransformer(opts Options, checker *infer.Checker) transpiler.ASTTransformer {
	if checker == nil {
		checker = infer.NewChecker()
	}
	d := NewDriver(opts)
	return &effectfulTransformer{driver: d, checker: checker, log: d.log}
}

// Transform rewrites every entry point of tree. Blocks are rewritten
// innermost first; a block whose types are not known yet is retried in
// the next pass. Passes repeat until the program stops changing.
func (t *effectfulTransformer) Transform(tree syntax.Node) (syntax.Node, error) {
	if tree == nil {
		return nil, efferr.NewRewriteError(efferr.TypeInputIllTyped, "empty program")
	}
	log := t.log.With(zap.String("run", uuid.NewString()))
	names := NewNameAllocator(t.driver.opts.NamePrefix, syntax.Idents(tree))
	deferred := make(map[*syntax.Call]*efferr.RewriteError)

	for pass := 1; ; pass++ {
		typing, err := t.checker.Check(tree)
		if err != nil {
			return nil, illTyped(err, tree.Pos())
		}

		repl := make(map[syntax.Node]syntax.Node)
		var errs []error
		entries := t.innermost(typing.Entries)
		for _, e := range entries {
			strategy := Direct
			if isIdentNamed(e.Call.Fun, t.driver.opts.Indirect) {
				strategy = Indirect
			}
			res := t.driver.Rewrite(Request{
				Tree:     e.Call.Args[0],
				Strategy: strategy,
				Oracle:   t.checker.Scoped(typing.EnvAt(e)),
				Names:    names,
			})
			switch r := res.(type) {
			case *Rewritten:
				repl[e.Call] = r.Tree
				delete(deferred, e.Call)
			case *Deferred:
				deferred[e.Call] = r.Reason
			case *Failed:
				for _, fe := range r.Errors {
					errs = append(errs, fe)
				}
			}
		}
		if len(errs) > 0 {
			return nil, &efferr.MultiError{Errors: errs}
		}

		before := syntax.Fingerprint(tree)
		tree = syntax.Replace(tree, repl)
		log.Debug("rewrite pass",
			zap.Int("pass", pass),
			zap.Int("entries", len(entries)),
			zap.Int("rewritten", len(repl)),
			zap.Int("deferred", len(deferred)),
		)
		if syntax.Fingerprint(tree) == before {
			break
		}
	}

	if err := t.leftovers(tree, deferred); err != nil {
		return nil, err
	}
	strict := *t.checker
	strict.Lenient = false
	if _, err := strict.Check(tree); err != nil {
		return nil, illTyped(err, tree.Pos())
	}
	log.Info("program rewritten")
	return tree, nil
}

// innermost keeps the entries whose argument holds no other entry.
func (t *effectfulTransformer) innermost(entries []*infer.Entry) []*infer.Entry {
	var out []*infer.Entry
	for _, e := range entries {
		nested := false
		syntax.Inspect(e.Call.Args[0], func(n syntax.Node) bool {
			if nested {
				return false
			}
			nested = t.driver.isEntry(n)
			return !nested
		})
		if !nested {
			out = append(out, e)
		}
	}
	return out
}

// leftovers reports the entry points that could not be rewritten once no
// pass makes progress.
func (t *effectfulTransformer) leftovers(tree syntax.Node, deferred map[*syntax.Call]*efferr.RewriteError) error {
	typing, err := t.checker.Check(tree)
	if err != nil {
		return illTyped(err, tree.Pos())
	}
	var errs []error
	for _, e := range typing.Entries {
		msg := "cannot determine the effect type of this block"
		if reason, ok := deferred[e.Call]; ok {
			msg = fmt.Sprintf("%s: %s", msg, reason.Msg)
		}
		pos := e.Call.Pos()
		errs = append(errs, efferr.NewRewriteErrorAt(efferr.TypeInputIllTyped, pos.Line, pos.Column, msg))
	}
	if len(errs) > 0 {
		return &efferr.MultiError{Errors: errs}
	}
	return nil
}

func illTyped(err error, fallback syntax.Pos) error {
	pos, msg := typeErrorParts(err, fallback)
	return efferr.NewRewriteErrorAt(efferr.TypeInputIllTyped, pos.Line, pos.Column, msg)
}
