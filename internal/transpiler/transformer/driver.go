package transformer

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"martianoff/effectful/efferr"
	"martianoff/effectful/internal/transpiler/infer"
	"martianoff/effectful/internal/transpiler/registry"
	"martianoff/effectful/internal/transpiler/syntax"
)

// Options names the constructs the rewrite recognizes and the capability
// instances it may use.
type Options struct {
	// Unwrap is the marker function: unwrap(m).
	Unwrap string
	// Adapter is the implicit conversion behind the postfix marker m!.
	Adapter string
	// Direct and Indirect are the entry points selecting the strategy.
	Direct   string
	Indirect string
	// NamePrefix prefixes every generated name.
	NamePrefix string
	Registry   *registry.Registry
	Logger     *zap.Logger
}

// DefaultOptions returns the options matching the std runtime.
func DefaultOptions() Options {
	return Options{
		Unwrap:     "unwrap",
		Adapter:    "unwrapOps",
		Direct:     "effectfully",
		Indirect:   "effectfullyUnapply",
		NamePrefix: DefaultNamePrefix,
		Registry:   registry.Global,
		Logger:     zap.NewNop(),
	}
}

// Driver rewrites one effectful block at a time.
type Driver struct {
	opts Options
	log  *zap.Logger
}

// NewDriver returns a driver. Zero fields of opts take their defaults.
func NewDriver(opts Options) *Driver {
	def := DefaultOptions()
	if opts.Unwrap == "" {
		opts.Unwrap = def.Unwrap
	}
	if opts.Adapter == "" {
		opts.Adapter = def.Adapter
	}
	if opts.Direct == "" {
		opts.Direct = def.Direct
	}
	if opts.Indirect == "" {
		opts.Indirect = def.Indirect
	}
	if opts.NamePrefix == "" {
		opts.NamePrefix = def.NamePrefix
	}
	if opts.Registry == nil {
		opts.Registry = def.Registry
	}
	if opts.Logger == nil {
		opts.Logger = def.Logger
	}
	return &Driver{opts: opts, log: opts.Logger}
}

// Request is one block to rewrite: the argument of an entry point.
type Request struct {
	Tree     syntax.Node
	Strategy Strategy
	// Oracle types the block in the scope of the entry point.
	Oracle Oracle
	// Names is shared by every rewrite of a program. A nil allocator
	// starts a fresh one.
	Names *NameAllocator
}

// pass holds the state of one rewrite.
type pass struct {
	*Driver
	types    typeAttachment
	names    *NameAllocator
	strategy Strategy
	effect   effectType
	// monad is the name of the val holding the Monad instance.
	monad string
	// traversals maps a Traversable instance to the val holding its
	// Traverse for the block's monad.
	traversals   map[string]string
	instanceVals []syntax.Node
	errs         []*efferr.RewriteError
}

// Rewrite turns the block into explicit pure/bind calls. The input tree is
// never modified.
func (d *Driver) Rewrite(req Request) Result {
	names := req.Names
	if names == nil {
		names = NewNameAllocator(d.opts.NamePrefix, nil)
	}
	names.Reserve(syntax.Idents(req.Tree))

	work := d.normalize(syntax.Clone(req.Tree))
	typing, err := req.Oracle.Check(work)
	if err != nil {
		if soft, ok := unresolvedError(err); ok {
			return d.deferred(req.Tree, soft.Pos, soft.Msg)
		}
		pos, msg := typeErrorParts(err, work.Pos())
		return failed(errorAt(efferr.TypeInputIllTyped, pos, msg))
	}
	if len(typing.Unresolved) > 0 {
		u := typing.Unresolved[0]
		return d.deferred(req.Tree, u.Pos, u.Msg)
	}

	p := &pass{
		Driver:     d,
		types:      typeAttachment{typing: typing},
		names:      names,
		strategy:   req.Strategy,
		traversals: make(map[string]string),
	}

	markers := d.markers(work)
	if len(markers) == 0 {
		return failed(errorAt(efferr.TypeNoMarkerFound, work.Pos(),
			fmt.Sprintf("effectful block contains no %s", d.opts.Unwrap)))
	}
	for _, m := range markers {
		arg, _ := d.markerArg(m)
		t := p.types.typeOf(arg)
		if _, ok := t.(*infer.TypeApp); !ok {
			return d.deferred(req.Tree, arg.Pos(), fmt.Sprintf("type of %s is not known yet", syntax.Format(arg)))
		}
	}
	if res := p.resolveEffect(markers); res != nil {
		return res
	}

	g := p.extractRoot(work)
	if len(p.errs) > 0 {
		return &Failed{Errors: p.errs}
	}
	out := &syntax.Block{At: work.Pos(), Stmts: p.instanceVals, Result: p.codegen(g, true)}

	if _, err := req.Oracle.Check(out); err != nil {
		if soft, ok := unresolvedError(err); ok {
			return d.deferred(req.Tree, soft.Pos, soft.Msg)
		}
		return failed(errorAt(efferr.TypeRegeneratedIllTyped, work.Pos(),
			fmt.Sprintf("rewritten block does not typecheck: %v", err)))
	}

	d.log.Info("rewrote effectful block",
		zap.Stringer("pos", work.Pos()),
		zap.Stringer("strategy", req.Strategy),
		zap.Stringer("effect", p.effect),
		zap.Int("markers", len(markers)),
	)
	return &Rewritten{Tree: out}
}

func (d *Driver) deferred(orig syntax.Node, pos syntax.Pos, msg string) *Deferred {
	reason := errorAt(efferr.TypeInferenceUnavailable, pos, msg)
	d.log.Debug("deferring effectful block",
		zap.Stringer("pos", orig.Pos()),
		zap.String("reason", msg),
	)
	return &Deferred{Original: orig, Reason: reason}
}

func (p *pass) fail(kind efferr.ErrorType, pos syntax.Pos, format string, args ...any) {
	p.errs = append(p.errs, errorAt(kind, pos, fmt.Sprintf(format, args...)))
}

// unsupported reports every marker below n.
func (p *pass) unsupported(n syntax.Node, where string) {
	for _, m := range p.markers(n) {
		p.fail(efferr.TypeUnsupportedPosition, m.Pos(), "%s is not supported inside %s", p.opts.Unwrap, where)
	}
}

func errorAt(kind efferr.ErrorType, pos syntax.Pos, msg string) *efferr.RewriteError {
	return efferr.NewRewriteErrorAt(kind, pos.Line, pos.Column, msg)
}

func failed(errs ...*efferr.RewriteError) *Failed {
	return &Failed{Errors: errs}
}

func unresolvedError(err error) (*infer.TypeError, bool) {
	var te *infer.TypeError
	if errors.As(err, &te) && te.Unresolved {
		return te, true
	}
	return nil, false
}

// typeErrorParts splits an oracle error into its position and message.
func typeErrorParts(err error, fallback syntax.Pos) (syntax.Pos, string) {
	var te *infer.TypeError
	if errors.As(err, &te) && te.Pos.IsValid() {
		return te.Pos, te.Msg
	}
	return fallback, err.Error()
}
