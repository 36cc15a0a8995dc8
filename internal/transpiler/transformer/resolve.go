package transformer

import (
	"fmt"
	"strings"

	"martianoff/effectful/efferr"
	"martianoff/effectful/internal/transpiler/infer"
	"martianoff/effectful/internal/transpiler/registry"
	"martianoff/effectful/internal/transpiler/syntax"
)

// effectType is a type constructor with one open parameter: Option[_] or
// Either[String, _]. Hole is the index of the open parameter.
type effectType struct {
	Name  string
	Fixed []infer.Type
	Hole  int
}

func (e effectType) String() string {
	args := make([]string, 0, len(e.Fixed)+1)
	for i := 0; i <= len(e.Fixed); i++ {
		switch {
		case i == e.Hole:
			args = append(args, "_")
		case i < e.Hole:
			args = append(args, e.Fixed[i].String())
		default:
			args = append(args, e.Fixed[i-1].String())
		}
	}
	return fmt.Sprintf("%s[%s]", e.Name, strings.Join(args, ", "))
}

// sameEffect reports whether a and b name the same constructor. A fixed
// argument that is still a type variable matches anything: None and
// Right(1) do not pin every parameter.
func sameEffect(a, b effectType) bool {
	if a.Name != b.Name || a.Hole != b.Hole || len(a.Fixed) != len(b.Fixed) {
		return false
	}
	for i := range a.Fixed {
		if !infer.IsGround(a.Fixed[i]) || !infer.IsGround(b.Fixed[i]) {
			continue
		}
		if a.Fixed[i].String() != b.Fixed[i].String() {
			return false
		}
	}
	return true
}

// decompose reads the effect constructor off the type of a marker operand.
func (p *pass) decompose(t *infer.TypeApp) (effectType, error) {
	if t.Name == infer.FuncName || t.Name == infer.ByNameName || len(t.Args) == 0 {
		return effectType{}, fmt.Errorf("%s is not an effect type", t)
	}
	if p.strategy == Direct {
		if len(t.Args) != 1 {
			return effectType{}, fmt.Errorf("%s is not of the form M[T]; use %s to pick the value parameter", t, p.opts.Indirect)
		}
		return effectType{Name: t.Name}, nil
	}
	hole := p.opts.Registry.UnapplyIndex(t.Name, len(t.Args))
	fixed := make([]infer.Type, 0, len(t.Args)-1)
	for i, a := range t.Args {
		if i != hole {
			fixed = append(fixed, a)
		}
	}
	return effectType{Name: t.Name, Fixed: fixed, Hole: hole}, nil
}

// resolveEffect picks the block's effect from its markers and allocates
// the val holding the Monad instance. It returns a non-nil result when the
// rewrite cannot proceed.
func (p *pass) resolveEffect(markers []syntax.Node) Result {
	var first effectType
	var firstAt syntax.Node
	var errs []*efferr.RewriteError
	for _, m := range markers {
		arg, _ := p.markerArg(m)
		t := p.types.typeOf(arg).(*infer.TypeApp)
		eff, err := p.decompose(t)
		if err != nil {
			errs = append(errs, errorAt(efferr.TypeCapabilityNotFound, m.Pos(), err.Error()))
			continue
		}
		if firstAt == nil {
			first, firstAt = eff, m
			continue
		}
		if !sameEffect(first, eff) {
			errs = append(errs, errorAt(efferr.TypeAmbiguousEffectType, m.Pos(),
				fmt.Sprintf("effect %s differs from %s used at %s", eff, first, firstAt.Pos())))
		}
	}
	if len(errs) > 0 {
		return &Failed{Errors: errs}
	}

	inst, ok := p.opts.Registry.Lookup(registry.Monad, first.Name)
	if !ok {
		return failed(errorAt(efferr.TypeCapabilityNotFound, firstAt.Pos(),
			fmt.Sprintf("no %s instance for %s", registry.Monad, first)))
	}
	p.effect = first
	p.monad = p.names.Fresh()
	pos := firstAt.Pos()
	p.instanceVals = append(p.instanceVals, &syntax.ValDef{At: pos, Name: p.monad, Init: instanceRef(pos, inst.Expr)})
	return nil
}

// traverse returns the val holding the Traverse of container for the
// block's monad, declaring it on first use.
func (p *pass) traverse(container string, pos syntax.Pos) (string, bool) {
	inst, ok := p.opts.Registry.Lookup(registry.Traversable, container)
	if !ok {
		p.fail(efferr.TypeCapabilityNotFound, pos, "no %s instance for %s", registry.Traversable, container)
		return "", false
	}
	if name, ok := p.traversals[inst.Expr]; ok {
		return name, true
	}
	name := p.names.Fresh()
	over := syntax.NewMethodCall(pos, instanceRef(pos, inst.Expr), "over", syntax.NewIdent(pos, p.monad))
	p.instanceVals = append(p.instanceVals, &syntax.ValDef{At: pos, Name: name, Init: over})
	p.traversals[inst.Expr] = name
	return name, true
}

// instanceRef turns a dotted instance path such as Box.monad into a tree.
func instanceRef(pos syntax.Pos, expr string) syntax.Node {
	parts := strings.Split(expr, ".")
	var n syntax.Node = syntax.NewIdent(pos, parts[0])
	for _, name := range parts[1:] {
		n = &syntax.Select{At: pos, Recv: n, Name: name}
	}
	return n
}

func (p *pass) monadRef(pos syntax.Pos) syntax.Node {
	return syntax.NewIdent(pos, p.monad)
}

// typeHead returns the constructor name of an applied or constant type.
func typeHead(t infer.Type) (string, bool) {
	switch t := t.(type) {
	case *infer.TypeApp:
		return t.Name, true
	case *infer.TypeConst:
		return t.Name, true
	}
	return "", false
}
