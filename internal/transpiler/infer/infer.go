package infer

import (
	"fmt"
	"maps"
)

// TypeEnv is a mapping from variable names to type schemes. Members are
// stored under "Type.member" with the receiver as first parameter.
type TypeEnv map[string]*Scheme

func (e TypeEnv) Apply(s Substitution) TypeEnv {
	res := make(TypeEnv)
	for k, v := range e {
		res[k] = v.Apply(s)
	}
	return res
}

func (e TypeEnv) FreeTypeVars() map[*TypeVariable]bool {
	res := make(map[*TypeVariable]bool)
	for _, v := range e {
		for k, val := range v.FreeTypeVars() {
			res[k] = val
		}
	}
	return res
}

// Extend returns a copy of e that can be modified without affecting e.
func (e TypeEnv) Extend() TypeEnv {
	return maps.Clone(e)
}

// Declare adds name with the scheme parsed from sig.
func (e TypeEnv) Declare(name, sig string) error {
	s, err := ParseScheme(sig)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	e[name] = s
	return nil
}

// Inferer holds the state for type inference: the variable counter and
// the substitution built so far.
type Inferer struct {
	nextID int
	sub    Substitution

	// supertypes maps a type constructor to its linearized supertypes,
	// most specific first.
	supertypes map[string][]string
}

func NewInferer() *Inferer {
	return &Inferer{sub: make(Substitution), supertypes: map[string][]string{}}
}

func (inf *Inferer) NewTypeVar() *TypeVariable {
	inf.nextID++
	return &TypeVariable{ID: inf.nextID}
}

// Resolve applies the current substitution to t.
func (inf *Inferer) Resolve(t Type) Type {
	return t.Apply(inf.sub)
}

func (inf *Inferer) instantiate(s *Scheme, explicit ...Type) Type {
	if len(s.Vars) == 0 {
		return s.Type
	}
	sub := make(Substitution)
	for i, v := range s.Vars {
		if i < len(explicit) {
			sub[v] = explicit[i]
		} else {
			sub[v] = inf.NewTypeVar()
		}
	}
	return s.Type.Apply(sub)
}

func (inf *Inferer) unify(t1, t2 Type) error {
	t1 = t1.Apply(inf.sub)
	t2 = t2.Apply(inf.sub)

	switch a := t1.(type) {
	case *TypeVariable:
		return inf.bind(a, t2)
	}

	switch b := t2.(type) {
	case *TypeVariable:
		return inf.bind(b, t1)
	}

	switch a := t1.(type) {
	case *TypeHApp:
		switch b := t2.(type) {
		case *TypeHApp:
			if err := inf.unify(a.Head, b.Head); err != nil {
				return err
			}
			return inf.unify(a.Arg, b.Arg)
		case *TypeApp:
			return inf.unifyPartial(a, b)
		}
	case *TypeApp:
		switch b := t2.(type) {
		case *TypeHApp:
			return inf.unifyPartial(b, a)
		case *TypeApp:
			if a.Name != b.Name || len(a.Args) != len(b.Args) {
				return fmt.Errorf("cannot unify %s and %s", a, b)
			}
			for i := range a.Args {
				if err := inf.unify(a.Args[i], b.Args[i]); err != nil {
					return err
				}
			}
			return nil
		}
	case *TypeCon:
		if b, ok := t2.(*TypeCon); ok {
			if a.Name != b.Name || len(a.Args) != len(b.Args) {
				return fmt.Errorf("cannot unify %s and %s", a, b)
			}
			for i := range a.Args {
				if err := inf.unify(a.Args[i], b.Args[i]); err != nil {
					return err
				}
			}
			return nil
		}
	case *TypeConst:
		if b, ok := t2.(*TypeConst); ok && a.Name == b.Name {
			return nil
		}
	}

	return fmt.Errorf("cannot unify %s and %s", t1, t2)
}

// unifyPartial unifies F[x] with N[a1, .., an] by binding F to the
// constructor N[a1, .., an-1, _] and x to an.
func (inf *Inferer) unifyPartial(h *TypeHApp, app *TypeApp) error {
	n := len(app.Args)
	if n == 0 || app.Name == FuncName || app.Name == ByNameName {
		return fmt.Errorf("cannot unify %s and %s", h, app)
	}
	con := &TypeCon{Name: app.Name, Args: append([]Type{}, app.Args[:n-1]...)}
	if err := inf.unify(h.Head, con); err != nil {
		return err
	}
	return inf.unify(h.Arg, app.Args[n-1])
}

func (inf *Inferer) bind(v *TypeVariable, t Type) error {
	if v == t {
		return nil
	}
	if t.FreeTypeVars()[v] {
		return fmt.Errorf("occurs check failed: %s in %s", v, t)
	}
	inf.sub[v] = t
	return nil
}

// tryUnify unifies t1 and t2, leaving the substitution untouched on failure.
func (inf *Inferer) tryUnify(t1, t2 Type) error {
	snapshot := maps.Clone(inf.sub)
	if err := inf.unify(t1, t2); err != nil {
		inf.sub = snapshot
		return err
	}
	return nil
}

// subsume checks that a value of type actual can be used where expected is
// required, widening actual along its declared supertypes.
func (inf *Inferer) subsume(actual, expected Type) error {
	err := inf.tryUnify(actual, expected)
	if err == nil {
		return nil
	}
	if app, ok := actual.Apply(inf.sub).(*TypeApp); ok {
		for _, super := range inf.supertypes[app.Name] {
			if inf.tryUnify(&TypeApp{Name: super, Args: app.Args}, expected) == nil {
				return nil
			}
		}
	}
	return err
}
