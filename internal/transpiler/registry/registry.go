// Package registry keeps the capability instances the rewrite can use:
// which value implements Monad for an effect constructor and which
// implements Traversable for a container.
//
// Lookup is explicit and deterministic. A type's instance is found by its
// constructor name first and then along the linearized supertype chain
// declared with DeclareType, most specific first.
package registry

import (
	"fmt"
	"sort"
	"sync"
)

// Capability names an interface an instance implements.
type Capability string

const (
	// Monad provides pure and bind for an effect constructor.
	Monad Capability = "Monad"
	// Traversable provides over(monad), deriving traverse and filterM
	// for a container.
	Traversable Capability = "Traversable"
)

// Instance describes a registered capability instance.
type Instance struct {
	Capability Capability
	TypeName   string // Type constructor the instance is for: "Option"
	Expr       string // Expression naming the instance: "OptionMonad"
}

// Registry manages capability instances, type linearizations and
// unapply shapes.
//
// Thread-safe: all methods can be called concurrently.
type Registry struct {
	mu sync.RWMutex

	// instances maps capability and type constructor to its instance.
	instances map[Capability]map[string]*Instance

	// supertypes maps a type constructor to its direct supertypes in
	// declaration order.
	supertypes map[string][]string

	// unapply maps a type constructor to the index of the parameter that
	// carries the effect's value.
	unapply map[string]int
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		instances:  make(map[Capability]map[string]*Instance),
		supertypes: make(map[string][]string),
		unapply:    make(map[string]int),
	}
}

// Register adds an instance. Registering a second instance of the same
// capability for the same type is a conflict.
func (r *Registry) Register(inst Instance) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	byType, ok := r.instances[inst.Capability]
	if !ok {
		byType = make(map[string]*Instance)
		r.instances[inst.Capability] = byType
	}
	if existing, ok := byType[inst.TypeName]; ok {
		return &ConflictError{
			Capability: inst.Capability,
			TypeName:   inst.TypeName,
			Existing:   existing.Expr,
			Added:      inst.Expr,
		}
	}
	instCopy := inst
	byType[inst.TypeName] = &instCopy
	return nil
}

// DeclareType records the direct supertypes of a type constructor, most
// specific first.
func (r *Registry) DeclareType(name string, supertypes ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.supertypes[name] = append(r.supertypes[name], supertypes...)
}

// DeclareUnapply records which type parameter of name carries the value.
func (r *Registry) DeclareUnapply(name string, valueIndex int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.unapply[name] = valueIndex
}

// UnapplyIndex returns the value parameter index of a constructor with
// arity parameters. Without a declared shape it is the last one.
func (r *Registry) UnapplyIndex(name string, arity int) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if idx, ok := r.unapply[name]; ok && idx < arity {
		return idx
	}
	return arity - 1
}

// Linearize returns name followed by all of its supertypes, most specific
// first. Each type appears once, at its last position in a depth-first
// walk, so shared ancestors come after every type that extends them.
func (r *Registry) Linearize(name string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.linearize(name, map[string]bool{})
}

func (r *Registry) linearize(name string, visiting map[string]bool) []string {
	if visiting[name] {
		return nil
	}
	visiting[name] = true
	defer delete(visiting, name)

	result := []string{name}
	for _, super := range r.supertypes[name] {
		for _, t := range r.linearize(super, visiting) {
			result = removeName(result, t)
			result = append(result, t)
		}
	}
	return result
}

func removeName(names []string, name string) []string {
	for i, n := range names {
		if n == name && i > 0 {
			return append(names[:i:i], names[i+1:]...)
		}
	}
	return names
}

// Supertypes returns the linearization of every declared type without the
// type itself, as consumed by the type checker.
func (r *Registry) Supertypes() map[string][]string {
	r.mu.RLock()
	names := make([]string, 0, len(r.supertypes))
	for name := range r.supertypes {
		names = append(names, name)
	}
	r.mu.RUnlock()

	out := make(map[string][]string, len(names))
	for _, name := range names {
		out[name] = r.Linearize(name)[1:]
	}
	return out
}

// Lookup finds the instance of capability for typeName, searching the
// linearization most specific first.
func (r *Registry) Lookup(capability Capability, typeName string) (*Instance, bool) {
	chain := r.Linearize(typeName)

	r.mu.RLock()
	defer r.mu.RUnlock()
	byType := r.instances[capability]
	for _, t := range chain {
		if inst, ok := byType[t]; ok {
			return inst, true
		}
	}
	return nil, false
}

// Instances returns the instances of a capability sorted by type name.
func (r *Registry) Instances(capability Capability) []*Instance {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*Instance, 0, len(r.instances[capability]))
	for _, inst := range r.instances[capability] {
		result = append(result, inst)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].TypeName < result[j].TypeName })
	return result
}

// ConflictError is returned when a capability is registered twice for the
// same type.
type ConflictError struct {
	Capability Capability
	TypeName   string
	Existing   string
	Added      string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s instance for '%s' already registered as %s; cannot add %s",
		e.Capability, e.TypeName, e.Existing, e.Added)
}
