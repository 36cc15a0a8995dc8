package registry

// StdInstances returns the capability instances provided by the std
// runtime. This is the single source of truth for std instance metadata.
func StdInstances() []Instance {
	return []Instance{
		{Capability: Monad, TypeName: "Option", Expr: "OptionMonad"},
		{Capability: Monad, TypeName: "List", Expr: "ListMonad"},
		{Capability: Monad, TypeName: "Either", Expr: "EitherMonad"},
		{Capability: Traversable, TypeName: "List", Expr: "ListTraverse"},
		{Capability: Traversable, TypeName: "Option", Expr: "OptionTraverse"},
	}
}

// DefaultRegistry returns a registry pre-configured with the std instances
// and type hierarchy. This is the recommended way to get a registry instance.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, inst := range StdInstances() {
		if err := r.Register(inst); err != nil {
			panic(err)
		}
	}
	r.DeclareType("NonEmptyList", "List")
	return r
}

// Global is the default global registry instance.
//
// For most use cases, use this global instance. Only create custom registries
// when you need isolation (e.g., in tests).
var Global = DefaultRegistry()
