package registry

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	assert.NotNil(t, r)
	assert.Empty(t, r.Instances(Monad))
}

func TestRegister(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(Instance{Capability: Monad, TypeName: "Option", Expr: "OptionMonad"}))
	require.NoError(t, r.Register(Instance{Capability: Traversable, TypeName: "Option", Expr: "OptionTraverse"}))

	inst, ok := r.Lookup(Monad, "Option")
	require.True(t, ok)
	assert.Equal(t, "OptionMonad", inst.Expr)

	inst, ok = r.Lookup(Traversable, "Option")
	require.True(t, ok)
	assert.Equal(t, "OptionTraverse", inst.Expr)

	_, ok = r.Lookup(Monad, "List")
	assert.False(t, ok)
}

func TestRegisterConflict(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(Instance{Capability: Monad, TypeName: "Option", Expr: "OptionMonad"}))

	err := r.Register(Instance{Capability: Monad, TypeName: "Option", Expr: "OtherMonad"})
	require.Error(t, err)
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "Option", conflict.TypeName)
	assert.Contains(t, err.Error(), "OptionMonad")
	assert.Contains(t, err.Error(), "OtherMonad")
}

func TestLinearize(t *testing.T) {
	r := NewRegistry()
	r.DeclareType("A", "B", "C")
	r.DeclareType("B", "D")
	r.DeclareType("C", "D")

	assert.Equal(t, []string{"A", "B", "C", "D"}, r.Linearize("A"))
	assert.Equal(t, []string{"D"}, r.Linearize("D"))

	supers := r.Supertypes()
	assert.Equal(t, []string{"B", "C", "D"}, supers["A"])
	assert.Equal(t, []string{"D"}, supers["B"])
}

func TestLinearizeCycle(t *testing.T) {
	r := NewRegistry()
	r.DeclareType("A", "B")
	r.DeclareType("B", "A")
	assert.Equal(t, []string{"A", "B"}, r.Linearize("A"))
}

func TestLookupMostSpecificWins(t *testing.T) {
	tests := []struct {
		name     string
		register []Instance
		want     string
		found    bool
	}{
		{
			name:     "exact constructor",
			register: []Instance{{Capability: Monad, TypeName: "Sub", Expr: "SubMonad"}, {Capability: Monad, TypeName: "Left", Expr: "LeftMonad"}},
			want:     "SubMonad",
			found:    true,
		},
		{
			name:     "first supertype in linearization order",
			register: []Instance{{Capability: Monad, TypeName: "Right", Expr: "RightMonad"}, {Capability: Monad, TypeName: "Left", Expr: "LeftMonad"}},
			want:     "LeftMonad",
			found:    true,
		},
		{
			name:     "shared ancestor",
			register: []Instance{{Capability: Monad, TypeName: "Base", Expr: "BaseMonad"}},
			want:     "BaseMonad",
			found:    true,
		},
		{
			name:  "nothing registered",
			found: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRegistry()
			r.DeclareType("Sub", "Left", "Right")
			r.DeclareType("Left", "Base")
			r.DeclareType("Right", "Base")
			for _, inst := range tt.register {
				require.NoError(t, r.Register(inst))
			}
			inst, ok := r.Lookup(Monad, "Sub")
			assert.Equal(t, tt.found, ok)
			if tt.found {
				assert.Equal(t, tt.want, inst.Expr)
			}
		})
	}
}

func TestUnapplyIndex(t *testing.T) {
	r := NewRegistry()
	assert.Equal(t, 1, r.UnapplyIndex("Either", 2))
	r.DeclareUnapply("Validated", 0)
	assert.Equal(t, 0, r.UnapplyIndex("Validated", 2))
	r.DeclareUnapply("Odd", 5)
	assert.Equal(t, 2, r.UnapplyIndex("Odd", 3))
}

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry()

	inst, ok := r.Lookup(Monad, "NonEmptyList")
	require.True(t, ok)
	assert.Equal(t, "ListMonad", inst.Expr)

	traversables := r.Instances(Traversable)
	require.Len(t, traversables, 2)
	assert.Equal(t, "List", traversables[0].TypeName)
	assert.Equal(t, "Option", traversables[1].TypeName)

	assert.NotNil(t, Global)
}

func TestConcurrentAccess(t *testing.T) {
	r := DefaultRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = r.Lookup(Monad, "Option")
			_ = r.Linearize("NonEmptyList")
		}()
		go func() {
			defer wg.Done()
			r.DeclareType("T", "List")
			_ = r.Register(Instance{Capability: Monad, TypeName: "Custom", Expr: "CustomMonad"})
		}()
	}
	wg.Wait()

	inst, ok := r.Lookup(Monad, "Custom")
	require.True(t, ok)
	assert.Equal(t, "CustomMonad", inst.Expr)
}
