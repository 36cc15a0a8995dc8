package transformer

import (
	"fmt"
)

// DefaultNamePrefix is the reserved prefix of generated names.
const DefaultNamePrefix = "eff$"

// NameAllocator hands out fresh synthetic identifiers prefix1, prefix2, ...
// Names already used by the input are reserved and skipped, so a generated
// name never captures or shadows a user name.
type NameAllocator struct {
	prefix   string
	next     int
	reserved map[string]bool
}

// NewNameAllocator returns an allocator that never returns a name in
// reserved.
func NewNameAllocator(prefix string, reserved map[string]bool) *NameAllocator {
	if prefix == "" {
		prefix = DefaultNamePrefix
	}
	r := make(map[string]bool, len(reserved))
	for name := range reserved {
		r[name] = true
	}
	return &NameAllocator{prefix: prefix, reserved: r}
}

// Reserve marks more names as taken.
func (a *NameAllocator) Reserve(names map[string]bool) {
	for name := range names {
		a.reserved[name] = true
	}
}

// Fresh returns the next unused name.
func (a *NameAllocator) Fresh() string {
	for {
		a.next++
		name := fmt.Sprintf("%s%d", a.prefix, a.next)
		if !a.reserved[name] {
			a.reserved[name] = true
			return name
		}
	}
}
