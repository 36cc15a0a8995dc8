package syntax

import (
	"github.com/cespare/xxhash/v2"
)

// Fingerprint returns a structural hash of n. Two trees with the same shape
// and names have the same fingerprint regardless of positions.
func Fingerprint(n Node) uint64 {
	return xxhash.Sum64String(Format(n))
}

// SameShape reports whether a and b are structurally identical.
func SameShape(a, b Node) bool {
	return Format(a) == Format(b)
}
