// Package testutil locates repository fixtures from tests, both under Bazel
// and under go test.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bazelbuild/rules_go/go/tools/bazel"
)

// ModuleRoot returns the directory holding go.mod. In Bazel tests it is
// found through the runfiles tree.
func ModuleRoot() (string, error) {
	if modPath, err := bazel.Runfile("go.mod"); err == nil {
		return filepath.Dir(modPath), nil
	}

	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", os.ErrNotExist
		}
		dir = parent
	}
}

// Fixture returns the absolute path of a file under testdata/.
func Fixture(t testing.TB, rel string) string {
	t.Helper()
	root, err := ModuleRoot()
	if err != nil {
		t.Fatalf("locating module root: %v", err)
	}
	return filepath.Join(root, "testdata", rel)
}

// ReadFixture returns the content of a file under testdata/.
func ReadFixture(t testing.TB, rel string) string {
	t.Helper()
	data, err := os.ReadFile(Fixture(t, rel))
	if err != nil {
		t.Fatalf("reading fixture %s: %v", rel, err)
	}
	return string(data)
}

// Fixtures lists the files under testdata/dir matching pattern, sorted.
func Fixtures(t testing.TB, dir, pattern string) []string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(Fixture(t, dir), pattern))
	if err != nil {
		t.Fatalf("listing fixtures: %v", err)
	}
	return matches
}
