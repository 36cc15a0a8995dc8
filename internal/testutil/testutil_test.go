package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModuleRoot(t *testing.T) {
	root, err := ModuleRoot()
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(root, "go.mod"))
	assert.NoError(t, err)
}

func TestFixtures(t *testing.T) {
	files := Fixtures(t, "rewrite", "*.eff")
	require.NotEmpty(t, files)
	for _, f := range files {
		assert.Equal(t, ".eff", filepath.Ext(f))
	}
	assert.NotEmpty(t, ReadFixture(t, filepath.Join("rewrite", filepath.Base(files[0]))))
}
