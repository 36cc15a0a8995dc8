package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"martianoff/effectful/internal/transpiler/registry"
)

const sample = `
markers:
  unwrap: await
  adapter: awaitOps
instances:
  - capability: Monad
    type: Box
    expr: BoxMonad
types:
  Crate: [Box]
unapply:
  Validated: 0
signatures:
  Box: "(a) => Box[a]"
  BoxMonad: "Monad[Box[_]]"
log:
  level: debug
`

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig([]byte(sample), "effectful.yaml")
	require.NoError(t, err)

	assert.Equal(t, "await", cfg.Markers.Unwrap)
	assert.Equal(t, "awaitOps", cfg.Markers.Adapter)
	// untouched sections keep their defaults
	assert.Equal(t, "effectfully", cfg.EntryPoints.Direct)
	assert.Equal(t, "eff$", cfg.NamePrefix)
	assert.Equal(t, "debug", cfg.Log.Level)

	r, err := cfg.Registry()
	require.NoError(t, err)
	inst, ok := r.Lookup(registry.Monad, "Crate")
	require.True(t, ok)
	assert.Equal(t, "BoxMonad", inst.Expr)
	assert.Equal(t, 0, r.UnapplyIndex("Validated", 2))

	checker, err := cfg.Checker(r)
	require.NoError(t, err)
	assert.Contains(t, checker.Env, "await")
	assert.Contains(t, checker.Env, "BoxMonad")
	assert.Equal(t, []string{"Box"}, checker.Supertypes["Crate"])
}

func TestParseConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{
			name:    "malformed yaml",
			input:   "markers: [",
			wantErr: "parsing",
		},
		{
			name:    "unknown capability",
			input:   "instances:\n  - capability: Applicative\n    type: Box\n    expr: BoxApplicative\n",
			wantErr: "unknown capability",
		},
		{
			name:    "missing instance expr",
			input:   "instances:\n  - capability: Monad\n    type: Box\n",
			wantErr: "type and expr are required",
		},
		{
			name:    "same entry points",
			input:   "entry_points:\n  direct: go\n  indirect: go\n",
			wantErr: "must differ",
		},
		{
			name:    "bad log level",
			input:   "log:\n  level: loud\n",
			wantErr: "log.level",
		},
		{
			name:    "bad signature",
			input:   "signatures:\n  Box: \"Either[_, a]\"\n",
			wantErr: "signatures.Box",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tt.input), "effectful.yaml")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRegistryConflict(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Instances = []InstanceSpec{{Capability: "Monad", Type: "Option", Expr: "MyOptionMonad"}}
	_, err := cfg.Registry()
	var conflict *registry.ConflictError
	require.ErrorAs(t, err, &conflict)
}

func TestLoad(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0755))

	t.Setenv(EnvVar, "")
	cfg, err := Load(nested)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	require.NoError(t, os.WriteFile(filepath.Join(root, FileName), []byte(sample), 0644))
	found, err := FindConfig(nested)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, FileName), found)

	cfg, err = Load(nested)
	require.NoError(t, err)
	assert.Equal(t, "await", cfg.Markers.Unwrap)

	other := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(other, []byte("name_prefix: gen$\n"), 0644))
	t.Setenv(EnvVar, other)
	cfg, err = Load(nested)
	require.NoError(t, err)
	assert.Equal(t, "gen$", cfg.NamePrefix)
	assert.Equal(t, "unwrap", cfg.Markers.Unwrap)
}

func TestOptionsAndLogger(t *testing.T) {
	cfg, err := ParseConfig([]byte(sample), "effectful.yaml")
	require.NoError(t, err)
	r, err := cfg.Registry()
	require.NoError(t, err)

	log, err := cfg.Logger()
	require.NoError(t, err)
	opts := cfg.Options(r, log)
	assert.Equal(t, "await", opts.Unwrap)
	assert.Equal(t, "awaitOps", opts.Adapter)
	assert.Equal(t, "effectfullyUnapply", opts.Indirect)
	assert.Same(t, r, opts.Registry)
	assert.True(t, log.Core().Enabled(zap.DebugLevel))
}
