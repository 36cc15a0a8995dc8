package transpiler_test

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"martianoff/effectful/internal/config"
	"martianoff/effectful/internal/interp"
	"martianoff/effectful/internal/parser"
	"martianoff/effectful/internal/testutil"
	"martianoff/effectful/internal/transpiler"
	"martianoff/effectful/internal/transpiler/generator"
	"martianoff/effectful/internal/transpiler/transformer"
)

func newPipeline(t *testing.T, cfg *config.Config) *transpiler.EffectfulTranspiler {
	t.Helper()
	r, err := cfg.Registry()
	require.NoError(t, err)
	checker, err := cfg.Checker(r)
	require.NoError(t, err)
	return transpiler.NewEffectfulTranspiler(
		transpiler.NewSourceParser(cfg.Markers.Adapter),
		transformer.NewEffectfulTransformer(cfg.Options(r, nil), checker),
		generator.NewSourceGenerator(),
	)
}

func runSource(t *testing.T, src string) string {
	t.Helper()
	tree, err := parser.New().Parse(src)
	require.NoError(t, err, src)
	var out bytes.Buffer
	_, err = interp.New(&out).Eval(tree)
	require.NoError(t, err, src)
	return out.String()
}

func TestPipelineFixtures(t *testing.T) {
	p := newPipeline(t, config.DefaultConfig())
	for _, path := range testutil.Fixtures(t, "rewrite", "*.eff") {
		name := strings.TrimSuffix(filepath.Base(path), ".eff")
		t.Run(name, func(t *testing.T) {
			src := testutil.ReadFixture(t, filepath.Join("rewrite", name+".eff"))
			expected := testutil.ReadFixture(t, filepath.Join("rewrite", name+".out"))

			generated, err := p.Transpile(src)
			require.NoError(t, err)
			assert.NotContains(t, generated, "unwrap")
			assert.Equal(t, expected, runSource(t, generated))

			// the generated program is already free of markers
			again, err := p.Transpile(generated)
			require.NoError(t, err)
			assert.Equal(t, generated, again)
		})
	}
}

func TestPipelineRenamedMarkers(t *testing.T) {
	cfg, err := config.ParseConfig([]byte(`
markers:
  unwrap: await
  adapter: awaitOps
entry_points:
  direct: async
  indirect: asyncUnapply
name_prefix: gen$
`), "effectful.yaml")
	require.NoError(t, err)

	generated, err := newPipeline(t, cfg).Transpile(`println(async(await(Some(1)) + Some(2)!))`)
	require.NoError(t, err)
	assert.Contains(t, generated, "val gen$1 = OptionMonad")
	assert.NotContains(t, generated, "await")

	assert.NotContains(t, generated, "async")
	assert.Equal(t, "Some(3)\n", runSource(t, generated))
}

func TestPipelineErrors(t *testing.T) {
	p := newPipeline(t, config.DefaultConfig())
	tests := []struct {
		name    string
		source  string
		wantErr string
	}{
		{
			name:    "syntax",
			source:  `effectfully(unwrap(Some(1)`,
			wantErr: "[SyntaxError]",
		},
		{
			name:    "no marker",
			source:  `effectfully(1)`,
			wantErr: "[NoMarkerFound]",
		},
		{
			name:    "unsupported position",
			source:  `effectfully(Some(1).getOrElse(unwrap(Some(2))))`,
			wantErr: "[UnsupportedPosition]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.Transpile(tt.source)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
