package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"martianoff/effectful/internal/config"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv(config.EnvVar, "")
	// flag variables keep their values across Execute calls
	configPath, rewriteOutDir, astDump, astRaw = "", "", false, false

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestRewriteCommand(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "main.eff", "println(effectfully(unwrap(Some(1)) + 1))\n")

	out, _, err := execute(t, "rewrite", src)
	require.NoError(t, err)
	assert.Contains(t, out, "OptionMonad")
	assert.NotContains(t, out, "unwrap")

	gen := filepath.Join(dir, "gen")
	_, _, err = execute(t, "rewrite", "-o", gen, src)
	require.NoError(t, err)
	written, err := os.ReadFile(filepath.Join(gen, "main.eff"))
	require.NoError(t, err)
	assert.Equal(t, out, string(written))
}

func TestRewriteCommandBatchesErrors(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.eff", "effectfully(unwrap(Some(1)))\n")
	bad := writeFile(t, dir, "bad.eff", "effectfully(1)\n")
	broken := writeFile(t, dir, "broken.eff", "effectfully(\n")

	_, stderr, err := execute(t, "rewrite", good, bad, broken)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 of 3 file(s) failed")
	assert.Contains(t, stderr, "[NoMarkerFound] "+bad+":1:")
	assert.Contains(t, stderr, broken)
}

func TestRunCommand(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "main.eff", `val r = effectfully {
  val a = unwrap(Some(2))
  a * unwrap(Some(21))
}
println(r)
`)
	out, _, err := execute(t, "run", src)
	require.NoError(t, err)
	assert.Equal(t, "Some(42)\n", out)
}

func TestRunCommandUsesConfig(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "effectful.yaml", "markers:\n  unwrap: await\n  adapter: awaitOps\n")
	src := writeFile(t, dir, "main.eff", "println(effectfully(await(Some(1)) + 1))\n")

	out, _, err := execute(t, "run", src)
	require.NoError(t, err)
	assert.Equal(t, "Some(2)\n", out)
}

func TestASTCommand(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "main.eff", "effectfully(unwrap(Some(1)))\n")

	out, _, err := execute(t, "ast", "--raw", src)
	require.NoError(t, err)
	assert.Contains(t, out, "effectfully(unwrap(Some(1)))")

	out, _, err = execute(t, "ast", "--dump", src)
	require.NoError(t, err)
	assert.Contains(t, out, "syntax.Call")
	assert.Contains(t, out, "OptionMonad")
}

func TestVersionCommand(t *testing.T) {
	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "effectful version dev\n", out)
}
