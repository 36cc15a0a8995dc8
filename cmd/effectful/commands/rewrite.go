package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

var rewriteOutDir string

var rewriteCmd = &cobra.Command{
	Use:   "rewrite [file.eff...]",
	Short: "Rewrite effectful blocks into bind chains",
	Long: `Rewrite every effectful block of the given files.

Errors from all files are reported together; files that fail are not written.

Examples:
  effectful rewrite main.eff             # Output to stdout
  effectful rewrite -o gen/ a.eff b.eff  # One output file per input`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRewrite,
}

func init() {
	rewriteCmd.Flags().StringVarP(&rewriteOutDir, "output", "o", "", "Directory for the rewritten files")
}

func runRewrite(cmd *cobra.Command, args []string) error {
	var errs error
	failed := 0
	for _, path := range args {
		if err := rewriteFile(cmd, path); err != nil {
			errs = multierr.Append(errs, err)
			failed++
		}
	}
	if errs != nil {
		report(cmd.ErrOrStderr(), errs)
		return fmt.Errorf("%d of %d file(s) failed", failed, len(args))
	}
	return nil
}

func rewriteFile(cmd *cobra.Command, path string) error {
	s, err := newSession(path)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	defer s.log.Sync() //nolint:errcheck

	src, err := readSource(path)
	if err != nil {
		return err
	}
	out, err := s.pipeline.Transpile(src)
	if err != nil {
		return inFile(err, path)
	}

	if rewriteOutDir == "" {
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	}
	if err := os.MkdirAll(rewriteOutDir, 0755); err != nil {
		return err
	}
	target := filepath.Join(rewriteOutDir, filepath.Base(path))
	if err := os.WriteFile(target, []byte(out), 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	s.log.Info("rewritten", zap.String("input", path), zap.String("output", target))
	return nil
}
