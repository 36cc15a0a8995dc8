package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"martianoff/effectful/internal/interp"
)

var runCmd = &cobra.Command{
	Use:   "run file.eff",
	Short: "Rewrite a program and evaluate it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		s, err := newSession(path)
		if err != nil {
			return err
		}
		defer s.log.Sync() //nolint:errcheck

		src, err := readSource(path)
		if err != nil {
			return err
		}
		tree, err := s.pipeline.TransformSource(src)
		if err != nil {
			report(cmd.ErrOrStderr(), inFile(err, path))
			return fmt.Errorf("%s: rewrite failed", path)
		}
		_, err = interp.New(cmd.OutOrStdout()).Eval(tree)
		return err
	},
}
