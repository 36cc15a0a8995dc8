package commands

import (
	"fmt"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"martianoff/effectful/internal/transpiler"
	"martianoff/effectful/internal/transpiler/syntax"
)

var (
	astDump bool
	astRaw  bool
)

var astCmd = &cobra.Command{
	Use:   "ast file.eff",
	Short: "Print the syntax tree of a program",
	Long: `Print the syntax tree of a program after the rewrite.

--raw skips the rewrite; --dump prints every node field instead of source.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		s, err := newSession(path)
		if err != nil {
			return err
		}
		src, err := readSource(path)
		if err != nil {
			return err
		}

		var tree syntax.Node
		if astRaw {
			tree, err = transpiler.NewSourceParser(s.cfg.Markers.Adapter).Parse(src)
		} else {
			tree, err = s.pipeline.TransformSource(src)
		}
		if err != nil {
			return inFile(err, path)
		}

		if astDump {
			cfg := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, DisableCapacities: true, SortKeys: true}
			cfg.Fdump(cmd.OutOrStdout(), tree)
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), syntax.Format(tree))
		return nil
	},
}

func init() {
	astCmd.Flags().BoolVar(&astDump, "dump", false, "Dump node structs")
	astCmd.Flags().BoolVar(&astRaw, "raw", false, "Print the parsed tree without rewriting")
}
