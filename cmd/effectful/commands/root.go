// Package commands provides the CLI commands for the effectful tool.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "effectful",
	Short: "Rewrite unwrap markers into monadic bind chains",
	Long: `effectful rewrites effectful blocks into explicit pure/bind chains.

Usage:
  effectful rewrite main.eff          Print the rewritten program
  effectful rewrite -o out/ a.eff b.eff
  effectful run main.eff              Rewrite and evaluate
  effectful ast --dump main.eff       Print the rewritten syntax tree
  effectful version                   Print version`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to effectful.yaml (default: nearest one above the input)")

	rootCmd.AddCommand(rewriteCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(astCmd)
	rootCmd.AddCommand(versionCmd)
}
