// Command loopnest recognises loops in control-flow graphs: it benchmarks
// the analysis over synthetic CFGs and reports the loop structure of real
// Go functions.
package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:   "loopnest",
	Short: "Loop-nesting analysis for control-flow graphs",
	Long: `loopnest discovers the loops of a control-flow graph: headers, member
blocks, nesting, and whether each loop is reducible or irreducible.`,
	SilenceUsage: true,
}

// logger is shared by all subcommands; silent unless --debug is given.
var logger = zap.NewNop().Sugar()

func main() {
	rootCmd.AddCommand(benchCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.PersistentFlags().Bool("debug", false, "enable analysis debug logging")

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if debug, _ := cmd.Flags().GetBool("debug"); debug {
			l, err := zap.NewDevelopment()
			if err != nil {
				log.Fatal("Cannot create logger:", err)
			}
			logger = l.Sugar()
		}
	}

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
