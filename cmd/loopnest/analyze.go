package main

import (
	"fmt"
	"log"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/cfgbench/loopnest/loop"
	"github.com/cfgbench/loopnest/ssacfg"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [flags] file.go [files.go...]",
	Short: "Report the loop structure of Go functions",
	Long: `Build SSA for the given Go source files and report the loop-nesting
structure of every function's control-flow graph.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().Bool("all", false, "include functions without loops in the report")
	analyzeCmd.Flags().String("log", "", "SSA build log file (use '-' for stderr)")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	showAll, err := cmd.Flags().GetBool("all")
	if err != nil {
		return err
	}
	logPath, err := cmd.Flags().GetString("log")
	if err != nil {
		return err
	}

	conf := ssacfg.FromFiles(args).Default()
	switch logPath {
	case "":
	case "-":
		conf = conf.WithBuildLog(os.Stderr, log.LstdFlags)
	default:
		f, err := os.Create(logPath)
		if err != nil {
			return err
		}
		defer f.Close()
		conf = conf.WithBuildLog(f, log.LstdFlags)
	}
	info, err := conf.Build()
	if err != nil {
		return err
	}

	fnName := color.New(color.FgCyan, color.Bold)
	irred := color.New(color.FgRed)
	for _, fn := range info.SourceFunctions() {
		g := ssacfg.FromFunction(fn)
		forest := loop.NewForest()
		finder := loop.NewFinder(g, forest)
		finder.SetLogger(logger)
		n := finder.FindLoops()
		if n <= 1 && !showAll {
			continue
		}
		forest.CalculateNesting()

		fnName.Fprintf(os.Stdout, "%s\n", fn.String())
		fmt.Printf("  %d blocks, %d loops\n", g.NumNodes(), n-1)
		for _, l := range forest.Loops()[1:] {
			marker := ""
			if !l.IsReducible() {
				marker = irred.Sprint(" irreducible")
			}
			fmt.Printf("  loop-%d depth %d header %s (%d blocks)%s\n",
				l.Counter(), l.DepthLevel(), l.Header().Name(), len(l.Blocks()), marker)
		}
	}
	return nil
}
