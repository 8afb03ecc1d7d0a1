package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/cfgbench/loopnest/bench"
	"github.com/cfgbench/loopnest/loop"
)

var benchCmd = &cobra.Command{
	Use:   "bench [flags]",
	Short: "Benchmark loop recognition over a synthetic CFG",
	Long: `Build the benchmark control-flow graph and run loop recognition over it
repeatedly, reporting loop count, forest checksum and per-run timing.
The graph shape is taken from a TOML profile, or defaults to the classic
10×100×25 loop-tree shape.`,
	Args: cobra.NoArgs,
	RunE: runBench,
}

func init() {
	benchCmd.Flags().String("profile", "", "TOML benchmark profile")
	benchCmd.Flags().Bool("dump", false, "dump the loop forest after the reference run")
}

func runBench(cmd *cobra.Command, args []string) error {
	profilePath, err := cmd.Flags().GetString("profile")
	if err != nil {
		return err
	}
	dump, err := cmd.Flags().GetBool("dump")
	if err != nil {
		return err
	}

	p := bench.DefaultProfile()
	if profilePath != "" {
		if p, err = bench.LoadProfile(profilePath); err != nil {
			return err
		}
	}

	logger.Debugf("bench: profile %+v", p)
	fmt.Println("Constructing CFG...")
	g := bench.BuildGraph(p)
	fmt.Printf("%d nodes, %d edges\n", g.NumNodes(), g.NumEdges())

	fmt.Printf("Performing loop recognition (%d warmup, %d timed runs)\n",
		p.WarmupRuns, p.TimedRuns)
	res, err := bench.Run(cmd.Context(), p, g)
	if err != nil {
		return err
	}

	bold := color.New(color.Bold)
	bold.Printf("# of loops: %d (including 1 artificial root node)\n", res.Loops)
	fmt.Printf("forest checksum: %d\n", res.Checksum)
	fmt.Printf("total: %v for %d runs, %v per run\n", res.Total, res.Runs, res.PerRun)

	if dump {
		forest := loop.NewForest()
		finder := loop.NewFinder(g, forest)
		finder.SetLogger(logger)
		finder.FindLoops()
		forest.CalculateNesting()
		forest.Dump(os.Stdout)
	}
	return nil
}
