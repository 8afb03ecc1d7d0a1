package bench

import (
	"context"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/cfgbench/loopnest/cfg"
	"github.com/cfgbench/loopnest/loop"
)

// Result summarises one benchmark over a graph.
type Result struct {
	Nodes    int
	Edges    int
	Loops    int           // per run, root included
	Checksum uint32        // forest checksum of the reference run
	Runs     int           // timed runs performed
	Total    time.Duration // wall time of the timed runs
	PerRun   time.Duration
}

// Run executes the benchmark for profile p over graph g.
//
// Warm-up runs execute concurrently with at most p.Workers in flight; this
// is safe because every analysis owns its forest and finder state and only
// reads the shared graph. The timed runs are sequential so PerRun reflects
// a single analysis.
func Run(ctx context.Context, p Profile, g *cfg.Graph) (Result, error) {
	if p.Workers <= 0 {
		p.Workers = runtime.NumCPU()
	}
	grp, _ := errgroup.WithContext(ctx)
	grp.SetLimit(p.Workers)
	for i := 0; i < p.WarmupRuns; i++ {
		grp.Go(func() error {
			loop.FindLoops(g, loop.NewForest())
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return Result{}, err
	}

	ref := loop.NewForest()
	res := Result{
		Nodes: g.NumNodes(),
		Edges: g.NumEdges(),
		Loops: loop.FindLoops(g, ref),
		Runs:  p.TimedRuns,
	}
	res.Checksum = ref.Checksum()

	start := time.Now()
	for i := 0; i < p.TimedRuns; i++ {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		loop.FindLoops(g, loop.NewForest())
	}
	res.Total = time.Since(start)
	if p.TimedRuns > 0 {
		res.PerRun = res.Total / time.Duration(p.TimedRuns)
	}
	return res, nil
}
