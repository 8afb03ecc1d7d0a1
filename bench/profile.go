package bench

import (
	"runtime"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

// Profile describes the benchmark graph shape and how many analysis runs to
// perform over it.
type Profile struct {
	ParallelTrees int `toml:"parallel_trees"` // independent loop trees off the entry
	OuterLoops    int `toml:"outer_loops"`    // outer loops per tree
	NestedLoops   int `toml:"nested_loops"`   // base loops nested in each outer loop

	WarmupRuns int `toml:"warmup_runs"` // untimed runs before measuring
	TimedRuns  int `toml:"timed_runs"`  // measured sequential runs
	Workers    int `toml:"workers"`     // concurrent warmup analyses (0 = NumCPU)
}

// DefaultProfile is the classic benchmark shape: 10 parallel trees of 100
// outer loops each nesting 25 base loops.
func DefaultProfile() Profile {
	return Profile{
		ParallelTrees: 10,
		OuterLoops:    100,
		NestedLoops:   25,
		WarmupRuns:    20,
		TimedRuns:     50,
		Workers:       runtime.NumCPU(),
	}
}

// LoadProfile reads a Profile from a TOML file. Fields absent from the file
// keep their DefaultProfile values.
func LoadProfile(path string) (Profile, error) {
	p := DefaultProfile()
	if _, err := toml.DecodeFile(path, &p); err != nil {
		return Profile{}, errors.Wrapf(err, "cannot load benchmark profile %s", path)
	}
	if p.Workers <= 0 {
		p.Workers = runtime.NumCPU()
	}
	return p, nil
}
