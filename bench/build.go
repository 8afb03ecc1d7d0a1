package bench

import (
	"fmt"

	"github.com/cfgbench/loopnest/cfg"
)

// The generators below compose CFG fragments out of consecutively numbered
// blocks. Each helper takes the id of the block to grow from and returns
// the id of the block the next fragment should grow from. Blocks are
// registered before connecting, so edge creation cannot fail.

func blockName(id int) string {
	return fmt.Sprintf("BB%d", id)
}

// Connect adds the edge from→to, creating either block if needed.
func Connect(g *cfg.Graph, from, to int) {
	g.CreateNode(blockName(from), from)
	g.CreateNode(blockName(to), to)
	if _, err := cfg.NewEdge(g, from, to); err != nil {
		panic(err) // both endpoints just registered
	}
}

// Straight grows a path of n new blocks from start and returns the last one.
func Straight(g *cfg.Graph, start, n int) int {
	for i := 0; i < n; i++ {
		Connect(g, start+i, start+i+1)
	}
	return start + n
}

// Diamond grows an if/else shape from start and returns the join block.
func Diamond(g *cfg.Graph, start int) int {
	Connect(g, start, start+1)
	Connect(g, start, start+2)
	Connect(g, start+1, start+3)
	Connect(g, start+2, start+3)
	return start + 3
}

// BaseLoop grows the benchmark's standard loop body from `from`: two
// diamonds with retreating edges, wrapped in a loop back to `from`. It
// contributes three nested loops and returns the block after the loop.
func BaseLoop(g *cfg.Graph, from int) int {
	header := Straight(g, from, 1)
	diamond1 := Diamond(g, header)
	d11 := Straight(g, diamond1, 1)
	diamond2 := Diamond(g, d11)
	footer := Straight(g, diamond2, 1)
	Connect(g, diamond2, d11)
	Connect(g, diamond1, header)
	Connect(g, footer, from)
	return Straight(g, footer, 1)
}

// NestedLoop grows an outer loop holding one inner loop and returns the
// block after both.
func NestedLoop(g *cfg.Graph, from int) int {
	outerHeader := Straight(g, from, 1)
	innerHeader := Straight(g, outerHeader, 1)
	innerBody := Straight(g, innerHeader, 2)
	Connect(g, innerBody, innerHeader)
	outerTail := Straight(g, innerBody, 1)
	Connect(g, outerTail, outerHeader)
	return Straight(g, outerTail, 1)
}

// BuildGraph constructs the benchmark CFG for a profile: a warm-up loop at
// the entry, then ParallelTrees independent chains of OuterLoops loops,
// each nesting NestedLoops base loops, all converging on a shared exit
// block. By construction the graph holds exactly
//
//	3 + ParallelTrees × OuterLoops × (3×NestedLoops + 1)
//
// loops, every one of them reducible.
func BuildGraph(p Profile) *cfg.Graph {
	g := cfg.NewGraph()
	g.CreateNode(blockName(0), 0) // entry
	n := BaseLoop(g, 0)           // warm-up loop

	branch := n
	var tails []int
	for tree := 0; tree < p.ParallelTrees; tree++ {
		Connect(g, branch, n+1)
		n++
		for i := 0; i < p.OuterLoops; i++ {
			top := n
			n = Straight(g, n, 1)
			for j := 0; j < p.NestedLoops; j++ {
				n = BaseLoop(g, n)
			}
			bottom := Straight(g, n, 1)
			Connect(g, n, top)
			n = bottom
		}
		tails = append(tails, n)
	}
	exit := n + 1
	for _, tail := range tails {
		Connect(g, tail, exit)
	}
	return g
}
