package loop

import (
	"github.com/oleiade/lane"
	"go.uber.org/zap"

	"github.com/cfgbench/loopnest/cfg"
)

const unvisited = -1

// maxNonBackPreds bounds the growth of any block's non-backedge predecessor
// list during region expansion. Crossing it aborts the whole analysis: the
// input is considered degenerate and the run returns 0 loops.
const maxNonBackPreds = 32 * 1024

// blockKind is the header classification of a block during the pass.
type blockKind int

const (
	bbNonHeader   blockKind = iota // not a loop header
	bbReducible                    // reducible loop header
	bbSelf                         // single-block loop
	bbIrreducible                  // irreducible loop header
)

// Finder runs loop-nesting analysis over one graph into one forest.
// A Finder is single-use and single-threaded; concurrent analyses must each
// own their Finder and Forest, sharing only the (read-only) graph.
type Finder struct {
	graph  *cfg.Graph
	forest *Forest
	log    *zap.SugaredLogger

	// Per-run state, indexed by DFS preorder number.
	nodes        []UnionFindNode
	number       map[*cfg.BasicBlock]int
	last         []int
	kind         []blockKind
	backPreds    [][]int
	nonBackPreds [][]int
}

// NewFinder returns a Finder bound to graph and forest.
func NewFinder(graph *cfg.Graph, forest *Forest) *Finder {
	return &Finder{
		graph:  graph,
		forest: forest,
		log:    zap.NewNop().Sugar(),
	}
}

// SetLogger replaces the (by default silent) analysis logger.
func (f *Finder) SetLogger(l *zap.SugaredLogger) {
	if l != nil {
		f.log = l
	}
}

// FindLoops is a convenience wrapper running a one-shot Finder.
func FindLoops(graph *cfg.Graph, forest *Forest) int {
	return NewFinder(graph, forest).FindLoops()
}

// FindLoops discovers every loop of the graph and records it in the forest.
// It returns the total number of loops including the synthetic root, or 0
// for an empty graph or a degenerate input that tripped the expansion
// bound. The input graph is never mutated.
func (f *Finder) FindLoops() int {
	start := f.graph.Start()
	if start == nil {
		return 0
	}

	size := f.graph.NumNodes()
	f.nodes = make([]UnionFindNode, size)
	f.number = make(map[*cfg.BasicBlock]int, size)
	f.last = make([]int, size)
	f.kind = make([]blockKind, size)
	f.backPreds = make([][]int, size)
	f.nonBackPreds = make([][]int, size)
	for _, b := range f.graph.Blocks() {
		f.number[b] = unvisited
	}

	// Step A: depth-first numbering from the start node.
	visited := f.dfs(start)
	if dead := size - visited; dead > 0 {
		f.log.Debugf("findloops: %d of %d blocks unreachable", dead, size)
	}

	// Step B: classify every visited predecessor edge v→w. The edge is a
	// backedge iff w is a DFS-tree ancestor of v. Predecessors never
	// reached by the DFS are ignored.
	for w := 0; w < visited; w++ {
		for _, pred := range f.nodes[w].Block().InEdges() {
			v := f.number[pred]
			if v == unvisited {
				continue
			}
			if f.isAncestor(w, v) {
				f.backPreds[w] = append(f.backPreds[w], v)
			} else {
				f.nonBackPreds[w] = append(f.nonBackPreds[w], v)
			}
		}
	}

	// Step C: walk potential headers in reverse preorder so inner loops are
	// materialised before the loops enclosing them.
	for w := visited - 1; w >= 0; w-- {
		var pool []*UnionFindNode

		// Step D: seed the body candidates from the backedge sources. Two
		// sources already collapsed into the same inner loop share one
		// representative, which must enter the pool once only.
		for _, v := range f.backPreds[w] {
			if v != w {
				if n := f.nodes[v].Find(); !containsNode(pool, n) {
					pool = append(pool, n)
				}
			} else {
				f.kind[w] = bbSelf
			}
		}
		if len(pool) > 0 {
			f.kind[w] = bbReducible
		}

		// Step E: chase upwards through non-backedge predecessors of the
		// candidate set. A representative that is not a descendant of w is
		// another entry into the region, making w irreducible; it is
		// forwarded into w's own predecessor list so enclosing headers see
		// the extra entry as well. Expansion can feed the very lists being
		// scanned by later (outer) iterations, which is intended.
		worklist := lane.NewQueue()
		for _, n := range pool {
			worklist.Enqueue(n)
		}
		for !worklist.Empty() {
			x := worklist.Dequeue().(*UnionFindNode)
			if len(f.nonBackPreds[x.DFSNumber()]) > maxNonBackPreds {
				f.log.Debugw("findloops: abort, non-backedge fan-in over bound",
					"block", x.Block().String(), "bound", maxNonBackPreds)
				return 0
			}
			for _, v := range f.nonBackPreds[x.DFSNumber()] {
				ydash := f.nodes[v].Find()
				if !f.isAncestor(w, ydash.DFSNumber()) {
					f.kind[w] = bbIrreducible
					f.nonBackPreds[w] = appendUniqueInt(f.nonBackPreds[w], ydash.DFSNumber())
				} else if ydash.DFSNumber() != w {
					if !containsNode(pool, ydash) {
						pool = append(pool, ydash)
						worklist.Enqueue(ydash)
					}
				}
			}
		}

		// Collapse the region into w and materialise the loop. Nodes that
		// already belong to an inner loop contribute that loop as a child
		// rather than re-adding its blocks.
		if len(pool) > 0 || f.kind[w] == bbSelf {
			l := f.forest.NewLoop()
			l.SetHeader(f.nodes[w].Block())
			l.isReducible = f.kind[w] != bbIrreducible
			f.nodes[w].SetLoop(l)
			for _, node := range pool {
				node.Union(&f.nodes[w])
				if inner := node.Loop(); inner != nil {
					inner.SetParent(l)
				} else {
					l.AddBlock(node.Block())
				}
			}
			f.forest.AddLoop(l)
			f.log.Debugf("findloops: %s header b%d, %d members, reducible=%t",
				l, l.Header().ID(), len(l.Blocks()), l.IsReducible())
		}
	}

	// Loops not enclosed by any other loop hang off the root.
	for _, l := range f.forest.Loops() {
		if !l.IsRoot() && l.Parent() == nil {
			l.SetParent(f.forest.Root())
		}
	}
	return f.forest.NumLoops()
}

// dfs numbers blocks in preorder from root using an explicit stack, so deep
// graphs cannot exhaust the call stack. For every block w it records
// last[w], the largest preorder number inside w's subtree, which makes the
// ancestor test a pair of integer comparisons.
func (f *Finder) dfs(root *cfg.BasicBlock) int {
	type frame struct {
		block *cfg.BasicBlock
		out   int // next outgoing edge to follow
	}
	current := 0
	f.number[root] = current
	f.nodes[current].Init(root, current)
	current++

	stack := lane.NewStack()
	stack.Push(&frame{block: root})
	for !stack.Empty() {
		fr := stack.Head().(*frame)
		outs := fr.block.OutEdges()
		descended := false
		for fr.out < len(outs) {
			target := outs[fr.out]
			fr.out++
			if f.number[target] == unvisited {
				f.number[target] = current
				f.nodes[current].Init(target, current)
				current++
				stack.Push(&frame{block: target})
				descended = true
				break
			}
		}
		if !descended {
			stack.Pop()
			f.last[f.number[fr.block]] = current - 1
		}
	}
	return current
}

// isAncestor reports whether w is an ancestor of v in the DFS tree,
// including w itself. Preorder numbering makes a node's descendants exactly
// the numbers in [number[w], last[w]].
func (f *Finder) isAncestor(w, v int) bool {
	return w <= v && v <= f.last[w]
}

func appendUniqueInt(s []int, v int) []int {
	for _, e := range s {
		if e == v {
			return s
		}
	}
	return append(s, v)
}

func containsNode(s []*UnionFindNode, n *UnionFindNode) bool {
	for _, e := range s {
		if e == n {
			return true
		}
	}
	return false
}
