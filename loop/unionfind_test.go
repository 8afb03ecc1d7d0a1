package loop

import (
	"testing"

	"github.com/cfgbench/loopnest/cfg"
)

func newNodes(n int) []UnionFindNode {
	g := cfg.NewGraph()
	nodes := make([]UnionFindNode, n)
	for i := 0; i < n; i++ {
		nodes[i].Init(g.CreateNode("n", i), i)
	}
	return nodes
}

func TestFindSingleton(t *testing.T) {
	nodes := newNodes(1)
	if nodes[0].Find() != &nodes[0] {
		t.Error("singleton should be its own representative")
	}
}

func TestUnionFind(t *testing.T) {
	nodes := newNodes(4)
	nodes[1].Union(&nodes[0])
	nodes[2].Union(&nodes[1])
	nodes[3].Union(&nodes[2])
	for i := range nodes {
		if rep := nodes[i].Find(); rep != &nodes[0] {
			t.Errorf("node %d: representative is %d, want 0", i, rep.DFSNumber())
		}
	}
}

// Find must be idempotent: once a representative is returned, asking the
// representative (or the same node again) cannot change the answer.
func TestFindFixedPoint(t *testing.T) {
	nodes := newNodes(6)
	for i := 1; i < len(nodes); i++ {
		nodes[i].Union(&nodes[i-1])
	}
	for i := range nodes {
		rep := nodes[i].Find()
		if rep.Find() != rep {
			t.Errorf("node %d: Find().Find() != Find()", i)
		}
		if nodes[i].Find() != rep {
			t.Errorf("node %d: repeated Find changed representative", i)
		}
	}
}

func TestFindCompressesChain(t *testing.T) {
	nodes := newNodes(5)
	for i := 1; i < len(nodes); i++ {
		nodes[i].Union(&nodes[i-1])
	}
	nodes[4].Find()
	// Every node on the walked chain whose parent was not already adjacent
	// to the root must now point at the root directly.
	if nodes[4].parent != &nodes[0] || nodes[3].parent != &nodes[0] || nodes[2].parent != &nodes[0] {
		t.Error("chain was not compressed to the root")
	}
}

func TestSetLoop(t *testing.T) {
	nodes := newNodes(1)
	if nodes[0].Loop() != nil {
		t.Error("fresh node should have no loop")
	}
	f := NewForest()
	l := f.NewLoop()
	nodes[0].SetLoop(l)
	if nodes[0].Loop() != l {
		t.Error("SetLoop did not record the loop")
	}
}
