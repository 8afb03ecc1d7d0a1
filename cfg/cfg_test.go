package cfg

import (
	"testing"

	"github.com/pkg/errors"
)

func TestCreateNodeIdempotent(t *testing.T) {
	g := NewGraph()
	a := g.CreateNode("entry", 0)
	b := g.CreateNode("renamed", 0)
	if a != b {
		t.Errorf("CreateNode with same id returned distinct blocks: %v, %v", a, b)
	}
	if a.Name() != "entry" {
		t.Errorf("first registered label should win, got %q", a.Name())
	}
	if g.NumNodes() != 1 {
		t.Errorf("expected 1 node, got %d", g.NumNodes())
	}
}

func TestStartNodeIsFirstRegistered(t *testing.T) {
	g := NewGraph()
	if g.Start() != nil {
		t.Error("empty graph should have no start node")
	}
	first := g.CreateNode("first", 7) // id value does not matter
	g.CreateNode("second", 0)
	if g.Start() != first {
		t.Errorf("start node should be first registered block, got %v", g.Start())
	}
	g.CreateNode("third", 3)
	if g.Start() != first {
		t.Error("start node must not change after being set")
	}
}

func TestNewEdge(t *testing.T) {
	g := NewGraph()
	g.CreateNode("a", 0)
	g.CreateNode("b", 1)
	e, err := NewEdge(g, 0, 1)
	if err != nil {
		t.Fatalf("NewEdge: %v", err)
	}
	if e.From() != g.Block(0) || e.To() != g.Block(1) {
		t.Errorf("edge endpoints wrong: %v", e)
	}
	if n := g.Block(0).NumSucc(); n != 1 {
		t.Errorf("expected 1 successor, got %d", n)
	}
	if n := g.Block(1).NumPred(); n != 1 {
		t.Errorf("expected 1 predecessor, got %d", n)
	}
	if g.NumEdges() != 1 {
		t.Errorf("expected 1 edge, got %d", g.NumEdges())
	}
}

func TestNewEdgeUnknownBlock(t *testing.T) {
	g := NewGraph()
	g.CreateNode("a", 0)
	if _, err := NewEdge(g, 0, 99); errors.Cause(err) != ErrUnknownBlock {
		t.Errorf("expected ErrUnknownBlock, got %v", err)
	}
	if _, err := NewEdge(g, 99, 0); errors.Cause(err) != ErrUnknownBlock {
		t.Errorf("expected ErrUnknownBlock, got %v", err)
	}
	if g.NumEdges() != 0 {
		t.Errorf("failed edge creation must not register an edge, got %d", g.NumEdges())
	}
}

func TestEdgeOrderPreserved(t *testing.T) {
	g := NewGraph()
	for i := 0; i < 4; i++ {
		g.CreateNode("n", i)
	}
	order := [][2]int{{0, 2}, {0, 1}, {1, 3}, {2, 3}}
	for _, o := range order {
		if _, err := NewEdge(g, o[0], o[1]); err != nil {
			t.Fatalf("NewEdge(%d, %d): %v", o[0], o[1], err)
		}
	}
	outs := g.Block(0).OutEdges()
	if len(outs) != 2 || outs[0].ID() != 2 || outs[1].ID() != 1 {
		t.Errorf("successor order not preserved: %v", outs)
	}
	ins := g.Block(3).InEdges()
	if len(ins) != 2 || ins[0].ID() != 1 || ins[1].ID() != 2 {
		t.Errorf("predecessor order not preserved: %v", ins)
	}
}
