package loop

import (
	"bytes"
	"strings"
	"testing"

	"github.com/cfgbench/loopnest/cfg"
)

func TestNewForestRootOnly(t *testing.T) {
	f := NewForest()
	if f.NumLoops() != 1 {
		t.Fatalf("fresh forest should hold only the root, got %d loops", f.NumLoops())
	}
	root := f.Root()
	if !root.IsRoot() || root.Counter() != 0 || root.Parent() != nil {
		t.Errorf("bad root loop: %+v", root)
	}
	if f.Loops()[0] != root {
		t.Error("root must be element 0 of the forest")
	}
}

func TestLoopCountersMonotonic(t *testing.T) {
	f := NewForest()
	for i := 1; i <= 3; i++ {
		l := f.NewLoop()
		if l.Counter() != i {
			t.Errorf("loop counter = %d, want %d", l.Counter(), i)
		}
		if !l.IsReducible() {
			t.Error("new loops default to reducible")
		}
		f.AddLoop(l)
	}
}

func TestSetParentLinksChild(t *testing.T) {
	f := NewForest()
	outer, inner := f.NewLoop(), f.NewLoop()
	inner.SetParent(outer)
	if inner.Parent() != outer {
		t.Error("parent not set")
	}
	if len(outer.Children()) != 1 || outer.Children()[0] != inner {
		t.Error("child not linked")
	}
}

func TestAddBlockIgnoresDuplicates(t *testing.T) {
	g := cfg.NewGraph()
	b := g.CreateNode("b", 0)
	l := NewForest().NewLoop()
	l.AddBlock(b)
	l.AddBlock(b)
	if len(l.Blocks()) != 1 {
		t.Errorf("duplicate member added: %v", l.Blocks())
	}
}

func TestSetHeaderIsFirstMember(t *testing.T) {
	g := cfg.NewGraph()
	h := g.CreateNode("h", 0)
	m := g.CreateNode("m", 1)
	l := NewForest().NewLoop()
	l.SetHeader(h)
	l.AddBlock(m)
	if l.Header() != h {
		t.Error("header not recorded")
	}
	if len(l.Blocks()) != 2 || l.Blocks()[0] != h {
		t.Errorf("header must be the first member: %v", l.Blocks())
	}
}

// The root-only digest is the fixed baseline every port of the analysis
// must reproduce for an empty result.
func TestChecksumRootOnlyBaseline(t *testing.T) {
	const rootOnlyChecksum = 40
	if cs := NewForest().Checksum(); cs != rootOnlyChecksum {
		t.Errorf("root-only checksum = %d, want %d", cs, rootOnlyChecksum)
	}
}

func TestChecksumSensitiveToMemberOrder(t *testing.T) {
	g := cfg.NewGraph()
	a := g.CreateNode("a", 1)
	b := g.CreateNode("b", 2)

	build := func(first, second *cfg.BasicBlock) uint32 {
		f := NewForest()
		l := f.NewLoop()
		l.AddBlock(first)
		l.AddBlock(second)
		f.AddLoop(l)
		l.SetParent(f.Root())
		return f.Checksum()
	}
	if build(a, b) == build(b, a) {
		t.Error("checksum should depend on member insertion order")
	}
}

func TestCalculateNesting(t *testing.T) {
	f := NewForest()
	outer, inner := f.NewLoop(), f.NewLoop()
	f.AddLoop(outer)
	f.AddLoop(inner)
	inner.SetParent(outer)
	outer.SetParent(f.Root())

	f.CalculateNesting()
	if d := inner.DepthLevel(); d != 2 {
		t.Errorf("inner depth = %d, want 2", d)
	}
	if d := outer.DepthLevel(); d != 1 {
		t.Errorf("outer depth = %d, want 1", d)
	}
	if n := inner.NestingLevel(); n != 0 {
		t.Errorf("inner nesting = %d, want 0", n)
	}
	if n := outer.NestingLevel(); n != 1 {
		t.Errorf("outer nesting = %d, want 1", n)
	}
	if n := f.Root().NestingLevel(); n != 2 {
		t.Errorf("root nesting = %d, want 2", n)
	}
}

func TestDump(t *testing.T) {
	g := cfg.NewGraph()
	h := g.CreateNode("h", 4)
	f := NewForest()
	l := f.NewLoop()
	l.SetHeader(h)
	l.isReducible = false
	f.AddLoop(l)
	l.SetParent(f.Root())

	var buf bytes.Buffer
	f.Dump(&buf)
	out := buf.String()
	if !strings.Contains(out, "loop-1") || !strings.Contains(out, "b4*") {
		t.Errorf("dump missing loop line or starred header:\n%s", out)
	}
	if !strings.Contains(out, "(irreducible)") {
		t.Errorf("dump missing irreducible marker:\n%s", out)
	}
}
