package loop

import (
	"fmt"
	"io"

	"github.com/cfgbench/loopnest/cfg"
)

// Loop is one discovered loop: a header block, the member blocks collapsed
// into it, and its place in the nesting forest.
type Loop struct {
	counter  int
	header   *cfg.BasicBlock
	blocks   []*cfg.BasicBlock
	children []*Loop
	parent   *Loop

	isRoot      bool
	isReducible bool
	nesting     int
	depth       int
}

// Counter returns the loop's serial id. Ids are assigned at creation time,
// monotonically from 1; the synthetic root has id 0.
func (l *Loop) Counter() int { return l.counter }

// Header returns the loop entry block, or nil for the root.
func (l *Loop) Header() *cfg.BasicBlock { return l.header }

// Blocks returns the member blocks in insertion order. The header, when
// set, is always the first member.
func (l *Loop) Blocks() []*cfg.BasicBlock { return l.blocks }

// Children returns the immediate nested loops in attachment order.
func (l *Loop) Children() []*Loop { return l.children }

// Parent returns the enclosing loop, or nil for the root.
func (l *Loop) Parent() *Loop { return l.parent }

// IsRoot reports whether this is the synthetic root loop.
func (l *Loop) IsRoot() bool { return l.isRoot }

// IsReducible reports whether the loop has a single entry through its
// header.
func (l *Loop) IsReducible() bool { return l.isReducible }

// NestingLevel returns the height of the loop subtree rooted here.
// Zero until Forest.CalculateNesting has run.
func (l *Loop) NestingLevel() int { return l.nesting }

// DepthLevel returns the distance from the root.
// Zero until Forest.CalculateNesting has run.
func (l *Loop) DepthLevel() int { return l.depth }

// SetParent attaches the loop under parent.
func (l *Loop) SetParent(parent *Loop) {
	l.parent = parent
	parent.children = append(parent.children, l)
}

// SetHeader records the entry block and enters it as the first member.
func (l *Loop) SetHeader(b *cfg.BasicBlock) {
	l.AddBlock(b)
	l.header = b
}

// AddBlock adds a member block, ignoring duplicates.
func (l *Loop) AddBlock(b *cfg.BasicBlock) {
	for _, m := range l.blocks {
		if m == b {
			return
		}
	}
	l.blocks = append(l.blocks, b)
}

func (l *Loop) String() string {
	return fmt.Sprintf("loop-%d", l.counter)
}

// Checksum folds the loop's structure, member blocks and (recursively) its
// children into a single uint32. See Forest.Checksum for the mixing step.
func (l *Loop) Checksum() uint32 {
	acc := uint32(l.counter)
	acc = mix(acc, b2u(l.isRoot))
	acc = mix(acc, b2u(l.isReducible))
	acc = mix(acc, uint32(l.nesting))
	acc = mix(acc, uint32(l.depth))
	if l.header != nil {
		acc = mix(acc, uint32(l.header.ID()))
	}
	for _, b := range l.blocks {
		acc = mix(acc, uint32(b.ID()))
	}
	for _, c := range l.children {
		acc = mix(acc, c.Checksum())
	}
	return acc
}

// Dump writes one line per loop, indented by nesting, in the form
//
//	loop-3 nest: 1 depth: 2 (b4* b5 b6)
//
// with the header starred and irreducible loops marked.
func (l *Loop) Dump(w io.Writer, indent int) {
	fmt.Fprintf(w, "%*sloop-%d nest: %d depth: %d", 2*indent, "", l.counter, l.nesting, l.depth)
	if !l.isReducible {
		fmt.Fprintf(w, " (irreducible)")
	}
	if len(l.blocks) > 0 {
		fmt.Fprintf(w, " (")
		for i, b := range l.blocks {
			if i > 0 {
				fmt.Fprint(w, " ")
			}
			fmt.Fprintf(w, "b%d", b.ID())
			if b == l.header {
				fmt.Fprint(w, "*")
			}
		}
		fmt.Fprintf(w, ")")
	}
	fmt.Fprintln(w)
}

// Forest owns every Loop of one analysis run, rooted at a synthetic root
// loop that encloses all top-level loops.
type Forest struct {
	loops   []*Loop // root at index 0, then discovery order
	counter int
	root    *Loop
}

// NewForest returns a Forest holding only the root loop.
func NewForest() *Forest {
	root := &Loop{counter: 0, isRoot: true, isReducible: true}
	return &Forest{
		loops:   []*Loop{root},
		counter: 1,
		root:    root,
	}
}

// NewLoop allocates the next loop record. The loop is not part of the
// forest until AddLoop is called.
func (f *Forest) NewLoop() *Loop {
	l := &Loop{counter: f.counter, isReducible: true}
	f.counter++
	return l
}

// AddLoop appends a materialised loop to the forest.
func (f *Forest) AddLoop(l *Loop) {
	f.loops = append(f.loops, l)
}

// Root returns the synthetic root loop.
func (f *Forest) Root() *Loop { return f.root }

// NumLoops returns the number of loops including the root.
func (f *Forest) NumLoops() int { return len(f.loops) }

// Loops returns all loops, root first, then in discovery order.
func (f *Forest) Loops() []*Loop { return f.loops }

// CalculateNesting assigns nesting and depth levels by walking the forest:
// DepthLevel is the distance from the root, NestingLevel the height of the
// subtree below each loop. FindLoops does not call this; run it before
// dumping or querying levels.
func (f *Forest) CalculateNesting() {
	f.calculateNesting(f.root, 0)
}

func (f *Forest) calculateNesting(l *Loop, depth int) {
	l.depth = depth
	l.nesting = 0
	for _, c := range l.children {
		f.calculateNesting(c, depth+1)
		if n := c.nesting + 1; n > l.nesting {
			l.nesting = n
		}
	}
}

// Checksum returns a deterministic digest of the whole forest.
//
// The mixing step is mix(acc, v) = ((acc & 0x0FFFFFFF) << 1) + v over
// uint32, wrapping on overflow. The accumulator starts at the loop count,
// folds in every non-root loop in discovery order, then the root, and
// finally the root once more. Two runs over equivalently constructed graphs
// produce bit-identical checksums, which is the contract ports of this
// analysis are verified against.
func (f *Forest) Checksum() uint32 {
	acc := uint32(len(f.loops))
	for _, l := range f.loops[1:] {
		acc = mix(acc, l.Checksum())
	}
	acc = mix(acc, f.root.Checksum())
	acc = mix(acc, f.root.Checksum())
	return acc
}

// Dump writes the loop forest in preorder starting at the root.
func (f *Forest) Dump(w io.Writer) {
	f.dump(w, f.root, 0)
}

func (f *Forest) dump(w io.Writer, l *Loop, indent int) {
	l.Dump(w, indent)
	for _, c := range l.children {
		f.dump(w, c, indent+1)
	}
}

func mix(acc, v uint32) uint32 {
	return ((acc & 0x0FFFFFFF) << 1) + v
}

func b2u(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}
