package cfg

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
)

// ErrUnknownBlock is returned when an edge endpoint was never registered.
var ErrUnknownBlock = errors.New("cfg: unknown basic block")

// BasicBlock is a single control-flow node.
//
// A block is identified by its id; the name is a human-readable label and
// plays no part in the analysis. In/out edges are kept in the order the
// edges were created, which the loop finder relies on for deterministic
// traversal.
type BasicBlock struct {
	name string
	id   int

	inEdges  []*BasicBlock
	outEdges []*BasicBlock
}

// Name returns the block label.
func (b *BasicBlock) Name() string { return b.name }

// ID returns the block id.
func (b *BasicBlock) ID() int { return b.id }

// InEdges returns the predecessor blocks in edge creation order.
func (b *BasicBlock) InEdges() []*BasicBlock { return b.inEdges }

// OutEdges returns the successor blocks in edge creation order.
func (b *BasicBlock) OutEdges() []*BasicBlock { return b.outEdges }

// NumPred returns the number of incoming edges.
func (b *BasicBlock) NumPred() int { return len(b.inEdges) }

// NumSucc returns the number of outgoing edges.
func (b *BasicBlock) NumSucc() int { return len(b.outEdges) }

func (b *BasicBlock) String() string {
	return fmt.Sprintf("BB#%d %s", b.id, b.name)
}

// Edge is a directed edge between two registered blocks.
// Edges are immutable once created.
type Edge struct {
	from, to *BasicBlock
}

// From returns the source block.
func (e *Edge) From() *BasicBlock { return e.from }

// To returns the destination block.
func (e *Edge) To() *BasicBlock { return e.to }

func (e *Edge) String() string {
	return fmt.Sprintf("BB#%d → BB#%d", e.from.id, e.to.id)
}

// Graph owns the blocks and edges of one control-flow graph.
type Graph struct {
	blocks map[int]*BasicBlock
	order  []*BasicBlock // blocks in registration order
	edges  []*Edge
	start  *BasicBlock
}

// NewGraph returns a new empty Graph.
func NewGraph() *Graph {
	return &Graph{blocks: make(map[int]*BasicBlock)}
}

// CreateNode returns the block registered under id, creating it if needed.
// Repeated registration of the same id returns the existing block and the
// label of the first registration wins. The first block ever registered
// becomes the start node and stays the start node for the lifetime of the
// graph.
func (g *Graph) CreateNode(name string, id int) *BasicBlock {
	if b, ok := g.blocks[id]; ok {
		return b
	}
	b := &BasicBlock{name: name, id: id}
	g.blocks[id] = b
	g.order = append(g.order, b)
	if g.start == nil {
		g.start = b
	}
	return b
}

// Block returns the block registered under id, or nil.
func (g *Graph) Block(id int) *BasicBlock {
	return g.blocks[id]
}

// NewEdge creates an edge between two existing blocks of g.
// Both endpoints must have been registered with CreateNode beforehand;
// referencing an unknown id is a caller error.
func NewEdge(g *Graph, fromID, toID int) (*Edge, error) {
	from, ok := g.blocks[fromID]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownBlock, "edge source %d", fromID)
	}
	to, ok := g.blocks[toID]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownBlock, "edge destination %d", toID)
	}
	e := &Edge{from: from, to: to}
	from.outEdges = append(from.outEdges, to)
	to.inEdges = append(to.inEdges, from)
	g.edges = append(g.edges, e)
	return e, nil
}

// Start returns the start node, or nil for an empty graph.
func (g *Graph) Start() *BasicBlock { return g.start }

// NumNodes returns the number of registered blocks.
func (g *Graph) NumNodes() int { return len(g.order) }

// NumEdges returns the number of created edges.
func (g *Graph) NumEdges() int { return len(g.edges) }

// Blocks returns all blocks in registration order.
func (g *Graph) Blocks() []*BasicBlock { return g.order }

// Edges returns all edges in creation order.
func (g *Graph) Edges() []*Edge { return g.edges }

// Dump writes a plain-text adjacency listing of the graph.
func (g *Graph) Dump(w io.Writer) {
	for _, b := range g.order {
		fmt.Fprintf(w, "%s: in=%v out=%v\n", b, b.inEdges, b.outEdges)
	}
}
