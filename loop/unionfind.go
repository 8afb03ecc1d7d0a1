package loop

import "github.com/cfgbench/loopnest/cfg"

// UnionFindNode is the per-block disjoint-set element used to collapse
// discovered loop bodies into a single representative. Parent links form a
// forest consulted only through Find/Union; the wrapped graph block is never
// reassigned.
type UnionFindNode struct {
	parent    *UnionFindNode
	block     *cfg.BasicBlock
	dfsNumber int
	loop      *Loop
}

// Init makes the node a singleton set wrapping block.
func (n *UnionFindNode) Init(block *cfg.BasicBlock, dfsNumber int) {
	n.parent = n
	n.block = block
	n.dfsNumber = dfsNumber
	n.loop = nil
}

// Find returns the canonical representative of the node's set.
//
// This is the one-pass selective compression from Havlak's paper: while
// walking to the root, every node whose parent is not already the root's
// immediate child (parent != grandparent) is collected, then repointed
// straight at the root. Chains that are already flat are left untouched.
func (n *UnionFindNode) Find() *UnionFindNode {
	node := n
	var compress []*UnionFindNode
	for node.parent != node {
		if node.parent != node.parent.parent {
			compress = append(compress, node)
		}
		node = node.parent
	}
	for _, c := range compress {
		c.parent = node
	}
	return node
}

// Union merges this node's set into other's.
// There is no rank heuristic: the finder always unions into the
// representative of the newly discovered loop header, which keeps chains
// shallow for this algorithm's access pattern.
func (n *UnionFindNode) Union(other *UnionFindNode) {
	n.parent = other
}

// Block returns the wrapped basic block.
func (n *UnionFindNode) Block() *cfg.BasicBlock { return n.block }

// DFSNumber returns the preorder number assigned during numbering.
func (n *UnionFindNode) DFSNumber() int { return n.dfsNumber }

// Loop returns the loop this node was folded into, or nil.
func (n *UnionFindNode) Loop() *Loop { return n.loop }

// SetLoop records the owning loop. Written once, when the loop headed by
// this node's block is materialised.
func (n *UnionFindNode) SetLoop(l *Loop) { n.loop = l }
