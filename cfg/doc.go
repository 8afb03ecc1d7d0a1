// Package cfg provides a minimal control-flow graph container for loop
// analysis.
//
// A Graph is a set of BasicBlocks identified by integer id, connected by
// directed Edges. The graph is append-only: blocks and edges can be added
// but never removed, and the start node is fixed to the first block ever
// registered. This is all the loop finder needs, and keeping the container
// write-once makes a single analysis run a pure function of construction
// order.
package cfg
