// Package loop computes the loop-nesting structure of a control-flow graph.
//
// The finder is a single pass over depth-first-numbered blocks derived from
// Tarjan's interval analysis as extended by Havlak: backedges are classified
// with an O(1) preorder/last-descendant ancestor test, and strongly
// connected regions are collapsed through a union-find structure while the
// pass walks headers in reverse preorder. Nested loops are therefore
// finalised before their enclosing loops, and regions with entry paths that
// bypass the header are recognised as irreducible.
//
// The result is a Forest of Loop records rooted at a synthetic root loop.
// A Forest is populated by exactly one FindLoops run and is read-only
// afterwards; its Checksum is a deterministic function of the discovered
// structure and serves as the cross-implementation correctness oracle.
package loop
