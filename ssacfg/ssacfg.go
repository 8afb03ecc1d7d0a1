package ssacfg

import (
	"fmt"
	"sort"

	"golang.org/x/tools/go/ssa"

	"github.com/cfgbench/loopnest/cfg"
)

// FromFunction mirrors the basic block graph of an SSA function into a
// cfg.Graph. Block ids are the SSA block indices, so the entry block
// (index 0) is registered first and becomes the start node. Functions
// without a body produce an empty graph.
func FromFunction(fn *ssa.Function) *cfg.Graph {
	g := cfg.NewGraph()
	for _, b := range fn.Blocks {
		g.CreateNode(blockLabel(fn, b), b.Index)
	}
	for _, b := range fn.Blocks {
		for _, succ := range b.Succs {
			// Both endpoints are registered above; an error here would
			// mean the SSA block graph itself is inconsistent.
			if _, err := cfg.NewEdge(g, b.Index, succ.Index); err != nil {
				panic(err)
			}
		}
	}
	return g
}

// blockLabel names a block after its function, index and SSA comment,
// e.g. "main#1.for.loop".
func blockLabel(fn *ssa.Function, b *ssa.BasicBlock) string {
	if b.Comment == "" {
		return fmt.Sprintf("%s#%d", fn.Name(), b.Index)
	}
	return fmt.Sprintf("%s#%d.%s", fn.Name(), b.Index, b.Comment)
}

// SourceFunctions returns the functions of the build's initial packages
// that have a body, including anonymous functions, ordered by their full
// name for deterministic iteration.
func (info *Info) SourceFunctions() []*ssa.Function {
	var fns []*ssa.Function
	for _, pkgInfo := range info.LProg.InitialPackages() {
		pkg := info.Prog.Package(pkgInfo.Pkg)
		if pkg == nil {
			continue
		}
		for _, member := range pkg.Members {
			if fn, ok := member.(*ssa.Function); ok {
				fns = appendWithAnons(fns, fn)
			}
		}
	}
	sort.Slice(fns, func(i, j int) bool {
		return fns[i].String() < fns[j].String()
	})
	return fns
}

func appendWithAnons(fns []*ssa.Function, fn *ssa.Function) []*ssa.Function {
	if len(fn.Blocks) == 0 {
		return fns
	}
	fns = append(fns, fn)
	for _, anon := range fn.AnonFuncs {
		fns = appendWithAnons(fns, anon)
	}
	return fns
}
