// Package bench builds synthetic control-flow graphs and drives repeated
// loop-recognition runs over them.
//
// The generators compose three primitive CFG shapes (straight paths,
// diamonds and base loops) into graphs whose loop structure is known by
// construction, up to the large benchmark graph of parallel loop trees used
// to compare ports of the analysis. Graph shape and run counts come from a
// Profile, optionally loaded from a TOML file.
package bench
