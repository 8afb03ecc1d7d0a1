// Package ssacfg bridges Go source code to the cfg graph model.
//
// The package builds SSA IR with golang.org/x/tools and mirrors the basic
// block graph of any SSA function into a cfg.Graph, so the loop finder can
// run over the control flow of real programs rather than synthetic graphs.
//
// There are two ways of building the SSA IR:
//
// Build from a list of source files
//
// The normal usage, where the files (usually command line arguments) are
// considered part of the same package.
//
// Build from a Reader
//
// Mostly for testing and demos, where the source code is read from an
// io.Reader.
package ssacfg
