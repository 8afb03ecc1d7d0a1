package ssacfg

import (
	"fmt"
	"go/build"
	"go/token"
	"io"
	"io/ioutil"
	"log"

	"github.com/pkg/errors"
	"golang.org/x/tools/go/loader"
	"golang.org/x/tools/go/ssa"
	"golang.org/x/tools/go/ssa/ssautil"
)

// Info holds the results of an SSA build.
type Info struct {
	IgnoredPkgs []string // Packages skipped during the build.

	FSet  *token.FileSet  // FileSet for parsed source files.
	Prog  *ssa.Program    // SSA IR for the whole program.
	LProg *loader.Program // Loaded program from go/loader.
}

// Builder builds SSA IR for analysis.
type Builder interface {
	Build() (*Info, error)
}

// Configurer is a Builder whose build can be customised before running.
type Configurer interface {
	Builder
	Default() Configurer
	AddBadPkg(pkg, reason string) Configurer
	WithBuildLog(w io.Writer, flags int) Configurer
}

// FromFiles returns a build configuration for a slice of filenames,
// considered part of the same package.
func FromFiles(files []string) Configurer {
	return newConfig(files, nil)
}

// FromReader returns a build configuration for source code read from r.
// This is mostly used for testing and demos.
func FromReader(r io.Reader) Configurer {
	b, err := ioutil.ReadAll(r)
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to read from reader"))
	}
	return newConfig(nil, b)
}

// Config represents a build configuration.
type Config struct {
	badPkgs map[string]string

	bldLog    io.Writer
	bldLFlags int

	files  []string // source files, or
	cached []byte   // in-memory source text
}

func newConfig(files []string, cached []byte) *Config {
	return &Config{
		badPkgs:   make(map[string]string),
		bldLog:    ioutil.Discard,
		bldLFlags: log.LstdFlags,
		files:     files,
		cached:    cached,
	}
}

// WithBuildLog adds a build log to the config.
func (c *Config) WithBuildLog(w io.Writer, flags int) Configurer {
	c.bldLog = w
	c.bldLFlags = flags
	return c
}

// AddBadPkg marks a package 'bad' to avoid building it.
func (c *Config) AddBadPkg(pkg, reason string) Configurer {
	c.badPkgs[pkg] = reason
	return c
}

// Default returns a default configuration for static analysis.
func (c *Config) Default() Configurer {
	return c.
		AddBadPkg("reflect", "Reflection is not supported").
		AddBadPkg("runtime", "Runtime is ignored for static analysis")
}

// Build loads, type-checks and converts the configured source to SSA.
func (c *Config) Build() (*Info, error) {
	lconf := loader.Config{Build: &build.Default}
	bldLog := log.New(c.bldLog, "ssabuild: ", c.bldLFlags)

	if c.files != nil {
		args, err := lconf.FromArgs(c.files, false /* No tests */)
		if err != nil {
			return nil, err
		}
		if len(args) > 0 {
			return nil, fmt.Errorf("surplus arguments: %q", args)
		}
	} else {
		parsed, err := lconf.ParseFile("src.go", c.cached)
		if err != nil {
			return nil, err
		}
		lconf.CreateFromFiles("", parsed)
	}

	lprog, err := lconf.Load()
	if err != nil {
		return nil, err
	}
	bldLog.Print("Program loaded and type checked")

	prog := ssautil.CreateProgram(lprog, ssa.GlobalDebug|ssa.BareInits)
	var ignoredPkgs []string
	if len(c.badPkgs) == 0 {
		prog.Build()
	} else {
		for _, info := range lprog.AllPackages {
			if reason, bad := c.badPkgs[info.Pkg.Name()]; bad {
				bldLog.Printf("Skip package: %s (%s)", info.Pkg.Name(), reason)
				ignoredPkgs = append(ignoredPkgs, info.Pkg.Name())
			} else {
				prog.Package(info.Pkg).Build()
			}
		}
	}

	return &Info{
		IgnoredPkgs: ignoredPkgs,
		FSet:        lprog.Fset,
		Prog:        prog,
		LProg:       lprog,
	}, nil
}
