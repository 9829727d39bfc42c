// Package compiler wires the compilation pipeline — flatten, then optimize,
// then analyze — into a single entry point, and supplies the ambient
// logging/option/error-wrapping machinery a complete compiler needs around
// that core.
//
// Grounded on vck3000-gnark/frontend/compile.go's Compile/compile split: an
// outer function that applies functional options and wraps errors with
// fmt.Errorf("...: %w", ...), and an inner function that does the real work
// and stays unit-testable without the option machinery. Stage-transition
// logging uses github.com/rs/zerolog, the same library
// vck3000-gnark's own builder code logs through.
package compiler

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/johnnydotdev/zokrates-go/analysis"
	coreerrors "github.com/johnnydotdev/zokrates-go/errors"
	"github.com/johnnydotdev/zokrates-go/frontend"
	"github.com/johnnydotdev/zokrates-go/ir"
	"github.com/johnnydotdev/zokrates-go/ir/bn254"
	"github.com/johnnydotdev/zokrates-go/optimizer"
	"github.com/johnnydotdev/zokrates-go/typedast"
)

// defaultField is BN254, the only concrete ir.Field this repo ships.
func defaultField() ir.Field { return bn254.Field{} }

// CompilationArtifacts is the pipeline's output: the optimized, analyzed
// Prog plus an Abi slot. Compile takes no Abi input and never sets the
// field, so artifacts returned by Compile carry the zero Abi.
type CompilationArtifacts struct {
	Prog ir.Prog
	Abi  ir.Abi
}

// CompileOption configures a single Compile call, in the functional-options
// style of vck3000-gnark/frontend/compile.go's CompileOption/WithCapacity.
type CompileOption func(*options) error

type options struct {
	path   string
	logger zerolog.Logger
}

// WithPath attaches the source file path surfaced in any CompileErrorInner
// this run produces.
func WithPath(path string) CompileOption {
	return func(o *options) error {
		o.path = path
		return nil
	}
}

// WithLogger overrides the zerolog.Logger used for stage-transition
// breadcrumbs; the default is the package-level github.com/rs/zerolog/log
// logger.
func WithLogger(l zerolog.Logger) CompileOption {
	return func(o *options) error {
		o.logger = l
		return nil
	}
}

// Compile runs prog through flatten -> optimize -> analyze under cfg,
// applying opts first. Errors from any stage are wrapped with the stage
// name via fmt.Errorf's %w, the same plain-wrapping style
// vck3000-gnark/frontend/compile.go uses; the underlying
// coreerrors.CompileErrorInner is always still reachable via errors.As.
func Compile(prog *typedast.Program, cfg typedast.Config, opts ...CompileOption) (*CompilationArtifacts, error) {
	o := options{path: "<main>", logger: log.Logger}
	for _, apply := range opts {
		if err := apply(&o); err != nil {
			return nil, fmt.Errorf("apply compile option: %w", err)
		}
	}

	artifacts, err := compile(prog, cfg, &o)
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", o.path, err)
	}
	return artifacts, nil
}

func compile(prog *typedast.Program, cfg typedast.Config, o *options) (*CompilationArtifacts, error) {
	field := defaultField()

	o.logger.Debug().Str("stage", "flatten").Msg("lowering typed program to IR")
	flat, err := frontend.Flatten(field, prog, cfg, o.path)
	if err != nil {
		return nil, err
	}

	o.logger.Debug().Str("stage", "optimize").Int("statements", len(flat.Main.Statements)).Msg("running redefinition optimizer")
	optimized, err := optimizer.Optimize(field, flat, o.path)
	if err != nil {
		return nil, err
	}

	o.logger.Debug().Str("stage", "analyze").Msg("checking for unconstrained variables")
	if n, ok := analysis.Check(optimized); !ok {
		if !cfg.AllowUnconstrainedVariables {
			return nil, coreerrors.AnalysisError{Path: o.path, Count: n}
		}
		o.logger.Debug().Int("count", n).Msg("ignoring unconstrained variables per config")
	}

	return &CompilationArtifacts{Prog: optimized}, nil
}
