// Package errors defines the compiler core's error surface: a tagged union
// of the compile-error kinds a caller outside this core (the file-reading,
// option-parsing driver) enriches with source-file context and renders.
//
// Grounded on a Rust compiler core's CompileErrorInner enum, re-expressed
// as a Go interface implemented by one concrete type per kind, and on
// vck3000-gnark/frontend/compile.go's plain fmt.Errorf/%w wrapping style
// (no error-chain library beyond the standard library).
package errors

import "fmt"

// Kind tags which stage/reason produced a CompileErrorInner.
type Kind string

const (
	KindParse    Kind = "parse"
	KindImport   Kind = "import"
	KindMacro    Kind = "macro"
	KindSemantic Kind = "semantic"
	KindRead     Kind = "read"
	KindAnalysis Kind = "analysis"
	// KindInternal tags InternalError: an invariant violation inside this
	// core itself rather than a defect in the compiled input. Not one of
	// the upstream kinds, which describe errors the parser/importer/
	// macro-expander/semantic-checker produce; added here because the core
	// needs to surface its own internal failures distinctly.
	KindInternal Kind = "internal"
)

// CompileErrorInner is the tagged-union interface every core error
// implements: a Kind for machine dispatch and a file path for diagnostics.
// The outer driver (out of scope for this core) decorates these with
// surrounding source context before rendering them to a user.
type CompileErrorInner interface {
	error
	Kind() Kind
	File() string
}

// FlattenError reports a well-typed program that cannot be reduced to R1CS
// under the current Config — e.g. a division by the constant zero, an
// undefined variable, an unknown embedded gadget, or an embedded-gadget call
// with a mismatched argument count. A non-constant divisor never produces
// one: under IsolateBranches it is gated rather than rejected.
type FlattenError struct {
	Path    string
	Message string
}

var _ CompileErrorInner = FlattenError{}

func (e FlattenError) Kind() Kind    { return KindSemantic }
func (e FlattenError) File() string  { return e.Path }
func (e FlattenError) Error() string { return fmt.Sprintf("%s: %s", e.Path, e.Message) }

// AnalysisError reports the unconstrained-variable detector's verdict: N
// witness-only variables that never appear inside a Constraint. Fatal unless
// Config.AllowUnconstrainedVariables is set.
type AnalysisError struct {
	Path  string
	Count int
}

var _ CompileErrorInner = AnalysisError{}

func (e AnalysisError) Kind() Kind   { return KindAnalysis }
func (e AnalysisError) File() string { return e.Path }

func (e AnalysisError) Error() string {
	return fmt.Sprintf("%s: found %d occurrence(s) of unconstrained variables", e.Path, e.Count)
}

// InternalError signals an invariant violation inside the optimizer or a
// gadget synthesizer: a programming bug, never something user input alone
// should trigger. A Directive's Solver invoked on statically-constant,
// optimizer-derived inputs that nonetheless fails (see
// optimizer.RedefinitionOptimizer) surfaces as one of these rather than a
// panic.
type InternalError struct {
	Path    string
	Message string
	Cause   error
}

var _ CompileErrorInner = InternalError{}

func (e InternalError) Kind() Kind   { return KindInternal }
func (e InternalError) File() string { return e.Path }

func (e InternalError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: internal error: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: internal error: %s", e.Path, e.Message)
}

func (e InternalError) Unwrap() error { return e.Cause }
