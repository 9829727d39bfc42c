package ir

// Solver is a non-deterministic, prover-side computation attached to a
// Directive: given the values of its declared inputs it produces the values
// of its declared outputs. A Solver never appears on the verifier's side of
// the system and is never itself constrained; the R1CS constraints that sit
// alongside a Directive are what the verifier actually checks.
//
// Solver must be a pure function of its inputs. The redefinition optimizer
// is allowed to invoke it at compile time when every input reduces to a
// constant, folding the directive away entirely.
type Solver interface {
	// Name identifies the solver kind for logging and error messages
	// ("bits", "sha256_round", "condition_eq").
	Name() string
	// NumOutputs returns how many Elements Solve produces. It takes no
	// argument: the count is fixed by the solver value itself (Bits, for
	// example, is parameterized by width and accepts exactly one input).
	NumOutputs() int
	// Solve computes the outputs from the inputs. len(inputs) and the
	// returned slice's length must match what the Directive declares.
	Solve(f Field, inputs []Element) ([]Element, error)
}
