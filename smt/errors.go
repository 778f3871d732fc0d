package smt

import "github.com/pkg/errors"

// Error kinds of the formula layer. Callers match them with errors.Is; the
// concrete messages carry the operation context.
var (
	// ErrUnsupportedTheory is returned when a whole theory (integers,
	// bitvectors, arrays, ...) is missing from a backend.
	ErrUnsupportedTheory = errors.New("theory is not supported by this solver")

	// ErrUnsupportedOperation is returned when a backend supports the theory
	// but not the specific operation or term shape.
	ErrUnsupportedOperation = errors.New("operation is not supported by this solver")

	// ErrInvalidArgument marks malformed input detected before any backend
	// call. It is always a caller bug and never retried.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInterrupted signals cooperative cancellation of a long-running
	// operation.
	ErrInterrupted = errors.New("interrupted")
)

// ErrNonLinearArithmetic is what numeral backends return from their NonLinear*
// primitives when the solver cannot express non-linear terms.
var ErrNonLinearArithmetic = errors.Wrap(ErrUnsupportedOperation,
	"the used solver does not support non-linear arithmetic")

func errInvalidf(format string, args ...any) error {
	return errors.Wrapf(ErrInvalidArgument, format, args...)
}
