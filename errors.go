// errors.go: the error taxonomy of the limit engine.
//
// Three failure modes are kept distinct so callers (and the test suite) can
// tell them apart with errors.Is / errors.As:
//
//   - ErrUnsupported: the expression contains a node shape the algorithm
//     does not handle (multi-argument function, a power whose base may be
//     negative, ...). The limit is not computable by this engine; that is
//     not the same as "the limit does not exist".
//   - ErrExhausted: the recursion budget ran out. The Gruntz algorithm
//     terminates for finite exp/log towers, but the engine enforces an
//     explicit budget instead of trusting unbounded recursion.
//   - *InvariantError: an internal assertion failed (a leading coefficient
//     that was assumed nonzero evaluated to zero, a non-exponential in an
//     mrv set). This signals a defect in the engine, not a user error.
//
// *PoleError is recoverable: series expansion hit a singularity at the
// expansion point. The series layer retries with a recentered expansion
// where it can; only when no fallback applies does it surface.
package gruntz

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupported marks an expression the algorithm cannot classify.
	ErrUnsupported = errors.New("unsupported expression")

	// ErrExhausted marks a computation that exceeded the recursion budget.
	ErrExhausted = errors.New("recursion budget exhausted")
)

// PoleError reports a singularity met while expanding Expr around Point.
type PoleError struct {
	Expr  Expr
	Point Expr
}

func (p *PoleError) Error() string {
	return fmt.Sprintf("pole while expanding %s at %s", p.Expr, p.Point)
}

// InvariantError reports a violated internal assumption of the algorithm.
type InvariantError struct {
	Msg  string
	Expr Expr
}

func (e *InvariantError) Error() string {
	if e.Expr != nil {
		return fmt.Sprintf("internal invariant violated: %s: %s", e.Msg, e.Expr)
	}
	return "internal invariant violated: " + e.Msg
}

func unsupportedf(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, ErrUnsupported)...)
}

func invariantf(e Expr, format string, args ...interface{}) error {
	return &InvariantError{Msg: fmt.Sprintf(format, args...), Expr: e}
}
