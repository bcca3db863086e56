package planner

import "errors"

// Error taxonomy per spec.md §7. UnificationFailure and MatchFailure are
// not represented as errors at all: they surface as an empty result
// sequence, following the "branch failures are silent" recovery policy.
var (
	// ErrUnboundInFunction is fatal during matching: a computable atom
	// became eligible for evaluation but one of its variables was
	// unbound, indicating a malformed operator or pattern.
	ErrUnboundInFunction = errors.New("planner: unbound variable in computable term")

	// ErrBadArity is raised by a callable invoked with the wrong number
	// of arguments.
	ErrBadArity = errors.New("planner: computable term called with wrong arity")

	// ErrNonCallableHead names the case of a term treated as computable
	// whose head is not a registered callable. No function in this
	// package returns it: IsComputable only classifies a compound as
	// computable when its head is a *Callable.
	ErrNonCallableHead = errors.New("planner: compound head is not callable")

	// ErrInvalidOperator is a constructor-time error: a computable
	// precondition references a variable not in determined_vars.
	ErrInvalidOperator = errors.New("planner: invalid operator")

	// ErrNoPlanFound is surfaced by a search driver that exhausts its
	// search with no solution. The core itself never returns this; it is
	// defined here so drivers built against this package share one
	// sentinel.
	ErrNoPlanFound = errors.New("planner: no plan found")

	// ErrUserCallable wraps an error returned by a user-registered
	// callable; a panic inside a callable is not recovered. Such errors are fatal: they abort the
	// search rather than pruning a branch, except where the "or" head's
	// short-circuit swallows them.
	ErrUserCallable = errors.New("planner: user callable error")
)
