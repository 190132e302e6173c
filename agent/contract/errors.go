package contract

import "errors"

var (
	// ErrValidation marks bad or missing arguments. Recoverable: the reply
	// becomes a clarifying question or a corrective suggestion.
	ErrValidation = errors.New("validation failed")

	// ErrPrecondition marks a domain state that forbids the action, e.g.
	// cancelling a payment that is not pending. Surfaced as an explanatory
	// refusal, never a generic failure.
	ErrPrecondition = errors.New("precondition failed")

	// ErrTransient marks store or collaborator unavailability. The turn
	// fails closed and the caller may retry with backoff.
	ErrTransient = errors.New("transient infrastructure error")

	// ErrUnknownFunction means the model proposed a function that is not in
	// the registry. Logged as a model-quality signal.
	ErrUnknownFunction = errors.New("unknown function")

	ErrModelInvoke     = errors.New("model invoke failed")
	ErrSchemaViolation = errors.New("model response violates schema")
)
