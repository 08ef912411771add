package wizard

import "errors"

var (
	// ErrNotReady is returned by Next when the step's required inputs are absent.
	// The wizard state is left untouched.
	ErrNotReady = errors.New("wizard: step inputs incomplete")

	// ErrInvalid is returned by Next when the step's schema rejected the inputs.
	ErrInvalid = errors.New("wizard: step inputs invalid")

	// ErrTerminal is returned by Next on a display-only result step.
	ErrTerminal = errors.New("wizard: already at final step")

	// ErrFieldLocked is returned by Edit for fields the current step does not own.
	ErrFieldLocked = errors.New("wizard: field not editable on this step")

	// ErrFlowMismatch is returned when resuming state saved by another flow.
	ErrFlowMismatch = errors.New("wizard: state belongs to another flow")
)
