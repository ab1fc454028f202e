package openbp

import "errors"

var (
	// ErrNilNode is returned when a nil node is passed to a Coordinator
	// operation.
	ErrNilNode = errors.New("openbp: nil node")

	// ErrEmptyDecisions is returned by Expand when the branching rule
	// produced no decisions: the parent would stay open forever with no way
	// to make progress on it.
	ErrEmptyDecisions = errors.New("openbp: empty decision list")

	// ErrNoCheckpointManager is returned by Checkpoint when the Coordinator
	// was built without one.
	ErrNoCheckpointManager = errors.New("openbp: no checkpoint manager configured")
)
