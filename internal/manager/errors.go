package manager

import "errors"

var (
	// ErrNotFound reports an operation against an id that is not in the
	// relevant collection.
	ErrNotFound = errors.New("not found")

	// ErrInvalidReference reports a subtask pointing at a missing epic or
	// at itself.
	ErrInvalidReference = errors.New("invalid epic reference")

	// ErrTimeConflict reports a scheduled interval overlapping an existing
	// scheduled entity.
	ErrTimeConflict = errors.New("time conflict with an existing scheduled task")
)
