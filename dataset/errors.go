package dataset

import "errors"

var (
	// ErrInvalidParameter reports a malformed generator configuration.
	ErrInvalidParameter = errors.New("invalid parameter")
	// ErrPreconditionViolation reports use of a dataset the caller does not
	// own, e.g. one taken from a batch that was already torn down.
	ErrPreconditionViolation = errors.New("precondition violation")
	// ErrSnapshotCorrupt reports a snapshot stream that cannot be decoded.
	ErrSnapshotCorrupt = errors.New("corrupted dataset snapshot")
)
