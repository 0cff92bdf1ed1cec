package domain

import "errors"

// Terminal pipeline errors. Stages wrap them with context; match with errors.Is.
var (
	ErrDataUnavailable    = errors.New("data unavailable")
	ErrSchemaMismatch     = errors.New("schema mismatch")
	ErrEmptyGroup         = errors.New("empty group")
	ErrFrameCountMismatch = errors.New("frame count mismatch")
	ErrOutputWriteFailed  = errors.New("output write failed")
)
