package pipeline

import "errors"

var (
	// ErrShowMismatch indicates the release belongs to another show.
	ErrShowMismatch = errors.New("release belongs to another show")

	// ErrMatchingsMismatch indicates an update does not cover exactly the
	// release's file matchings.
	ErrMatchingsMismatch = errors.New("file matchings do not match the release")
)
