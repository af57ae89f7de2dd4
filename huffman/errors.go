package huffman

import "errors"

var (
	// ErrEmptyInput is returned when there is nothing to compress.
	ErrEmptyInput = errors.New("empty input")

	// ErrMalformedContainer is returned when the header or the tree of a
	// container is inconsistent with the bytes available.
	ErrMalformedContainer = errors.New("malformed container")

	// ErrTruncatedStream is returned when the payload ends in the middle of a code.
	ErrTruncatedStream = errors.New("truncated stream")

	// ErrInternalConsistency signals a bug, never a user error.
	ErrInternalConsistency = errors.New("internal consistency failure")

	// ErrSentinelCollision is returned by the plain tree format when the input
	// contains the byte used to mark internal nodes.
	ErrSentinelCollision = errors.New("input contains the internal node sentinel")
)
