package tracer

import "errors"

var (
	// ErrInvalidFace is returned when a face identifier is not one of
	// x, y, z, -x, -y or -z.
	ErrInvalidFace = errors.New("tracer: invalid cube face identifier")

	// ErrShapeMismatch is returned when parallel sample slices disagree
	// about their length.
	ErrShapeMismatch = errors.New("tracer: mismatched sample dimensions")
)
