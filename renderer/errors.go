package renderer

import "errors"

var (
	ErrMissingScene   = errors.New("renderer: no scene attached")
	ErrInvalidOptions = errors.New("renderer: invalid options")
	ErrShapeMismatch  = errors.New("renderer: mismatched dimensions")
)
