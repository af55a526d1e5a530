package scene

import "errors"

var (
	ErrDegenerateBounds = errors.New("scene: bounding box must have positive extent on every axis")
	ErrInvalidConfig    = errors.New("scene: invalid configuration")
	ErrBadCheckpoint    = errors.New("scene: malformed checkpoint")
)
