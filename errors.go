package chromakey

import "errors"

var (
	// ErrDimensionMismatch is returned when foreground, background and mask sizes disagree
	// or a buffer does not match its declared size.
	ErrDimensionMismatch = errors.New("dimension mismatch")
	// ErrInvalidParameter is returned for out of range keying, tone or pipeline settings.
	ErrInvalidParameter = errors.New("invalid parameter")
	// ErrEmptyBackgroundSource is returned when a pipeline is built without background frames.
	ErrEmptyBackgroundSource = errors.New("empty background source")
)
