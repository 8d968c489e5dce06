package engine

import (
	"errors"
	"fmt"
)

// ErrInvalidImageFormat reports input that is not a supported image.
// Unlike engine failures, this is a caller error and surfaces hard.
var ErrInvalidImageFormat = errors.New("invalid image format")

// EngineError wraps a failure inside the recognition engine itself.
type EngineError struct {
	Op  string
	Err error
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("recognition engine error in %s: %v", e.Op, e.Err)
}

func (e *EngineError) Unwrap() error { return e.Err }
