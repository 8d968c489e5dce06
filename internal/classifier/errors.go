package classifier

import (
	"errors"
	"fmt"
)

// ErrNotTrained reports classification before any training. This is a
// deployment/ordering bug rather than bad input, so it surfaces hard.
var ErrNotTrained = errors.New("classifier: model not trained")

// InvalidCategoryError reports a training-example add against a key
// outside the fixed taxonomy.
type InvalidCategoryError struct {
	Key string
}

func (e *InvalidCategoryError) Error() string {
	return fmt.Sprintf("classifier: invalid category %q", e.Key)
}

// UnsupportedVersionError reports a persisted model file written by an
// incompatible format version.
type UnsupportedVersionError struct {
	Version int
}

func (e *UnsupportedVersionError) Error() string {
	return fmt.Sprintf("classifier: unsupported model file version %d", e.Version)
}
