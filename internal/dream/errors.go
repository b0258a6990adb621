package dream

import (
	"errors"
	"strings"
)

var (
	ErrNotFound         = errors.New("dream not found")
	ErrRateLimited      = errors.New("too many requests. Please wait before submitting another dream")
	ErrStoreUnavailable = errors.New("store unavailable")
)

// ValidationError lists every rule the input violated.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Problems, ", ")
}

func (e *ValidationError) add(msg string) {
	e.Problems = append(e.Problems, msg)
}

// err returns nil when nothing was recorded.
func (e *ValidationError) err() error {
	if len(e.Problems) == 0 {
		return nil
	}
	return e
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
