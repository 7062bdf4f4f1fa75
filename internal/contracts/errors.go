package contracts

import (
	"errors"
	"fmt"
)

var (
	// ErrBadInput marks a required identifier missing from the request
	ErrBadInput = errors.New("bad input")

	// ErrInvalidEntity marks an upstream that answered but has no record
	ErrInvalidEntity = errors.New("invalid entity")
)

// MissingField returns an ErrBadInput naming the absent field
func MissingField(field string) error {
	return fmt.Errorf("%w: %s is required", ErrBadInput, field)
}

// UpstreamError is a transport or status failure from an upstream source.
// StatusCode is zero when no response was received (timeout, refused,
// undecodable body).
type UpstreamError struct {
	Source     string
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Err != nil:
		return fmt.Sprintf("%s: upstream status %d: %v", e.Source, e.StatusCode, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s: upstream status %d", e.Source, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("%s: upstream request failed: %v", e.Source, e.Err)
	default:
		return fmt.Sprintf("%s: upstream request failed", e.Source)
	}
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// UpstreamStatus extracts the upstream HTTP status from err, if any
func UpstreamStatus(err error) (int, bool) {
	var upErr *UpstreamError
	if errors.As(err, &upErr) && upErr.StatusCode != 0 {
		return upErr.StatusCode, true
	}
	return 0, false
}
