package engine

import (
	"errors"
	"fmt"
)

// ErrMalformedPayload matches any MalformedPayloadError via errors.Is.
var ErrMalformedPayload = errors.New("malformed analysis payload")

// MalformedPayloadError is returned when a raw payload is not a structured
// object. It is the only error the normalizer produces.
type MalformedPayloadError struct {
	Reason string
	Err    error
}

func (e *MalformedPayloadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%v: %s: %v", ErrMalformedPayload, e.Reason, e.Err)
	}
	return fmt.Sprintf("%v: %s", ErrMalformedPayload, e.Reason)
}

func (e *MalformedPayloadError) Unwrap() error { return e.Err }

func (e *MalformedPayloadError) Is(target error) bool {
	return target == ErrMalformedPayload
}
