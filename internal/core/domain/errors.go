package domain

import (
	"errors"
	"fmt"
)

// ErrCatalogNotLoaded is returned when an operation needs a snapshot before one was loaded
var ErrCatalogNotLoaded = errors.New("catalog not loaded")

// ValidationError describes a record rejected while loading a catalog
type ValidationError struct {
	Index   int    // position of the record in the source, zero-based
	Product string // may be empty when the product itself is missing
	Field   string
	Reason  string
}

func (e *ValidationError) Error() string {
	who := fmt.Sprintf("record %d", e.Index+1)
	if e.Product != "" {
		who = fmt.Sprintf("%s (%s)", who, e.Product)
	}
	return fmt.Sprintf("%s: %s %s", who, e.Field, e.Reason)
}

// TransportError reports a failed request or contact submission.
// It is recoverable: catalog state is never affected.
type TransportError struct {
	Endpoint   string
	StatusCode int // zero when the request never got a response
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("submission to %s failed with status %d: %v", e.Endpoint, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("submission to %s failed: %v", e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ValidationErrors extracts every *ValidationError from a (possibly joined) error
func ValidationErrors(err error) []*ValidationError {
	if err == nil {
		return nil
	}
	var out []*ValidationError
	var walk func(error)
	walk = func(e error) {
		if ve, ok := e.(*ValidationError); ok {
			out = append(out, ve)
			return
		}
		switch u := e.(type) {
		case interface{ Unwrap() []error }:
			for _, inner := range u.Unwrap() {
				walk(inner)
			}
		case interface{ Unwrap() error }:
			if inner := u.Unwrap(); inner != nil {
				walk(inner)
			}
		}
	}
	walk(err)
	return out
}
