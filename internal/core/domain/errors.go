package domain

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrEmptyBarcode    = errors.New("please enter a barcode")
	ErrNoProducts      = errors.New("no products found for this barcode")
	ErrInvalidResponse = errors.New("invalid response from products service")
	ErrSearchCanceled  = errors.New("search canceled")
	ErrSearchTimeout   = errors.New("search timed out")
)

// A StatusError reports a non-2xx response of the products endpoint.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("request failed with status %d", e.Code)
}

// Temporary reports whether the upstream may answer differently on a
// repeated request.
func (e *StatusError) Temporary() bool {
	return e.Code >= 500 || e.Code == 429
}

// FallbackErrorMessage is shown when a failure carries no text of its own.
const FallbackErrorMessage = "failed to fetch products"

// ErrorMessage returns the user-facing text for a failed search.
//
// Known failures map to their own message. Anything else is reported by
// its innermost cause, so operation prefixes and request URLs added on the
// way up stay in the logs.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	var se *StatusError
	switch {
	case errors.As(err, &se):
		return se.Error()
	case errors.Is(err, ErrNoProducts):
		return ErrNoProducts.Error()
	case errors.Is(err, ErrEmptyBarcode):
		return ErrEmptyBarcode.Error()
	case errors.Is(err, context.Canceled):
		return ErrSearchCanceled.Error()
	case errors.Is(err, context.DeadlineExceeded):
		return ErrSearchTimeout.Error()
	case errors.Is(err, ErrInvalidResponse):
		return ErrInvalidResponse.Error()
	}

	if msg := rootCause(err).Error(); msg != "" {
		return msg
	}
	return FallbackErrorMessage
}

func rootCause(err error) error {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err
		}
		err = next
	}
}
