package maps

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrInvalidInput = errors.New("invalid provider input")
	ErrNotFound     = errors.New("no result from provider")
	ErrUpstream     = errors.New("provider request failed")
	ErrCanceled     = errors.New("provider request canceled")
)

// Provider names carried by errors so callers can tell which leg failed.
const (
	ProviderOpenCage     = "opencage"
	ProviderOSRM         = "osrm"
	ProviderGoogleGeo    = "google-geocoding"
	ProviderGoogleRoutes = "google-directions"
)

// NotFoundError reports a well-formed provider response with zero results.
// Subject is the address or coordinate pair that was asked for.
type NotFoundError struct {
	Provider string
	Subject  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: no result for %q", e.Provider, e.Subject)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// UpstreamError wraps transport failures, non-2xx statuses and malformed bodies.
type UpstreamError struct {
	Provider string
	Err      error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %v", e.Provider, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

func (e *UpstreamError) Is(target error) bool { return target == ErrUpstream }

// callError classifies a failed provider call. A call that failed because
// ctx ended is a cancellation, not an upstream fault.
func callError(ctx context.Context, provider string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%w: %s: %w", ErrCanceled, provider, ctxErr)
	}
	return &UpstreamError{Provider: provider, Err: err}
}
