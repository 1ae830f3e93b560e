package domain

import "errors"

// Sentinel errors shared across layers. Check with errors.Is.
var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrStoreNotFound       = errors.New("store not found")
	ErrProductNotFound     = errors.New("product not found")
	ErrLimitExceeded       = errors.New("plan limit exceeded")
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	ErrUnauthorized        = errors.New("unauthorized")
)
