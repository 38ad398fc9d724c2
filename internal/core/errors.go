package core

import "errors"

var (
	ErrNotFound             = errors.New("not found")
	ErrInvalidInput         = errors.New("invalid input")
	ErrDuplicate            = errors.New("duplicate")
	ErrCalendarUnauthorized = errors.New("calendar authorization insufficient")
	ErrUpstreamUnavailable  = errors.New("upstream unavailable")
)
