package utils

import "errors"

var (
	ErrPlaceNotFound       = errors.New("place not found")
	ErrAmbiguousMatch      = errors.New("ambiguous match")
	ErrDetailFetch         = errors.New("detail fetch failed")
	ErrProviderUnavailable = errors.New("search provider unavailable")
	ErrHoursUnparseable    = errors.New("opening hours unparseable")
	ErrInvalidInput        = errors.New("invalid input")
	ErrDatabaseError       = errors.New("database error")
)
