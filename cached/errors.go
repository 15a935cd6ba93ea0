package cached

import "errors"

var (
	errNoInner    = errors.New("cached: inner codec is required")
	errNoProvider = errors.New("cached: provider is required")
)
