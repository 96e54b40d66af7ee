package api

import "errors"

// Sentinel kinds for API errors.
var (
	ErrBadRequest = errors.New("bad request")
	ErrIDMismatch = errors.New("path id does not match body id")
)
