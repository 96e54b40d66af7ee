package repository

import "errors"

// Sentinel kinds for registry errors.
var (
	ErrNotFound  = errors.New("school not found")
	ErrInvalidID = errors.New("invalid school id")
	ErrCorrupt   = errors.New("corrupt school record")
	ErrClosed    = errors.New("store closed")
)
