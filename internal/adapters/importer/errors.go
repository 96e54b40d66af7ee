package importer

import "errors"

// Sentinel import errors.
var (
	ErrInvalidWorkbook = errors.New("invalid workbook")
	ErrMissingColumn   = errors.New("missing column")
	ErrInvalidRow      = errors.New("invalid row")
	ErrNoSeries        = errors.New("series name required")
)
