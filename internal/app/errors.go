package service

import (
	"errors"

	"github.com/okian/mockstats/internal/adapters/repository"
)

// Sentinel errors returned by the service.
var (
	ErrSchoolNotFound  = repository.ErrNotFound
	ErrInvalidDataset  = errors.New("invalid dataset")
	ErrSeriesEmpty     = errors.New("no series selected")
	ErrStudentNotFound = errors.New("student not found")
	ErrNoTrend         = errors.New("no committed series to compare with")
	ErrSeriesCommitted = errors.New("series already committed")
)
