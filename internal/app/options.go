package service

import (
	"time"

	"github.com/okian/mockstats/internal/adapters/repository"
	"github.com/okian/mockstats/internal/domain/model"
	"github.com/okian/mockstats/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the registry backend.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithDefaults sets the settings that fill gaps in uploaded datasets.
func WithDefaults(settings model.Settings) Option {
	return func(s *Service) {
		s.defaults = settings
	}
}

// WithRollupWorkers bounds concurrent school evaluation in network reports.
func WithRollupWorkers(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.rollupWorkers = n
		}
	}
}

// WithClock overrides the time source used for commit timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator overrides how commit IDs are minted.
func WithIDGenerator(gen func() string) Option {
	return func(s *Service) {
		if gen != nil {
			s.newID = gen
		}
	}
}
