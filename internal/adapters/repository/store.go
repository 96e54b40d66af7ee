// Package repository persists the school registry.
package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/okian/mockstats/internal/domain/model"
)

// Store provides read/write access to registered schools.
type Store interface {
	// GetSchool returns the school with the given ID.
	// Returns ErrNotFound if the school is unknown.
	GetSchool(ctx context.Context, id string) (model.SchoolRegistryEntry, error)

	// PutSchool inserts or replaces a school.
	PutSchool(ctx context.Context, entry model.SchoolRegistryEntry) error

	// ListSchools returns every school ordered by ID.
	ListSchools(ctx context.Context) ([]model.SchoolRegistryEntry, error)

	// DeleteSchool removes a school. Returns ErrNotFound if it is unknown.
	DeleteSchool(ctx context.Context, id string) error

	// Count returns the number of registered schools.
	Count(ctx context.Context) int

	// Close releases backend resources.
	Close() error
}

// Both backends keep entries encoded so callers never share maps or
// slices with stored state.
func encode(entry model.SchoolRegistryEntry) ([]byte, error) {
	b, err := json.Marshal(entry)
	if err != nil {
		return nil, fmt.Errorf("%w: encode %s: %w", ErrCorrupt, entry.ID, err)
	}
	return b, nil
}

func decode(b []byte) (model.SchoolRegistryEntry, error) {
	var entry model.SchoolRegistryEntry
	if err := json.Unmarshal(b, &entry); err != nil {
		return model.SchoolRegistryEntry{}, fmt.Errorf("%w: decode: %w", ErrCorrupt, err)
	}
	return entry, nil
}
