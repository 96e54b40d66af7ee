package grading

import "github.com/okian/mockstats/internal/domain/model"

// Category labels.
const (
	Distinction  = "Distinction"
	Merit        = "Merit"
	Pass         = "Pass"
	Fail         = "Fail"
	Unclassified = "Unclassified"
)

// DefaultCategories returns the aggregate bands used when none are configured.
func DefaultCategories() []model.CategoryThreshold {
	return []model.CategoryThreshold{
		{Label: Distinction, Min: 6, Max: 15},
		{Label: Merit, Min: 16, Max: 25},
		{Label: Pass, Min: 26, Max: 36},
		{Label: Fail, Min: 37, Max: 54},
	}
}

// Categorize returns the label of the first band containing aggregate.
func Categorize(aggregate int, bands []model.CategoryThreshold) string {
	if len(bands) == 0 {
		bands = DefaultCategories()
	}
	for _, b := range bands {
		if aggregate >= b.Min && aggregate <= b.Max {
			return b.Label
		}
	}
	return Unclassified
}
