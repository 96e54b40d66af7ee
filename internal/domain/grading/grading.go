// Package grading maps composite scores to the nine-point grade scale,
// either against fixed score cutoffs or by z-score against the cohort.
package grading

import (
	"sort"

	"github.com/okian/mockstats/internal/domain/model"
)

// Grade labels, best first.
const (
	A1 = "A1"
	B2 = "B2"
	B3 = "B3"
	C4 = "C4"
	C5 = "C5"
	C6 = "C6"
	D7 = "D7"
	E8 = "E8"
	F9 = "F9"
)

// Grade value bounds. Lower is better.
const (
	BestValue  = 1
	WorstValue = 9
	// QualityPassValue is the worst grade value that still counts as a quality pass.
	QualityPassValue = 6
)

var gradeValues = map[string]int{
	A1: 1, B2: 2, B3: 3, C4: 4, C5: 5, C6: 6, D7: 7, E8: 8, F9: 9,
}

// Grade is a label together with its integer value.
type Grade struct {
	Label string `json:"label"`
	Value int    `json:"value"`
}

// Worst is the grade assigned when nothing better applies.
var Worst = Grade{Label: F9, Value: WorstValue}

// Value returns the integer value of label. Unknown labels map to the worst value.
func Value(label string) int {
	if v, ok := gradeValues[label]; ok {
		return v
	}
	return WorstValue
}

// Labels returns all grade labels ordered best to worst.
func Labels() []string {
	return []string{A1, B2, B3, C4, C5, C6, D7, E8, F9}
}

// DefaultNormThresholds returns the z-score cutoffs used for norm-referenced grading.
func DefaultNormThresholds() model.GradingThresholds {
	return model.GradingThresholds{
		{Label: A1, Cutoff: 1.645},
		{Label: B2, Cutoff: 1.036},
		{Label: B3, Cutoff: 0.524},
		{Label: C4, Cutoff: 0},
		{Label: C5, Cutoff: -0.524},
		{Label: C6, Cutoff: -1.036},
		{Label: D7, Cutoff: -1.645},
		{Label: E8, Cutoff: -2.326},
	}
}

// DefaultCriterionCutoffs returns the fixed score cutoffs used for criterion grading.
func DefaultCriterionCutoffs() model.GradingThresholds {
	return model.GradingThresholds{
		{Label: A1, Cutoff: 80},
		{Label: B2, Cutoff: 70},
		{Label: B3, Cutoff: 65},
		{Label: C4, Cutoff: 60},
		{Label: C5, Cutoff: 55},
		{Label: C6, Cutoff: 50},
		{Label: D7, Cutoff: 45},
		{Label: E8, Cutoff: 40},
	}
}

// ZScore standardizes score against the cohort. A zero standard deviation yields 0.
func ZScore(score, mean, stdDev float64) float64 {
	if stdDev == 0 {
		return 0
	}
	return (score - mean) / stdDev
}

// Lookup returns the first grade, scanning from the highest cutoff, whose
// cutoff is <= x. Thresholds are scanned in descending cutoff order even
// when supplied unsorted. Below every cutoff the worst grade is returned.
func Lookup(x float64, thresholds model.GradingThresholds) Grade {
	sorted := make(model.GradingThresholds, len(thresholds))
	copy(sorted, thresholds)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Cutoff > sorted[j].Cutoff
	})
	for _, t := range sorted {
		if t.Cutoff <= x {
			return Grade{Label: t.Label, Value: Value(t.Label)}
		}
	}
	return Worst
}

// AssignNorm grades score by its z-score against the cohort mean and stdDev.
func AssignNorm(score, mean, stdDev float64, thresholds model.GradingThresholds) Grade {
	return Lookup(ZScore(score, mean, stdDev), thresholds)
}

// AssignCriterion grades score against fixed score cutoffs.
func AssignCriterion(score float64, cutoffs model.GradingThresholds) Grade {
	return Lookup(score, cutoffs)
}
