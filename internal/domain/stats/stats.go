// Package stats computes per-subject cohort statistics for one series.
package stats

import (
	"math"

	"github.com/okian/mockstats/internal/domain/blend"
	"github.com/okian/mockstats/internal/domain/model"
)

// MeanStdDev returns the population mean and standard deviation of xs.
// An empty slice yields (0, 0).
func MeanStdDev(xs []float64) (float64, float64) {
	if len(xs) == 0 {
		return 0, 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	n := float64(len(xs))
	mean := sum / n

	var sq float64
	for _, x := range xs {
		d := x - mean
		sq += d * d
	}
	return mean, math.Sqrt(sq / n)
}

// Mean returns the arithmetic mean of xs, 0 when empty.
func Mean(xs []float64) float64 {
	m, _ := MeanStdDev(xs)
	return m
}

// Samples collects composite, section A and section B values per subject.
type Samples struct {
	Composite map[string][]float64
	SectionA  map[string][]float64
	SectionB  map[string][]float64
}

// Collect gathers the per-subject samples of a cohort for the named series.
// Students with no entry for a subject do not count towards that subject.
func Collect(cohort []model.StudentRecord, series string, sba model.SBAConfig) Samples {
	s := Samples{
		Composite: map[string][]float64{},
		SectionA:  map[string][]float64{},
		SectionB:  map[string][]float64{},
	}
	for _, st := range cohort {
		entry, ok := st.Series(series)
		if !ok {
			continue
		}
		for subject, raw := range entry.Scores {
			c := blend.Composite(raw, blend.SBAFor(entry, subject), sba)
			s.Composite[subject] = append(s.Composite[subject], c)
			if sec, ok := entry.SectionScores[subject]; ok {
				s.SectionA[subject] = append(s.SectionA[subject], sec.SectionA)
				s.SectionB[subject] = append(s.SectionB[subject], sec.SectionB)
			}
		}
	}
	return s
}

// Compute derives ClassStatistics for the cohort and series. It is always
// computed from scratch; callers must call it again after any roster or
// series change.
func Compute(cohort []model.StudentRecord, series string, sba model.SBAConfig) model.ClassStatistics {
	samples := Collect(cohort, series, sba)
	out := model.NewClassStatistics(series)

	for subject, xs := range samples.Composite {
		m, sd := MeanStdDev(xs)
		out.SubjectCounts[subject] = len(xs)
		out.SubjectMeans[subject] = m
		out.SubjectStdDevs[subject] = sd
	}
	for subject, xs := range samples.SectionA {
		m, sd := MeanStdDev(xs)
		out.SubjectSectionAMeans[subject] = m
		out.SubjectSectionAStdDevs[subject] = sd
	}
	for subject, xs := range samples.SectionB {
		m, sd := MeanStdDev(xs)
		out.SubjectSectionBMeans[subject] = m
		out.SubjectSectionBStdDevs[subject] = sd
	}
	return out
}
