// Package blend combines raw exam scores with school-based assessment.
package blend

import "github.com/okian/mockstats/internal/domain/model"

// Composite returns the final composite score of one subject.
// A nil sba counts as 0. Values are not clamped against configured maxima.
func Composite(rawExam float64, sba *float64, cfg model.SBAConfig) float64 {
	if !cfg.Enabled {
		return rawExam
	}
	var s float64
	if sba != nil {
		s = *sba
	}
	return rawExam*cfg.WeightExam + s*cfg.WeightSBA
}

// SBAFor looks up the SBA score of subject in a series entry.
func SBAFor(scores model.SeriesScores, subject string) *float64 {
	v, ok := scores.SBAScores[subject]
	if !ok {
		return nil
	}
	return &v
}
