// Package kpi derives subject and institution indices from one school's
// processed cohort.
package kpi

import (
	"math"
	"sort"

	"github.com/okian/mockstats/internal/domain/cohort"
	"github.com/okian/mockstats/internal/domain/grading"
	"github.com/okian/mockstats/internal/domain/model"
	"github.com/okian/mockstats/internal/domain/stats"
)

// Index weights and constants.
const (
	sviMeanWeight        = 0.4
	sviQPRWeight         = 0.4
	sviConsistencyWeight = 0.2
	consistencyPenalty   = 3.33
	strengthDivisor      = 5
)

// SubjectKPI holds the indices of one subject in one school.
type SubjectKPI struct {
	Subject     string  `json:"subject"`
	Facilitator string  `json:"facilitator,omitempty"`
	N           int     `json:"n"`
	Mean        float64 `json:"mean"`
	StdDev      float64 `json:"stdDev"`
	QPR         float64 `json:"qpr"`
	Consistency float64 `json:"consistencyScore"`
	SVI         float64 `json:"svi"`
	Rank        int     `json:"rank"`
}

// QPR is the percentage of grade values that are a quality pass (<= 6).
// An empty sample yields 0.
func QPR(gradeValues []int) float64 {
	if len(gradeValues) == 0 {
		return 0
	}
	passes := 0
	for _, gv := range gradeValues {
		if gv <= grading.QualityPassValue {
			passes++
		}
	}
	return float64(passes) / float64(len(gradeValues)) * 100
}

// Consistency turns spread into a 0-100 score; a wider spread scores lower.
func Consistency(stdDev float64) float64 {
	return math.Max(0, 100-stdDev*consistencyPenalty)
}

// SVI is the subject vitality index.
func SVI(mean, qpr, consistency float64) float64 {
	return sviMeanWeight*mean + sviQPRWeight*qpr + sviConsistencyWeight*consistency
}

// StrengthIndexHeuristic is the single-school ratio index. It is not the
// standardized cross-school index computed by the network package.
// A zero mean aggregate yields 0.
func StrengthIndexHeuristic(meanComposite, meanAggregate float64) float64 {
	if meanAggregate == 0 {
		return 0
	}
	return (meanComposite / meanAggregate) / strengthDivisor
}

// Subjects computes SubjectKPI for every subject in the cohort, ranked by
// SVI descending (ties by subject name).
func Subjects(students []model.ProcessedStudent, cs model.ClassStatistics) []SubjectKPI {
	grades := map[string][]int{}
	facilitators := map[string]string{}
	for _, st := range students {
		for _, s := range st.Subjects {
			grades[s.Subject] = append(grades[s.Subject], s.GradeValue)
			if facilitators[s.Subject] == "" {
				facilitators[s.Subject] = s.Facilitator
			}
		}
	}

	out := make([]SubjectKPI, 0, len(grades))
	for subject, gvs := range grades {
		mean := cs.SubjectMeans[subject]
		sd := cs.SubjectStdDevs[subject]
		q := QPR(gvs)
		c := Consistency(sd)
		out = append(out, SubjectKPI{
			Subject:     subject,
			Facilitator: facilitators[subject],
			N:           len(gvs),
			Mean:        mean,
			StdDev:      sd,
			QPR:         q,
			Consistency: c,
			SVI:         SVI(mean, q, c),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].SVI != out[j].SVI {
			return out[i].SVI > out[j].SVI
		}
		return out[i].Subject < out[j].Subject
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

// Summarize returns the cohort averages of one series. Only students with
// at least one scored subject count; section averages only include subject
// papers with a recorded section score.
func Summarize(series string, students []model.ProcessedStudent) model.PerformancePoint {
	var composites, aggregates, objective, theory []float64
	for _, st := range students {
		if len(st.Subjects) == 0 {
			continue
		}
		aggregates = append(aggregates, float64(st.BestSixAggregate))
		for _, s := range st.Subjects {
			composites = append(composites, s.Composite)
			if s.SectionA != 0 || s.SectionB != 0 {
				objective = append(objective, s.SectionA)
				theory = append(theory, s.SectionB)
			}
		}
	}
	return model.PerformancePoint{
		Series:       series,
		AvgComposite: stats.Mean(composites),
		AvgAggregate: stats.Mean(aggregates),
		AvgObjective: stats.Mean(objective),
		AvgTheory:    stats.Mean(theory),
	}
}

// School is the institution-level KPI view of one processed cohort.
type School struct {
	Series        string                 `json:"series"`
	Subjects      []SubjectKPI           `json:"subjects"`
	Summary       model.PerformancePoint `json:"summary"`
	StrengthIndex float64                `json:"strengthIndexHeuristic"`
}

// Evaluate derives the school KPIs of a processed cohort.
func Evaluate(res cohort.Result) School {
	summary := Summarize(res.Series, res.Students)
	return School{
		Series:        res.Series,
		Subjects:      Subjects(res.Students, res.Statistics),
		Summary:       summary,
		StrengthIndex: StrengthIndexHeuristic(summary.AvgComposite, summary.AvgAggregate),
	}
}
