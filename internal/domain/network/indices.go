// Package network aggregates school KPIs across the school network.
package network

import (
	"math"

	"github.com/okian/mockstats/internal/domain/model"
	"github.com/okian/mockstats/internal/domain/stats"
)

// Fixed normalization constants. The section divisors are literal and do
// not follow configured section maxima.
const (
	MockBaseline      = 5.5
	objectiveDivisor  = 20
	theoryDivisor     = 30
	strengthOffset    = 5
	gradeFactorFloor  = 1
	gradeFactorCeil   = 10
	gradeFactorDivide = 10
)

// TEIComponents breaks the teaching efficiency index into its factors.
type TEIComponents struct {
	GradeFactor     float64 `json:"gradeFactor"`
	Growth          float64 `json:"growth"`
	ObjectiveFactor float64 `json:"objectiveFactor"`
	TheoryFactor    float64 `json:"theoryFactor"`
	TEI             float64 `json:"tei"`
}

// TEI computes the teaching efficiency index of one facilitator/subject.
// previousMean <= 0 means no prior data and gives a growth of 1. Zero
// section means contribute a factor of 1.
func TEI(mean, previousMean, objMean, thyMean float64) TEIComponents {
	c := TEIComponents{
		GradeFactor:     math.Max(gradeFactorFloor, gradeFactorCeil-mean/gradeFactorDivide),
		Growth:          1,
		ObjectiveFactor: 1,
		TheoryFactor:    1,
	}
	if previousMean > 0 {
		c.Growth = mean / previousMean
	}
	if objMean != 0 {
		c.ObjectiveFactor = objMean / objectiveDivisor
	}
	if thyMean != 0 {
		c.TheoryFactor = thyMean / theoryDivisor
	}
	c.TEI = c.GradeFactor * c.Growth * c.ObjectiveFactor * c.TheoryFactor
	return c
}

// SigDiff is the gap between the mock baseline and an external-exam mean
// grade value. Positive means the school did better externally.
func SigDiff(externalMeanGradeValue float64) float64 {
	return MockBaseline - externalMeanGradeValue
}

// MeanGradeValue averages grade values; ok is false for an empty sample.
func MeanGradeValue(gvs []int) (float64, bool) {
	if len(gvs) == 0 {
		return 0, false
	}
	xs := make([]float64, len(gvs))
	for i, g := range gvs {
		xs[i] = float64(g)
	}
	return stats.Mean(xs), true
}

// Strength is one school's standardized cross-school strength index.
type Strength struct {
	SchoolID   string  `json:"schoolId"`
	SchoolName string  `json:"schoolName"`
	Series     string  `json:"series"`
	ZComposite float64 `json:"zComposite"`
	ZAggregate float64 `json:"zAggregate"`
	Index      float64 `json:"strengthIndex"`
	Rank       int     `json:"rank"`
}

// Baseline holds network-wide population statistics over every school's
// per-series averages.
type Baseline struct {
	MeanComposite   float64 `json:"meanComposite"`
	StdDevComposite float64 `json:"stdDevComposite"`
	MeanAggregate   float64 `json:"meanAggregate"`
	StdDevAggregate float64 `json:"stdDevAggregate"`
	Points          int     `json:"points"`
}

// NewBaseline computes the network baseline from per-school histories.
func NewBaseline(histories [][]model.PerformancePoint) Baseline {
	var comp, agg []float64
	for _, h := range histories {
		for _, p := range h {
			comp = append(comp, p.AvgComposite)
			agg = append(agg, p.AvgAggregate)
		}
	}
	b := Baseline{Points: len(comp)}
	b.MeanComposite, b.StdDevComposite = stats.MeanStdDev(comp)
	b.MeanAggregate, b.StdDevAggregate = stats.MeanStdDev(agg)
	return b
}

// Standardize scores one school's performance point against the baseline.
// The aggregate z is sign-inverted because a lower aggregate is better.
// A zero network spread yields a z of 0.
func (b Baseline) Standardize(p model.PerformancePoint) Strength {
	zc := z(p.AvgComposite, b.MeanComposite, b.StdDevComposite)
	za := -z(p.AvgAggregate, b.MeanAggregate, b.StdDevAggregate)
	return Strength{
		Series:     p.Series,
		ZComposite: zc,
		ZAggregate: za,
		Index:      (zc+za)/2 + strengthOffset,
	}
}

func z(x, mean, sd float64) float64 {
	if sd == 0 {
		return 0
	}
	return (x - mean) / sd
}
