package grading

import "github.com/okian/mockstats/internal/domain/model"

// Option applies a configuration option to the Assigner.
type Option func(*Assigner)

// WithMode sets the grading mode. Unknown modes are ignored.
func WithMode(mode model.GradingMode) Option {
	return func(a *Assigner) {
		switch mode {
		case model.ModeCriterion, model.ModeNormReferenced:
			a.mode = mode
		}
	}
}

// WithNormThresholds overrides the z-score cutoffs.
func WithNormThresholds(t model.GradingThresholds) Option {
	return func(a *Assigner) {
		if len(t) > 0 {
			a.norm = t
		}
	}
}

// WithCriterionCutoffs overrides the fixed score cutoffs.
func WithCriterionCutoffs(t model.GradingThresholds) Option {
	return func(a *Assigner) {
		if len(t) > 0 {
			a.criterion = t
		}
	}
}

// WithTDistribution records the t-distribution flag. No separate cutoff
// table exists for it, so it does not change assigned grades.
func WithTDistribution(enabled bool) Option {
	return func(a *Assigner) {
		a.useT = enabled
	}
}

// Assigner assigns grades using one configured mode.
type Assigner struct {
	mode      model.GradingMode
	norm      model.GradingThresholds
	criterion model.GradingThresholds
	useT      bool
}

// NewAssigner creates an Assigner. It defaults to norm-referenced grading
// with the default thresholds.
func NewAssigner(opts ...Option) *Assigner {
	a := &Assigner{
		mode:      model.DefaultGradingMode,
		norm:      DefaultNormThresholds(),
		criterion: DefaultCriterionCutoffs(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// FromSettings builds an Assigner from school settings.
func FromSettings(s model.Settings) *Assigner {
	return NewAssigner(
		WithMode(s.GradingMode),
		WithNormThresholds(s.Thresholds),
		WithCriterionCutoffs(s.CriterionCutoffs),
		WithTDistribution(s.TDistribution()),
	)
}

// Mode reports the active grading mode.
func (a *Assigner) Mode() model.GradingMode { return a.mode }

// UsesTDistribution reports the carried t-distribution flag.
func (a *Assigner) UsesTDistribution() bool { return a.useT }

// Assign grades one composite score and returns the grade and the z-score
// against the cohort (0 when stdDev is 0).
func (a *Assigner) Assign(score, mean, stdDev float64) (Grade, float64) {
	z := ZScore(score, mean, stdDev)
	if a.mode == model.ModeCriterion {
		return AssignCriterion(score, a.criterion), z
	}
	return Lookup(z, a.norm), z
}
