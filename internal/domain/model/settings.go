package model

// GradingMode selects how composite scores are mapped to grades.
type GradingMode string

// Supported grading modes.
const (
	ModeCriterion       GradingMode = "criterion"
	ModeNormReferenced  GradingMode = "norm-referenced"
	DefaultGradingMode              = ModeNormReferenced
)

// SBAConfig controls blending of school-based assessment into the composite.
type SBAConfig struct {
	Enabled    bool    `json:"enabled" koanf:"enabled"`
	WeightExam float64 `json:"weightExam" koanf:"weight_exam" validate:"gte=0,lte=1"`
	WeightSBA  float64 `json:"weightSBA" koanf:"weight_sba" validate:"gte=0,lte=1"`
}

// SectionMaxima are the configured maxima of the two exam sections.
type SectionMaxima struct {
	SectionA float64 `json:"sectionA" validate:"gte=0"`
	SectionB float64 `json:"sectionB" validate:"gte=0"`
}

// Threshold pairs a grade label with its cutoff. For norm-referenced
// grading the cutoff is a z-score; for criterion grading it is a score.
type Threshold struct {
	Label  string  `json:"label" validate:"required"`
	Cutoff float64 `json:"cutoff"`
}

// GradingThresholds is ordered from the best grade to the worst.
type GradingThresholds []Threshold

// CategoryThreshold maps an inclusive aggregate range to a category label.
type CategoryThreshold struct {
	Label string `json:"label" validate:"required"`
	Min   int    `json:"min" validate:"gte=0"`
	Max   int    `json:"max" validate:"gtefield=Min"`
}

// Settings are the school-wide options that drive processing.
type Settings struct {
	ActiveSeries     string              `json:"activeSeries" validate:"required"`
	CommittedMocks   []string            `json:"committedMocks,omitempty"`
	SBA              *SBAConfig          `json:"sbaConfig,omitempty"`
	SectionMaxima    SectionMaxima       `json:"sectionMaxima"`
	GradingMode      GradingMode         `json:"gradingMode,omitempty" validate:"omitempty,oneof=criterion norm-referenced"`
	UseTDistribution *bool               `json:"useTDistribution,omitempty"`
	Thresholds       GradingThresholds   `json:"thresholds,omitempty" validate:"dive"`
	CriterionCutoffs GradingThresholds   `json:"criterionCutoffs,omitempty" validate:"dive"`
	Categories       []CategoryThreshold `json:"categories,omitempty" validate:"dive"`
	CoreSubjects     []string            `json:"coreSubjects,omitempty"`
}

// Blend returns the SBA configuration; unset means blending is disabled.
func (s Settings) Blend() SBAConfig {
	if s.SBA == nil {
		return SBAConfig{}
	}
	return *s.SBA
}

// TDistribution reports the t-distribution flag, false when unset.
func (s Settings) TDistribution() bool {
	return s.UseTDistribution != nil && *s.UseTDistribution
}
