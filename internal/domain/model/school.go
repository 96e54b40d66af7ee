package model

// StaffAssignment links a facilitator to the subject they teach.
type StaffAssignment struct {
	Facilitator string `json:"facilitator" validate:"required"`
	Subject     string `json:"subject" validate:"required"`
	EnrolledID  string `json:"enrolledId,omitempty"`
}

// PerformancePoint is a school's cohort averages for one committed series.
type PerformancePoint struct {
	Series       string  `json:"series"`
	AvgComposite float64 `json:"avgComposite"`
	AvgAggregate float64 `json:"avgAggregate"`
	AvgObjective float64 `json:"avgObjective"`
	AvgTheory    float64 `json:"avgTheory"`
}

// Dataset is the complete per-school data set embedded in a registry entry.
type Dataset struct {
	Roster   []StudentRecord   `json:"roster" validate:"unique=ID,dive"`
	Settings Settings          `json:"settings"`
	Staff    []StaffAssignment `json:"staff,omitempty" validate:"dive"`
	// ExternalResults holds external-exam grade values per subject.
	ExternalResults map[string][]int `json:"externalResults,omitempty"`
}

// SchoolRegistryEntry is one school in the network.
type SchoolRegistryEntry struct {
	ID                 string             `json:"id" validate:"required"`
	Name               string             `json:"name" validate:"required"`
	Registrant         string             `json:"registrant,omitempty"`
	StudentCount       int                `json:"studentCount"`
	Status             string             `json:"status,omitempty"`
	PerformanceHistory []PerformancePoint `json:"performanceHistory,omitempty"`
	RemarkTelemetry    map[string]int     `json:"remarkTelemetry,omitempty"`
	Dataset            Dataset            `json:"dataset"`
}

// FacilitatorFor returns the facilitator assigned to subject, or "".
func (d Dataset) FacilitatorFor(subject string) string {
	for _, a := range d.Staff {
		if a.Subject == subject {
			return a.Facilitator
		}
	}
	return ""
}
