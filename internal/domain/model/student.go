// Package model contains domain models passed between layers.
package model

import "time"

// SectionScore holds the raw objective (section A) and theory (section B)
// sub-scores of one subject paper.
type SectionScore struct {
	SectionA float64 `json:"sectionA" validate:"gte=0"`
	SectionB float64 `json:"sectionB" validate:"gte=0"`
}

// SeriesScores is the raw score entry for one mock series. Keys are subject names.
type SeriesScores struct {
	Scores        map[string]float64      `json:"scores"`
	SBAScores     map[string]float64      `json:"sbaScores,omitempty"`
	SectionScores map[string]SectionScore `json:"sectionScores,omitempty"`
	Remarks       map[string]string       `json:"remarks,omitempty"`
}

// SeriesSnapshot is the frozen result of a committed series.
type SeriesSnapshot struct {
	CommitID    string             `json:"commitId"`
	Aggregate   int                `json:"aggregate"`
	Rank        int                `json:"rank"`
	SubScores   map[string]float64 `json:"subScores"`
	CommittedAt time.Time          `json:"committedAt"`
}

// StudentRecord is a roster entry together with its raw and committed results.
type StudentRecord struct {
	ID            string                    `json:"id" validate:"required"`
	Name          string                    `json:"name" validate:"required"`
	Gender        string                    `json:"gender,omitempty"`
	ParentContact string                    `json:"parentContact,omitempty"`
	Attendance    int                       `json:"attendance" validate:"gte=0"`
	MockData      map[string]SeriesScores   `json:"mockData,omitempty"`
	SeriesHistory map[string]SeriesSnapshot `json:"seriesHistory,omitempty"`
	ConductRemark string                    `json:"conductRemark,omitempty"`
}

// Series returns the raw scores for the named series, or false when the
// student has nothing recorded for it.
func (s StudentRecord) Series(name string) (SeriesScores, bool) {
	sc, ok := s.MockData[name]
	return sc, ok
}

// Clone returns a deep copy of the history map so a caller can write new
// snapshots without touching the original record.
func (s StudentRecord) Clone() StudentRecord {
	out := s
	out.SeriesHistory = make(map[string]SeriesSnapshot, len(s.SeriesHistory)+1)
	for k, v := range s.SeriesHistory {
		out.SeriesHistory[k] = v
	}
	return out
}

// SubjectScore is the graded result of one subject for one student and series.
type SubjectScore struct {
	Subject      string   `json:"subject"`
	RawExamScore float64  `json:"rawExamScore"`
	SBAScore     *float64 `json:"sbaScore,omitempty"`
	SectionA     float64  `json:"sectionA"`
	SectionB     float64  `json:"sectionB"`
	Composite    float64  `json:"finalCompositeScore"`
	GradeValue   int      `json:"gradeValue"`
	Grade        string   `json:"grade"`
	ZScore       float64  `json:"zScore"`
	Facilitator  string   `json:"facilitator,omitempty"`
	Remark       string   `json:"remark,omitempty"`
}

// ProcessedStudent is a student's derived, ranked result for the active series.
type ProcessedStudent struct {
	StudentRecord
	Subjects         []SubjectScore `json:"subjects"`
	Rank             int            `json:"rank"`
	TotalScore       float64        `json:"totalScore"`
	BestSixAggregate int            `json:"bestSixAggregate"`
	Category         string         `json:"category"`
	MissingCore      []string       `json:"missingCore,omitempty"`
}

// ClassStatistics holds per-subject population statistics of one cohort and series.
type ClassStatistics struct {
	Series                 string             `json:"series"`
	SubjectCounts          map[string]int     `json:"subjectCounts"`
	SubjectMeans           map[string]float64 `json:"subjectMeans"`
	SubjectStdDevs         map[string]float64 `json:"subjectStdDevs"`
	SubjectSectionAMeans   map[string]float64 `json:"subjectSectionAMeans"`
	SubjectSectionAStdDevs map[string]float64 `json:"subjectSectionAStdDevs"`
	SubjectSectionBMeans   map[string]float64 `json:"subjectSectionBMeans"`
	SubjectSectionBStdDevs map[string]float64 `json:"subjectSectionBStdDevs"`
}

// NewClassStatistics returns an empty statistics value with allocated maps.
func NewClassStatistics(series string) ClassStatistics {
	return ClassStatistics{
		Series:                 series,
		SubjectCounts:          map[string]int{},
		SubjectMeans:           map[string]float64{},
		SubjectStdDevs:         map[string]float64{},
		SubjectSectionAMeans:   map[string]float64{},
		SubjectSectionAStdDevs: map[string]float64{},
		SubjectSectionBMeans:   map[string]float64{},
		SubjectSectionBStdDevs: map[string]float64{},
	}
}
