// Package aggregate selects the best-six subject set and sums its grade values.
package aggregate

import (
	"sort"

	"github.com/okian/mockstats/internal/domain/grading"
	"github.com/okian/mockstats/internal/domain/model"
)

// Sizes of the best-six selection.
const (
	CoreCount     = 4
	ElectiveCount = 2
	Min           = (CoreCount + ElectiveCount) * grading.BestValue
	Max           = (CoreCount + ElectiveCount) * grading.WorstValue
)

// DefaultCoreSubjects are the mandatory subjects every student is aggregated on.
func DefaultCoreSubjects() []string {
	return []string{"English Language", "Mathematics", "Science", "Social Studies"}
}

// Result is the outcome of one student's best-six selection.
type Result struct {
	BestSix     int
	TotalScore  float64
	Core        []model.SubjectScore
	Electives   []model.SubjectScore
	MissingCore []string
}

// Select partitions subjects into core and elective, keeps the two best
// electives and sums grade values over the six. Every missing core or
// elective slot contributes the worst grade value, so BestSix stays in
// [Min, Max]. Only the first CoreCount configured core subjects are core.
// TotalScore sums composites over all subjects.
func Select(subjects []model.SubjectScore, coreSubjects []string) Result {
	if len(coreSubjects) == 0 {
		coreSubjects = DefaultCoreSubjects()
	}
	if len(coreSubjects) > CoreCount {
		coreSubjects = coreSubjects[:CoreCount]
	}
	isCore := make(map[string]bool, len(coreSubjects))
	for _, c := range coreSubjects {
		isCore[c] = true
	}

	var res Result
	found := make(map[string]bool, len(coreSubjects))
	var electives []model.SubjectScore
	for _, s := range subjects {
		res.TotalScore += s.Composite
		if isCore[s.Subject] && !found[s.Subject] {
			found[s.Subject] = true
			res.Core = append(res.Core, s)
			continue
		}
		if !isCore[s.Subject] {
			electives = append(electives, s)
		}
	}

	sort.SliceStable(electives, func(i, j int) bool {
		if electives[i].GradeValue != electives[j].GradeValue {
			return electives[i].GradeValue < electives[j].GradeValue
		}
		return electives[i].Subject < electives[j].Subject
	})
	if len(electives) > ElectiveCount {
		electives = electives[:ElectiveCount]
	}
	res.Electives = electives

	for _, s := range res.Core {
		res.BestSix += s.GradeValue
	}
	for _, s := range res.Electives {
		res.BestSix += s.GradeValue
	}
	for _, c := range coreSubjects {
		if !found[c] {
			res.MissingCore = append(res.MissingCore, c)
		}
	}
	missing := len(res.MissingCore) + ElectiveCount - len(res.Electives)
	res.BestSix += missing * grading.WorstValue
	return res
}
