// Package cohort runs the full scoring pipeline for one school's roster:
// blending, cohort statistics, grading, best-six selection and ranking.
package cohort

import (
	"sort"

	"github.com/okian/mockstats/internal/domain/aggregate"
	"github.com/okian/mockstats/internal/domain/blend"
	"github.com/okian/mockstats/internal/domain/grading"
	"github.com/okian/mockstats/internal/domain/model"
	"github.com/okian/mockstats/internal/domain/ranking"
	"github.com/okian/mockstats/internal/domain/stats"
)

// Result is a processed cohort for one series.
type Result struct {
	Series     string                   `json:"series"`
	Students   []model.ProcessedStudent `json:"students"`
	Statistics model.ClassStatistics    `json:"statistics"`
}

// Process grades and ranks the roster for the active series in settings.
func Process(roster []model.StudentRecord, settings model.Settings, staff []model.StaffAssignment) Result {
	return ProcessSeries(roster, settings, staff, settings.ActiveSeries)
}

// ProcessSeries grades and ranks the roster for an explicit series.
// Students ordered by rank are returned. Students with nothing recorded
// for the series are kept and receive the worst aggregate.
func ProcessSeries(roster []model.StudentRecord, settings model.Settings, staff []model.StaffAssignment, series string) Result {
	cs := stats.Compute(roster, series, settings.Blend())
	assigner := grading.FromSettings(settings)
	facilitators := facilitatorIndex(staff)

	processed := make([]model.ProcessedStudent, 0, len(roster))
	entries := make([]ranking.Entry, 0, len(roster))
	for _, st := range roster {
		subjects := gradeSubjects(st, series, settings.Blend(), cs, assigner, facilitators)
		sel := aggregate.Select(subjects, settings.CoreSubjects)
		processed = append(processed, model.ProcessedStudent{
			StudentRecord:    st,
			Subjects:         subjects,
			TotalScore:       sel.TotalScore,
			BestSixAggregate: sel.BestSix,
			Category:         grading.Categorize(sel.BestSix, settings.Categories),
			MissingCore:      sel.MissingCore,
		})
		entries = append(entries, ranking.Entry{ID: st.ID, Aggregate: sel.BestSix, TotalScore: sel.TotalScore, Pos: len(entries)})
	}

	ranked := ranking.ByAggregate(entries)
	ordered := make([]model.ProcessedStudent, len(ranked))
	for i, e := range ranked {
		ordered[i] = processed[e.Pos]
		ordered[i].Rank = e.Rank
	}

	return Result{Series: series, Students: ordered, Statistics: cs}
}

func gradeSubjects(st model.StudentRecord, series string, sba model.SBAConfig, cs model.ClassStatistics, a *grading.Assigner, facilitators map[string]string) []model.SubjectScore {
	entry, ok := st.Series(series)
	if !ok {
		return nil
	}
	names := make([]string, 0, len(entry.Scores))
	for subject := range entry.Scores {
		names = append(names, subject)
	}
	sort.Strings(names)

	out := make([]model.SubjectScore, 0, len(names))
	for _, subject := range names {
		raw := entry.Scores[subject]
		sbaScore := blend.SBAFor(entry, subject)
		composite := blend.Composite(raw, sbaScore, sba)
		g, z := a.Assign(composite, cs.SubjectMeans[subject], cs.SubjectStdDevs[subject])
		sec := entry.SectionScores[subject]
		out = append(out, model.SubjectScore{
			Subject:      subject,
			RawExamScore: raw,
			SBAScore:     sbaScore,
			SectionA:     sec.SectionA,
			SectionB:     sec.SectionB,
			Composite:    composite,
			GradeValue:   g.Value,
			Grade:        g.Label,
			ZScore:       z,
			Facilitator:  facilitators[subject],
			Remark:       entry.Remarks[subject],
		})
	}
	return out
}

func facilitatorIndex(staff []model.StaffAssignment) map[string]string {
	idx := make(map[string]string, len(staff))
	for _, a := range staff {
		if _, ok := idx[a.Subject]; !ok {
			idx[a.Subject] = a.Facilitator
		}
	}
	return idx
}

// Find returns the processed student with id.
func (r Result) Find(id string) (model.ProcessedStudent, bool) {
	for _, s := range r.Students {
		if s.ID == id {
			return s, true
		}
	}
	return model.ProcessedStudent{}, false
}
