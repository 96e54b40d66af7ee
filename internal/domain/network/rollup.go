package network

import (
	"context"
	"fmt"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/okian/mockstats/internal/domain/cohort"
	"github.com/okian/mockstats/internal/domain/history"
	"github.com/okian/mockstats/internal/domain/kpi"
	"github.com/okian/mockstats/internal/domain/model"
	"github.com/okian/mockstats/internal/domain/stats"
)

// FacilitatorTEI is one facilitator/subject row of the network TEI table.
type FacilitatorTEI struct {
	SchoolID     string  `json:"schoolId"`
	SchoolName   string  `json:"schoolName"`
	Facilitator  string  `json:"facilitator"`
	Subject      string  `json:"subject"`
	Mean         float64 `json:"mean"`
	PreviousMean float64 `json:"previousMean"`
	ObjMean      float64 `json:"objMean"`
	ThyMean      float64 `json:"thyMean"`
	TEIComponents
	Rank int `json:"rank"`
}

// SubjectSigDiff is the significant difference of one subject.
type SubjectSigDiff struct {
	Subject       string  `json:"subject"`
	ExternalMean  float64 `json:"externalMean"`
	SigDiff       float64 `json:"sigDiff"`
	ExternalCount int     `json:"externalCount"`
}

// SchoolSigDiff is the significant difference of one school, pooled over
// all subjects, plus the per-subject breakdown.
type SchoolSigDiff struct {
	SchoolID     string           `json:"schoolId"`
	SchoolName   string           `json:"schoolName"`
	ExternalMean float64          `json:"externalMean"`
	SigDiff      float64          `json:"sigDiff"`
	Subjects     []SubjectSigDiff `json:"subjects"`
}

// SchoolKPI is one school's institution-level view inside a report.
type SchoolKPI struct {
	SchoolID   string `json:"schoolId"`
	SchoolName string `json:"schoolName"`
	kpi.School
}

// Report is the result of a network rollup.
type Report struct {
	Schools      []SchoolKPI      `json:"schools"`
	Facilitators []FacilitatorTEI `json:"facilitators"`
	SigDiff      []SchoolSigDiff  `json:"sigDiff"`
	Strength     []Strength       `json:"strength"`
	Baseline     Baseline         `json:"baseline"`
}

// Option applies a configuration option to a rollup.
type Option func(*options)

type options struct {
	workers int
}

// WithWorkers bounds how many schools are processed concurrently.
func WithWorkers(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.workers = n
		}
	}
}

type schoolResult struct {
	kpi          SchoolKPI
	facilitators []FacilitatorTEI
	sigDiff      *SchoolSigDiff
	history      []model.PerformancePoint
}

// Rollup processes every school independently and merges the results.
// Orderings in the report are deterministic regardless of concurrency.
func Rollup(ctx context.Context, schools []model.SchoolRegistryEntry, opts ...Option) (Report, error) {
	o := options{workers: runtime.NumCPU()}
	for _, opt := range opts {
		opt(&o)
	}

	results := make([]schoolResult, len(schools))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.workers)
	for i := range schools {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return fmt.Errorf("rollup school %s: %w", schools[i].ID, err)
			}
			results[i] = evaluateSchool(schools[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Report{}, err
	}
	return merge(schools, results), nil
}

func evaluateSchool(entry model.SchoolRegistryEntry) schoolResult {
	ds := entry.Dataset
	res := cohort.Process(ds.Roster, ds.Settings, ds.Staff)
	school := kpi.Evaluate(res)

	out := schoolResult{
		kpi:     SchoolKPI{SchoolID: entry.ID, SchoolName: entry.Name, School: school},
		history: entry.PerformanceHistory,
	}
	if len(out.history) == 0 && len(res.Students) > 0 {
		out.history = []model.PerformancePoint{school.Summary}
	}

	var prev model.ClassStatistics
	if p := history.PreviousSeries(ds.Settings.CommittedMocks, ds.Settings.ActiveSeries); p != "" {
		prev = stats.Compute(ds.Roster, p, ds.Settings.Blend())
	}
	cs := res.Statistics
	for subject, mean := range cs.SubjectMeans {
		row := FacilitatorTEI{
			SchoolID:     entry.ID,
			SchoolName:   entry.Name,
			Facilitator:  ds.FacilitatorFor(subject),
			Subject:      subject,
			Mean:         mean,
			PreviousMean: prev.SubjectMeans[subject],
			ObjMean:      cs.SubjectSectionAMeans[subject],
			ThyMean:      cs.SubjectSectionBMeans[subject],
		}
		row.TEIComponents = TEI(row.Mean, row.PreviousMean, row.ObjMean, row.ThyMean)
		out.facilitators = append(out.facilitators, row)
	}

	out.sigDiff = sigDiffFor(entry)
	return out
}

func sigDiffFor(entry model.SchoolRegistryEntry) *SchoolSigDiff {
	ext := entry.Dataset.ExternalResults
	if len(ext) == 0 {
		return nil
	}
	sd := &SchoolSigDiff{SchoolID: entry.ID, SchoolName: entry.Name}
	var pooled []int
	for subject, gvs := range ext {
		m, ok := MeanGradeValue(gvs)
		if !ok {
			continue
		}
		pooled = append(pooled, gvs...)
		sd.Subjects = append(sd.Subjects, SubjectSigDiff{
			Subject:       subject,
			ExternalMean:  m,
			SigDiff:       SigDiff(m),
			ExternalCount: len(gvs),
		})
	}
	m, ok := MeanGradeValue(pooled)
	if !ok {
		return nil
	}
	sd.ExternalMean = m
	sd.SigDiff = SigDiff(m)
	sort.Slice(sd.Subjects, func(i, j int) bool {
		return sd.Subjects[i].Subject < sd.Subjects[j].Subject
	})
	return sd
}

func merge(schools []model.SchoolRegistryEntry, results []schoolResult) Report {
	var rep Report
	histories := make([][]model.PerformancePoint, 0, len(results))
	for _, r := range results {
		rep.Schools = append(rep.Schools, r.kpi)
		rep.Facilitators = append(rep.Facilitators, r.facilitators...)
		if r.sigDiff != nil {
			rep.SigDiff = append(rep.SigDiff, *r.sigDiff)
		}
		histories = append(histories, r.history)
	}

	rep.Baseline = NewBaseline(histories)
	for i, r := range results {
		if len(r.history) == 0 {
			continue
		}
		s := rep.Baseline.Standardize(r.history[len(r.history)-1])
		s.SchoolID = schools[i].ID
		s.SchoolName = schools[i].Name
		rep.Strength = append(rep.Strength, s)
	}

	sort.SliceStable(rep.Schools, func(i, j int) bool {
		return rep.Schools[i].SchoolID < rep.Schools[j].SchoolID
	})
	sort.SliceStable(rep.Facilitators, func(i, j int) bool {
		a, b := rep.Facilitators[i], rep.Facilitators[j]
		if a.TEI != b.TEI {
			return a.TEI > b.TEI
		}
		if a.SchoolID != b.SchoolID {
			return a.SchoolID < b.SchoolID
		}
		if a.Subject != b.Subject {
			return a.Subject < b.Subject
		}
		return a.Facilitator < b.Facilitator
	})
	for i := range rep.Facilitators {
		rep.Facilitators[i].Rank = i + 1
	}
	sort.SliceStable(rep.SigDiff, func(i, j int) bool {
		if rep.SigDiff[i].SigDiff != rep.SigDiff[j].SigDiff {
			return rep.SigDiff[i].SigDiff > rep.SigDiff[j].SigDiff
		}
		return rep.SigDiff[i].SchoolID < rep.SigDiff[j].SchoolID
	})
	sort.SliceStable(rep.Strength, func(i, j int) bool {
		if rep.Strength[i].Index != rep.Strength[j].Index {
			return rep.Strength[i].Index > rep.Strength[j].Index
		}
		return rep.Strength[i].SchoolID < rep.Strength[j].SchoolID
	})
	for i := range rep.Strength {
		rep.Strength[i].Rank = i + 1
	}
	return rep
}
