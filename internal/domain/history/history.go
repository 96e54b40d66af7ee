// Package history commits series results into per-student snapshots and
// computes trends against the previously committed series.
package history

import (
	"slices"
	"time"

	"github.com/okian/mockstats/internal/domain/model"
)

// State of a series name.
type State string

// Series states.
const (
	Active    State = "ACTIVE"
	Committed State = "COMMITTED"
)

// StateOf reports whether series has been committed.
func StateOf(committedMocks []string, series string) State {
	if slices.Contains(committedMocks, series) {
		return Committed
	}
	return Active
}

// Commit writes a snapshot of processed into every matching roster
// student's SeriesHistory[series] and appends series to the ledger at most
// once. Only the series key is written; snapshots of other series are left
// as they were. Neither the roster nor the ledger passed in is modified.
func Commit(committedMocks []string, roster []model.StudentRecord, processed []model.ProcessedStudent, series, commitID string, at time.Time) ([]string, []model.StudentRecord) {
	byID := make(map[string]model.ProcessedStudent, len(processed))
	for _, p := range processed {
		byID[p.ID] = p
	}

	out := make([]model.StudentRecord, len(roster))
	for i, st := range roster {
		p, ok := byID[st.ID]
		if !ok {
			out[i] = st
			continue
		}
		c := st.Clone()
		c.SeriesHistory[series] = Snapshot(p, commitID, at)
		out[i] = c
	}

	ledger := slices.Clone(committedMocks)
	if !slices.Contains(ledger, series) {
		ledger = append(ledger, series)
	}
	return ledger, out
}

// Snapshot captures the committed view of one processed student.
func Snapshot(p model.ProcessedStudent, commitID string, at time.Time) model.SeriesSnapshot {
	sub := make(map[string]float64, len(p.Subjects))
	for _, s := range p.Subjects {
		sub[s.Subject] = s.Composite
	}
	return model.SeriesSnapshot{
		CommitID:    commitID,
		Aggregate:   p.BestSixAggregate,
		Rank:        p.Rank,
		SubScores:   sub,
		CommittedAt: at,
	}
}

// PreviousSeries returns the committed series immediately before active.
// When active is not committed yet the most recent committed series is
// returned. The empty string means there is none.
func PreviousSeries(committedMocks []string, active string) string {
	i := slices.Index(committedMocks, active)
	switch {
	case i > 0:
		return committedMocks[i-1]
	case i == 0:
		return ""
	case len(committedMocks) > 0:
		return committedMocks[len(committedMocks)-1]
	default:
		return ""
	}
}
