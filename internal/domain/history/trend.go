package history

import "github.com/okian/mockstats/internal/domain/model"

// Direction of an aggregate change.
type Direction string

// Trend directions.
const (
	Improved Direction = "improved"
	Declined Direction = "declined"
	Stable   Direction = "stable"
)

// Trend compares the current aggregate with a previous one.
type Trend struct {
	PreviousSeries    string    `json:"previousSeries"`
	PreviousAggregate int       `json:"previousAggregate"`
	CurrentAggregate  int       `json:"currentAggregate"`
	Diff              int       `json:"diff"`
	Direction         Direction `json:"direction"`
}

// Compare returns prev - current; a positive diff means the aggregate went down.
func Compare(prevAggregate, currentAggregate int) Trend {
	diff := prevAggregate - currentAggregate
	t := Trend{PreviousAggregate: prevAggregate, CurrentAggregate: currentAggregate, Diff: diff, Direction: Stable}
	switch {
	case diff > 0:
		t.Direction = Improved
	case diff < 0:
		t.Direction = Declined
	}
	return t
}

// StudentTrend compares a student's current aggregate with the snapshot of
// the series committed before active. It returns false when the student
// has no such snapshot.
func StudentTrend(st model.StudentRecord, committedMocks []string, active string, currentAggregate int) (Trend, bool) {
	prev := PreviousSeries(committedMocks, active)
	if prev == "" {
		return Trend{}, false
	}
	snap, ok := st.SeriesHistory[prev]
	if !ok {
		return Trend{}, false
	}
	t := Compare(snap.Aggregate, currentAggregate)
	t.PreviousSeries = prev
	return t, true
}
