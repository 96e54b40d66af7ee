// Package ranking orders students within one cohort and series.
package ranking

import "sort"

// Entry is one student's ranking input and, after ranking, its position.
type Entry struct {
	ID         string  `json:"id"`
	Aggregate  int     `json:"aggregate"`
	TotalScore float64 `json:"totalScore"`
	Rank       int     `json:"rank"`
	// Pos is the entry's position in the caller's input. Ranking carries
	// it through so results can be joined back without relying on IDs.
	Pos int `json:"-"`
}

// ByAggregate returns a copy of entries sorted by aggregate ascending,
// then total score descending, then ID ascending, with ranks 1..N
// assigned in that order.
func ByAggregate(entries []Entry) []Entry {
	out := make([]Entry, len(entries))
	copy(out, entries)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Aggregate != out[j].Aggregate {
			return out[i].Aggregate < out[j].Aggregate
		}
		if out[i].TotalScore != out[j].TotalScore {
			return out[i].TotalScore > out[j].TotalScore
		}
		return out[i].ID < out[j].ID
	})
	assign(out)
	return out
}

// ByTotalScore returns a copy of entries ranked by total composite score
// descending, ties broken by ID.
func ByTotalScore(entries []Entry) []Entry {
	out := make([]Entry, len(entries))
	copy(out, entries)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].TotalScore != out[j].TotalScore {
			return out[i].TotalScore > out[j].TotalScore
		}
		return out[i].ID < out[j].ID
	})
	assign(out)
	return out
}

func assign(es []Entry) {
	for i := range es {
		es[i].Rank = i + 1
	}
}
