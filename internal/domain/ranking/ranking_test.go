package ranking_test

import (
	"testing"

	"github.com/okian/mockstats/internal/domain/ranking"
	. "github.com/smartystreets/goconvey/convey"
)

func TestByAggregate(t *testing.T) {
	Convey("Given a cohort with distinct and tied aggregates", t, func() {
		entries := []ranking.Entry{
			{ID: "c", Aggregate: 20, TotalScore: 400, Pos: 0},
			{ID: "a", Aggregate: 12, TotalScore: 520, Pos: 1},
			{ID: "d", Aggregate: 20, TotalScore: 410, Pos: 2},
			{ID: "b", Aggregate: 20, TotalScore: 410, Pos: 3},
			{ID: "e", Aggregate: 35, TotalScore: 300, Pos: 4},
		}

		ranked := ranking.ByAggregate(entries)

		Convey("Then ranks run 1..N without gaps", func() {
			for i, e := range ranked {
				So(e.Rank, ShouldEqual, i+1)
			}
		})

		Convey("And ties resolve by total score then ID", func() {
			ids := []string{}
			for _, e := range ranked {
				ids = append(ids, e.ID)
			}
			So(ids, ShouldResemble, []string{"a", "b", "d", "c", "e"})
		})

		Convey("And a lower aggregate never ranks behind a higher one", func() {
			for _, x := range ranked {
				for _, y := range ranked {
					if x.Aggregate < y.Aggregate {
						So(x.Rank, ShouldBeLessThanOrEqualTo, y.Rank)
					}
				}
			}
		})

		Convey("And the input is left untouched", func() {
			So(entries[0].ID, ShouldEqual, "c")
			So(entries[0].Rank, ShouldEqual, 0)
		})

		Convey("And input positions travel with each entry", func() {
			So(ranked[0].Pos, ShouldEqual, 1)
			So(ranked[4].Pos, ShouldEqual, 4)
		})
	})

	Convey("Given an empty cohort", t, func() {
		So(ranking.ByAggregate(nil), ShouldBeEmpty)
	})
}

func TestByTotalScore(t *testing.T) {
	Convey("Given a cohort ranked on composite totals", t, func() {
		ranked := ranking.ByTotalScore([]ranking.Entry{
			{ID: "x", TotalScore: 300},
			{ID: "y", TotalScore: 450},
			{ID: "w", TotalScore: 300},
		})

		Convey("Then the highest total ranks first and ties go by ID", func() {
			So(ranked[0].ID, ShouldEqual, "y")
			So(ranked[1].ID, ShouldEqual, "w")
			So(ranked[2].ID, ShouldEqual, "x")
			So(ranked[2].Rank, ShouldEqual, 3)
		})
	})
}
