package network_test

import (
	"context"
	"testing"

	"github.com/okian/mockstats/internal/domain/model"
	"github.com/okian/mockstats/internal/domain/network"
	. "github.com/smartystreets/goconvey/convey"
)

func TestTEI(t *testing.T) {
	Convey("Given a facilitator with current and previous means", t, func() {
		c := network.TEI(60, 50, 10, 15)

		Convey("Then each factor follows the fixed formula", func() {
			So(c.GradeFactor, ShouldAlmostEqual, 4.0, 1e-9)
			So(c.Growth, ShouldAlmostEqual, 1.2, 1e-9)
			So(c.ObjectiveFactor, ShouldAlmostEqual, 0.5, 1e-9)
			So(c.TheoryFactor, ShouldAlmostEqual, 0.5, 1e-9)
			So(c.TEI, ShouldAlmostEqual, 4.0*1.2*0.5*0.5, 1e-9)
		})
	})

	Convey("Given no prior series and no section scores", t, func() {
		c := network.TEI(95, 0, 0, 0)

		Convey("Then growth and section factors default to 1", func() {
			So(c.Growth, ShouldEqual, 1.0)
			So(c.ObjectiveFactor, ShouldEqual, 1.0)
			So(c.TheoryFactor, ShouldEqual, 1.0)
		})

		Convey("And the grade factor never drops below 1", func() {
			So(c.GradeFactor, ShouldEqual, 1.0)
			So(c.TEI, ShouldEqual, 1.0)
		})
	})
}

func TestSigDiff(t *testing.T) {
	Convey("Given an external mean grade value of 4", t, func() {
		So(network.SigDiff(4), ShouldEqual, 1.5)
	})

	Convey("Given an external mean grade value of 7", t, func() {
		So(network.SigDiff(7), ShouldEqual, -1.5)
	})

	Convey("Given no external grades", t, func() {
		_, ok := network.MeanGradeValue(nil)
		So(ok, ShouldBeFalse)
	})
}

func TestBaseline(t *testing.T) {
	Convey("Given per-series averages of two schools", t, func() {
		histories := [][]model.PerformancePoint{
			{{Series: "MOCK 1", AvgComposite: 50, AvgAggregate: 30}, {Series: "MOCK 2", AvgComposite: 70, AvgAggregate: 20}},
			{{Series: "MOCK 2", AvgComposite: 60, AvgAggregate: 25}},
		}
		b := network.NewBaseline(histories)

		Convey("Then the baseline covers every point", func() {
			So(b.Points, ShouldEqual, 3)
			So(b.MeanComposite, ShouldEqual, 60.0)
			So(b.MeanAggregate, ShouldEqual, 25.0)
		})

		Convey("And a stronger school standardizes above the offset", func() {
			s := b.Standardize(model.PerformancePoint{AvgComposite: 70, AvgAggregate: 20})
			So(s.ZComposite, ShouldBeGreaterThan, 0)
			So(s.ZAggregate, ShouldBeGreaterThan, 0)
			So(s.Index, ShouldBeGreaterThan, 5)
			So(s.Index, ShouldAlmostEqual, (s.ZComposite+s.ZAggregate)/2+5, 1e-9)
		})

		Convey("And an average school sits on the offset", func() {
			s := b.Standardize(model.PerformancePoint{AvgComposite: 60, AvgAggregate: 25})
			So(s.Index, ShouldAlmostEqual, 5.0, 1e-9)
		})
	})

	Convey("Given a network with no spread", t, func() {
		b := network.NewBaseline([][]model.PerformancePoint{{{AvgComposite: 55, AvgAggregate: 24}}})
		s := b.Standardize(model.PerformancePoint{AvgComposite: 80, AvgAggregate: 10})

		Convey("Then z-scores are 0", func() {
			So(s.ZComposite, ShouldEqual, 0.0)
			So(s.ZAggregate, ShouldEqual, 0.0)
			So(s.Index, ShouldEqual, 5.0)
		})
	})
}

func school(id string, math []float64, prevMath []float64, ext map[string][]int) model.SchoolRegistryEntry {
	var roster []model.StudentRecord
	for i, m := range math {
		st := model.StudentRecord{
			ID: id + "-" + string(rune('a'+i)),
			MockData: map[string]model.SeriesScores{
				"MOCK 2": {
					Scores:        map[string]float64{"Mathematics": m},
					SectionScores: map[string]model.SectionScore{"Mathematics": {SectionA: 20, SectionB: 30}},
				},
			},
		}
		if i < len(prevMath) {
			st.MockData["MOCK 1"] = model.SeriesScores{Scores: map[string]float64{"Mathematics": prevMath[i]}}
		}
		roster = append(roster, st)
	}
	return model.SchoolRegistryEntry{
		ID:   id,
		Name: "School " + id,
		Dataset: model.Dataset{
			Roster:          roster,
			Settings:        model.Settings{ActiveSeries: "MOCK 2", CommittedMocks: []string{"MOCK 1"}},
			Staff:           []model.StaffAssignment{{Facilitator: "Teacher " + id, Subject: "Mathematics"}},
			ExternalResults: ext,
		},
	}
}

func TestRollup(t *testing.T) {
	Convey("Given three schools", t, func() {
		schools := []model.SchoolRegistryEntry{
			school("s2", []float64{40, 50}, []float64{50, 50}, map[string][]int{"Mathematics": {6, 7}}),
			school("s1", []float64{60, 60}, []float64{40, 40}, map[string][]int{"Mathematics": {3, 4}, "Science": {5}}),
			school("s3", []float64{80, 80}, nil, nil),
		}

		rep, err := network.Rollup(context.Background(), schools, network.WithWorkers(2))

		Convey("Then it succeeds", func() {
			So(err, ShouldBeNil)
		})

		Convey("And schools are listed by ID", func() {
			So(rep.Schools, ShouldHaveLength, 3)
			So(rep.Schools[0].SchoolID, ShouldEqual, "s1")
			So(rep.Schools[2].SchoolID, ShouldEqual, "s3")
		})

		Convey("And facilitators are ranked by TEI", func() {
			So(rep.Facilitators, ShouldHaveLength, 3)
			for i := 1; i < len(rep.Facilitators); i++ {
				So(rep.Facilitators[i-1].TEI, ShouldBeGreaterThanOrEqualTo, rep.Facilitators[i].TEI)
				So(rep.Facilitators[i].Rank, ShouldEqual, i+1)
			}
			So(rep.Facilitators[0].Facilitator, ShouldEqual, "Teacher s1")
			So(rep.Facilitators[0].Growth, ShouldAlmostEqual, 1.5, 1e-9)
		})

		Convey("And a school without prior data keeps growth at 1", func() {
			for _, f := range rep.Facilitators {
				if f.SchoolID == "s3" {
					So(f.Growth, ShouldEqual, 1.0)
				}
			}
		})

		Convey("And significant difference is reported per school and subject", func() {
			So(rep.SigDiff, ShouldHaveLength, 2)
			So(rep.SigDiff[0].SchoolID, ShouldEqual, "s1")
			So(rep.SigDiff[0].SigDiff, ShouldAlmostEqual, 5.5-4.0, 1e-9)
			So(rep.SigDiff[0].Subjects, ShouldHaveLength, 2)
			So(rep.SigDiff[1].SigDiff, ShouldAlmostEqual, -1.0, 1e-9)
		})

		Convey("And the standardized strength index ranks every school", func() {
			So(rep.Strength, ShouldHaveLength, 3)
			So(rep.Strength[0].SchoolID, ShouldEqual, "s3")
			So(rep.Strength[0].Rank, ShouldEqual, 1)
		})

		Convey("And repeated runs give the same ordering", func() {
			again, err := network.Rollup(context.Background(), schools, network.WithWorkers(1))
			So(err, ShouldBeNil)
			So(again.Facilitators, ShouldResemble, rep.Facilitators)
			So(again.Strength, ShouldResemble, rep.Strength)
		})
	})

	Convey("Given a cancelled context", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := network.Rollup(ctx, []model.SchoolRegistryEntry{school("s1", []float64{50}, nil, nil)})

		Convey("Then the rollup reports the cancellation", func() {
			So(err, ShouldNotBeNil)
		})
	})
}
