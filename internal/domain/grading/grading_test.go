package grading_test

import (
	"testing"

	"github.com/okian/mockstats/internal/domain/grading"
	"github.com/okian/mockstats/internal/domain/model"
	"github.com/okian/mockstats/internal/domain/stats"
	. "github.com/smartystreets/goconvey/convey"
)

func TestAssignNorm(t *testing.T) {
	Convey("Given cohort scores 80, 60 and 40 with default thresholds", t, func() {
		scores := []float64{80, 60, 40}
		mean, sd := stats.MeanStdDev(scores)
		th := grading.DefaultNormThresholds()

		Convey("Then 80 has z about 1.225 and earns B2", func() {
			So(grading.ZScore(80, mean, sd), ShouldAlmostEqual, 1.2247, 1e-4)
			g := grading.AssignNorm(80, mean, sd, th)
			So(g.Label, ShouldEqual, grading.B2)
			So(g.Value, ShouldEqual, 2)
		})

		Convey("And 60 sits on the mean and earns C4", func() {
			g := grading.AssignNorm(60, mean, sd, th)
			So(g.Label, ShouldEqual, grading.C4)
			So(g.Value, ShouldEqual, 4)
		})

		Convey("And 40 earns D7", func() {
			g := grading.AssignNorm(40, mean, sd, th)
			So(g.Label, ShouldEqual, grading.D7)
			So(g.Value, ShouldEqual, 7)
		})
	})

	Convey("Given a cohort with zero spread", t, func() {
		Convey("Then every score collapses to the midpoint grade", func() {
			g := grading.AssignNorm(55, 55, 0, grading.DefaultNormThresholds())
			So(g.Label, ShouldEqual, grading.C4)
			So(grading.ZScore(99, 55, 0), ShouldEqual, 0.0)
		})
	})

	Convey("Given a z-score below every cutoff", t, func() {
		g := grading.AssignNorm(0, 60, 10, grading.DefaultNormThresholds())

		Convey("Then the worst grade is assigned", func() {
			So(g, ShouldResemble, grading.Worst)
		})
	})

	Convey("Given thresholds supplied out of order", t, func() {
		th := model.GradingThresholds{
			{Label: grading.C4, Cutoff: 0},
			{Label: grading.A1, Cutoff: 1.645},
			{Label: grading.B2, Cutoff: 1.036},
		}

		Convey("Then they are scanned from the highest cutoff", func() {
			So(grading.Lookup(2.0, th).Label, ShouldEqual, grading.A1)
			So(grading.Lookup(1.1, th).Label, ShouldEqual, grading.B2)
			So(grading.Lookup(0.5, th).Label, ShouldEqual, grading.C4)
			So(grading.Lookup(-0.5, th).Label, ShouldEqual, grading.F9)
		})
	})
}

func TestAssignMonotonic(t *testing.T) {
	Convey("Given a spread of scores in one subject", t, func() {
		scores := []float64{3, 17, 22, 35, 41, 48, 50, 52, 58, 63, 67, 71, 79, 84, 90, 97}
		mean, sd := stats.MeanStdDev(scores)

		for _, mode := range []model.GradingMode{model.ModeNormReferenced, model.ModeCriterion} {
			a := grading.NewAssigner(grading.WithMode(mode))

			Convey("Then a higher score never earns a worse grade in "+string(mode)+" mode", func() {
				prev, _ := a.Assign(scores[0], mean, sd)
				for _, s := range scores[1:] {
					g, _ := a.Assign(s, mean, sd)
					So(g.Value, ShouldBeLessThanOrEqualTo, prev.Value)
					prev = g
				}
			})
		}
	})
}

func TestAssigner(t *testing.T) {
	Convey("Given criterion settings", t, func() {
		useT := true
		a := grading.FromSettings(model.Settings{GradingMode: model.ModeCriterion, UseTDistribution: &useT})

		Convey("Then fixed cutoffs apply regardless of the cohort", func() {
			g, _ := a.Assign(72, 90, 5)
			So(g.Label, ShouldEqual, grading.B2)
			g, _ = a.Assign(39.9, 10, 5)
			So(g.Label, ShouldEqual, grading.F9)
		})

		Convey("And the t-distribution flag is carried", func() {
			So(a.Mode(), ShouldEqual, model.ModeCriterion)
			So(a.UsesTDistribution(), ShouldBeTrue)
		})
	})

	Convey("Given the t-distribution flag on norm-referenced grading", t, func() {
		with := grading.NewAssigner(grading.WithTDistribution(true))
		without := grading.NewAssigner()

		Convey("Then grades are unchanged", func() {
			for _, s := range []float64{10, 45, 60, 75, 99} {
				g1, _ := with.Assign(s, 60, 15)
				g2, _ := without.Assign(s, 60, 15)
				So(g1, ShouldResemble, g2)
			}
		})
	})

	Convey("Given an unknown grading mode", t, func() {
		a := grading.NewAssigner(grading.WithMode("curve"))

		Convey("Then the default mode is kept", func() {
			So(a.Mode(), ShouldEqual, model.ModeNormReferenced)
		})
	})
}

func TestValue(t *testing.T) {
	Convey("Given the fixed label mapping", t, func() {
		for i, label := range grading.Labels() {
			So(grading.Value(label), ShouldEqual, i+1)
		}
		So(grading.Value("Z0"), ShouldEqual, grading.WorstValue)
	})
}

func TestCategorize(t *testing.T) {
	Convey("Given the default category bands", t, func() {
		So(grading.Categorize(6, nil), ShouldEqual, grading.Distinction)
		So(grading.Categorize(22, nil), ShouldEqual, grading.Merit)
		So(grading.Categorize(30, nil), ShouldEqual, grading.Pass)
		So(grading.Categorize(54, nil), ShouldEqual, grading.Fail)
		So(grading.Categorize(60, nil), ShouldEqual, grading.Unclassified)
	})

	Convey("Given custom bands", t, func() {
		bands := []model.CategoryThreshold{{Label: "Top", Min: 6, Max: 9}}
		So(grading.Categorize(8, bands), ShouldEqual, "Top")
		So(grading.Categorize(10, bands), ShouldEqual, grading.Unclassified)
	})
}
