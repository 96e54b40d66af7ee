package stats_test

import (
	"testing"

	"github.com/okian/mockstats/internal/domain/model"
	"github.com/okian/mockstats/internal/domain/stats"
	. "github.com/smartystreets/goconvey/convey"
)

func student(id string, series string, scores map[string]float64, sections map[string]model.SectionScore) model.StudentRecord {
	return model.StudentRecord{
		ID:   id,
		Name: id,
		MockData: map[string]model.SeriesScores{
			series: {Scores: scores, SectionScores: sections},
		},
	}
}

func TestMeanStdDev(t *testing.T) {
	Convey("Given the cohort scores 80, 60 and 40", t, func() {
		mean, sd := stats.MeanStdDev([]float64{80, 60, 40})

		Convey("Then the population mean is 60", func() {
			So(mean, ShouldEqual, 60.0)
		})

		Convey("And the population standard deviation is about 16.33", func() {
			So(sd, ShouldAlmostEqual, 16.3299, 1e-4)
		})
	})

	Convey("Given an empty sample", t, func() {
		mean, sd := stats.MeanStdDev(nil)

		Convey("Then both statistics are zero", func() {
			So(mean, ShouldEqual, 0.0)
			So(sd, ShouldEqual, 0.0)
		})
	})

	Convey("Given an arbitrary sample", t, func() {
		xs := []float64{12.5, 99, 47.25, 3, 61, 61, 88.125}
		mean, _ := stats.MeanStdDev(xs)

		Convey("Then deviations from the mean sum to zero", func() {
			var sum float64
			for _, x := range xs {
				sum += x - mean
			}
			So(sum, ShouldAlmostEqual, 0.0, 1e-9)
		})
	})
}

func TestCompute(t *testing.T) {
	Convey("Given a cohort with scores in two series", t, func() {
		cohort := []model.StudentRecord{
			student("s1", "MOCK 1", map[string]float64{"Mathematics": 80, "Science": 50},
				map[string]model.SectionScore{"Mathematics": {SectionA: 30, SectionB: 50}}),
			student("s2", "MOCK 1", map[string]float64{"Mathematics": 60},
				map[string]model.SectionScore{"Mathematics": {SectionA: 20, SectionB: 40}}),
			student("s3", "MOCK 1", map[string]float64{"Mathematics": 40}, nil),
			student("s4", "MOCK 2", map[string]float64{"Mathematics": 100}, nil),
		}

		Convey("When computing statistics for MOCK 1", func() {
			cs := stats.Compute(cohort, "MOCK 1", model.SBAConfig{})

			Convey("Then only MOCK 1 entries are counted", func() {
				So(cs.Series, ShouldEqual, "MOCK 1")
				So(cs.SubjectCounts["Mathematics"], ShouldEqual, 3)
				So(cs.SubjectMeans["Mathematics"], ShouldEqual, 60.0)
				So(cs.SubjectStdDevs["Mathematics"], ShouldAlmostEqual, 16.3299, 1e-4)
			})

			Convey("And students lacking a subject are excluded from its denominator", func() {
				So(cs.SubjectCounts["Science"], ShouldEqual, 1)
				So(cs.SubjectMeans["Science"], ShouldEqual, 50.0)
				So(cs.SubjectStdDevs["Science"], ShouldEqual, 0.0)
			})

			Convey("And section statistics are computed independently", func() {
				So(cs.SubjectSectionAMeans["Mathematics"], ShouldEqual, 25.0)
				So(cs.SubjectSectionAStdDevs["Mathematics"], ShouldEqual, 5.0)
				So(cs.SubjectSectionBMeans["Mathematics"], ShouldEqual, 45.0)
			})
		})

		Convey("When computing statistics for a series nobody sat", func() {
			cs := stats.Compute(cohort, "MOCK 9", model.SBAConfig{})

			Convey("Then the result is empty", func() {
				So(cs.SubjectMeans, ShouldBeEmpty)
			})
		})

		Convey("When SBA blending is enabled", func() {
			blended := model.StudentRecord{ID: "s5", MockData: map[string]model.SeriesScores{
				"MOCK 1": {
					Scores:    map[string]float64{"Mathematics": 80},
					SBAScores: map[string]float64{"Mathematics": 100},
				},
			}}
			cs := stats.Compute([]model.StudentRecord{blended}, "MOCK 1", model.SBAConfig{Enabled: true, WeightExam: 0.5, WeightSBA: 0.5})

			Convey("Then statistics use the composite score", func() {
				So(cs.SubjectMeans["Mathematics"], ShouldEqual, 90.0)
			})
		})
	})
}
