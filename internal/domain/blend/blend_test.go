package blend_test

import (
	"testing"

	"github.com/okian/mockstats/internal/domain/blend"
	"github.com/okian/mockstats/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestComposite(t *testing.T) {
	Convey("Given an SBA configuration weighted 0.7/0.3", t, func() {
		cfg := model.SBAConfig{Enabled: true, WeightExam: 0.7, WeightSBA: 0.3}

		Convey("When blending exam 72 with SBA 85", func() {
			sba := 85.0
			got := blend.Composite(72, &sba, cfg)

			Convey("Then the composite is 75.9", func() {
				So(got, ShouldAlmostEqual, 75.9, 1e-9)
			})
		})

		Convey("When the SBA score is missing", func() {
			got := blend.Composite(80, nil, cfg)

			Convey("Then it counts as zero", func() {
				So(got, ShouldAlmostEqual, 56.0, 1e-9)
			})
		})

		Convey("When the raw score exceeds the usual maximum", func() {
			sba := 100.0
			got := blend.Composite(150, &sba, cfg)

			Convey("Then it passes through unclamped", func() {
				So(got, ShouldAlmostEqual, 135.0, 1e-9)
			})
		})
	})

	Convey("Given SBA blending disabled", t, func() {
		cfg := model.SBAConfig{Enabled: false, WeightExam: 0.7, WeightSBA: 0.3}
		sba := 10.0

		Convey("Then the raw exam score is returned", func() {
			So(blend.Composite(64, &sba, cfg), ShouldEqual, 64.0)
		})
	})
}

func TestSBAFor(t *testing.T) {
	Convey("Given a series entry with one SBA score", t, func() {
		scores := model.SeriesScores{SBAScores: map[string]float64{"Science": 70}}

		So(*blend.SBAFor(scores, "Science"), ShouldEqual, 70.0)
		So(blend.SBAFor(scores, "English Language"), ShouldBeNil)
	})
}
