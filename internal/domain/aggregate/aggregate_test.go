package aggregate_test

import (
	"testing"

	"github.com/okian/mockstats/internal/domain/aggregate"
	"github.com/okian/mockstats/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func subj(name string, gv int, composite float64) model.SubjectScore {
	return model.SubjectScore{Subject: name, GradeValue: gv, Composite: composite}
}

func TestSelect(t *testing.T) {
	core := aggregate.DefaultCoreSubjects()

	Convey("Given core grades 2, 4, 7, 3 and elective grades 1, 5, 6", t, func() {
		subjects := []model.SubjectScore{
			subj("English Language", 2, 70),
			subj("Mathematics", 4, 60),
			subj("Science", 7, 40),
			subj("Social Studies", 3, 65),
			subj("French", 6, 50),
			subj("ICT", 1, 90),
			subj("Creative Arts", 5, 55),
		}

		res := aggregate.Select(subjects, core)

		Convey("Then the best-six aggregate is 22", func() {
			So(res.BestSix, ShouldEqual, 22)
		})

		Convey("And the two best electives are kept", func() {
			So(res.Electives, ShouldHaveLength, 2)
			So(res.Electives[0].Subject, ShouldEqual, "ICT")
			So(res.Electives[1].Subject, ShouldEqual, "Creative Arts")
		})

		Convey("And all four core subjects are included", func() {
			So(res.Core, ShouldHaveLength, 4)
			So(res.MissingCore, ShouldBeEmpty)
		})

		Convey("And the total score covers every subject", func() {
			So(res.TotalScore, ShouldEqual, 430.0)
		})
	})

	Convey("Given a student missing a core subject and an elective", t, func() {
		subjects := []model.SubjectScore{
			subj("English Language", 1, 90),
			subj("Mathematics", 1, 90),
			subj("Science", 1, 90),
			subj("ICT", 1, 90),
		}

		res := aggregate.Select(subjects, core)

		Convey("Then each missing slot counts as the worst grade", func() {
			So(res.MissingCore, ShouldResemble, []string{"Social Studies"})
			So(res.BestSix, ShouldEqual, 1+1+1+1+9+9)
		})
	})

	Convey("Given a student with no subjects", t, func() {
		res := aggregate.Select(nil, core)

		Convey("Then the aggregate is the worst possible", func() {
			So(res.BestSix, ShouldEqual, aggregate.Max)
			So(res.TotalScore, ShouldEqual, 0.0)
		})
	})

	Convey("Given electives with equal grade values", t, func() {
		subjects := []model.SubjectScore{
			subj("Music", 3, 60),
			subj("French", 3, 61),
			subj("ICT", 3, 62),
		}
		res := aggregate.Select(subjects, core)

		Convey("Then ties are broken by subject name", func() {
			So(res.Electives[0].Subject, ShouldEqual, "French")
			So(res.Electives[1].Subject, ShouldEqual, "ICT")
		})
	})

	Convey("Given every grade combination in range", t, func() {
		Convey("Then the aggregate stays within bounds", func() {
			for gv := 1; gv <= 9; gv++ {
				subjects := []model.SubjectScore{
					subj("English Language", gv, 0), subj("Mathematics", gv, 0),
					subj("Science", gv, 0), subj("Social Studies", gv, 0),
					subj("ICT", gv, 0), subj("French", gv, 0),
				}
				res := aggregate.Select(subjects, core)
				So(res.BestSix, ShouldBeBetweenOrEqual, aggregate.Min, aggregate.Max)
				So(res.BestSix, ShouldEqual, 6*gv)
			}
		})
	})
}
