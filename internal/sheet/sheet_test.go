package sheet

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/xuri/excelize/v2"

	"github.com/okian/mockstats/internal/adapters/http/api"
	"github.com/okian/mockstats/internal/adapters/importer"
	service "github.com/okian/mockstats/internal/app"
	"github.com/okian/mockstats/pkg/logger"
)

func runCLI(args ...string) (string, error) {
	var out, errOut bytes.Buffer
	root := NewRootCommand(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func writeSchools(dir string, seed uint64, n, students int) []string {
	var paths []string
	for _, s := range generateSchools(seed, n, students) {
		b, err := json.Marshal(s)
		So(err, ShouldBeNil)
		p := filepath.Join(dir, s.ID+".json")
		So(os.WriteFile(p, b, 0o600), ShouldBeNil)
		paths = append(paths, p)
	}
	return paths
}

func TestGenerateSchools(t *testing.T) {
	Convey("Given the school generator", t, func() {
		Convey("Then equal seeds give equal schools", func() {
			So(generateSchools(42, 2, 5), ShouldResemble, generateSchools(42, 2, 5))
		})

		Convey("Then different seeds give different scores", func() {
			a := generateSchools(1, 1, 5)[0].Dataset.Roster[0].MockData[seedFirstSeries]
			b := generateSchools(2, 1, 5)[0].Dataset.Roster[0].MockData[seedFirstSeries]
			So(a, ShouldNotResemble, b)
		})

		Convey("Then every student sits both series within range", func() {
			schools := generateSchools(7, 3, 8)
			So(schools, ShouldHaveLength, 3)
			So(schools[0].ID, ShouldEqual, "seed-001")
			So(schools[2].ID, ShouldEqual, "seed-003")
			for _, s := range schools {
				So(s.Dataset.Roster, ShouldHaveLength, 8)
				So(s.Dataset.Settings.ActiveSeries, ShouldEqual, seedFirstSeries)
				for _, st := range s.Dataset.Roster {
					for _, series := range []string{seedFirstSeries, seedSecondSeries} {
						scores := st.MockData[series].Scores
						So(scores, ShouldHaveLength, 4+len(seedElectives))
						for _, v := range scores {
							So(v, ShouldBeBetweenOrEqual, 0, 100)
						}
					}
				}
			}
		})
	})
}

func TestRankCommand(t *testing.T) {
	Convey("Given a school file", t, func() {
		dir := t.TempDir()
		paths := writeSchools(dir, 3, 1, 10)

		Convey("When it is ranked", func() {
			out, err := runCLI("rank", paths[0])

			Convey("Then the broadsheet lists every student", func() {
				So(err, ShouldBeNil)
				So(out, ShouldContainSubstring, "MOCK 1: 10 students")
				So(out, ShouldContainSubstring, "seed-001-s001")
				So(strings.ToLower(out), ShouldContainSubstring, "mathematics")
			})
		})

		Convey("When it is ranked with an export path", func() {
			xlsx := filepath.Join(dir, "results.xlsx")
			_, err := runCLI("rank", paths[0], "--series", "MOCK 2", "--export", xlsx)
			So(err, ShouldBeNil)

			Convey("Then the workbook has a header and one row per student", func() {
				f, err := excelize.OpenFile(xlsx)
				So(err, ShouldBeNil)
				defer func() { _ = f.Close() }()
				rows, err := f.GetRows(importer.ResultsSheet)
				So(err, ShouldBeNil)
				So(rows, ShouldHaveLength, 11)
				So(rows[0][0], ShouldEqual, "Rank")
				So(rows[1][0], ShouldEqual, "1")
			})
		})

		Convey("When an unknown mode is given", func() {
			_, err := runCLI("rank", paths[0], "--mode", "curve")

			Convey("Then a usage error is returned", func() {
				So(errors.Is(err, ErrUsage), ShouldBeTrue)
			})
		})
	})

	Convey("Given a score workbook", t, func() {
		dir := t.TempDir()
		f := excelize.NewFile()
		rows := [][]interface{}{
			{"Student ID", "Name", "Subject", "Exam"},
			{"s1", "Ama", "Mathematics", 85},
			{"s1", "Ama", "English Language", 78},
			{"s2", "Kofi", "Mathematics", 52},
			{"s2", "Kofi", "English Language", 61},
		}
		for i, row := range rows {
			addr, _ := excelize.CoordinatesToCellName(1, i+1)
			r := row
			So(f.SetSheetRow("Sheet1", addr, &r), ShouldBeNil)
		}
		path := filepath.Join(dir, "hilltop.xlsx")
		So(f.SaveAs(path), ShouldBeNil)
		So(f.Close(), ShouldBeNil)

		Convey("When it is ranked with criterion grading", func() {
			out, err := runCLI("rank", path, "--series", "MOCK 1", "--mode", "criterion")

			Convey("Then the stronger student is listed first", func() {
				So(err, ShouldBeNil)
				So(out, ShouldContainSubstring, "MOCK 1: 2 students")
				So(strings.Index(out, "Ama"), ShouldBeLessThan, strings.Index(out, "Kofi"))
			})
		})

		Convey("When no series is given", func() {
			_, err := runCLI("rank", path)

			Convey("Then a usage error is returned", func() {
				So(errors.Is(err, ErrUsage), ShouldBeTrue)
			})
		})
	})

	Convey("Given an unsupported file", t, func() {
		path := filepath.Join(t.TempDir(), "scores.csv")
		So(os.WriteFile(path, []byte("id,name"), 0o600), ShouldBeNil)

		Convey("Then rank rejects it", func() {
			_, err := runCLI("rank", path, "--series", "MOCK 1")
			So(errors.Is(err, ErrUnsupported), ShouldBeTrue)
		})
	})
}

func TestKPIAndNetworkCommands(t *testing.T) {
	Convey("Given generated school files", t, func() {
		paths := writeSchools(t.TempDir(), 11, 3, 12)

		Convey("When kpi runs on one school", func() {
			out, err := runCLI("kpi", paths[0])

			Convey("Then subjects and the summary are printed", func() {
				So(err, ShouldBeNil)
				So(strings.ToLower(out), ShouldContainSubstring, "facilitator")
				So(out, ShouldContainSubstring, "MOCK 1: composite")
			})
		})

		Convey("When network runs on all schools", func() {
			out, err := runCLI("network", "--workers", "2", paths[0], paths[1], paths[2])

			Convey("Then every school appears in the report", func() {
				So(err, ShouldBeNil)
				So(out, ShouldContainSubstring, "Seed School 1")
				So(out, ShouldContainSubstring, "Seed School 2")
				So(out, ShouldContainSubstring, "Seed School 3")
			})
		})

		Convey("When network runs without files", func() {
			_, err := runCLI("network")

			Convey("Then it fails", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}

func TestSeed(t *testing.T) {
	Convey("Given a running server", t, func() {
		So(logger.Init(logger.WithWriter(io.Discard)), ShouldBeNil)
		svc := service.New()
		mux := http.NewServeMux()
		api.NewServer(svc, nil).Register(context.Background(), mux)
		srv := httptest.NewServer(mux)
		defer srv.Close()

		Convey("When it is seeded", func() {
			stats, err := Seed(context.Background(), SeedConfig{
				BaseURL:  srv.URL,
				Schools:  3,
				Students: 12,
				Workers:  2,
				Timeout:  5 * time.Second,
				Seed:     9,
			})

			Convey("Then every school is submitted and verified", func() {
				So(err, ShouldBeNil)
				So(stats.SchoolsSubmitted, ShouldEqual, 3)
				So(stats.SchoolsVerified, ShouldEqual, 3)
				So(stats.Commits, ShouldEqual, 3)
				So(stats.NetworkSchools, ShouldEqual, 3)
			})

			Convey("Then the second series is active after the first was committed", func() {
				So(err, ShouldBeNil)
				entry, err := svc.GetSchool(context.Background(), "seed-002")
				So(err, ShouldBeNil)
				So(entry.Dataset.Settings.ActiveSeries, ShouldEqual, seedSecondSeries)
				So(entry.Dataset.Settings.CommittedMocks, ShouldResemble, []string{seedFirstSeries})
				So(entry.PerformanceHistory, ShouldHaveLength, 1)
			})
		})

		Convey("When the server is unreachable", func() {
			srv.Close()
			_, err := Seed(context.Background(), SeedConfig{BaseURL: srv.URL, Schools: 1, Students: 1, Timeout: time.Second})

			Convey("Then the health check fails", func() {
				So(err, ShouldNotBeNil)
			})
		})

		Convey("When the counts are not positive", func() {
			_, err := Seed(context.Background(), SeedConfig{BaseURL: srv.URL})

			Convey("Then a usage error is returned", func() {
				So(errors.Is(err, ErrUsage), ShouldBeTrue)
			})
		})
	})

	Convey("Given the seed command", t, func() {
		_, err := runCLI("seed", "--schools", "0")

		Convey("Then invalid counts are rejected before any request", func() {
			So(errors.Is(err, ErrUsage), ShouldBeTrue)
		})
	})
}
