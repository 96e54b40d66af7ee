package sheet

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/okian/mockstats/internal/domain/cohort"
	"github.com/okian/mockstats/internal/domain/kpi"
	"github.com/okian/mockstats/internal/domain/network"
)

func fmtFloat(f float64) string { return strconv.FormatFloat(f, 'f', 2, 64) }

func newTable(w io.Writer, headers []string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.Header(headers)
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})
	return table
}

func flush(table *tablewriter.Table, data [][]string) error {
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// renderResults prints the ranked broadsheet: one grade column per subject.
func renderResults(w io.Writer, res cohort.Result) error {
	subjects := make([]string, 0, len(res.Statistics.SubjectCounts))
	for s := range res.Statistics.SubjectCounts {
		subjects = append(subjects, s)
	}
	sort.Strings(subjects)

	headers := []string{"Rank", "ID", "Name"}
	headers = append(headers, subjects...)
	headers = append(headers, "Agg", "Total", "Category")
	table := newTable(w, headers)

	data := make([][]string, 0, len(res.Students))
	for _, st := range res.Students {
		grades := make(map[string]string, len(st.Subjects))
		for _, sub := range st.Subjects {
			grades[sub.Subject] = sub.Grade
		}
		row := []string{strconv.Itoa(st.Rank), st.ID, st.Name}
		for _, s := range subjects {
			g := grades[s]
			if g == "" {
				g = "-"
			}
			row = append(row, g)
		}
		row = append(row, strconv.Itoa(st.BestSixAggregate), fmtFloat(st.TotalScore), st.Category)
		data = append(data, row)
	}
	if _, err := fmt.Fprintf(w, "%s: %d students\n", res.Series, len(res.Students)); err != nil {
		return err
	}
	return flush(table, data)
}

// renderKPI prints the subject KPI table followed by the school summary.
func renderKPI(w io.Writer, school kpi.School) error {
	table := newTable(w, []string{"Rank", "Subject", "Facilitator", "N", "Mean", "SD", "QPR %", "Consistency", "SVI"})
	data := make([][]string, 0, len(school.Subjects))
	for _, s := range school.Subjects {
		data = append(data, []string{
			strconv.Itoa(s.Rank), s.Subject, s.Facilitator, strconv.Itoa(s.N),
			fmtFloat(s.Mean), fmtFloat(s.StdDev), fmtFloat(s.QPR), fmtFloat(s.Consistency), fmtFloat(s.SVI),
		})
	}
	if err := flush(table, data); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%s: composite %s, aggregate %s, objective %s, theory %s, strength %s\n",
		school.Series,
		fmtFloat(school.Summary.AvgComposite),
		fmtFloat(school.Summary.AvgAggregate),
		fmtFloat(school.Summary.AvgObjective),
		fmtFloat(school.Summary.AvgTheory),
		fmtFloat(school.StrengthIndex),
	)
	return err
}

// renderNetwork prints the strength, TEI and significant-difference tables.
func renderNetwork(w io.Writer, report network.Report) error {
	strength := newTable(w, []string{"Rank", "School", "Series", "zComp", "zAgg", "Index"})
	var data [][]string
	for _, s := range report.Strength {
		data = append(data, []string{
			strconv.Itoa(s.Rank), s.SchoolName, s.Series,
			fmtFloat(s.ZComposite), fmtFloat(s.ZAggregate), fmtFloat(s.Index),
		})
	}
	if err := flush(strength, data); err != nil {
		return err
	}

	if len(report.Facilitators) > 0 {
		tei := newTable(w, []string{"Rank", "School", "Facilitator", "Subject", "Mean", "Grade", "Growth", "TEI"})
		data = data[:0]
		for _, f := range report.Facilitators {
			data = append(data, []string{
				strconv.Itoa(f.Rank), f.SchoolName, f.Facilitator, f.Subject,
				fmtFloat(f.Mean), fmtFloat(f.GradeFactor), fmtFloat(f.Growth), fmtFloat(f.TEI),
			})
		}
		if err := flush(tei, data); err != nil {
			return err
		}
	}

	if len(report.SigDiff) > 0 {
		sig := newTable(w, []string{"School", "External mean", "SigDiff"})
		data = data[:0]
		for _, s := range report.SigDiff {
			data = append(data, []string{s.SchoolName, fmtFloat(s.ExternalMean), fmtFloat(s.SigDiff)})
		}
		if err := flush(sig, data); err != nil {
			return err
		}
	}
	return nil
}
