package importer

import (
	"fmt"
	"io"
	"sort"

	"github.com/xuri/excelize/v2"

	"github.com/okian/mockstats/internal/domain/cohort"
)

// ResultsSheet is the worksheet written by WriteResults.
const ResultsSheet = "Results"

// WriteResults writes a ranked broadsheet: one row per student with the
// grade of every subject, the best-six aggregate and the category.
func WriteResults(w io.Writer, res cohort.Result) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", ResultsSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	subjects := make([]string, 0, len(res.Statistics.SubjectCounts))
	for s := range res.Statistics.SubjectCounts {
		subjects = append(subjects, s)
	}
	sort.Strings(subjects)

	header := []interface{}{"Rank", "StudentID", "Name"}
	for _, s := range subjects {
		header = append(header, s)
	}
	header = append(header, "Aggregate", "Total", "Category")
	if err := f.SetSheetRow(ResultsSheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, st := range res.Students {
		grades := make(map[string]string, len(st.Subjects))
		for _, sub := range st.Subjects {
			grades[sub.Subject] = sub.Grade
		}
		row := []interface{}{st.Rank, st.ID, st.Name}
		for _, s := range subjects {
			row = append(row, grades[s])
		}
		row = append(row, st.BestSixAggregate, st.TotalScore, st.Category)

		addr, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("row %d: %w", i+2, err)
		}
		if err := f.SetSheetRow(ResultsSheet, addr, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
