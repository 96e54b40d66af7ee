// Package importer reads mock score sheets from Excel workbooks and
// writes processed results back out.
package importer

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/okian/mockstats/internal/domain/model"
)

// Column headers recognised in a score sheet. Matching ignores case,
// spaces and underscores.
const (
	ColStudentID = "studentid"
	ColName      = "name"
	ColGender    = "gender"
	ColSubject   = "subject"
	ColExam      = "exam"
	ColSBA       = "sba"
	ColSectionA  = "sectiona"
	ColSectionB  = "sectionb"
	ColRemark    = "remark"
)

var requiredColumns = []string{ColStudentID, ColName, ColSubject, ColExam} //nolint:gochecknoglobals // fixed sheet layout

// Option configures a Reader.
type Option func(*Reader)

// WithSheet selects the worksheet to read. The first sheet is used otherwise.
func WithSheet(name string) Option {
	return func(r *Reader) {
		r.sheet = name
	}
}

// Reader converts one worksheet of (student, subject) rows into roster records.
type Reader struct {
	sheet string
}

// NewReader returns a Reader.
func NewReader(opts ...Option) *Reader {
	r := &Reader{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ReadFile opens path and reads its rows as scores for series.
func (r *Reader) ReadFile(path, series string) ([]model.StudentRecord, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", ErrInvalidWorkbook, path, err)
	}
	defer func() { _ = f.Close() }()
	return r.read(f, series)
}

// Read reads an xlsx stream as scores for series.
func (r *Reader) Read(src io.Reader, series string) ([]model.StudentRecord, error) {
	f, err := excelize.OpenReader(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidWorkbook, err)
	}
	defer func() { _ = f.Close() }()
	return r.read(f, series)
}

func (r *Reader) read(f *excelize.File, series string) ([]model.StudentRecord, error) {
	if strings.TrimSpace(series) == "" {
		return nil, ErrNoSeries
	}
	sheet := r.sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("%w: no worksheets", ErrInvalidWorkbook)
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("%w: sheet %q: %w", ErrInvalidWorkbook, sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: sheet %q is empty", ErrInvalidWorkbook, sheet)
	}

	cols := headerIndex(rows[0])
	for _, c := range requiredColumns {
		if _, ok := cols[c]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, c)
		}
	}

	var order []string
	byID := map[string]*model.StudentRecord{}
	for i, row := range rows[1:] {
		line := i + 2
		id := cell(row, cols, ColStudentID)
		subject := cell(row, cols, ColSubject)
		if id == "" && subject == "" {
			continue
		}
		if id == "" || subject == "" {
			return nil, fmt.Errorf("%w: row %d: student id and subject are required", ErrInvalidRow, line)
		}

		st, ok := byID[id]
		if !ok {
			st = &model.StudentRecord{
				ID:       id,
				Name:     cell(row, cols, ColName),
				Gender:   cell(row, cols, ColGender),
				MockData: map[string]model.SeriesScores{},
			}
			byID[id] = st
			order = append(order, id)
		}
		if err := addSubject(st, series, subject, row, cols); err != nil {
			return nil, fmt.Errorf("%w: row %d: %w", ErrInvalidRow, line, err)
		}
	}

	out := make([]model.StudentRecord, 0, len(order))
	for _, id := range order {
		out = append(out, *byID[id])
	}
	return out, nil
}

func addSubject(st *model.StudentRecord, series, subject string, row []string, cols map[string]int) error {
	entry := st.MockData[series]
	if entry.Scores == nil {
		entry.Scores = map[string]float64{}
	}

	exam, ok, err := number(cell(row, cols, ColExam))
	if err != nil {
		return fmt.Errorf("exam: %w", err)
	}
	if !ok {
		// A blank exam cell means the subject was not sat.
		return nil
	}
	entry.Scores[subject] = exam

	if sba, ok, err := number(cell(row, cols, ColSBA)); err != nil {
		return fmt.Errorf("sba: %w", err)
	} else if ok {
		if entry.SBAScores == nil {
			entry.SBAScores = map[string]float64{}
		}
		entry.SBAScores[subject] = sba
	}

	a, okA, err := number(cell(row, cols, ColSectionA))
	if err != nil {
		return fmt.Errorf("section a: %w", err)
	}
	b, okB, err := number(cell(row, cols, ColSectionB))
	if err != nil {
		return fmt.Errorf("section b: %w", err)
	}
	if okA || okB {
		if entry.SectionScores == nil {
			entry.SectionScores = map[string]model.SectionScore{}
		}
		entry.SectionScores[subject] = model.SectionScore{SectionA: a, SectionB: b}
	}

	if remark := cell(row, cols, ColRemark); remark != "" {
		if entry.Remarks == nil {
			entry.Remarks = map[string]string{}
		}
		entry.Remarks[subject] = remark
	}

	st.MockData[series] = entry
	return nil
}

func headerIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		key := normalize(h)
		if _, dup := idx[key]; !dup && key != "" {
			idx[key] = i
		}
	}
	return idx
}

func normalize(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	return strings.NewReplacer(" ", "", "_", "", "-", "").Replace(h)
}

func cell(row []string, cols map[string]int, col string) string {
	i, ok := cols[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func number(s string) (float64, bool, error) {
	if s == "" {
		return 0, false, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false, fmt.Errorf("not a number: %q", s)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false, fmt.Errorf("not a finite number: %q", s)
	}
	if v < 0 {
		return 0, false, fmt.Errorf("negative score: %q", s)
	}
	return v, true, nil
}

// Merge folds imported scores for series into roster. Known students get
// their series entry replaced; unknown students are appended. Committed
// history is never touched.
func Merge(roster, imported []model.StudentRecord, series string) []model.StudentRecord {
	out := make([]model.StudentRecord, len(roster), len(roster)+len(imported))
	pos := make(map[string]int, len(roster))
	for i, st := range roster {
		out[i] = st
		pos[st.ID] = i
	}
	for _, in := range imported {
		entry := in.MockData[series]
		i, ok := pos[in.ID]
		if !ok {
			out = append(out, in)
			pos[in.ID] = len(out) - 1
			continue
		}
		st := out[i]
		data := make(map[string]model.SeriesScores, len(st.MockData)+1)
		for k, v := range st.MockData {
			data[k] = v
		}
		data[series] = entry
		st.MockData = data
		if st.Name == "" {
			st.Name = in.Name
		}
		if st.Gender == "" {
			st.Gender = in.Gender
		}
		out[i] = st
	}
	return out
}
