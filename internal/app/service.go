// Package service orchestrates the registry store and the scoring engine
// behind the HTTP API and the CLI.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"reflect"
	"runtime"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/okian/mockstats/internal/adapters/importer"
	"github.com/okian/mockstats/internal/adapters/repository"
	"github.com/okian/mockstats/internal/domain/cohort"
	"github.com/okian/mockstats/internal/domain/grading"
	"github.com/okian/mockstats/internal/domain/history"
	"github.com/okian/mockstats/internal/domain/kpi"
	"github.com/okian/mockstats/internal/domain/model"
	"github.com/okian/mockstats/internal/domain/network"
	"github.com/okian/mockstats/pkg/logger"
	"github.com/okian/mockstats/pkg/metrics"
)

// Status assigned to schools registered without one.
const StatusActive = "active"

// Results is a processed cohort together with how it was produced.
type Results struct {
	cohort.Result
	Mode  model.GradingMode `json:"gradingMode"`
	State history.State     `json:"state"`
	// Trends are keyed by student ID and only present for the active series.
	Trends map[string]history.Trend `json:"trends,omitempty"`
}

// CommitResult describes one commit of the active series.
type CommitResult struct {
	CommitID    string                 `json:"commitId"`
	Series      string                 `json:"series"`
	CommittedAt time.Time              `json:"committedAt"`
	Recommit    bool                   `json:"recommit"`
	Students    int                    `json:"students"`
	Point       model.PerformancePoint `json:"performancePoint"`
}

// Service implements the API dependencies for the mock statistics system.
type Service struct {
	// mu serializes read-modify-write cycles on stored schools.
	mu sync.Mutex

	store         repository.Store
	validate      *validator.Validate
	defaults      model.Settings
	rollupWorkers int
	now           func() time.Time
	newID         func() string

	logger logger.Logger
}

// New constructs a Service. Without WithStore it keeps schools in memory.
func New(opts ...Option) *Service {
	s := &Service{
		store:         repository.NewMemStore(),
		rollupWorkers: runtime.NumCPU(),
		now:           time.Now,
		newID:         uuid.NewString,
		logger:        logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	v := validator.New(validator.WithRequiredStructEnabled())
	// Report JSON field names in validation errors.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	s.validate = v
	return s
}

// Close releases the store.
func (s *Service) Close() error {
	return s.store.Close()
}

// UpsertSchool validates entry, fills unset settings from the service
// defaults and stores it. When the school already exists its committed
// ledger, snapshots and performance points are carried into the upload;
// altering a committed snapshot fails with ErrSeriesCommitted.
func (s *Service) UpsertSchool(ctx context.Context, entry model.SchoolRegistryEntry) (model.SchoolRegistryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.applyDefaults(&entry.Dataset.Settings)
	if entry.Status == "" {
		entry.Status = StatusActive
	}
	entry.StudentCount = len(entry.Dataset.Roster)
	entry.RemarkTelemetry = remarkTelemetry(entry.Dataset)

	if err := s.validateEntry(entry); err != nil {
		metrics.RecordError("service", "validation")
		return model.SchoolRegistryEntry{}, err
	}

	existing, err := s.store.GetSchool(ctx, entry.ID)
	switch {
	case err == nil:
		if err := freezeCommitted(existing, &entry); err != nil {
			metrics.RecordError("service", "committed")
			return model.SchoolRegistryEntry{}, err
		}
	case !errors.Is(err, repository.ErrNotFound):
		return model.SchoolRegistryEntry{}, fmt.Errorf("load school %s: %w", entry.ID, err)
	}

	if err := s.store.PutSchool(ctx, entry); err != nil {
		return model.SchoolRegistryEntry{}, fmt.Errorf("store school %s: %w", entry.ID, err)
	}
	s.logger.Info(ctx, "school stored",
		logger.School(entry.ID),
		logger.Int("students", entry.StudentCount),
		logger.Series(entry.Dataset.Settings.ActiveSeries),
	)
	return entry, nil
}

// GetSchool returns a stored school.
func (s *Service) GetSchool(ctx context.Context, id string) (model.SchoolRegistryEntry, error) {
	return s.store.GetSchool(ctx, id)
}

// ListSchools returns every stored school ordered by ID.
func (s *Service) ListSchools(ctx context.Context) ([]model.SchoolRegistryEntry, error) {
	return s.store.ListSchools(ctx)
}

// DeleteSchool removes a school from the network.
func (s *Service) DeleteSchool(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.DeleteSchool(ctx, id); err != nil {
		return err
	}
	s.logger.Info(ctx, "school deleted", logger.School(id))
	return nil
}

// Process grades and ranks a school's cohort for series. An empty series
// selects the active one.
func (s *Service) Process(ctx context.Context, id, series string) (*Results, error) {
	entry, err := s.store.GetSchool(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.process(entry, series)
}

func (s *Service) process(entry model.SchoolRegistryEntry, series string) (*Results, error) {
	settings := entry.Dataset.Settings
	if series == "" {
		series = settings.ActiveSeries
	}
	if series == "" {
		return nil, ErrSeriesEmpty
	}

	start := time.Now()
	res := cohort.ProcessSeries(entry.Dataset.Roster, settings, entry.Dataset.Staff, series)
	mode := grading.FromSettings(settings).Mode()
	metrics.RecordCohortProcessed(string(mode), len(res.Students), float64(time.Since(start).Microseconds())/1000.0)

	out := &Results{
		Result: res,
		Mode:   mode,
		State:  history.StateOf(settings.CommittedMocks, series),
	}
	if series == settings.ActiveSeries {
		out.Trends = map[string]history.Trend{}
		for _, st := range res.Students {
			if t, ok := history.StudentTrend(st.StudentRecord, settings.CommittedMocks, series, st.BestSixAggregate); ok {
				out.Trends[st.ID] = t
			}
		}
	}
	return out, nil
}

// Statistics returns the cohort statistics of series.
func (s *Service) Statistics(ctx context.Context, id, series string) (model.ClassStatistics, error) {
	res, err := s.Process(ctx, id, series)
	if err != nil {
		return model.ClassStatistics{}, err
	}
	return res.Statistics, nil
}

// KPI returns the institution-level indicators of series.
func (s *Service) KPI(ctx context.Context, id, series string) (kpi.School, error) {
	res, err := s.Process(ctx, id, series)
	if err != nil {
		return kpi.School{}, err
	}
	return kpi.Evaluate(res.Result), nil
}

// Trend compares a student's active-series aggregate with their snapshot
// of the previously committed series.
func (s *Service) Trend(ctx context.Context, id, studentID string) (history.Trend, error) {
	res, err := s.Process(ctx, id, "")
	if err != nil {
		return history.Trend{}, err
	}
	if _, ok := res.Find(studentID); !ok {
		return history.Trend{}, ErrStudentNotFound
	}
	t, ok := res.Trends[studentID]
	if !ok {
		return history.Trend{}, ErrNoTrend
	}
	return t, nil
}

// Commit freezes the active series: every student gets a snapshot, the
// series joins the committed ledger once and the school's performance
// history gains (or replaces) the series point.
func (s *Service) Commit(ctx context.Context, id string) (CommitResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, err := s.store.GetSchool(ctx, id)
	if err != nil {
		return CommitResult{}, err
	}
	series := entry.Dataset.Settings.ActiveSeries
	res, err := s.process(entry, series)
	if err != nil {
		return CommitResult{}, err
	}

	recommit := res.State == history.Committed
	commitID := s.newID()
	at := s.now().UTC()
	ledger, roster := history.Commit(entry.Dataset.Settings.CommittedMocks, entry.Dataset.Roster, res.Students, series, commitID, at)
	point := kpi.Summarize(series, res.Students)

	entry.Dataset.Settings.CommittedMocks = ledger
	entry.Dataset.Roster = roster
	entry.PerformanceHistory = upsertPoint(entry.PerformanceHistory, point)

	if err := s.store.PutSchool(ctx, entry); err != nil {
		return CommitResult{}, fmt.Errorf("store commit %s: %w", commitID, err)
	}
	metrics.RecordCommit(recommit)
	s.logger.Info(ctx, "series committed",
		logger.School(id),
		logger.Series(series),
		logger.String("commit_id", commitID),
		logger.Bool("recommit", recommit),
	)
	return CommitResult{
		CommitID:    commitID,
		Series:      series,
		CommittedAt: at,
		Recommit:    recommit,
		Students:    len(res.Students),
		Point:       point,
	}, nil
}

// ImportScores reads an xlsx score sheet into series of a stored school and
// returns how many students it touched. An empty series selects the active one.
func (s *Service) ImportScores(ctx context.Context, id, series string, src io.Reader) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, err := s.store.GetSchool(ctx, id)
	if err != nil {
		return 0, err
	}
	if series == "" {
		series = entry.Dataset.Settings.ActiveSeries
	}
	if history.StateOf(entry.Dataset.Settings.CommittedMocks, series) == history.Committed {
		return 0, fmt.Errorf("%w: %s", ErrSeriesCommitted, series)
	}
	imported, err := importer.NewReader().Read(src, series)
	if err != nil {
		metrics.RecordError("service", "import")
		return 0, fmt.Errorf("%w: %w", ErrInvalidDataset, err)
	}

	entry.Dataset.Roster = importer.Merge(entry.Dataset.Roster, imported, series)
	entry.StudentCount = len(entry.Dataset.Roster)
	entry.RemarkTelemetry = remarkTelemetry(entry.Dataset)
	if err := s.store.PutSchool(ctx, entry); err != nil {
		return 0, fmt.Errorf("store school %s: %w", id, err)
	}
	s.logger.Info(ctx, "scores imported",
		logger.School(id),
		logger.Series(series),
		logger.Int("students", len(imported)),
	)
	return len(imported), nil
}

// NetworkReport rolls every stored school up into the network report.
func (s *Service) NetworkReport(ctx context.Context) (network.Report, error) {
	schools, err := s.store.ListSchools(ctx)
	if err != nil {
		return network.Report{}, err
	}

	start := time.Now()
	report, err := network.Rollup(ctx, schools, network.WithWorkers(s.rollupWorkers))
	if err != nil {
		metrics.RecordError("service", "rollup")
		return network.Report{}, err
	}
	elapsed := time.Since(start)
	metrics.RecordRollup(len(schools), float64(elapsed.Microseconds())/1000.0)
	s.logger.Debug(ctx, "network rollup",
		logger.Int("schools", len(schools)),
		logger.Float64("ms", float64(elapsed.Microseconds())/1000.0),
	)
	return report, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats(ctx context.Context) map[string]interface{} {
	return map[string]interface{}{
		"schools":       s.store.Count(ctx),
		"store":         fmt.Sprintf("%T", s.store),
		"rollupWorkers": s.rollupWorkers,
		"defaultMode":   string(s.defaults.GradingMode),
	}
}

func (s *Service) applyDefaults(settings *model.Settings) {
	d := s.defaults
	if settings.GradingMode == "" {
		settings.GradingMode = d.GradingMode
	}
	if len(settings.CoreSubjects) == 0 && len(d.CoreSubjects) > 0 {
		settings.CoreSubjects = append([]string(nil), d.CoreSubjects...)
	}
	if settings.SBA == nil && d.SBA != nil {
		sba := *d.SBA
		settings.SBA = &sba
	}
	if settings.UseTDistribution == nil && d.UseTDistribution != nil {
		useT := *d.UseTDistribution
		settings.UseTDistribution = &useT
	}
}

// freezeCommitted carries the stored ledger, snapshots and performance
// points into entry. Snapshots of committed series may be omitted from an
// upload but never changed.
func freezeCommitted(stored model.SchoolRegistryEntry, entry *model.SchoolRegistryEntry) error {
	committed := stored.Dataset.Settings.CommittedMocks
	ledger := append([]string(nil), committed...)
	for _, name := range entry.Dataset.Settings.CommittedMocks {
		if !slices.Contains(ledger, name) {
			ledger = append(ledger, name)
		}
	}
	entry.Dataset.Settings.CommittedMocks = ledger

	frozen := make(map[string]map[string]model.SeriesSnapshot, len(stored.Dataset.Roster))
	for _, st := range stored.Dataset.Roster {
		if len(st.SeriesHistory) > 0 {
			frozen[st.ID] = st.SeriesHistory
		}
	}
	for i := range entry.Dataset.Roster {
		st := &entry.Dataset.Roster[i]
		kept := frozen[st.ID]
		for _, series := range committed {
			sent, ok := st.SeriesHistory[series]
			if !ok {
				continue
			}
			want, had := kept[series]
			if !had || !sameSnapshot(sent, want) {
				return fmt.Errorf("%w: %s snapshot of student %s", ErrSeriesCommitted, series, st.ID)
			}
		}
		if len(kept) == 0 {
			continue
		}
		merged := make(map[string]model.SeriesSnapshot, len(kept)+len(st.SeriesHistory))
		for k, v := range st.SeriesHistory {
			merged[k] = v
		}
		for k, v := range kept {
			merged[k] = v
		}
		st.SeriesHistory = merged
	}

	for _, p := range stored.PerformanceHistory {
		entry.PerformanceHistory = upsertPoint(entry.PerformanceHistory, p)
	}
	return nil
}

func sameSnapshot(a, b model.SeriesSnapshot) bool {
	return a.CommitID == b.CommitID &&
		a.Aggregate == b.Aggregate &&
		a.Rank == b.Rank &&
		a.CommittedAt.Equal(b.CommittedAt) &&
		maps.Equal(a.SubScores, b.SubScores)
}

func (s *Service) validateEntry(entry model.SchoolRegistryEntry) error {
	err := s.validate.Struct(entry)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %w", ErrInvalidDataset, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
	}
	return fmt.Errorf("%w: %s", ErrInvalidDataset, strings.Join(msgs, "; "))
}

// upsertPoint replaces the point of the same series or appends a new one.
func upsertPoint(points []model.PerformancePoint, p model.PerformancePoint) []model.PerformancePoint {
	out := make([]model.PerformancePoint, 0, len(points)+1)
	replaced := false
	for _, q := range points {
		if q.Series == p.Series {
			out = append(out, p)
			replaced = true
			continue
		}
		out = append(out, q)
	}
	if !replaced {
		out = append(out, p)
	}
	return out
}

// remarkTelemetry counts how often each subject remark is used in the
// active series.
func remarkTelemetry(d model.Dataset) map[string]int {
	counts := map[string]int{}
	for _, st := range d.Roster {
		entry, ok := st.Series(d.Settings.ActiveSeries)
		if !ok {
			continue
		}
		for _, remark := range entry.Remarks {
			if r := strings.TrimSpace(remark); r != "" {
				counts[r]++
			}
		}
	}
	if len(counts) == 0 {
		return nil
	}
	return counts
}
