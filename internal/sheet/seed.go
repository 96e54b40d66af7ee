package sheet

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	service "github.com/okian/mockstats/internal/app"
	"github.com/okian/mockstats/internal/domain/cohort"
	"github.com/okian/mockstats/internal/domain/model"
	"github.com/okian/mockstats/internal/domain/network"
	"github.com/okian/mockstats/pkg/logger"
)

// SeedConfig holds configuration for a seeding run.
type SeedConfig struct {
	BaseURL  string        // Base URL of the service
	Schools  int           // Number of schools to generate
	Students int           // Students per school
	Workers  int           // Concurrent schools in flight
	Timeout  time.Duration // HTTP request timeout
	Seed     uint64        // Generator seed
}

// SeedStats holds the outcome of a seeding run.
type SeedStats struct {
	SchoolsSubmitted int
	SchoolsVerified  int
	Commits          int
	NetworkSchools   int
	Duration         time.Duration
}

const (
	defaultSeedSchools  = 5
	defaultSeedStudents = 40
	defaultSeedTimeout  = 30 * time.Second
)

func newSeedCommand() *cobra.Command {
	cfg := SeedConfig{}
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Push synthetic schools to a server and verify its results.",
		Long: `seed generates schools with two mock series, uploads them, commits the
first series, activates the second and then checks that the server's
rankings match the local engine and that the network report covers every
school.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			stats, err := Seed(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			return renderSeedStats(cmd.OutOrStdout(), stats)
		},
	}
	cmd.Flags().StringVar(&cfg.BaseURL, "url", "http://localhost:9080", "base URL of the service")
	cmd.Flags().IntVar(&cfg.Schools, "schools", defaultSeedSchools, "number of schools to generate")
	cmd.Flags().IntVar(&cfg.Students, "students", defaultSeedStudents, "students per school")
	cmd.Flags().IntVar(&cfg.Workers, "workers", runtime.NumCPU(), "concurrent schools in flight")
	cmd.Flags().DurationVar(&cfg.Timeout, "timeout", defaultSeedTimeout, "HTTP request timeout")
	cmd.Flags().Uint64Var(&cfg.Seed, "seed", 1, "generator seed")
	return cmd
}

// Seed runs the complete seeding scenario against cfg.BaseURL.
func Seed(ctx context.Context, cfg SeedConfig) (SeedStats, error) {
	if cfg.Schools < 1 || cfg.Students < 1 {
		return SeedStats{}, fmt.Errorf("%w: schools and students must be positive", ErrUsage)
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	log := logger.Get()
	start := time.Now()
	c := newClient(cfg.BaseURL, cfg.Timeout)

	log.Info(ctx, "checking service health", logger.String("baseURL", cfg.BaseURL))
	if err := c.do(ctx, "GET", "/healthz", nil, nil); err != nil {
		return SeedStats{}, fmt.Errorf("service health check failed: %w", err)
	}

	schools := generateSchools(cfg.Seed, cfg.Schools, cfg.Students)
	log.Info(ctx, "generated schools",
		logger.Int("schools", len(schools)),
		logger.Int("students", cfg.Students),
	)

	var submitted, verified, commits atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for _, school := range schools {
		g.Go(func() error {
			n, err := submitSchool(gctx, c, school)
			if err != nil {
				return err
			}
			submitted.Add(1)
			commits.Add(int64(n))

			if err := verifySchool(gctx, c, school.ID); err != nil {
				return err
			}
			verified.Add(1)
			log.Debug(gctx, "school verified", logger.School(school.ID))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return SeedStats{}, err
	}

	var report network.Report
	if err := c.do(ctx, "GET", "/network/report", nil, &report); err != nil {
		return SeedStats{}, err
	}
	if err := verifyNetwork(report, schools); err != nil {
		return SeedStats{}, err
	}

	stats := SeedStats{
		SchoolsSubmitted: int(submitted.Load()),
		SchoolsVerified:  int(verified.Load()),
		Commits:          int(commits.Load()),
		NetworkSchools:   len(report.Schools),
		Duration:         time.Since(start),
	}
	log.Info(ctx, "seeding completed",
		logger.Int("schools", stats.SchoolsSubmitted),
		logger.String("duration", stats.Duration.String()),
	)
	return stats, nil
}

// submitSchool uploads school, commits the first series and activates the
// second. It returns the number of commits made.
func submitSchool(ctx context.Context, c *client, school model.SchoolRegistryEntry) (int, error) {
	path := "/schools/" + url.PathEscape(school.ID)
	if err := c.do(ctx, "PUT", path, school, nil); err != nil {
		return 0, err
	}
	var cr service.CommitResult
	if err := c.do(ctx, "POST", path+"/commit", nil, &cr); err != nil {
		return 0, err
	}

	var stored model.SchoolRegistryEntry
	if err := c.do(ctx, "GET", path, nil, &stored); err != nil {
		return 1, err
	}
	stored.Dataset.Settings.ActiveSeries = seedSecondSeries
	if err := c.do(ctx, "PUT", path, stored, nil); err != nil {
		return 1, err
	}
	return 1, nil
}

// verifySchool checks the server's ranking against the local engine run on
// the stored dataset, and that every student got a trend.
func verifySchool(ctx context.Context, c *client, id string) error {
	path := "/schools/" + url.PathEscape(id)
	var stored model.SchoolRegistryEntry
	if err := c.do(ctx, "GET", path, nil, &stored); err != nil {
		return err
	}
	var remote service.Results
	if err := c.do(ctx, "GET", path+"/results", nil, &remote); err != nil {
		return err
	}

	ds := stored.Dataset
	local := cohort.Process(ds.Roster, ds.Settings, ds.Staff)
	if len(local.Students) != len(remote.Students) {
		return fmt.Errorf("%w: %s: %d students locally, %d remotely", ErrVerification, id, len(local.Students), len(remote.Students))
	}
	for i := range local.Students {
		l, r := local.Students[i], remote.Students[i]
		if l.ID != r.ID || l.Rank != r.Rank || l.BestSixAggregate != r.BestSixAggregate {
			return fmt.Errorf("%w: %s: position %d is %s (rank %d, agg %d) locally and %s (rank %d, agg %d) remotely",
				ErrVerification, id, i+1, l.ID, l.Rank, l.BestSixAggregate, r.ID, r.Rank, r.BestSixAggregate)
		}
	}
	if len(remote.Trends) != len(remote.Students) {
		return fmt.Errorf("%w: %s: %d trends for %d students", ErrVerification, id, len(remote.Trends), len(remote.Students))
	}
	return nil
}

// verifyNetwork checks that every seeded school is ranked exactly once.
func verifyNetwork(report network.Report, schools []model.SchoolRegistryEntry) error {
	ranked := make(map[string]int, len(report.Strength))
	for i, s := range report.Strength {
		if s.Rank != i+1 {
			return fmt.Errorf("%w: strength rank %d at position %d", ErrVerification, s.Rank, i+1)
		}
		ranked[s.SchoolID]++
	}
	for _, s := range schools {
		if ranked[s.ID] != 1 {
			return fmt.Errorf("%w: school %s ranked %d times", ErrVerification, s.ID, ranked[s.ID])
		}
	}
	return nil
}

func renderSeedStats(w io.Writer, s SeedStats) error {
	table := newTable(w, []string{"Schools", "Verified", "Commits", "In network", "Duration"})
	return flush(table, [][]string{{
		strconv.Itoa(s.SchoolsSubmitted),
		strconv.Itoa(s.SchoolsVerified),
		strconv.Itoa(s.Commits),
		strconv.Itoa(s.NetworkSchools),
		s.Duration.Round(time.Millisecond).String(),
	}})
}
