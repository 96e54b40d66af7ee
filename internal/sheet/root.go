// Package sheet implements the mocksheet command line tool: it runs the
// scoring engine over local score sheets and seeds a running server with
// synthetic schools.
package sheet

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/okian/mockstats/internal/domain/model"
	"github.com/okian/mockstats/pkg/logger"
)

// engineFlags are shared by the commands that process a single school.
type engineFlags struct {
	series string
	mode   string
	sba    bool
	core   []string
}

func (f *engineFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.series, "series", "s", "", "series to process (defaults to the active series)")
	cmd.Flags().StringVar(&f.mode, "mode", "", "grading mode: criterion or norm-referenced")
	cmd.Flags().BoolVar(&f.sba, "sba", false, "blend SBA scores 70/30 into composites")
	cmd.Flags().StringSliceVar(&f.core, "core", nil, "core subjects (comma separated)")
}

// apply overrides settings with the flags that were set.
func (f *engineFlags) apply(s *model.Settings) error {
	if f.series != "" {
		s.ActiveSeries = f.series
	}
	switch model.GradingMode(f.mode) {
	case "":
	case model.ModeCriterion, model.ModeNormReferenced:
		s.GradingMode = model.GradingMode(f.mode)
	default:
		return fmt.Errorf("%w: unknown mode %q", ErrUsage, f.mode)
	}
	if f.sba {
		s.SBA = &model.SBAConfig{Enabled: true, WeightExam: defaultExamWeight, WeightSBA: defaultSBAWeight}
	}
	if len(f.core) > 0 {
		s.CoreSubjects = f.core
	}
	if s.ActiveSeries == "" {
		return fmt.Errorf("%w: --series is required", ErrUsage)
	}
	return nil
}

const (
	defaultExamWeight = 0.7
	defaultSBAWeight  = 0.3
)

// NewRootCommand builds the command tree writing tables to out.
func NewRootCommand(out io.Writer) *cobra.Command {
	var verbose bool
	root := &cobra.Command{
		Use:   "mocksheet",
		Short: "Grade, rank and report mock examination results.",
		Long: `mocksheet runs the mock examination engine on local files.

Score sheets are .xlsx workbooks with one row per (student, subject) and
the columns StudentID, Name, Gender, Subject, Exam, SBA, SectionA,
SectionB, Remark. School files are .json registry entries as served by
GET /schools/{id}.

Examples:
  # Rank a workbook as MOCK 1 with criterion grading
  mocksheet rank scores.xlsx --series "MOCK 1" --mode criterion

  # Subject KPIs of a stored school
  mocksheet kpi hilltop.json

  # Network report over several schools
  mocksheet network schools/*.json

  # Seed a running server with 5 synthetic schools
  mocksheet seed --url http://localhost:9080 --schools 5`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := logger.Init(logger.WithWriter(cmd.ErrOrStderr())); err != nil {
				return err
			}
			if verbose {
				return logger.SetLevelString("debug")
			}
			return logger.SetLevelString("warn")
		},
	}
	root.SetOut(out)
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newRankCommand(),
		newKPICommand(),
		newNetworkCommand(),
		newSeedCommand(),
	)
	return root
}

// Execute runs the CLI with process arguments.
func Execute(ctx context.Context) error {
	return NewRootCommand(os.Stdout).ExecuteContext(ctx)
}
