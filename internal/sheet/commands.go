package sheet

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/okian/mockstats/internal/adapters/importer"
	"github.com/okian/mockstats/internal/domain/cohort"
	"github.com/okian/mockstats/internal/domain/kpi"
	"github.com/okian/mockstats/internal/domain/model"
	"github.com/okian/mockstats/internal/domain/network"
	"github.com/okian/mockstats/pkg/logger"
)

func newRankCommand() *cobra.Command {
	var (
		flags  engineFlags
		export string
	)
	cmd := &cobra.Command{
		Use:   "rank FILE",
		Short: "Grade and rank one school's cohort.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entry, err := loadSchool(args[0], &flags)
			if err != nil {
				return err
			}
			ds := entry.Dataset
			res := cohort.Process(ds.Roster, ds.Settings, ds.Staff)
			logger.Get().Debug(cmd.Context(), "cohort processed",
				logger.School(entry.ID),
				logger.Series(res.Series),
				logger.Int("students", len(res.Students)),
			)

			if export != "" {
				if err := exportResults(export, res); err != nil {
					return err
				}
			}
			return renderResults(cmd.OutOrStdout(), res)
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVarP(&export, "export", "o", "", "also write the ranked broadsheet to this .xlsx file")
	return cmd
}

func exportResults(path string, res cohort.Result) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return importer.WriteResults(f, res)
}

func newKPICommand() *cobra.Command {
	var flags engineFlags
	cmd := &cobra.Command{
		Use:   "kpi FILE",
		Short: "Show subject KPIs and the school summary.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entry, err := loadSchool(args[0], &flags)
			if err != nil {
				return err
			}
			ds := entry.Dataset
			school := kpi.Evaluate(cohort.Process(ds.Roster, ds.Settings, ds.Staff))
			return renderKPI(cmd.OutOrStdout(), school)
		},
	}
	flags.register(cmd)
	return cmd
}

func newNetworkCommand() *cobra.Command {
	var workers int
	cmd := &cobra.Command{
		Use:   "network FILE...",
		Short: "Roll several schools up into the network report.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			schools := make([]model.SchoolRegistryEntry, 0, len(args))
			for _, path := range args {
				// Network files keep their own settings.
				entry, err := loadSchool(path, &engineFlags{})
				if err != nil {
					return err
				}
				schools = append(schools, entry)
			}
			report, err := network.Rollup(cmd.Context(), schools, network.WithWorkers(workers))
			if err != nil {
				return err
			}
			return renderNetwork(cmd.OutOrStdout(), report)
		},
	}
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "concurrent schools (defaults to CPU count)")
	return cmd
}
