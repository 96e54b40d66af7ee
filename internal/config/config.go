// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers a YAML file and environment variables over the defaults.
// - Validation failures wrap ErrInvalidConfig.
package config

import (
	"fmt"
	"runtime"

	"github.com/okian/mockstats/internal/domain/model"
)

// Store backends.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects text or json log output.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// StoreBackend is memory or sqlite.
	StoreBackend string `koanf:"store_backend"`

	// SQLitePath is the database file used by the sqlite backend.
	SQLitePath string `koanf:"sqlite_path"`

	// RollupWorkers bounds concurrent per-school work in network rollups.
	RollupWorkers int `koanf:"rollup_workers"`

	// ShutdownTimeoutSeconds bounds graceful HTTP shutdown.
	ShutdownTimeoutSeconds int `koanf:"shutdown_timeout_seconds"`

	// Defaults applied to schools registered without their own settings.
	CoreSubjects     []string `koanf:"core_subjects"`
	SBAEnabled       bool     `koanf:"sba_enabled"`
	SBAWeightExam    float64  `koanf:"sba_weight_exam"`
	SBAWeightSBA     float64  `koanf:"sba_weight_sba"`
	GradingMode      string   `koanf:"grading_mode"`
	UseTDistribution bool     `koanf:"use_t_distribution"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:               "info",
		LogFormat:              "text",
		Addr:                   ":9080",
		StoreBackend:           BackendMemory,
		SQLitePath:             "mockstats.db",
		RollupWorkers:          runtime.NumCPU(),
		ShutdownTimeoutSeconds: 10,
		CoreSubjects:           []string{"English Language", "Mathematics", "Science", "Social Studies"},
		SBAEnabled:             false,
		SBAWeightExam:          0.7,
		SBAWeightSBA:           0.3,
		GradingMode:            string(model.DefaultGradingMode),
	}
}

// Validate reports the first invalid field.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.StoreBackend != BackendMemory && c.StoreBackend != BackendSQLite:
		return fmt.Errorf("%w: unknown store_backend %q", ErrInvalidConfig, c.StoreBackend)
	case c.StoreBackend == BackendSQLite && c.SQLitePath == "":
		return fmt.Errorf("%w: sqlite_path is required for the sqlite backend", ErrInvalidConfig)
	case c.RollupWorkers < 1:
		return fmt.Errorf("%w: rollup_workers must be positive", ErrInvalidConfig)
	case c.SBAWeightExam < 0 || c.SBAWeightSBA < 0:
		return fmt.Errorf("%w: sba weights must not be negative", ErrInvalidConfig)
	case c.GradingMode != string(model.ModeCriterion) && c.GradingMode != string(model.ModeNormReferenced):
		return fmt.Errorf("%w: unknown grading_mode %q", ErrInvalidConfig, c.GradingMode)
	}
	return nil
}

// SchoolDefaults returns the settings used for schools that omit them.
func (c *Config) SchoolDefaults() model.Settings {
	core := make([]string, len(c.CoreSubjects))
	copy(core, c.CoreSubjects)
	useT := c.UseTDistribution
	return model.Settings{
		SBA: &model.SBAConfig{
			Enabled:    c.SBAEnabled,
			WeightExam: c.SBAWeightExam,
			WeightSBA:  c.SBAWeightSBA,
		},
		GradingMode:      model.GradingMode(c.GradingMode),
		UseTDistribution: &useT,
		CoreSubjects:     core,
	}
}
