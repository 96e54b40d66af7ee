package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/okian/mockstats/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.StoreBackend, convey.ShouldEqual, "memory")
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			clearConfigEnvVars()
			defer clearConfigEnvVars()
			_ = os.Setenv("MOCKSTATS_ADDR", ":8080")
			_ = os.Setenv("MOCKSTATS_ROLLUP_WORKERS", "3")
			_ = os.Setenv("MOCKSTATS_GRADING_MODE", "criterion")
			_ = os.Setenv("MOCKSTATS_SBA_ENABLED", "true")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.RollupWorkers, convey.ShouldEqual, 3)
				convey.So(cfg.GradingMode, convey.ShouldEqual, "criterion")
				convey.So(cfg.SBAEnabled, convey.ShouldBeTrue)
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			yamlContent := `
addr: ":9090"
store_backend: sqlite
sqlite_path: /tmp/mock.db
rollup_workers: 6
core_subjects:
  - English Language
  - Mathematics
sba_weight_exam: 0.5
sba_weight_sba: 0.5
`
			path := filepath.Join(t.TempDir(), "config.yaml")
			convey.So(os.WriteFile(path, []byte(yamlContent), 0o600), convey.ShouldBeNil)
			clearConfigEnvVars()
			_ = os.Setenv("MOCKSTATS_CONFIG", path)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.StoreBackend, convey.ShouldEqual, "sqlite")
				convey.So(cfg.SQLitePath, convey.ShouldEqual, "/tmp/mock.db")
				convey.So(cfg.RollupWorkers, convey.ShouldEqual, 6)
				convey.So(cfg.CoreSubjects, convey.ShouldResemble, []string{"English Language", "Mathematics"})
				convey.So(cfg.SBAWeightSBA, convey.ShouldEqual, 0.5)
			})

			convey.Convey("Then env vars still win over the file", func() {
				_ = os.Setenv("MOCKSTATS_ADDR", ":7070")
				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
			})
		})

		convey.Convey("When the config file is missing", func() {
			clearConfigEnvVars()
			_ = os.Setenv("MOCKSTATS_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			convey.Convey("Then a load error is returned", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When env produces an invalid config", func() {
			clearConfigEnvVars()
			defer clearConfigEnvVars()
			_ = os.Setenv("MOCKSTATS_STORE_BACKEND", "redis")

			_, err := config.Load(ctx)

			convey.Convey("Then validation fails", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})
	})
}

func clearConfigEnvVars() {
	for _, kv := range os.Environ() {
		if name, _, ok := strings.Cut(kv, "="); ok && strings.HasPrefix(name, "MOCKSTATS_") {
			_ = os.Unsetenv(name)
		}
	}
}
