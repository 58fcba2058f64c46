package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	"github.com/pfrederiksen/poker-board/internal/config"
	"github.com/pfrederiksen/poker-board/internal/filter"
	"github.com/pfrederiksen/poker-board/internal/logger"
	"github.com/pfrederiksen/poker-board/internal/source"
	"github.com/pfrederiksen/poker-board/internal/tournament"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars(t)

			cfg, err := config.Load(ctx, "")

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.SourceURL, convey.ShouldEqual, config.DefaultSourceURL)
				convey.So(cfg.Timezone, convey.ShouldEqual, "Asia/Tokyo")
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.CacheTTL, convey.ShouldEqual, source.DefaultCacheTTL)
				convey.So(cfg.Multiplier.Ceiling, convey.ShouldEqual, 500.0)
				convey.So(cfg.Multiplier.SatelliteMarker, convey.ShouldEqual, "サテ")
				convey.So(cfg.DayWindowHours, convey.ShouldEqual, 30)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			clearConfigEnvVars(t)
			t.Setenv("POKER_BOARD_ADDR", ":9090")
			t.Setenv("POKER_BOARD_CACHE_TTL", "90s")
			t.Setenv("POKER_BOARD_DAY_RULE", "calendar")
			t.Setenv("POKER_BOARD_MULTIPLIER_CEILING", "100")
			t.Setenv("POKER_BOARD_MULTIPLIER_COST_BASIS", "entry_only")

			cfg, err := config.Load(ctx, "")

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.CacheTTL, convey.ShouldEqual, 90*time.Second)
				convey.So(cfg.FilterOptions().DayRule, convey.ShouldEqual, filter.DayCalendar)
				convey.So(cfg.Multiplier.Ceiling, convey.ShouldEqual, 100.0)
				convey.So(cfg.Policy().CostBasis, convey.ShouldEqual, tournament.CostEntryOnly)
				convey.So(cfg.Multiplier.SatelliteMarker, convey.ShouldEqual, "サテ")
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			clearConfigEnvVars(t)
			path := writeConfigFile(t, `
source_url: ./testdata/sheet.csv
source_format: csv
timezone: UTC
fetch_timeout: 5s
log_level: debug
cors_origins:
  - https://example.com
multiplier:
  ceiling: 50
area_keywords: [Shibuya, Shinjuku]
`)
			t.Setenv("POKER_BOARD_CONFIG", path)

			cfg, err := config.Load(ctx, "")

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.SourceURL, convey.ShouldEqual, "./testdata/sheet.csv")
				convey.So(cfg.Format(), convey.ShouldEqual, source.FormatCSV)
				convey.So(cfg.FetchTimeout, convey.ShouldEqual, 5*time.Second)
				convey.So(cfg.Level(), convey.ShouldEqual, logger.LevelDebug)
				convey.So(cfg.CORSOrigins, convey.ShouldResemble, []string{"https://example.com"})
				convey.So(cfg.Multiplier.Ceiling, convey.ShouldEqual, 50.0)
				convey.So(cfg.Multiplier.CostBasis, convey.ShouldEqual, "entry_plus_addon")
				convey.So(cfg.AreaKeywords, convey.ShouldResemble, []string{"Shibuya", "Shinjuku"})

				loc, locErr := cfg.Location()
				convey.So(locErr, convey.ShouldBeNil)
				convey.So(loc, convey.ShouldEqual, time.UTC)
			})

			convey.Convey("And env vars override the file", func() {
				t.Setenv("POKER_BOARD_TIMEZONE", "Asia/Tokyo")

				cfg, err := config.Load(ctx, "")
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Timezone, convey.ShouldEqual, "Asia/Tokyo")
			})
		})

		convey.Convey("When an explicit path is given", func() {
			clearConfigEnvVars(t)
			path := writeConfigFile(t, "addr: \":7000\"\n")

			cfg, err := config.Load(ctx, path)

			convey.Convey("Then it is used", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7000")
			})
		})

		convey.Convey("When the file is missing", func() {
			clearConfigEnvVars(t)

			_, err := config.Load(ctx, filepath.Join(t.TempDir(), "missing.yaml"))

			convey.Convey("Then a load error is returned", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When a value is invalid", func() {
			clearConfigEnvVars(t)
			t.Setenv("POKER_BOARD_DAY_RULE", "weekly")

			_, err := config.Load(ctx, "")

			convey.Convey("Then validation fails", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})
	})
}

func TestValidate(t *testing.T) {
	convey.Convey("Given the default config", t, func() {
		convey.Convey("It is valid", func() {
			convey.So(config.New().Validate(), convey.ShouldBeNil)
		})

		cases := []struct {
			name   string
			mutate func(c *config.Config)
		}{
			{"empty source", func(c *config.Config) { c.SourceURL = " " }},
			{"unknown format", func(c *config.Config) { c.SourceFormat = "xlsx" }},
			{"unknown timezone", func(c *config.Config) { c.Timezone = "Mars/Olympus" }},
			{"unknown log level", func(c *config.Config) { c.LogLevel = "chatty" }},
			{"unknown cost basis", func(c *config.Config) { c.Multiplier.CostBasis = "fees" }},
			{"zero ceiling", func(c *config.Config) { c.Multiplier.Ceiling = 0 }},
			{"unknown day rule", func(c *config.Config) { c.DayRule = "weekly" }},
			{"zero window", func(c *config.Config) { c.DayWindowHours = 0 }},
			{"negative cache TTL", func(c *config.Config) { c.CacheTTL = -time.Second }},
		}
		for _, tc := range cases {
			convey.Convey("It rejects "+tc.name, func() {
				c := config.New()
				tc.mutate(c)
				convey.So(errors.Is(c.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		}
	})
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func clearConfigEnvVars(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"POKER_BOARD_CONFIG", "POKER_BOARD_ADDR", "POKER_BOARD_CACHE_TTL",
		"POKER_BOARD_DAY_RULE", "POKER_BOARD_MULTIPLIER_CEILING",
		"POKER_BOARD_MULTIPLIER_COST_BASIS", "POKER_BOARD_TIMEZONE",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key) // nolint:errcheck
	}
}
