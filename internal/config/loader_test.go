package config_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/okian/wecruit/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldResemble, config.New())
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("WECRUIT_ADDR", ":8080")
			_ = os.Setenv("WECRUIT_DB_PATH", "/tmp/wecruit.db")
			_ = os.Setenv("WECRUIT_JWT_SECRET", "s3cret")
			_ = os.Setenv("WECRUIT_FANOUT_LIMIT", "16")
			_ = os.Setenv("WECRUIT_LOG_FORMAT", "json")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.DBPath, convey.ShouldEqual, "/tmp/wecruit.db")
				convey.So(cfg.JWTSecret, convey.ShouldEqual, "s3cret")
				convey.So(cfg.FanoutLimit, convey.ShouldEqual, 16)
				convey.So(cfg.LogFormat, convey.ShouldEqual, "json")
				convey.So(cfg.RecruitCacheTTLSeconds, convey.ShouldEqual, 60)
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			yamlContent := `
# file layer
addr: ":9090"
redis_addr: "localhost:6379"
recruit_cache_ttl_seconds: 120
fanout_limit: 4
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("WECRUIT_CONFIG", tmpFile)
			_ = os.Setenv("WECRUIT_FANOUT_LIMIT", "32")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")               // From file
				convey.So(cfg.RedisAddr, convey.ShouldEqual, "localhost:6379") // From file
				convey.So(cfg.RecruitCacheTTLSeconds, convey.ShouldEqual, 120) // From file
				convey.So(cfg.FanoutLimit, convey.ShouldEqual, 32)             // Overridden by env
				convey.So(cfg.ShutdownTimeoutSeconds, convey.ShouldEqual, 30)  // From defaults
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(`invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("WECRUIT_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("WECRUIT_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with empty addr", func() {
			_ = os.Setenv("WECRUIT_ADDR", "")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("WECRUIT_FANOUT_LIMIT", "not_a_number")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with out-of-range values", func() {
			_ = os.Setenv("WECRUIT_FANOUT_LIMIT", "0")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			convey.Convey("Then validation rejects them", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When loading metrics settings from the environment", func() {
			_ = os.Setenv("WECRUIT_METRICS_ENABLED", "false")
			_ = os.Setenv("WECRUIT_METRICS_NAMESPACE", "scouting")
			_ = os.Setenv("WECRUIT_METRICS_REFRESH_SECONDS", "3")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then they override the defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.MetricsEnabled, convey.ShouldBeFalse)
				convey.So(cfg.MetricsNamespace, convey.ShouldEqual, "scouting")
				convey.So(cfg.MetricsRefresh(), convey.ShouldEqual, 3*time.Second)
			})
		})

		convey.Convey("When metrics are enabled without a namespace", func() {
			_ = os.Setenv("WECRUIT_METRICS_NAMESPACE", "")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			convey.Convey("Then validation rejects it", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "metrics_namespace")
			})
		})

		convey.Convey("When loading config with an unknown log format", func() {
			_ = os.Setenv("WECRUIT_LOG_FORMAT", "xml")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			convey.Convey("Then validation rejects it", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"WECRUIT_CONFIG",
		"WECRUIT_ADDR",
		"WECRUIT_DB_PATH",
		"WECRUIT_JWT_SECRET",
		"WECRUIT_FANOUT_LIMIT",
		"WECRUIT_LOG_FORMAT",
		"WECRUIT_REDIS_ADDR",
		"WECRUIT_METRICS_ENABLED",
		"WECRUIT_METRICS_NAMESPACE",
		"WECRUIT_METRICS_REFRESH_SECONDS",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "wecruit-config-*.yaml")
	if err != nil {
		panic(err)
	}

	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}

	if err := tmpFile.Close(); err != nil {
		panic(err)
	}

	return tmpFile.Name()
}
