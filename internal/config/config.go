package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	envPrefix     = "ASYNCDEMO"
	envConfigFile = "ASYNCDEMO_CONFIG"

	keyListenAddr       = "listen_addr"
	keyDBPath           = "db_path"
	keyLogLevel         = "log_level"
	keyDelay            = "delay"
	keyFanOut           = "fan_out"
	keyFetchFanOut      = "fetch_fan_out"
	keyFetchURL         = "fetch_url"
	keyFetchTimeout     = "fetch_timeout"
	keyRunTimeout       = "run_timeout"
	keySchedule         = "schedule"
	keyScheduleScenario = "schedule_scenario"

	defaultListenAddr       = ":8080"
	defaultDBPath           = "asyncdemo.db"
	defaultLogLevel         = "info"
	defaultDelay            = 5 * time.Second
	defaultFanOut           = 2
	defaultFetchFanOut      = 3
	defaultFetchURL         = "https://jsonplaceholder.typicode.com/posts/1"
	defaultFetchTimeout     = 100 * time.Second
	defaultRunTimeout       = 120 * time.Second
	defaultScheduleScenario = "save"
)

// Config holds application configuration loaded from the environment and an
// optional config file.
type Config struct {
	ListenAddr string
	DBPath     string
	LogLevel   slog.Level

	// Delay is the simulated work duration used by every timing scenario.
	Delay time.Duration
	// FanOut is the number of concurrent delays in the parallel scenario.
	FanOut int
	// FetchFanOut is the number of concurrent requests in the parallel fetch scenario.
	FetchFanOut int

	FetchURL     string
	FetchTimeout time.Duration
	RunTimeout   time.Duration

	// Schedule is a cron expression; empty disables scheduled runs.
	Schedule         string
	ScheduleScenario string
}

// Load reads configuration with sensible defaults. Environment variables use
// the ASYNCDEMO_ prefix (ASYNCDEMO_DB_PATH, ASYNCDEMO_DELAY, ...). If
// ASYNCDEMO_CONFIG names a file, it is read first and the environment still
// takes precedence.
func Load() (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if path := os.Getenv(envConfigFile); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := Config{
		ListenAddr:       v.GetString(keyListenAddr),
		DBPath:           v.GetString(keyDBPath),
		LogLevel:         parseLogLevel(v.GetString(keyLogLevel)),
		Delay:            v.GetDuration(keyDelay),
		FanOut:           v.GetInt(keyFanOut),
		FetchFanOut:      v.GetInt(keyFetchFanOut),
		FetchURL:         v.GetString(keyFetchURL),
		FetchTimeout:     v.GetDuration(keyFetchTimeout),
		RunTimeout:       v.GetDuration(keyRunTimeout),
		Schedule:         v.GetString(keySchedule),
		ScheduleScenario: v.GetString(keyScheduleScenario),
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(keyListenAddr, defaultListenAddr)
	v.SetDefault(keyDBPath, defaultDBPath)
	v.SetDefault(keyLogLevel, defaultLogLevel)
	v.SetDefault(keyDelay, defaultDelay)
	v.SetDefault(keyFanOut, defaultFanOut)
	v.SetDefault(keyFetchFanOut, defaultFetchFanOut)
	v.SetDefault(keyFetchURL, defaultFetchURL)
	v.SetDefault(keyFetchTimeout, defaultFetchTimeout)
	v.SetDefault(keyRunTimeout, defaultRunTimeout)
	v.SetDefault(keySchedule, "")
	v.SetDefault(keyScheduleScenario, defaultScheduleScenario)
}

func (c Config) validate() error {
	if c.Delay < 0 {
		return fmt.Errorf("%s must not be negative, got %s", keyDelay, c.Delay)
	}
	if c.FanOut < 1 {
		return fmt.Errorf("%s must be at least 1, got %d", keyFanOut, c.FanOut)
	}
	if c.FetchFanOut < 1 {
		return fmt.Errorf("%s must be at least 1, got %d", keyFetchFanOut, c.FetchFanOut)
	}
	if c.FetchURL == "" {
		return fmt.Errorf("%s is required", keyFetchURL)
	}
	// Zero is allowed for both: no client limit, and the engine default.
	if c.FetchTimeout < 0 {
		return fmt.Errorf("%s must not be negative, got %s", keyFetchTimeout, c.FetchTimeout)
	}
	if c.RunTimeout < 0 {
		return fmt.Errorf("%s must not be negative, got %s", keyRunTimeout, c.RunTimeout)
	}
	return nil
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger creates a structured JSON logger writing to w at the configured level.
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	}))
}
