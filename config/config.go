// Package config loads server settings from .env, the environment and flags.
//
// Precedence, lowest first: built-in default, .env file, process
// environment, command-line flag.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/warp/shift-engine/generic"
	"github.com/warp/shift-engine/scheduling"
)

// Config centralises all runtime configuration.
type Config struct {
	Port            int
	DatabasePath    string
	LogLevel        logrus.Level
	QuotaScheme     string
	LeaveCounting   scheduling.LeaveCountingPolicy
	CORSOrigins     []string
	ShutdownTimeout time.Duration
	SeedDemo        bool

	// QuotaCheckInterval is the quota monitor period; 0 disables it.
	QuotaCheckInterval time.Duration
}

// Load reads .env (if present) and the environment, then applies flags
// from args (os.Args[1:] in main).
func Load(args []string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	flags := flag.NewFlagSet("server", flag.ContinueOnError)
	port := flags.Int("port", getEnvAsInt("PORT", 8080), "HTTP server port")
	dbPath := flags.String("db", getEnv("DATABASE_PATH", "shifts.db"), "SQLite database path (\":memory:\" for in-memory)")
	level := flags.String("log-level", getEnv("LOG_LEVEL", "info"), "log level (debug, info, warn, error)")
	scheme := flags.String("quota-period", getEnv("QUOTA_PERIOD_SCHEME", generic.SchemeFourWeek), "quota period scheme (four_week, calendar_month)")
	leave := flags.String("leave-counting", getEnv("LEAVE_COUNTING", string(scheduling.LeavePerShift)), "leave day counting (per_shift, per_calendar_day)")
	origins := flags.String("cors-origins", getEnv("CORS_ORIGINS", "*"), "comma-separated allowed CORS origins")
	shutdown := flags.Duration("shutdown-timeout", getEnvAsDuration("SHUTDOWN_TIMEOUT", 30*time.Second), "graceful shutdown timeout")
	quotaCheck := flags.Duration("quota-check-interval", getEnvAsDuration("QUOTA_CHECK_INTERVAL", time.Hour), "quota monitor interval (0 disables)")
	seed := flags.Bool("seed-demo", getEnvAsBool("SEED_DEMO", false), "load the demo scenario on startup")
	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	cfg := &Config{
		Port:            *port,
		DatabasePath:    *dbPath,
		QuotaScheme:     *scheme,
		CORSOrigins:     splitList(*origins),
		ShutdownTimeout: *shutdown,
		SeedDemo:        *seed,

		QuotaCheckInterval: *quotaCheck,
	}

	var err error
	if cfg.LogLevel, err = logrus.ParseLevel(*level); err != nil {
		return nil, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	if cfg.LeaveCounting, err = scheduling.ParseLeaveCountingPolicy(*leave); err != nil {
		return nil, fmt.Errorf("LEAVE_COUNTING: %w", err)
	}
	if _, err := generic.NewScheme(cfg.QuotaScheme); err != nil {
		return nil, fmt.Errorf("QUOTA_PERIOD_SCHEME: %w", err)
	}
	if cfg.QuotaCheckInterval < 0 {
		return nil, fmt.Errorf("QUOTA_CHECK_INTERVAL: %s is negative", cfg.QuotaCheckInterval)
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("PORT: %d out of range", cfg.Port)
	}
	return cfg, nil
}

// Scheme builds the configured period scheme.
func (c *Config) Scheme() generic.PeriodScheme {
	s, err := generic.NewScheme(c.QuotaScheme)
	if err != nil {
		return generic.NewPeriodCalculator(generic.NewMemoryPeriodCache())
	}
	return s
}

// NewLogger returns a text logger at the configured level.
func (c *Config) NewLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	logger.SetLevel(c.LogLevel)
	return logger
}

func getEnv(key string, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getEnvAsInt(name string, defaultVal int) int {
	if val, err := strconv.Atoi(getEnv(name, "")); err == nil {
		return val
	}
	return defaultVal
}

func getEnvAsBool(name string, defaultVal bool) bool {
	if val, err := strconv.ParseBool(getEnv(name, "")); err == nil {
		return val
	}
	return defaultVal
}

func getEnvAsDuration(name string, defaultVal time.Duration) time.Duration {
	if val, err := time.ParseDuration(getEnv(name, "")); err == nil {
		return val
	}
	return defaultVal
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
