package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	flag "github.com/spf13/pflag"
)

var validate = validator.New()

type Config struct {
	AppEnv   string `validate:"oneof=dev prod"`
	LogLevel slog.Level
	HTTPAddr string `validate:"required"`

	// SQLitePath points at the prepared dataset file. It is opened read-only.
	SQLitePath            string `validate:"required_without=SQLiteDSN"`
	SQLiteDriver          string `validate:"required"`
	SQLiteDSN             string
	SQLiteMaxOpenConns    int           `validate:"gte=0"`
	SQLiteMaxIdleConns    int           `validate:"gte=0"`
	SQLiteConnMaxLifetime time.Duration `validate:"gte=0"`
	SQLiteLogStatements   bool
}

// Overrides holds command-line values that take precedence over the environment.
// Empty fields are ignored.
type Overrides struct {
	EnvFile    string
	HTTPAddr   string
	SQLitePath string
	LogLevel   string
}

// ParseFlags parses command-line arguments (without the program name).
func ParseFlags(args []string) (Overrides, error) {
	fs := flag.NewFlagSet("climate-server", flag.ContinueOnError)
	var o Overrides
	fs.StringVar(&o.EnvFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	fs.StringVar(&o.HTTPAddr, "http-addr", "", "listen address (overrides HTTP_ADDR)")
	fs.StringVar(&o.SQLitePath, "sqlite-path", "", "dataset file (overrides SQLITE_PATH)")
	fs.StringVar(&o.LogLevel, "log-level", "", "log level (overrides LOG_LEVEL)")
	if err := fs.Parse(args); err != nil {
		return Overrides{}, err
	}
	return o, nil
}

// Load reads the optional dotenv file, then the environment, then applies overrides.
// Variables already present in the environment win over the dotenv file.
func Load(o Overrides) (Config, error) {
	if o.EnvFile != "" {
		if err := godotenv.Load(o.EnvFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", o.EnvFile, err)
		}
	}

	cfg, err := LoadFromEnv()
	if err != nil {
		return Config{}, err
	}

	if o.HTTPAddr != "" {
		cfg.HTTPAddr = strings.TrimSpace(o.HTTPAddr)
	}
	if o.SQLitePath != "" {
		cfg.SQLitePath = strings.TrimSpace(o.SQLitePath)
	}
	if o.LogLevel != "" {
		level, err := parseLogLevel(o.LogLevel)
		if err != nil {
			return Config{}, err
		}
		cfg.LogLevel = level
	}

	if err := validate.Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func LoadFromEnv() (Config, error) {
	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = "dev"
	}
	switch appEnv {
	case "dev", "prod":
	default:
		return Config{}, fmt.Errorf("invalid APP_ENV %q (allowed: dev, prod)", appEnv)
	}

	logLevelStr := strings.TrimSpace(os.Getenv("LOG_LEVEL"))
	if logLevelStr == "" {
		logLevelStr = "info"
	}
	level, err := parseLogLevel(logLevelStr)
	if err != nil {
		return Config{}, err
	}

	httpAddr := strings.TrimSpace(os.Getenv("HTTP_ADDR"))
	if httpAddr == "" {
		httpAddr = ":5000"
	}

	driver := strings.TrimSpace(os.Getenv("DB_DRIVER"))
	if driver == "" {
		driver = "sqlite3"
	}
	dsn := strings.TrimSpace(os.Getenv("DB_DSN"))
	path := strings.TrimSpace(os.Getenv("SQLITE_PATH"))
	if path == "" {
		path = "hawaii.sqlite"
	}

	maxOpenConns, err := envInt("DB_MAX_OPEN_CONNS", 4)
	if err != nil {
		return Config{}, err
	}
	maxIdleConns, err := envInt("DB_MAX_IDLE_CONNS", 4)
	if err != nil {
		return Config{}, err
	}

	connMaxLifetimeStr := strings.TrimSpace(os.Getenv("DB_CONN_MAX_LIFETIME"))
	if connMaxLifetimeStr == "" {
		connMaxLifetimeStr = "0s"
	}
	connMaxLifetime, err := time.ParseDuration(connMaxLifetimeStr)
	if err != nil {
		return Config{}, fmt.Errorf("invalid DB_CONN_MAX_LIFETIME %q: %w", connMaxLifetimeStr, err)
	}

	logSQL := false
	if s := strings.TrimSpace(os.Getenv("DB_LOG_SQL")); s != "" {
		logSQL, err = strconv.ParseBool(s)
		if err != nil {
			return Config{}, fmt.Errorf("invalid DB_LOG_SQL %q: %w", s, err)
		}
	}

	return Config{
		AppEnv:                appEnv,
		LogLevel:              level,
		HTTPAddr:              httpAddr,
		SQLitePath:            path,
		SQLiteDriver:          driver,
		SQLiteDSN:             dsn,
		SQLiteMaxOpenConns:    maxOpenConns,
		SQLiteMaxIdleConns:    maxIdleConns,
		SQLiteConnMaxLifetime: connMaxLifetime,
		SQLiteLogStatements:   logSQL,
	}, nil
}

func envInt(key string, def int) (int, error) {
	s := strings.TrimSpace(os.Getenv(key))
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, s, err)
	}
	return n, nil
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q (allowed: debug, info, warn, error)", s)
	}
}
