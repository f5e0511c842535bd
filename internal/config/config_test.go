package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"APP_ENV", "LOG_LEVEL", "HTTP_ADDR", "SQLITE_PATH", "DB_DRIVER", "DB_DSN",
		"DB_MAX_OPEN_CONNS", "DB_MAX_IDLE_CONNS", "DB_CONN_MAX_LIFETIME", "DB_LOG_SQL",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadFromEnv_Defaults(t *testing.T) {
	clearEnv(t)

	got, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() error = %v, want nil", err)
	}

	if got.AppEnv != "dev" {
		t.Errorf("AppEnv = %q, want %q", got.AppEnv, "dev")
	}
	if got.LogLevel != slog.LevelInfo {
		t.Errorf("LogLevel = %v, want %v", got.LogLevel, slog.LevelInfo)
	}
	if got.HTTPAddr != ":5000" {
		t.Errorf("HTTPAddr = %q, want %q", got.HTTPAddr, ":5000")
	}
	if got.SQLitePath != "hawaii.sqlite" {
		t.Errorf("SQLitePath = %q, want %q", got.SQLitePath, "hawaii.sqlite")
	}
	if got.SQLiteDriver != "sqlite3" {
		t.Errorf("SQLiteDriver = %q, want %q", got.SQLiteDriver, "sqlite3")
	}
	if got.SQLiteMaxOpenConns != 4 || got.SQLiteMaxIdleConns != 4 {
		t.Errorf("pool = %d/%d, want 4/4", got.SQLiteMaxOpenConns, got.SQLiteMaxIdleConns)
	}
	if got.SQLiteConnMaxLifetime != 0 {
		t.Errorf("SQLiteConnMaxLifetime = %v, want 0", got.SQLiteConnMaxLifetime)
	}
	if got.SQLiteLogStatements {
		t.Errorf("SQLiteLogStatements = true, want false")
	}
}

func TestLoadFromEnv_AppEnv_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		appEnv string
	}{
		{name: "staging", appEnv: "staging"},
		{name: "uppercase invalid", appEnv: "DEV"},
		{name: "random", appEnv: "whatever"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("APP_ENV", tt.appEnv)

			if _, err := LoadFromEnv(); err == nil {
				t.Fatalf("LoadFromEnv() error = nil, want non-nil")
			}
		})
	}
}

func TestLoadFromEnv_InvalidNumbers(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{name: "max open conns", key: "DB_MAX_OPEN_CONNS", val: "many"},
		{name: "max idle conns", key: "DB_MAX_IDLE_CONNS", val: "1.5"},
		{name: "conn lifetime", key: "DB_CONN_MAX_LIFETIME", val: "forever"},
		{name: "log sql", key: "DB_LOG_SQL", val: "sometimes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.val)

			if _, err := LoadFromEnv(); err == nil {
				t.Fatalf("LoadFromEnv() error = nil, want non-nil for %s=%q", tt.key, tt.val)
			}
		})
	}
}

func TestLoadFromEnv_DBSettings(t *testing.T) {
	clearEnv(t)
	t.Setenv("SQLITE_PATH", " /data/hawaii.sqlite ")
	t.Setenv("DB_MAX_OPEN_CONNS", "8")
	t.Setenv("DB_MAX_IDLE_CONNS", "2")
	t.Setenv("DB_CONN_MAX_LIFETIME", "5m")
	t.Setenv("DB_LOG_SQL", "true")

	got, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() error = %v, want nil", err)
	}
	if got.SQLitePath != "/data/hawaii.sqlite" {
		t.Errorf("SQLitePath = %q, want %q", got.SQLitePath, "/data/hawaii.sqlite")
	}
	if got.SQLiteMaxOpenConns != 8 || got.SQLiteMaxIdleConns != 2 {
		t.Errorf("pool = %d/%d, want 8/2", got.SQLiteMaxOpenConns, got.SQLiteMaxIdleConns)
	}
	if got.SQLiteConnMaxLifetime != 5*time.Minute {
		t.Errorf("SQLiteConnMaxLifetime = %v, want 5m", got.SQLiteConnMaxLifetime)
	}
	if !got.SQLiteLogStatements {
		t.Errorf("SQLiteLogStatements = false, want true")
	}
}

func TestParseLogLevel_Valid(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want slog.Level
	}{
		{name: "debug", in: "debug", want: slog.LevelDebug},
		{name: "info", in: "info", want: slog.LevelInfo},
		{name: "warn", in: "warn", want: slog.LevelWarn},
		{name: "warning", in: "warning", want: slog.LevelWarn},
		{name: "error", in: "error", want: slog.LevelError},
		{name: "case insensitive", in: "DeBuG", want: slog.LevelDebug},
		{name: "trims whitespace", in: "  warn \n", want: slog.LevelWarn},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseLogLevel(tt.in)
			if err != nil {
				t.Fatalf("parseLogLevel(%q) error = %v, want nil", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("parseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseLogLevel_Invalid(t *testing.T) {
	for _, in := range []string{"", "nope", "warns", "1"} {
		got, err := parseLogLevel(in)
		if err == nil {
			t.Fatalf("parseLogLevel(%q) error = nil, want non-nil", in)
		}
		if got != slog.LevelInfo {
			t.Errorf("parseLogLevel(%q) = %v, want %v on error", in, got, slog.LevelInfo)
		}
	}
}

func TestParseFlags(t *testing.T) {
	got, err := ParseFlags([]string{"--http-addr", "127.0.0.1:9000", "--sqlite-path=/tmp/h.sqlite", "--log-level", "debug"})
	if err != nil {
		t.Fatalf("ParseFlags() error = %v", err)
	}
	want := Overrides{EnvFile: ".env", HTTPAddr: "127.0.0.1:9000", SQLitePath: "/tmp/h.sqlite", LogLevel: "debug"}
	if got != want {
		t.Errorf("ParseFlags() = %+v, want %+v", got, want)
	}

	if _, err := ParseFlags([]string{"--no-such-flag"}); err == nil {
		t.Errorf("ParseFlags() with unknown flag error = nil, want non-nil")
	}
}

func TestLoad_OverridesWin(t *testing.T) {
	clearEnv(t)
	t.Setenv("HTTP_ADDR", ":7000")
	t.Setenv("SQLITE_PATH", "env.sqlite")

	got, err := Load(Overrides{HTTPAddr: ":7001", SQLitePath: "flag.sqlite", LogLevel: "error"})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.HTTPAddr != ":7001" {
		t.Errorf("HTTPAddr = %q, want %q", got.HTTPAddr, ":7001")
	}
	if got.SQLitePath != "flag.sqlite" {
		t.Errorf("SQLitePath = %q, want %q", got.SQLitePath, "flag.sqlite")
	}
	if got.LogLevel != slog.LevelError {
		t.Errorf("LogLevel = %v, want %v", got.LogLevel, slog.LevelError)
	}
}

func TestLoad_InvalidOverrideLogLevel(t *testing.T) {
	clearEnv(t)
	if _, err := Load(Overrides{LogLevel: "loud"}); err == nil {
		t.Fatalf("Load() error = nil, want non-nil")
	}
}

func TestLoad_RejectsNegativePool(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_MAX_OPEN_CONNS", "-1")

	if _, err := Load(Overrides{}); err == nil {
		t.Fatalf("Load() error = nil, want validation error")
	}
}

func TestLoad_DotenvFile(t *testing.T) {
	clearEnv(t)
	os.Unsetenv("HTTP_ADDR")
	t.Cleanup(func() { os.Unsetenv("HTTP_ADDR") })

	dir := t.TempDir()
	envFile := filepath.Join(dir, "test.env")
	if err := os.WriteFile(envFile, []byte("HTTP_ADDR=:6060\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}

	got, err := Load(Overrides{EnvFile: envFile})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.HTTPAddr != ":6060" {
		t.Errorf("HTTPAddr = %q, want %q", got.HTTPAddr, ":6060")
	}
}

func TestLoad_MissingDotenvFileIsIgnored(t *testing.T) {
	clearEnv(t)

	if _, err := Load(Overrides{EnvFile: filepath.Join(t.TempDir(), "absent.env")}); err != nil {
		t.Fatalf("Load() error = %v, want nil", err)
	}
}
