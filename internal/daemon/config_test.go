package daemon

import (
	"bytes"
	"context"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.API.Host != "127.0.0.1" {
		t.Errorf("API.Host = %q, want %q", cfg.API.Host, "127.0.0.1")
	}
	if cfg.API.Port != 5000 {
		t.Errorf("API.Port = %d, want %d", cfg.API.Port, 5000)
	}
	if !cfg.API.Metrics {
		t.Error("API.Metrics should be true by default")
	}
	if cfg.Database.Driver != DriverSQLite {
		t.Errorf("Database.Driver = %q, want %q", cfg.Database.Driver, DriverSQLite)
	}
	if cfg.Monitor.Schedule != "@every 30s" {
		t.Errorf("Monitor.Schedule = %q", cfg.Monitor.Schedule)
	}
	if cfg.Events.Buffer != 256 {
		t.Errorf("Events.Buffer = %d, want 256", cfg.Events.Buffer)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults do not validate: %v", err)
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("BUDGETLENS_HOME", t.TempDir())
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Addr() != "127.0.0.1:5000" {
		t.Errorf("Addr() = %q", cfg.Addr())
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[api]
host = "0.0.0.0"
port = 8080
cors_origins = ["https://budget.example"]
metrics = false

[database]
driver = "sqlite"
sqlite_dir = "/var/lib/budgetlens"

[log]
level = "debug"
format = "text"
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Addr() != "0.0.0.0:8080" {
		t.Errorf("Addr() = %q", cfg.Addr())
	}
	if cfg.API.Metrics {
		t.Error("metrics should be disabled")
	}
	if len(cfg.API.CORSOrigins) != 1 || cfg.API.CORSOrigins[0] != "https://budget.example" {
		t.Errorf("CORSOrigins = %v", cfg.API.CORSOrigins)
	}
	if cfg.SQLiteDir() != "/var/lib/budgetlens" {
		t.Errorf("SQLiteDir() = %q", cfg.SQLiteDir())
	}
	// Untouched sections keep their defaults.
	if cfg.Events.Buffer != 256 {
		t.Errorf("Events.Buffer = %d", cfg.Events.Buffer)
	}
}

func TestLoad_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[api\nport ="), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"BUDGETLENS_ADDR":      "0.0.0.0:9000",
		"CORS_ORIGINS":         "http://a.test, http://b.test ,",
		"BUDGETLENS_DB_DRIVER": "Postgres",
		"POSTGRES_USER":        "alice",
		"POSTGRES_PASSWORD":    "s3cret",
		"POSTGRES_HOST":        "db",
		"POSTGRES_DB":          "budgets",
		"BUDGETLENS_LOG_LEVEL": "warn",
	}
	cfg := DefaultConfig()
	if err := applyEnv(&cfg, func(k string) string { return env[k] }); err != nil {
		t.Fatalf("applyEnv() error: %v", err)
	}

	if cfg.Addr() != "0.0.0.0:9000" {
		t.Errorf("Addr() = %q", cfg.Addr())
	}
	if strings.Join(cfg.API.CORSOrigins, "|") != "http://a.test|http://b.test" {
		t.Errorf("CORSOrigins = %v", cfg.API.CORSOrigins)
	}
	if cfg.Database.Driver != DriverPostgres {
		t.Errorf("Driver = %q", cfg.Database.Driver)
	}
	if want := "postgres://alice:s3cret@db:5432/budgets?sslmode=disable"; cfg.Database.DSN != want {
		t.Errorf("DSN = %q, want %q", cfg.Database.DSN, want)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Log.Level = %q", cfg.Log.Level)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error: %v", err)
	}
}

func TestApplyEnv_ExplicitDSNWins(t *testing.T) {
	env := map[string]string{
		"BUDGETLENS_DB_DRIVER": "postgres",
		"BUDGETLENS_DB_DSN":    "postgres://x@y/z",
		"POSTGRES_HOST":        "ignored",
	}
	cfg := DefaultConfig()
	if err := applyEnv(&cfg, func(k string) string { return env[k] }); err != nil {
		t.Fatal(err)
	}
	if cfg.Database.DSN != "postgres://x@y/z" {
		t.Errorf("DSN = %q", cfg.Database.DSN)
	}
}

func TestApplyEnv_BadAddr(t *testing.T) {
	cfg := DefaultConfig()
	err := applyEnv(&cfg, func(k string) string {
		if k == "BUDGETLENS_ADDR" {
			return "no-port"
		}
		return ""
	})
	if err == nil {
		t.Error("expected error for address without port")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"port zero", func(c *Config) { c.API.Port = 0 }},
		{"port too high", func(c *Config) { c.API.Port = 70000 }},
		{"unknown driver", func(c *Config) { c.Database.Driver = "mysql" }},
		{"postgres without dsn", func(c *Config) { c.Database.Driver = DriverPostgres }},
		{"bad schedule", func(c *Config) { c.Monitor.Schedule = "sometimes" }},
		{"zero buffer", func(c *Config) { c.Events.Buffer = 0 }},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() should fail")
			}
		})
	}
}

func TestHomeAndSQLiteDir(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("BUDGETLENS_HOME", dir)
	if Home() != dir {
		t.Errorf("Home() = %q, want %q", Home(), dir)
	}
	if ConfigPath() != filepath.Join(dir, "config.toml") {
		t.Errorf("ConfigPath() = %q", ConfigPath())
	}
	if got := DefaultConfig().SQLiteDir(); got != filepath.Join(dir, "data") {
		t.Errorf("SQLiteDir() = %q", got)
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(LogConfig{Level: "debug", Format: "json"}, &buf)
	if log.GetLevel() != logrus.DebugLevel {
		t.Errorf("level = %v", log.GetLevel())
	}
	log.WithField("k", "v").Info("hello")
	if !strings.Contains(buf.String(), `"k":"v"`) {
		t.Errorf("json output = %q", buf.String())
	}

	if NewLogger(LogConfig{Level: "nope"}, &buf).GetLevel() != logrus.InfoLevel {
		t.Error("unknown level should fall back to info")
	}
}

func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port
}

func TestRun_ServesAndShutsDown(t *testing.T) {
	cfg := DefaultConfig()
	cfg.API.Port = freePort(t)
	cfg.Database.SQLiteDir = t.TempDir()

	var buf bytes.Buffer
	log := NewLogger(LogConfig{Level: "error", Format: "json"}, &buf)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Run(ctx, cfg, log) }()

	url := "http://" + cfg.Addr() + "/api/health"
	var resp *http.Response
	var err error
	for i := 0; i < 50; i++ {
		resp, err = http.Get(url)
		if err == nil {
			break
		}
		time.Sleep(50 * time.Millisecond)
	}
	if err != nil {
		cancel()
		t.Fatalf("server never came up: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("health status = %d, want 200", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error: %v", err)
		}
	case <-time.After(15 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
