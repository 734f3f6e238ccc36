// Package daemon loads budgetlens configuration and runs the API server with
// its background workers.
package daemon

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds all budgetlens configuration.
type Config struct {
	API      APIConfig      `toml:"api"`
	Database DatabaseConfig `toml:"database"`
	Monitor  MonitorConfig  `toml:"monitor"`
	Events   EventsConfig   `toml:"events"`
	Log      LogConfig      `toml:"log"`
}

// APIConfig controls the HTTP listener.
type APIConfig struct {
	Host        string   `toml:"host"`
	Port        int      `toml:"port"`
	CORSOrigins []string `toml:"cors_origins"`
	Metrics     bool     `toml:"metrics"`
}

// DatabaseConfig selects and locates the budget store.
type DatabaseConfig struct {
	Driver    string `toml:"driver"`
	DSN       string `toml:"dsn,omitempty"`
	SQLiteDir string `toml:"sqlite_dir,omitempty"` // default: $BUDGETLENS_HOME/data
}

// MonitorConfig controls the health sampler.
type MonitorConfig struct {
	Schedule string `toml:"schedule"`
}

// EventsConfig sizes the audit event queue.
type EventsConfig struct {
	Buffer int `toml:"buffer"`
}

// LogConfig controls logrus output.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // json or text
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		API: APIConfig{
			Host:        "127.0.0.1",
			Port:        5000,
			CORSOrigins: []string{"http://localhost:3000", "http://127.0.0.1:3000"},
			Metrics:     true,
		},
		Database: DatabaseConfig{
			Driver: DriverSQLite,
		},
		Monitor: MonitorConfig{
			Schedule: "@every 30s",
		},
		Events: EventsConfig{
			Buffer: 256,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Home returns the budgetlens state directory.
func Home() string {
	if h := os.Getenv("BUDGETLENS_HOME"); h != "" {
		return h
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".budgetlens")
}

// ConfigPath returns the default config file location.
func ConfigPath() string {
	return filepath.Join(Home(), "config.toml")
}

// Addr returns the listen address.
func (c Config) Addr() string {
	return net.JoinHostPort(c.API.Host, strconv.Itoa(c.API.Port))
}

// SetAddr sets the listen host and port from a host:port string.
func (c *Config) SetAddr(addr string) error {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return err
	}
	p, err := strconv.Atoi(port)
	if err != nil {
		return fmt.Errorf("port %q: %w", port, err)
	}
	c.API.Host, c.API.Port = host, p
	return nil
}

// SQLiteDir returns the directory holding the sqlite database.
func (c Config) SQLiteDir() string {
	if c.Database.SQLiteDir != "" {
		return c.Database.SQLiteDir
	}
	return filepath.Join(Home(), "data")
}

// Load reads path (ConfigPath when empty), then applies .env and
// environment overrides. A missing file yields the defaults.
func Load(path string) (Config, error) {
	// .env is optional; real environment variables win over it.
	_ = godotenv.Load()

	cfg := DefaultConfig()
	if path == "" {
		path = ConfigPath()
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return cfg, fmt.Errorf("reading config: %w", err)
	default:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config: %w", err)
		}
	}

	if err := applyEnv(&cfg, os.Getenv); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// applyEnv overlays environment variables onto cfg.
func applyEnv(cfg *Config, getenv func(string) string) error {
	if addr := getenv("BUDGETLENS_ADDR"); addr != "" {
		if err := cfg.SetAddr(addr); err != nil {
			return fmt.Errorf("BUDGETLENS_ADDR: %w", err)
		}
	}
	if origins := getenv("CORS_ORIGINS"); origins != "" {
		cfg.API.CORSOrigins = splitList(origins)
	}
	if d := getenv("BUDGETLENS_DB_DRIVER"); d != "" {
		cfg.Database.Driver = strings.ToLower(d)
	}
	if dsn := getenv("BUDGETLENS_DB_DSN"); dsn != "" {
		cfg.Database.DSN = dsn
	}
	if cfg.Database.Driver == DriverPostgres && cfg.Database.DSN == "" {
		cfg.Database.DSN = postgresDSN(getenv)
	}
	if lvl := getenv("BUDGETLENS_LOG_LEVEL"); lvl != "" {
		cfg.Log.Level = lvl
	}
	return nil
}

// postgresDSN builds a connection URL from the POSTGRES_* variables.
func postgresDSN(getenv func(string) string) string {
	get := func(key, def string) string {
		if v := getenv(key); v != "" {
			return v
		}
		return def
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(get("POSTGRES_USER", "budget_user"), get("POSTGRES_PASSWORD", "budget_password")),
		Host:     net.JoinHostPort(get("POSTGRES_HOST", "localhost"), get("POSTGRES_PORT", "5432")),
		Path:     "/" + get("POSTGRES_DB", "budget_db"),
		RawQuery: "sslmode=" + get("POSTGRES_SSLMODE", "disable"),
	}
	return u.String()
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

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.API.Port < 1 || c.API.Port > 65535 {
		return fmt.Errorf("api.port %d out of range", c.API.Port)
	}
	switch c.Database.Driver {
	case DriverSQLite:
	case DriverPostgres:
		if c.Database.DSN == "" {
			return errors.New("database.dsn is required for postgres")
		}
	default:
		return fmt.Errorf("database.driver %q: want %s or %s", c.Database.Driver, DriverSQLite, DriverPostgres)
	}
	if _, err := cron.ParseStandard(c.Monitor.Schedule); err != nil {
		return fmt.Errorf("monitor.schedule: %w", err)
	}
	if c.Events.Buffer < 1 {
		return fmt.Errorf("events.buffer must be positive, got %d", c.Events.Buffer)
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if c.Log.Format != "json" && c.Log.Format != "text" {
		return fmt.Errorf("log.format %q: want json or text", c.Log.Format)
	}
	return nil
}
