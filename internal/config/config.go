package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up under Dir.
const FileName = "ledgerctl.yaml"

// Config represents the top-level ledgerctl.yaml configuration.
type Config struct {
	API      APIConfig  `yaml:"api"`
	LedgerID int64      `yaml:"ledger_id"`
	Log      LogConfig  `yaml:"log"`
	Auth     AuthConfig `yaml:"auth"`
}

// APIConfig locates the ledger server.
type APIConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// LogConfig controls logger output.
type LogConfig struct {
	Level  string `yaml:"level"` // debug, info, warn, error
	Pretty bool   `yaml:"pretty"`
}

// AuthConfig places the token stores. TokenDir survives restarts and holds
// remembered logins; SessionDir holds the rest.
type AuthConfig struct {
	TokenDir   string `yaml:"token_dir"`
	SessionDir string `yaml:"session_dir"`
}

// Dir returns the per-user config directory.
func Dir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locating config dir: %w", err)
	}
	return filepath.Join(base, "ledgerctl"), nil
}

// DefaultPath returns Dir/FileName.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, FileName), nil
}

// Default returns a Config pointing at a local server.
func Default() *Config {
	cfg := &Config{
		API: APIConfig{
			BaseURL: "http://localhost:8888/api",
			Timeout: 8 * time.Second,
		},
		LedgerID: 1,
		Log: LogConfig{
			Level: "info",
		},
		Auth: AuthConfig{
			SessionDir: defaultSessionDir(),
		},
	}
	if dir, err := Dir(); err == nil {
		cfg.Auth.TokenDir = dir
	}
	return cfg
}

func defaultSessionDir() string {
	if run := os.Getenv("XDG_RUNTIME_DIR"); run != "" {
		return filepath.Join(run, "ledgerctl")
	}
	return filepath.Join(os.TempDir(), "ledgerctl-session")
}

// Load reads a ledgerctl.yaml file from disk. Fields it leaves out keep
// their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Resolve builds the effective configuration: defaults, then the file at
// path if it exists, then a local .env, then LEDGER_* environment variables.
func Resolve(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		loaded, err := Load(path)
		switch {
		case err == nil:
			cfg = loaded
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, err
		}
	}

	// A missing .env is fine; existing environment variables win.
	_ = godotenv.Load()

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from LEDGER_* environment variables.
func (c *Config) ApplyEnv() error {
	if v := getEnv("LEDGER_API_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := getEnv("LEDGER_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("LEDGER_TIMEOUT: %w", err)
		}
		c.API.Timeout = d
	}
	if v := getEnv("LEDGER_ID"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("LEDGER_ID: %w", err)
		}
		c.LedgerID = id
	}
	if v := getEnv("LEDGER_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := getEnv("LEDGER_TOKEN_DIR"); v != "" {
		c.Auth.TokenDir = v
	}
	return nil
}

// Validate checks that the configuration can drive a client.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return errors.New("api.base_url is required")
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be positive, got %s", c.API.Timeout)
	}
	if c.LedgerID < 0 {
		return fmt.Errorf("ledger_id must not be negative, got %d", c.LedgerID)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be debug, info, warn or error, got %q", c.Log.Level)
	}
	return nil
}

// Save writes a Config to a YAML file, creating its directory.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

func getEnv(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}
