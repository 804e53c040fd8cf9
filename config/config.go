package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/andongyersst-spec/trading-journal/coerce"
	"github.com/andongyersst-spec/trading-journal/ledger"
)

// Config represents the complete tradelog configuration
type Config struct {
	Ledger  LedgerConfig  `json:"ledger" yaml:"ledger"`
	Journal JournalConfig `json:"journal" yaml:"journal"`
	Log     LogConfig     `json:"log" yaml:"log"`
	Server  ServerConfig  `json:"server" yaml:"server"`
}

// LedgerConfig controls how a new ledger starts and how input is parsed
type LedgerConfig struct {
	StartingBalance float64 `json:"starting_balance" yaml:"starting_balance"`
	Policy          string  `json:"policy" yaml:"policy"` // "lenient" or "strict"
}

// JournalConfig selects where the ledger is persisted
type JournalConfig struct {
	Type     string `json:"type" yaml:"type"` // "sqlite", "file" or "memory"
	DBPath   string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
	FilePath string `json:"file_path,omitempty" yaml:"file_path,omitempty"`
}

// Path returns the storage location for the configured journal type.
func (j JournalConfig) Path() string {
	if j.Type == "file" {
		return j.FilePath
	}
	return j.DBPath
}

// LogConfig contains logging parameters
type LogConfig struct {
	Level  string `json:"level" yaml:"level"`   // debug|info|warn|error
	Format string `json:"format" yaml:"format"` // console|json
}

// ServerConfig contains HTTP API parameters
type ServerConfig struct {
	Addr string `json:"addr" yaml:"addr"`
}

// LoadFromFile loads configuration from a file (YAML first, JSON fallback)
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Load builds the effective configuration: defaults, then the optional
// config file, then a .env file and the process environment.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		var err error
		if cfg, err = LoadFromFile(path); err != nil {
			return nil, err
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Environment variables read by ApplyEnv.
const (
	EnvJournal         = "TRADELOG_JOURNAL"
	EnvDB              = "TRADELOG_DB"
	EnvFile            = "TRADELOG_FILE"
	EnvLogLevel        = "TRADELOG_LOG_LEVEL"
	EnvLogFormat       = "TRADELOG_LOG_FORMAT"
	EnvAddr            = "TRADELOG_ADDR"
	EnvPolicy          = "TRADELOG_POLICY"
	EnvStartingBalance = "TRADELOG_STARTING_BALANCE"
)

// ApplyEnv overrides fields from environment variables. lookup is usually
// os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	set := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}

	set(EnvJournal, &c.Journal.Type)
	set(EnvDB, &c.Journal.DBPath)
	set(EnvFile, &c.Journal.FilePath)
	set(EnvLogLevel, &c.Log.Level)
	set(EnvLogFormat, &c.Log.Format)
	set(EnvAddr, &c.Server.Addr)
	set(EnvPolicy, &c.Ledger.Policy)

	if v, ok := lookup(EnvStartingBalance); ok && strings.TrimSpace(v) != "" {
		f, ok := coerce.Parse(v)
		if !ok {
			return fmt.Errorf("%s: %q is not a number", EnvStartingBalance, v)
		}
		c.Ledger.StartingBalance = f
	}
	return nil
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	// Determine format by extension
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(c)
	default:
		data, err = json.MarshalIndent(c, "", "  ")
	}

	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if _, err := ledger.ParsePolicy(c.Ledger.Policy); err != nil {
		return fmt.Errorf("ledger.policy must be 'lenient' or 'strict'")
	}
	switch c.Journal.Type {
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal db_path required for SQLite type")
		}
	case "file":
		if c.Journal.FilePath == "" {
			return fmt.Errorf("journal file_path required for file type")
		}
	case "memory":
	default:
		return fmt.Errorf("journal.type must be 'sqlite', 'file' or 'memory'")
	}
	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug|info|warn|error")
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "console", "json":
	default:
		return fmt.Errorf("log.format must be 'console' or 'json'")
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	return nil
}

// EnginePolicy returns the parsed ledger policy.
func (c *Config) EnginePolicy() ledger.Policy {
	p, _ := ledger.ParsePolicy(c.Ledger.Policy)
	return p
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Ledger: LedgerConfig{
			StartingBalance: ledger.DefaultStartingBalance,
			Policy:          "lenient",
		},
		Journal: JournalConfig{
			Type:   "sqlite",
			DBPath: "./tradelog.sqlite",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:8080",
		},
	}
}
