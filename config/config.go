package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rustyeddy/sigchart/market"
	"gopkg.in/yaml.v3"
)

// Config represents the complete chart service configuration
type Config struct {
	Data    DataConfig    `json:"data" yaml:"data"`
	Chart   ChartConfig   `json:"chart" yaml:"chart"`
	Signals SignalsConfig `json:"signals" yaml:"signals"`
	Server  ServerConfig  `json:"server" yaml:"server"`
	Log     LogConfig     `json:"log" yaml:"log"`
}

// DataConfig points at the raw data files
type DataConfig struct {
	CandlesPath   string `json:"candles_path" yaml:"candles_path"`
	IndicatorPath string `json:"indicator_path,omitempty" yaml:"indicator_path,omitempty"`
}

// ChartConfig contains the chart defaults
type ChartConfig struct {
	Ticker    string `json:"ticker" yaml:"ticker"`
	Timeframe string `json:"timeframe" yaml:"timeframe"`
	// OffsetRatio overrides the per-timeframe marker offset when set.
	OffsetRatio *float64 `json:"offset_ratio,omitempty" yaml:"offset_ratio,omitempty"`
}

// SignalsConfig selects where trading signals come from
type SignalsConfig struct {
	Source  string `json:"source" yaml:"source"` // "mock", "http" or "sqlite"
	URL     string `json:"url,omitempty" yaml:"url,omitempty"`
	Timeout string `json:"timeout,omitempty" yaml:"timeout,omitempty"` // e.g., "10s"
	DBPath  string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// ServerConfig contains HTTP API parameters
type ServerConfig struct {
	Addr           string   `json:"addr" yaml:"addr"`
	AllowedOrigins []string `json:"allowed_origins,omitempty" yaml:"allowed_origins,omitempty"`
}

// LogConfig contains logging parameters
type LogConfig struct {
	Level string `json:"level" yaml:"level"`
}

// ParseTimeout converts the timeout string to time.Duration
func (s SignalsConfig) ParseTimeout() (time.Duration, error) {
	if s.Timeout == "" {
		return 0, nil
	}
	return time.ParseDuration(s.Timeout)
}

// ParseTimeframe returns the parsed default timeframe
func (c ChartConfig) ParseTimeframe() (market.Timeframe, error) {
	return market.ParseTimeframe(c.Timeframe)
}

// LoadFromFile loads configuration from a file (JSON or YAML)
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

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
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

// Environment variables read by ApplyEnv
const (
	EnvAddr       = "SIGCHART_ADDR"
	EnvSource     = "SIGCHART_SIGNALS_SOURCE"
	EnvSignalsURL = "SIGCHART_SIGNALS_URL"
	EnvDBPath     = "SIGCHART_DB_PATH"
	EnvLogLevel   = "SIGCHART_LOG_LEVEL"
)

// ApplyEnv loads envFiles (default ".env", missing files are ignored) and
// overrides settings from SIGCHART_* variables. The result is revalidated.
func (c *Config) ApplyEnv(envFiles ...string) error {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}

	set := func(dst *string, key string) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}
	set(&c.Server.Addr, EnvAddr)
	set(&c.Signals.Source, EnvSource)
	set(&c.Signals.URL, EnvSignalsURL)
	set(&c.Signals.DBPath, EnvDBPath)
	set(&c.Log.Level, EnvLogLevel)

	return c.Validate()
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Data.CandlesPath == "" {
		return fmt.Errorf("data.candles_path is required")
	}
	if _, err := market.LookupAsset(c.Chart.Ticker); err != nil {
		return fmt.Errorf("chart.ticker: %w", err)
	}
	if _, err := c.Chart.ParseTimeframe(); err != nil {
		return fmt.Errorf("chart.timeframe: %w", err)
	}
	if c.Chart.OffsetRatio != nil && *c.Chart.OffsetRatio < 0 {
		return fmt.Errorf("chart.offset_ratio must not be negative")
	}
	switch c.Signals.Source {
	case "mock":
	case "http":
		if c.Signals.URL == "" {
			return fmt.Errorf("signals.url required for http source")
		}
	case "sqlite":
		if c.Signals.DBPath == "" {
			return fmt.Errorf("signals.db_path required for sqlite source")
		}
	default:
		return fmt.Errorf("signals.source must be 'mock', 'http' or 'sqlite'")
	}
	if _, err := c.Signals.ParseTimeout(); err != nil {
		return fmt.Errorf("signals.timeout: %w", err)
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	return nil
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Data: DataConfig{
			CandlesPath:   "./data/btc_15m.csv",
			IndicatorPath: "./data/indicator.csv",
		},
		Chart: ChartConfig{
			Ticker:    "BTC",
			Timeframe: string(market.M15),
		},
		Signals: SignalsConfig{
			Source:  "mock",
			Timeout: "10s",
			DBPath:  "./signals.sqlite",
		},
		Server: ServerConfig{
			Addr:           ":8080",
			AllowedOrigins: []string{"http://localhost:5173"},
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
