// Package config provides configuration management for the analysis engine.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Scoring  ScoringConfig `mapstructure:"scoring"`
	Ranker   RankerConfig  `mapstructure:"ranker"`
	Data     DataConfig    `mapstructure:"data"`
	Logging  LoggingConfig `mapstructure:"logging"`
	Store    StoreConfig   `mapstructure:"store"`
	Universe []string      `mapstructure:"universe"`
}

// ScoringConfig holds the score weighting scheme.
//
// The technical/fundamental/sentiment split is fixed at 60/25/15 by default
// and must sum to 1. The same technical weights are used for the top-level
// score and the per-timeframe scores.
type ScoringConfig struct {
	TechnicalWeight   float64 `mapstructure:"technical_weight"`
	FundamentalWeight float64 `mapstructure:"fundamental_weight"`
	SentimentWeight   float64 `mapstructure:"sentiment_weight"`
	MaxPredictedMove  float64 `mapstructure:"max_predicted_move"` // percent, 24h horizon
}

// RankerConfig holds the batch scheduling policy for universe ranking.
type RankerConfig struct {
	TopN        int           `mapstructure:"top_n"`
	BatchSize   int           `mapstructure:"batch_size"`
	BatchDelay  time.Duration `mapstructure:"batch_delay"`
	Concurrency int           `mapstructure:"concurrency"`
}

// DataConfig holds price data source configuration.
type DataConfig struct {
	CandleDir    string `mapstructure:"candle_dir"`
	SnapshotFile string `mapstructure:"snapshot_file"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level   string `mapstructure:"level"`
	Console bool   `mapstructure:"console"`
	File    bool   `mapstructure:"file"`
}

// StoreConfig holds persistence configuration.
type StoreConfig struct {
	Path string `mapstructure:"path"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/cryptoradar"
	}
	return filepath.Join(home, ".config", "cryptoradar")
}

// Default returns the default configuration.
func Default() *Config {
	dir := DefaultConfigDir()
	return &Config{
		Scoring: ScoringConfig{
			TechnicalWeight:   0.60,
			FundamentalWeight: 0.25,
			SentimentWeight:   0.15,
			MaxPredictedMove:  15.0,
		},
		Ranker: RankerConfig{
			TopN:        10,
			BatchSize:   10,
			BatchDelay:  2 * time.Second,
			Concurrency: 4,
		},
		Data: DataConfig{
			CandleDir:    filepath.Join(dir, "candles"),
			SnapshotFile: filepath.Join(dir, "snapshots.csv"),
		},
		Logging: LoggingConfig{
			Level:   "info",
			Console: true,
			File:    true,
		},
		Store: StoreConfig{
			Path: filepath.Join(dir, "cryptoradar.db"),
		},
	}
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory. A missing config
// file is not an error; defaults apply.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	cfg := Default()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("loading config.toml: %w", err)
		}
	} else {
		if err := v.Unmarshal(cfg); err != nil {
			return nil, fmt.Errorf("parsing config.toml: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("CRYPTORADAR_CANDLE_DIR"); v != "" {
		cfg.Data.CandleDir = v
	}
	if v := os.Getenv("CRYPTORADAR_SNAPSHOT_FILE"); v != "" {
		cfg.Data.SnapshotFile = v
	}
	if v := os.Getenv("CRYPTORADAR_DB"); v != "" {
		cfg.Store.Path = v
	}
	if v := os.Getenv("CRYPTORADAR_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	sum := c.Scoring.TechnicalWeight + c.Scoring.FundamentalWeight + c.Scoring.SentimentWeight
	if sum < 0.999 || sum > 1.001 {
		return fmt.Errorf("score weights must sum to 1.0, got %.3f", sum)
	}
	if c.Scoring.MaxPredictedMove <= 0 {
		return fmt.Errorf("max_predicted_move must be positive")
	}
	if c.Ranker.TopN <= 0 {
		return fmt.Errorf("top_n must be positive")
	}
	if c.Ranker.BatchSize <= 0 {
		return fmt.Errorf("batch_size must be positive")
	}
	if c.Ranker.Concurrency <= 0 {
		return fmt.Errorf("concurrency must be positive")
	}
	if c.Ranker.BatchDelay < 0 {
		return fmt.Errorf("batch_delay must be non-negative")
	}
	return nil
}
