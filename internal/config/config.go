// Package config loads application configuration from file and environment.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Search    SearchConfig    `yaml:"search" mapstructure:"search"`
	Discovery DiscoveryConfig `yaml:"discovery" mapstructure:"discovery"`
	Enrich    EnrichConfig    `yaml:"enrich" mapstructure:"enrich"`
	Dedup     DedupConfig     `yaml:"dedup" mapstructure:"dedup"`
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// SearchConfig describes what to look for.
type SearchConfig struct {
	Query          string `yaml:"query" mapstructure:"query"`
	Location       string `yaml:"location" mapstructure:"location"`
	MaxResults     int    `yaml:"max_results" mapstructure:"max_results"`
	TargetIndustry string `yaml:"target_industry" mapstructure:"target_industry"`
}

// DiscoveryConfig configures the map-directory discovery stage.
type DiscoveryConfig struct {
	MaxScrollAttempts int     `yaml:"max_scroll_attempts" mapstructure:"max_scroll_attempts"`
	OverfetchFactor   int     `yaml:"overfetch_factor" mapstructure:"overfetch_factor"`
	SearchSettleMs    int     `yaml:"search_settle_ms" mapstructure:"search_settle_ms"`
	ScrollSettleMs    int     `yaml:"scroll_settle_ms" mapstructure:"scroll_settle_ms"`
	DetailSettleMs    int     `yaml:"detail_settle_ms" mapstructure:"detail_settle_ms"`
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
}

// EnrichConfig configures the website enrichment stage.
type EnrichConfig struct {
	Enabled           bool    `yaml:"enabled" mapstructure:"enabled"`
	PageTimeoutSecs   int     `yaml:"page_timeout_secs" mapstructure:"page_timeout_secs"`
	MaxBodyBytes      int64   `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	IndustriesFile    string  `yaml:"industries_file" mapstructure:"industries_file"`
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
}

// DedupConfig configures cross-run duplicate suppression.
type DedupConfig struct {
	Enabled    bool   `yaml:"enabled" mapstructure:"enabled"`
	HistoryKey string `yaml:"history_key" mapstructure:"history_key"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	Path        string `yaml:"path" mapstructure:"path"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// ServerConfig configures the read-only HTTP API.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from ./config.yaml and LEADSCOUT_* environment
// variables.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("LEADSCOUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("search.query", "tech companies")
	v.SetDefault("search.location", "New York")
	v.SetDefault("search.max_results", 50)
	v.SetDefault("discovery.max_scroll_attempts", 15)
	v.SetDefault("discovery.overfetch_factor", 2)
	v.SetDefault("discovery.search_settle_ms", 4000)
	v.SetDefault("discovery.scroll_settle_ms", 2000)
	v.SetDefault("discovery.detail_settle_ms", 2500)
	v.SetDefault("discovery.requests_per_second", 0.5)
	v.SetDefault("enrich.enabled", true)
	v.SetDefault("enrich.page_timeout_secs", 30)
	v.SetDefault("enrich.max_body_bytes", 512*1024)
	v.SetDefault("enrich.requests_per_second", 0.5)
	v.SetDefault("dedup.enabled", true)
	v.SetDefault("dedup.history_key", "SCRAPED_COMPANIES_HISTORY")
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.path", "leadscout.db")
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
