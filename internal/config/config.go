package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/reachpoint/provider-verify/internal/verify"
)

// Config holds the full application configuration.
type Config struct {
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Brave     BraveConfig     `yaml:"brave" mapstructure:"brave"`
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	Verify    VerifyConfig    `yaml:"verify" mapstructure:"verify"`
	Batch     BatchConfig     `yaml:"batch" mapstructure:"batch"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the decision cache backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	TTLHours    int    `yaml:"ttl_hours" mapstructure:"ttl_hours"`
}

// BraveConfig holds Brave Search API settings.
type BraveConfig struct {
	Key           string  `yaml:"key" mapstructure:"key"`
	BaseURL       string  `yaml:"base_url" mapstructure:"base_url"`
	ResultCount   int     `yaml:"result_count" mapstructure:"result_count"`
	RatePerSecond float64 `yaml:"rate_per_second" mapstructure:"rate_per_second"`
	RateBurst     int     `yaml:"rate_burst" mapstructure:"rate_burst"`
}

// AnthropicConfig holds Anthropic API settings for the LLM classifier.
type AnthropicConfig struct {
	Key   string `yaml:"key" mapstructure:"key"`
	Model string `yaml:"model" mapstructure:"model"`
}

// VerifyConfig configures the scoring engine.
type VerifyConfig struct {
	Weights   verify.Weights `yaml:"weights" mapstructure:"weights"`
	ListsPath string         `yaml:"lists_path" mapstructure:"lists_path"`
}

// BatchConfig configures batch processing.
type BatchConfig struct {
	MaxConcurrent int `yaml:"max_concurrent" mapstructure:"max_concurrent"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("PROVIDER_VERIFY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "provider-verify.db")
	v.SetDefault("store.ttl_hours", 24)
	v.SetDefault("brave.key", "")
	v.SetDefault("brave.base_url", "https://api.search.brave.com/res/v1")
	v.SetDefault("brave.result_count", 20)
	v.SetDefault("brave.rate_per_second", 1.0)
	v.SetDefault("brave.rate_burst", 2)
	v.SetDefault("anthropic.key", "")
	v.SetDefault("anthropic.model", "claude-haiku-4-5-20251001")
	v.SetDefault("verify.lists_path", "")
	v.SetDefault("batch.max_concurrent", 4)
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	dw := verify.DefaultWeights()
	v.SetDefault("verify.weights.practice_website", dw.PracticeWebsite)
	v.SetDefault("verify.weights.practice_name_match", dw.PracticeNameMatch)
	v.SetDefault("verify.weights.custom_domain", dw.CustomDomain)
	v.SetDefault("verify.weights.location_match", dw.LocationMatch)
	v.SetDefault("verify.weights.official_social", dw.OfficialSocial)
	v.SetDefault("verify.weights.social_weak", dw.SocialWeak)
	v.SetDefault("verify.weights.directory_listing", dw.DirectoryListing)
	v.SetDefault("verify.weights.ssl", dw.SSL)
	v.SetDefault("verify.weights.contact_info", dw.ContactInfo)
	v.SetDefault("verify.weights.name_in_domain_bonus", dw.NameInDomainBonus)
	v.SetDefault("verify.weights.provider_name_bonus", dw.ProviderNameBonus)
	v.SetDefault("verify.weights.platform_bonus", dw.PlatformBonus)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	if err := verify.ValidateWeights(cfg.Verify.Weights); err != nil {
		return nil, eris.Wrap(err, "config: weights")
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
