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
	Model   ModelConfig   `yaml:"model" mapstructure:"model"`
	Predict PredictConfig `yaml:"predict" mapstructure:"predict"`
	Train   TrainConfig   `yaml:"train" mapstructure:"train"`
	Store   StoreConfig   `yaml:"store" mapstructure:"store"`
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// ModelConfig locates the persisted model artifact.
type ModelConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// PredictConfig configures scoring.
type PredictConfig struct {
	Threshold float64 `yaml:"threshold" mapstructure:"threshold"`
}

// TrainConfig configures training runs.
type TrainConfig struct {
	Holdout  float64 `yaml:"holdout" mapstructure:"holdout"`
	Seed     int64   `yaml:"seed" mapstructure:"seed"`
	Trees    int     `yaml:"trees" mapstructure:"trees"`
	MaxDepth int     `yaml:"max_depth" mapstructure:"max_depth"`
}

// StoreConfig configures the upload-log backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// ServerConfig configures the scoring server.
type ServerConfig struct {
	Port          int     `yaml:"port" mapstructure:"port"`
	RatePerSecond float64 `yaml:"rate_per_second" mapstructure:"rate_per_second"`
	RateBurst     int     `yaml:"rate_burst" mapstructure:"rate_burst"`
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
	v.SetEnvPrefix("POINSIGHT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("model.path", "models/model.json")
	v.SetDefault("predict.threshold", 0.7)
	v.SetDefault("train.holdout", 0.2)
	v.SetDefault("train.seed", 42)
	v.SetDefault("train.trees", 100)
	v.SetDefault("train.max_depth", 8)
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "po-insight.db")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.rate_per_second", 2)
	v.SetDefault("server.rate_burst", 5)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

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
