package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Config struct {
	GRPCPort      string       `mapstructure:"grpc_port" validate:"required"`
	MetricsPort   string       `mapstructure:"metrics_port"`
	LogLevel      string       `mapstructure:"log_level" validate:"required,uppercase,oneof=DEBUG INFO WARN ERROR"`
	StoreOptions  StoreConfig  `mapstructure:"store" validate:"required"`
	WidgetOptions WidgetConfig `mapstructure:"widget" validate:"required"`
	SourceOptions SourceConfig `mapstructure:"source"`
}

type StoreConfig struct {
	Driver               string `mapstructure:"driver" validate:"required,oneof=sqlite postgres redis"`
	SQLiteDir            string `mapstructure:"sqlite_dir" validate:"required_if=Driver sqlite"`
	PostgresURL          string `mapstructure:"postgres_url" validate:"required_if=Driver postgres"`
	RedisAddr            string `mapstructure:"redis_addr" validate:"required_if=Driver redis"`
	RedisPassword        string `mapstructure:"redis_password"`
	RedisDB              int    `mapstructure:"redis_db" validate:"min=0"`
	CompressionThreshold int    `mapstructure:"compression_threshold" validate:"min=0"`
	OpTimeoutSecs        int    `mapstructure:"op_timeout_secs" validate:"min=1"`
}

type WidgetConfig struct {
	PersistDebounceMillis int `mapstructure:"persist_debounce_millis" validate:"min=0"`
	IdleTTLSecs           int `mapstructure:"idle_ttl_secs" validate:"min=1"`
}

type SourceConfig struct {
	MongoURL            string `mapstructure:"mongo_url"`
	Collection          string `mapstructure:"collection" validate:"required_with=MongoURL"`
	WidgetID            string `mapstructure:"widget_id" validate:"required_with=MongoURL"`
	RowLimit            int64  `mapstructure:"row_limit" validate:"min=1"`
	RefreshIntervalSecs int    `mapstructure:"refresh_interval_secs" validate:"min=1"`
}

func newViper() *viper.Viper {
	v := viper.New()

	v.SetDefault("grpc_port", ":50061")
	v.SetDefault("metrics_port", ":9106")
	v.SetDefault("log_level", "INFO")
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.sqlite_dir", "./tablesorter_data")
	v.SetDefault("store.postgres_url", "")
	v.SetDefault("store.redis_addr", "")
	v.SetDefault("store.redis_password", "")
	v.SetDefault("store.redis_db", 0)
	v.SetDefault("store.compression_threshold", 4096)
	v.SetDefault("store.op_timeout_secs", 5)
	v.SetDefault("widget.persist_debounce_millis", 500)
	v.SetDefault("widget.idle_ttl_secs", 3600)
	v.SetDefault("source.mongo_url", "")
	v.SetDefault("source.collection", "")
	v.SetDefault("source.widget_id", "")
	v.SetDefault("source.row_limit", 10000)
	v.SetDefault("source.refresh_interval_secs", 60)

	v.SetEnvPrefix("TABLESORTER")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

// Load reads defaults, an optional YAML file and TABLESORTER_* environment
// variables. Invalid configuration terminates the process.
func Load() *Config {
	cfg, err := load(os.Getenv("TABLESORTER_CONFIG_PATH"))
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	logConfig(cfg)
	return cfg
}

func load(configFile string) (*Config, error) {
	v := newViper()

	if configFile != "" {
		v.SetConfigFile(configFile)
		slog.Info("Loading configuration from specified file", "path", configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/tablesorter/")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		slog.Warn("Config file not found, using defaults and environment variables")
	} else {
		slog.Info("Configuration loaded", "file", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func validateConfig(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// SlogLevel maps LogLevel onto a slog level.
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func logConfig(cfg *Config) {
	slog.Info("Final Configuration",
		"grpc_port", cfg.GRPCPort,
		"metrics_port", cfg.MetricsPort,
		"log_level", cfg.LogLevel,
		"store_driver", cfg.StoreOptions.Driver,
		"sqlite_dir", cfg.StoreOptions.SQLiteDir,
		"redis_addr", cfg.StoreOptions.RedisAddr,
		"widget", cfg.WidgetOptions,
		"source_collection", cfg.SourceOptions.Collection,
		"source_row_limit", cfg.SourceOptions.RowLimit)
}
