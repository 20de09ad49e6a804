// Package config loads uptodo.yaml and UPTODO_ environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/osvaldocariege06/Up-ToDo/internal/instrumentation"
	"github.com/osvaldocariege06/Up-ToDo/internal/logging"
	"github.com/osvaldocariege06/Up-ToDo/internal/model"
	"github.com/osvaldocariege06/Up-ToDo/internal/remote/firestore"
	"github.com/osvaldocariege06/Up-ToDo/internal/remote/googletasks"
	"github.com/osvaldocariege06/Up-ToDo/internal/remote/redisstore"
)

// Backend names accepted by the backend key.
const (
	BackendMemory      = "memory"
	BackendFirestore   = "firestore"
	BackendRedis       = "redis"
	BackendGoogleTasks = "googletasks"
)

// EnvPrefix prefixes every environment override, e.g. UPTODO_BACKEND.
const EnvPrefix = "UPTODO"

// FileName is the config file name without extension.
const FileName = "uptodo"

// Config is the resolved configuration.
type Config struct {
	Backend string `mapstructure:"backend"`

	// Owner is a fixed owner e-mail. When empty the owner is resolved from
	// the Google account named by OwnerAccount.
	Owner        string `mapstructure:"owner"`
	OwnerAccount string `mapstructure:"owner_account"`

	Timeout time.Duration `mapstructure:"timeout"`

	Firestore   FirestoreConfig   `mapstructure:"firestore"`
	Redis       RedisConfig       `mapstructure:"redis"`
	GoogleTasks GoogleTasksConfig `mapstructure:"googletasks"`
	Log         LogConfig         `mapstructure:"log"`

	Telemetry instrumentation.Config `mapstructure:"telemetry"`
}

// FirestoreConfig selects the Firestore project and collections.
type FirestoreConfig struct {
	ProjectID            string `mapstructure:"project_id"`
	DatabaseID           string `mapstructure:"database_id"`
	Account              string `mapstructure:"account"`
	TasksCollection      string `mapstructure:"tasks_collection"`
	CategoriesCollection string `mapstructure:"categories_collection"`
}

// RedisConfig selects the Redis server and key prefix.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

// GoogleTasksConfig selects the Google account whose task lists are used.
type GoogleTasksConfig struct {
	Account string `mapstructure:"account"`
}

// LogConfig controls the slog handler.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("backend", BackendMemory)
	v.SetDefault("owner", "")
	v.SetDefault("owner_account", "")
	v.SetDefault("timeout", 30*time.Second)

	v.SetDefault("firestore.project_id", "")
	v.SetDefault("firestore.database_id", "")
	v.SetDefault("firestore.account", "")
	v.SetDefault("firestore.tasks_collection", firestore.DefaultTasksCollection)
	v.SetDefault("firestore.categories_collection", firestore.DefaultCategoriesCollection)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", redisstore.DefaultPrefix)

	v.SetDefault("googletasks.account", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", logging.FormatText)

	telemetry := instrumentation.DefaultConfig()
	v.SetDefault("telemetry.enabled", telemetry.Enabled)
	v.SetDefault("telemetry.service_name", telemetry.ServiceName)
	v.SetDefault("telemetry.metrics_exporter", telemetry.MetricsExporter)
	v.SetDefault("telemetry.tracing_exporter", telemetry.TracingExporter)
	v.SetDefault("telemetry.otlp_endpoint", "")
	v.SetDefault("telemetry.otlp_insecure", false)
	v.SetDefault("telemetry.sampling_rate", telemetry.SamplingRate)
	v.SetDefault("telemetry.detailed_labels", false)
}

// Load reads the config. A non-empty path must exist; otherwise uptodo.yaml is
// looked up in $XDG_CONFIG_HOME/uptodo (or ~/.config/uptodo) and the working
// directory, and a missing file leaves the defaults in place.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		if dir := configDir(); dir != "" {
			v.AddConfigPath(dir)
		}
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	cfg.Backend = strings.ToLower(strings.TrimSpace(cfg.Backend))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the backend selection, logging and telemetry settings.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendMemory:
	case BackendFirestore:
		if c.Firestore.ProjectID == "" {
			return model.NewValidationError("firestore.project_id", "required for the firestore backend")
		}
	case BackendRedis:
		if c.Redis.Addr == "" {
			return model.NewValidationError("redis.addr", "required for the redis backend")
		}
		if c.Redis.DB < 0 {
			return model.NewValidationError("redis.db", "must not be negative")
		}
	case BackendGoogleTasks:
	default:
		return model.NewValidationError("backend", fmt.Sprintf("unknown backend %q (want memory, firestore, redis or googletasks)", c.Backend))
	}

	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return model.NewValidationError("log.level", err.Error())
	}
	switch strings.ToLower(c.Log.Format) {
	case "", logging.FormatText, logging.FormatJSON:
	default:
		return model.NewValidationError("log.format", fmt.Sprintf("unknown format %q", c.Log.Format))
	}
	if c.Timeout < 0 {
		return model.NewValidationError("timeout", "must not be negative")
	}
	if err := c.Telemetry.Validate(); err != nil {
		return model.NewValidationError("telemetry", err.Error())
	}
	return nil
}

// FirestoreClientConfig maps the firestore section onto the backend config.
func (c *Config) FirestoreClientConfig() firestore.Config {
	return firestore.Config{
		ProjectID:            c.Firestore.ProjectID,
		DatabaseID:           c.Firestore.DatabaseID,
		Account:              c.Firestore.Account,
		TasksCollection:      c.Firestore.TasksCollection,
		CategoriesCollection: c.Firestore.CategoriesCollection,
	}
}

// GoogleTasksClientConfig maps the googletasks section onto the backend
// config. The account falls back to owner_account, and tasks created in other
// clients are attributed to the fixed owner when one is set.
func (c *Config) GoogleTasksClientConfig() googletasks.Config {
	account := c.GoogleTasks.Account
	if account == "" {
		account = c.OwnerAccount
	}
	return googletasks.Config{Account: account, Owner: c.Owner}
}

// RedisOptions maps the redis section onto the backend options.
func (c *Config) RedisOptions() redisstore.Options {
	return redisstore.Options{
		Addr:     c.Redis.Addr,
		Password: c.Redis.Password,
		DB:       c.Redis.DB,
		Prefix:   c.Redis.Prefix,
	}
}

func configDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "uptodo")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "uptodo")
}
