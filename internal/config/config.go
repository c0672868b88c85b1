package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/kestrel-systems/kestrel-collector/internal/registry"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Registry  RegistryConfig  `mapstructure:"registry"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Limits    LimitsConfig    `mapstructure:"limits"`
	Catchers  CatchersConfig  `mapstructure:"catchers"`
	Sink      SinkConfig      `mapstructure:"sink"`
	Artifacts ArtifactsConfig `mapstructure:"artifacts"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

type RegistryConfig struct {
	Backend  string             `mapstructure:"backend"`
	DSN      string             `mapstructure:"dsn"`
	Projects []registry.Project `mapstructure:"projects"`
	Cache    CacheConfig        `mapstructure:"cache"`
}

type CacheConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	RedisURL string        `mapstructure:"redis_url"`
	TTL      time.Duration `mapstructure:"ttl"`
}

type AuthConfig struct {
	EnforceExpiry bool `mapstructure:"enforce_expiry"`
}

type LimitsConfig struct {
	MaxEventBytes     int64 `mapstructure:"max_event_bytes"`
	MaxSourcemapBytes int64 `mapstructure:"max_sourcemap_bytes"`
	MaxBodyRead       int64 `mapstructure:"max_body_read"`
}

type CatchersConfig struct {
	Strict bool `mapstructure:"strict"`
}

type SinkConfig struct {
	Backend string `mapstructure:"backend"`
	NatsURL string `mapstructure:"nats_url"`
}

type ArtifactsConfig struct {
	Path string `mapstructure:"path"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("registry.backend", "memory")
	v.SetDefault("registry.dsn", "")
	v.SetDefault("registry.cache.enabled", false)
	v.SetDefault("registry.cache.redis_url", "redis://localhost:6379/0")
	v.SetDefault("registry.cache.ttl", "5m")
	v.SetDefault("auth.enforce_expiry", false)
	v.SetDefault("limits.max_event_bytes", 250)
	v.SetDefault("limits.max_sourcemap_bytes", 10485760)
	v.SetDefault("limits.max_body_read", 1048576)
	v.SetDefault("catchers.strict", false)
	v.SetDefault("sink.backend", "none")
	v.SetDefault("sink.nats_url", "nats://localhost:4222")
	v.SetDefault("artifacts.path", "./data/sourcemaps")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	// Read config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/kestrel/collector")
	}

	// Environment variables override
	v.SetEnvPrefix("COLLECTOR")
	v.AutomaticEnv()

	// Read config
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found; use defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}
