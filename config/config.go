package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Schwab        SchwabConfig                  `mapstructure:"schwab"`
	Subscriptions map[string]SubscriptionConfig `mapstructure:"subscriptions"`
	Log           LogConfig                     `mapstructure:"log"`
	Postgres      PostgresConfig                `mapstructure:"postgres"`
	Redis         RedisConfig                   `mapstructure:"redis"`
	Kafka         KafkaConfig                   `mapstructure:"kafka"`
	Metrics       MetricsConfig                 `mapstructure:"metrics"`
}

type SchwabConfig struct {
	REST   RESTConfig   `mapstructure:"rest"`
	Stream StreamConfig `mapstructure:"stream"`
	Auth   AuthConfig   `mapstructure:"auth"`
}

type RESTConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type StreamConfig struct {
	URL                 string        `mapstructure:"url"` // overrides the socket URL from user preferences
	HandshakeTimeout    time.Duration `mapstructure:"handshake_timeout"`
	ReadTimeout         time.Duration `mapstructure:"read_timeout"`
	ReplaySubscriptions bool          `mapstructure:"replay_subscriptions"`
	ReconnectInitial    time.Duration `mapstructure:"reconnect_initial"`
	ReconnectMax        time.Duration `mapstructure:"reconnect_max"`
}

// SubscriptionConfig is the initial subscription of one service, keyed by service name.
type SubscriptionConfig struct {
	Keys   []string `mapstructure:"keys"`
	Fields string   `mapstructure:"fields"` // empty subscribes every field
}

// LogConfig defines the logger configuration options.
type LogConfig struct {
	Level       string `mapstructure:"level"`       // log level: "debug", "info", "warn", "error"
	Format      string `mapstructure:"format"`      // log format: "json" or "console"
	OutputFile  string `mapstructure:"output_file"` // file path to store logs (optional)
	Environment string `mapstructure:"environment"` // environment: "dev" or "prod"
	MaxSizeMB   int    `mapstructure:"max_size_mb"` // rotate the output file at this size
	MaxBackups  int    `mapstructure:"max_backups"`
	MaxAgeDays  int    `mapstructure:"max_age_days"`
}

type RedisConfig struct {
	Addr     string        `mapstructure:"addr"` // empty disables the quote cache
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers"` // empty disables activity publishing
	Topic   string   `mapstructure:"topic"`
}

type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
}

// Load loads application configuration using Viper.
// It reads config.yaml from the given directories (or the default location)
// and overrides with environment variables.
func Load(paths ...string) (*Config, error) {
	v := viper.New()

	v.SetConfigName("config") // config.yaml
	v.SetConfigType("yaml")

	if len(paths) == 0 {
		paths = defaultConfigPaths()
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	setDefaults(v)

	// Support environment variables with dot notation (e.g., SCHWAB_AUTH_ACCESS_TOKEN)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func defaultConfigPaths() []string {
	ex, _ := os.Executable()
	if strings.Contains(ex, "go-build") {
		pwd, _ := os.Getwd()
		return []string{filepath.Join(pwd, "../../config"), filepath.Join(pwd, "config")}
	}
	return []string{filepath.Join(filepath.Dir(ex), "../config")}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("schwab.rest.base_url", "https://api.schwabapi.com")
	v.SetDefault("schwab.rest.timeout", 10*time.Second)
	v.SetDefault("schwab.stream.url", "")
	v.SetDefault("schwab.stream.handshake_timeout", 10*time.Second)
	v.SetDefault("schwab.stream.read_timeout", time.Duration(0))
	v.SetDefault("schwab.stream.replay_subscriptions", true)
	v.SetDefault("schwab.stream.reconnect_initial", time.Second)
	v.SetDefault("schwab.stream.reconnect_max", 30*time.Second)
	// Env-only keys must be known to viper before Unmarshal.
	v.SetDefault("schwab.auth.access_token", "")
	v.SetDefault("schwab.auth.ssm_parameter", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.environment", "dev")
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 5)
	v.SetDefault("log.max_age_days", 7)
	v.SetDefault("postgres.enabled", false)
	v.SetDefault("postgres.password", "")
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.ttl", time.Minute)
	v.SetDefault("kafka.topic", "schwab.account-activity")
	v.SetDefault("metrics.addr", ":9102")
}

// Validate checks the settings the streamer cannot start without.
func (c *Config) Validate() error {
	var errs []error
	if c.Schwab.REST.BaseURL == "" && c.Schwab.Stream.URL == "" {
		errs = append(errs, errors.New("schwab.rest.base_url or schwab.stream.url is required"))
	}
	if c.Schwab.Auth.AccessToken == "" && c.Schwab.Auth.SSMParameter == "" {
		errs = append(errs, errors.New("schwab.auth.access_token or schwab.auth.ssm_parameter is required"))
	}
	if c.Schwab.Stream.ReconnectMax < c.Schwab.Stream.ReconnectInitial {
		errs = append(errs, errors.New("schwab.stream.reconnect_max must not be below reconnect_initial"))
	}
	for name, sub := range c.Subscriptions {
		if len(sub.Keys) == 0 && !strings.EqualFold(name, "acct_activity") {
			errs = append(errs, fmt.Errorf("subscriptions.%s: keys are required", name))
		}
	}
	return errors.Join(errs...)
}
