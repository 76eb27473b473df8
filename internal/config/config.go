// Package config loads trendscout settings from defaults, a YAML file, a
// .env file and TRENDSCOUT_* environment variables, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/jonesrussell/trendscout/internal/ai"
	"github.com/jonesrussell/trendscout/internal/cache"
	"github.com/jonesrussell/trendscout/internal/domain"
	"github.com/jonesrussell/trendscout/internal/fetcher"
	"github.com/jonesrussell/trendscout/internal/filter"
	"github.com/jonesrussell/trendscout/internal/logger"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the complete application configuration.
type Config struct {
	App     AppConfig     `mapstructure:"app"     yaml:"app"`
	Logger  logger.Config `mapstructure:"logger"  yaml:"logger"`
	Fetcher FetcherConfig `mapstructure:"fetcher" yaml:"fetcher"`
	Cache   CacheConfig   `mapstructure:"cache"   yaml:"cache"`
	Filter  FilterConfig  `mapstructure:"filter"  yaml:"filter"`
	AI      ai.Config     `mapstructure:"ai"      yaml:"ai"`
	Output  OutputConfig  `mapstructure:"output"  yaml:"output"`
	Server  ServerConfig  `mapstructure:"server"  yaml:"server"`
	Watch   WatchConfig   `mapstructure:"watch"   yaml:"watch"`
}

// AppConfig holds application identity settings.
type AppConfig struct {
	Name        string `mapstructure:"name"        yaml:"name"`
	Environment string `mapstructure:"environment" yaml:"environment"`
	Debug       bool   `mapstructure:"debug"       yaml:"debug"`
}

// FetcherConfig holds network settings.
type FetcherConfig struct {
	fetcher.Config `mapstructure:",squash" yaml:",inline"`
	TrendingURL    string `mapstructure:"trending_url" yaml:"trending_url"`
}

// CacheConfig selects and sizes the record caches.
type CacheConfig struct {
	Enabled     bool              `mapstructure:"enabled"      yaml:"enabled"`
	Backend     string            `mapstructure:"backend"      yaml:"backend"`
	MaxSize     int               `mapstructure:"max_size"     yaml:"max_size"`
	TrendingTTL time.Duration     `mapstructure:"trending_ttl" yaml:"trending_ttl"`
	MetadataTTL time.Duration     `mapstructure:"metadata_ttl" yaml:"metadata_ttl"`
	Redis       cache.RedisConfig `mapstructure:"redis"        yaml:"redis"`
}

// FilterConfig selects the topic matching strategy: "text" (default) or
// "topics". Trending pages carry no topic lists, so "topics" filters a
// trending listing to nothing whenever topics are requested.
type FilterConfig struct {
	Strategy string `mapstructure:"strategy" yaml:"strategy"`
}

// OutputConfig holds rendering defaults.
type OutputConfig struct {
	Format string `mapstructure:"format" yaml:"format"`
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	Address      string        `mapstructure:"address"       yaml:"address"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"  yaml:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`
}

// WatchConfig holds scheduled snapshot settings.
type WatchConfig struct {
	Schedule  string   `mapstructure:"schedule"  yaml:"schedule"`
	Languages []string `mapstructure:"languages" yaml:"languages"`
	Period    string   `mapstructure:"period"    yaml:"period"`
	Dir       string   `mapstructure:"dir"       yaml:"dir"`
	Format    string   `mapstructure:"format"    yaml:"format"`
}

// Load unmarshals and validates the configuration held by v.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks every enumerated and bounded setting.
func (c *Config) Validate() error {
	var errs []error
	check := func(section string, err error) {
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", section, err))
		}
	}

	if _, err := logger.ParseLevel(string(c.Logger.Level)); err != nil {
		check("logger.level", err)
	}
	switch c.Logger.Encoding {
	case "", "console", "json":
	default:
		check("logger.encoding", fmt.Errorf("%w: %q", logger.ErrInvalidEncoding, c.Logger.Encoding))
	}

	if c.Fetcher.Timeout < 0 {
		check("fetcher.timeout", errors.New("must not be negative"))
	}

	switch c.Cache.Backend {
	case cache.BackendMemory:
	case cache.BackendRedis:
		if c.Cache.Redis.Address == "" {
			check("cache.redis.address", cache.ErrEmptyAddress)
		}
	default:
		check("cache.backend", fmt.Errorf("unknown backend %q (valid: %s, %s)", c.Cache.Backend, cache.BackendMemory, cache.BackendRedis))
	}
	if c.Cache.MaxSize < 0 {
		check("cache.max_size", errors.New("must not be negative"))
	}

	_, err := filter.ParseStrategy(c.Filter.Strategy)
	check("filter.strategy", err)

	switch c.AI.Provider {
	case "", ai.ProviderAnthropic, "claude", ai.ProviderOpenAI:
	default:
		check("ai.provider", fmt.Errorf("%w: %q", ai.ErrUnknownProvider, c.AI.Provider))
	}
	_, err = domain.ParseSummaryLength(c.AI.SummaryLength)
	check("ai.summary_length", err)
	if c.AI.RateLimit < 0 {
		check("ai.rate_limit", errors.New("must not be negative"))
	}

	_, err = domain.ParseFormat(c.Output.Format)
	check("output.format", err)

	_, err = domain.ParsePeriod(c.Watch.Period)
	check("watch.period", err)
	_, err = domain.ParseFormat(c.Watch.Format)
	check("watch.format", err)

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// Redacted returns a copy with secrets masked, for display.
func (c *Config) Redacted() Config {
	out := *c
	out.AI.APIKey = mask(out.AI.APIKey)
	out.Cache.Redis.Password = mask(out.Cache.Redis.Password)
	out.Watch.Languages = append([]string(nil), c.Watch.Languages...)
	return out
}

func mask(secret string) string {
	if secret == "" {
		return ""
	}
	return "********"
}
