package config

import (
	"github.com/jonesrussell/trendscout/internal/fetcher"
	"github.com/jonesrussell/trendscout/internal/scraper"
	"github.com/spf13/viper"
)

// SetDefaults registers every default value on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("app", map[string]any{
		"name":        "trendscout",
		"environment": "production",
		"debug":       false,
	})

	v.SetDefault("logger", map[string]any{
		"level":       "info",
		"encoding":    "console",
		"development": false,
	})

	v.SetDefault("fetcher", map[string]any{
		"user_agent":    fetcher.DefaultUserAgent,
		"timeout":       "30s",
		"trending_url":  scraper.DefaultTrendingURL,
		"max_body_size": fetcher.DefaultMaxBodySize,
	})

	v.SetDefault("cache", map[string]any{
		"enabled":      true,
		"backend":      "memory",
		"max_size":     100,
		"trending_ttl": "1h",
		"metadata_ttl": "1h",
		"redis": map[string]any{
			"address":  "localhost:6379",
			"password": "",
			"db":       0,
			"prefix":   "trendscout",
		},
	})

	v.SetDefault("filter", map[string]any{
		"strategy": "text",
	})

	v.SetDefault("ai", map[string]any{
		"enabled":         false,
		"provider":        "anthropic",
		"model":           "",
		"api_key":         "",
		"base_url":        "",
		"max_tokens":      1024,
		"summary_length":  "medium",
		"max_concurrency": 0,
		"rate_limit":      0,
		"timeout":         "60s",
	})

	v.SetDefault("output", map[string]any{
		"format": "table",
	})

	v.SetDefault("server", map[string]any{
		"address":       ":8080",
		"read_timeout":  "15s",
		"write_timeout": "60s",
	})

	v.SetDefault("watch", map[string]any{
		"schedule":  "@every 1h",
		"languages": []string{},
		"period":    "daily",
		"dir":       "snapshots",
		"format":    "json",
	})
}
