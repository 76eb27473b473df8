package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Environment and file naming.
const (
	EnvPrefix  = "TRENDSCOUT"
	appDirName = "trendscout"
	fileName   = "config"
	fileType   = "yaml"
)

// ErrUnknownKey is returned by Set for keys that have no default.
var ErrUnknownKey = errors.New("unknown configuration key")

// DefaultPath is the per-user config file location.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, appDirName, fileName+"."+fileType)
}

// Init prepares v: .env loading, environment binding, defaults and the
// optional config file. A missing config file is not an error.
func Init(v *viper.Viper, cfgFile string) error {
	_ = godotenv.Load()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	SetDefaults(v)

	if err := bindEnv(v); err != nil {
		return err
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(fileName)
		v.SetConfigType(fileType)
		v.AddConfigPath(".")
		v.AddConfigPath(filepath.Join(xdg.ConfigHome, appDirName))
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	return nil
}

// bindEnv maps provider-standard variables onto config keys.
func bindEnv(v *viper.Viper) error {
	bindings := map[string][]string{
		"ai.api_key":           {EnvPrefix + "_AI_API_KEY", "ANTHROPIC_API_KEY", "OPENAI_API_KEY"},
		"logger.level":         {EnvPrefix + "_LOGGER_LEVEL", "LOG_LEVEL"},
		"cache.redis.address":  {EnvPrefix + "_CACHE_REDIS_ADDRESS", "REDIS_ADDR"},
		"cache.redis.password": {EnvPrefix + "_CACHE_REDIS_PASSWORD", "REDIS_PASSWORD"},
	}
	for key, envs := range bindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}
	return nil
}

// Path returns the config file in use, or the default location when none was read.
func Path(v *viper.Viper) string {
	if used := v.ConfigFileUsed(); used != "" {
		return used
	}
	return DefaultPath()
}

// Keys lists every known configuration key.
func Keys() []string {
	v := viper.New()
	SetDefaults(v)
	keys := v.AllKeys()
	slices.Sort(keys)
	return keys
}

// Set writes key=value into the config file at path, leaving every other
// setting in the file untouched. The value is parsed as YAML, so "true",
// "25" and "[go, rust]" keep their types. The result is validated before
// the file is written.
func Set(path, key, value string) error {
	key = strings.ToLower(strings.TrimSpace(key))
	if !slices.Contains(Keys(), key) {
		return fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}

	var parsed any
	if err := yaml.Unmarshal([]byte(value), &parsed); err != nil || parsed == nil {
		parsed = value
	}

	file := viper.New()
	file.SetConfigFile(path)
	file.SetConfigType(fileType)
	if _, err := os.Stat(path); err == nil {
		if err := file.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}
	file.Set(key, parsed)

	check := viper.New()
	SetDefaults(check)
	if err := check.MergeConfigMap(file.AllSettings()); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}
	if _, err := Load(check); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := file.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
