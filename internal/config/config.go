package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"avapi/internal/alphavantage"
	"avapi/internal/credential"
)

// EnvPrefix namespaces environment overrides, e.g. AVAPI_API_KEY.
const EnvPrefix = "AVAPI"

type Config struct {
	BaseURL           string `mapstructure:"base_url"`
	APIKey            string `mapstructure:"api_key"`
	KeyFile           string `mapstructure:"key_file"`
	RequestTimeoutSec int    `mapstructure:"request_timeout_sec"`
	OutputDir         string `mapstructure:"output_dir"`
	Market            string `mapstructure:"market"`
	Interval          string `mapstructure:"interval"`
	UserAgent         string `mapstructure:"user_agent"`
}

func Default() Config {
	return Config{
		BaseURL:           alphavantage.DefaultBaseURL,
		KeyFile:           credential.DefaultFile,
		RequestTimeoutSec: 15,
		OutputDir:         ".",
		Market:            "USD",
		Interval:          "30min",
		UserAgent:         "avapi/1.0",
	}
}

// Load reads configuration from path. With an empty path an avapi.yaml or
// avapi.json in the working directory is used when present, otherwise
// defaults. AVAPI_* environment variables override both.
func Load(path string) (Config, error) {
	cfg := Default()
	v := viper.New()
	setDefaults(v, cfg)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("avapi")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return cfg, fmt.Errorf("read config: %w", err)
			}
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	cfg.Market = strings.ToUpper(strings.TrimSpace(cfg.Market))
	return cfg, cfg.Validate()
}

func setDefaults(v *viper.Viper, cfg Config) {
	v.SetDefault("base_url", cfg.BaseURL)
	v.SetDefault("api_key", cfg.APIKey)
	v.SetDefault("key_file", cfg.KeyFile)
	v.SetDefault("request_timeout_sec", cfg.RequestTimeoutSec)
	v.SetDefault("output_dir", cfg.OutputDir)
	v.SetDefault("market", cfg.Market)
	v.SetDefault("interval", cfg.Interval)
	v.SetDefault("user_agent", cfg.UserAgent)
}

// Validate reports the first setting the CLI cannot run with.
func (c Config) Validate() error {
	switch {
	case strings.TrimSpace(c.BaseURL) == "":
		return errors.New("config: base_url is empty")
	case c.RequestTimeoutSec <= 0:
		return fmt.Errorf("config: request_timeout_sec must be positive, got %d", c.RequestTimeoutSec)
	case c.KeyFile == "":
		return errors.New("config: key_file is empty")
	case c.Market == "":
		return errors.New("config: market is empty")
	case !alphavantage.ValidInterval(c.Interval):
		return fmt.Errorf("config: interval %q is not one of %s", c.Interval, strings.Join(alphavantage.Intervals(), ", "))
	}
	return nil
}

func (c Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSec) * time.Second
}
