// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/acwebremote/acremote/pkg/irlink"
)

const (
	envPrefix       = "ACREMOTE"
	defaultBaudRate = 115200
	defaultModel    = "tadiran"
	defaultLogLevel = "warn"
)

// LoggingConfig controls the zap logger and its optional rotating file
type LoggingConfig struct {
	Level      string `mapstructure:"log-level"`
	File       string `mapstructure:"log-file"`
	MaxSizeMB  int    `mapstructure:"log-max-size"`
	MaxBackups int    `mapstructure:"log-max-backups"`
	MaxAgeDays int    `mapstructure:"log-max-age"`
}

// Config is the merged view of flags, environment and config file
type Config struct {
	Port        string        `mapstructure:"port"`
	Baud        int           `mapstructure:"baud"`
	URL         string        `mapstructure:"url"`
	Username    string        `mapstructure:"username"`
	NoSSLVerify bool          `mapstructure:"no-ssl-verify"`
	Model       string        `mapstructure:"model"`
	RateLimit   float64       `mapstructure:"rate-limit"`
	AckTimeout  time.Duration `mapstructure:"ack-timeout"`
	Logging     LoggingConfig `mapstructure:",squash"`

	source   string // config file in use, empty when none was found
	password string // prompted once, reused on reconnect
}

func defaultConfig() *Config {
	return &Config{
		Baud:       defaultBaudRate,
		Model:      defaultModel,
		RateLimit:  float64(irlink.DefaultRateLimit),
		AckTimeout: irlink.DefaultAckTimeout,
		Logging: LoggingConfig{
			Level:      defaultLogLevel,
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

func setDefaults(v *viper.Viper) {
	d := defaultConfig()
	v.SetDefault("baud", d.Baud)
	v.SetDefault("model", d.Model)
	v.SetDefault("rate-limit", d.RateLimit)
	v.SetDefault("ack-timeout", d.AckTimeout)
	v.SetDefault("log-level", d.Logging.Level)
	v.SetDefault("log-max-size", d.Logging.MaxSizeMB)
	v.SetDefault("log-max-backups", d.Logging.MaxBackups)
	v.SetDefault("log-max-age", d.Logging.MaxAgeDays)
}

// defaultConfigDir returns $HOME/.config/acremote, or "" without a home directory
func defaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "acremote")
}

// loadConfig merges, lowest priority first: defaults, config file, environment
// variables and flags set on the command line.
func loadConfig(flags *pflag.FlagSet, path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("bind flags: %w", err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		if dir := defaultConfigDir(); dir != "" {
			v.AddConfigPath(dir)
		}
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		// A missing default config file is fine; an explicit one must exist
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	c := defaultConfig()
	if err := v.Unmarshal(c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	c.source = v.ConfigFileUsed()

	if c.RateLimit <= 0 {
		return nil, fmt.Errorf("rate-limit must be positive, got %v", c.RateLimit)
	}
	return c, nil
}
