// file: config/config.go

package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config is the complete specgate tool configuration. Everything here can be
// overridden by SPECGATE_* environment variables or by command-line flags.
type Config struct {
	Policy  PolicyConfig  `mapstructure:"policy"`
	Status  StatusConfig  `mapstructure:"status"`
	Repo    RepoConfig    `mapstructure:"repo"`
	Enforce EnforceConfig `mapstructure:"enforce"`
	Logging LogConfig     `mapstructure:"logging"`
}

// PolicyConfig locates the signed policy document.
type PolicyConfig struct {
	Path string `mapstructure:"path"`
}

// StatusConfig locates the scenario status export produced by the scanner.
type StatusConfig struct {
	Path string `mapstructure:"path"`
}

// RepoConfig controls repository identity resolution.
type RepoConfig struct {
	// Override skips git detection and uses this owner/name identity.
	// Intended for offline and CI use.
	Override string `mapstructure:"override"`
}

// EnforceConfig holds enforcement evaluation settings.
type EnforceConfig struct {
	// IgnoredFeatures lists feature ids excluded from evaluation.
	// Only honored for enforce-tier policies.
	IgnoredFeatures []string `mapstructure:"ignoredFeatures"`
}

// LogConfig mirrors the logger settings.
type LogConfig struct {
	Level      string `mapstructure:"level"`      // debug, info, warn, error
	OutputPath string `mapstructure:"outputPath"` // file path or "stdout"/"stderr"
	Encoding   string `mapstructure:"encoding"`   // json or console
}

// Load reads configuration from an optional file using Viper. A missing file
// is not an error; defaults and environment variables still apply.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName(".specgate")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	// Environment variable support
	v.SetEnvPrefix("SPECGATE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	setDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// setDefaults applies sensible defaults
func setDefaults(cfg *Config) {
	if cfg.Policy.Path == "" {
		cfg.Policy.Path = ".specgate/policy.yml"
	}
	if cfg.Status.Path == "" {
		cfg.Status.Path = ".specgate/status.yml"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Encoding == "" {
		cfg.Logging.Encoding = "console"
	}
	if cfg.Logging.OutputPath == "" {
		cfg.Logging.OutputPath = "stderr"
	}
}

func validate(cfg *Config) error {
	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q must be one of debug, info, warn, error", cfg.Logging.Level)
	}
	switch cfg.Logging.Encoding {
	case "json", "console":
	default:
		return fmt.Errorf("logging.encoding %q must be json or console", cfg.Logging.Encoding)
	}
	if cfg.Repo.Override != "" {
		parts := strings.Split(cfg.Repo.Override, "/")
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			return fmt.Errorf("repo.override %q must be owner/name", cfg.Repo.Override)
		}
	}
	return nil
}
