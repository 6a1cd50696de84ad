package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// ParseConfig attempts to read and parse configuration from the given TOML
// file path. A missing or malformed file is not fatal here; callers that
// want to warn and fall back to defaults should catch the error and call
// DefaultConfig instead.
func ParseConfig(configPath string) (OracleConfig, error) {
	var cfg OracleConfig

	v := viper.New()
	v.SetConfigFile(configPath)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to decode config: %w", err)
	}

	cfg.setDefaults()
	return cfg, cfg.Validate()
}

// DefaultConfig returns an OracleConfig populated entirely from defaults,
// for use when no config file was supplied or it could not be parsed.
func DefaultConfig() OracleConfig {
	var cfg OracleConfig
	cfg.setDefaults()
	return cfg
}
