// Package config loads the plugin configuration the embedding host may
// supply. Everything has a working default; a config file is optional.
package config

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sovrin-foundation/sovtoken/utils"
)

// Config controls plugin-wide behavior.
type Config struct {
	// MethodName is the payment method registered with the host SDK.
	MethodName string `yaml:"method_name" validate:"required,oneof=sov libsovtoken"`

	// LogLevel selects the zap level when logging is enabled.
	LogLevel string `yaml:"log_level" validate:"omitempty,oneof=debug info warn error"`

	// EnableMetrics switches the prometheus recorder on.
	EnableMetrics bool `yaml:"enable_metrics"`

	// ProtocolVersion is pinned to the ledger contract.
	ProtocolVersion int `yaml:"protocol_version" validate:"required,eq=1"`
}

// Default returns the configuration used when no file is supplied.
func Default() *Config {
	return &Config{
		MethodName:      "sov",
		LogLevel:        "info",
		EnableMetrics:   false,
		ProtocolVersion: 1,
	}
}

// Load reads a YAML config file, fills unset fields from defaults, and
// validates the result.
func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	cfg := Default()
	if err := yaml.NewDecoder(file).Decode(cfg); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := utils.ValidateStruct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
