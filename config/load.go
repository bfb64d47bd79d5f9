package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads a YAML config file over the defaults.
func Load(path string) (NetSvcConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return NetSvcConfig{}, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte) (NetSvcConfig, error) {
	cfg := DefaultNetSvcConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return NetSvcConfig{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return NetSvcConfig{}, err
	}
	return cfg, nil
}

func (c *NetSvcConfig) Validate() error {
	var errs []error
	env := c.Envelope
	if strings.TrimSpace(env.CodeKey) == "" {
		errs = append(errs, errors.New("envelope.code_key is required"))
	}
	if strings.TrimSpace(env.DataKey) == "" {
		errs = append(errs, errors.New("envelope.data_key is required"))
	}
	if env.ClientErrorMin > env.ClientErrorMax {
		errs = append(errs, fmt.Errorf("envelope.client_error_min %d > client_error_max %d", env.ClientErrorMin, env.ClientErrorMax))
	}
	if c.RequestTimeout < 0 {
		errs = append(errs, errors.New("request_timeout must not be negative"))
	}
	if c.ProbeURL != "" && c.ProbeInterval <= 0 {
		errs = append(errs, errors.New("probe_interval must be positive when probe_url is set"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}
