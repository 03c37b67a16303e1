package config

import (
	"os"

	"github.com/teranos/modelexport/errors"
)

// Validate checks the settings needed for an export run. Directories must
// already exist; nothing is created on the operator's behalf.
func (c *Config) Validate() error {
	if len(c.Models) == 0 {
		return errors.WithHint(errors.ErrNoModels, "pass at least one --model or set models in "+ConfigFileName)
	}
	if err := requireDir("input_dir", c.InputDir); err != nil {
		return err
	}
	if err := requireDir("output_dir", c.OutputDir); err != nil {
		return err
	}
	if c.OutputName == "" {
		return errors.NewInvalidConfigError("output_name must not be empty")
	}
	if c.Cache.ParsedUnits <= 0 {
		return errors.NewInvalidConfigError("cache.parsed_units must be positive, got %d", c.Cache.ParsedUnits)
	}
	return nil
}

// ValidateSources checks only what read-only commands need (closure, check)
func (c *Config) ValidateSources() error {
	if len(c.Models) == 0 {
		return errors.WithHint(errors.ErrNoModels, "pass at least one --model or set models in "+ConfigFileName)
	}
	return requireDir("input_dir", c.InputDir)
}

func requireDir(key, path string) error {
	if path == "" {
		return errors.NewInvalidConfigError("%s is required", key)
	}
	info, err := os.Stat(path)
	if err != nil {
		return errors.WithHintf(errors.NewInvalidConfigError("%s %q does not exist", key, path),
			"create the directory or fix the %s setting", key)
	}
	if !info.IsDir() {
		return errors.NewInvalidConfigError("%s %q is not a directory", key, path)
	}
	return nil
}
