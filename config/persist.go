package config

import (
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/teranos/modelexport/errors"
)

// WriteFile serializes cfg as TOML to path. An existing file is never
// overwritten.
func WriteFile(path string, cfg *Config) error {
	if _, err := os.Stat(path); err == nil {
		return errors.WithHint(errors.Newf("%s already exists", path), "edit the existing file instead")
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "failed to encode config")
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}
	return nil
}
