package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/teranos/modelexport/errors"
)

// NewViper builds a Viper instance with defaults, environment binding and
// the config file. An explicit configFile must exist; otherwise the nearest
// modelexport.toml above the working directory is used when present.
func NewViper(configFile string) (*viper.Viper, error) {
	// .env is optional; a missing file is the common case
	_ = godotenv.Load()

	v := viper.New()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	SetDefaults(v)

	if configFile == "" {
		configFile = findProjectConfig()
	}
	if configFile == "" {
		return v, nil
	}

	v.SetConfigFile(configFile)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "failed to read config file %s", configFile)
	}

	return v, nil
}

// Load unmarshals the configuration held by v
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	cfg.Models = normalizeModels(cfg.Models)
	return &cfg, nil
}

// LoadFromFile loads configuration from a specific file path, without
// environment overrides
func LoadFromFile(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")

	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "failed to read config file %s", configPath)
	}

	return Load(v)
}

// findProjectConfig searches for modelexport.toml by walking up the directory tree.
// Returns the path to the first config file found, or empty string if none found
func findProjectConfig() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		path := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(path); err == nil {
			return path
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

// normalizeModels trims names, drops empties and duplicates, and splits
// comma-joined entries coming from environment variables.
func normalizeModels(models []string) []string {
	seen := make(map[string]bool, len(models))
	var out []string
	for _, entry := range models {
		for _, name := range strings.Split(entry, ",") {
			name = strings.TrimSpace(name)
			if name == "" || seen[name] {
				continue
			}
			seen[name] = true
			out = append(out, name)
		}
	}
	return out
}
