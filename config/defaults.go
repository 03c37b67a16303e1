package config

import (
	"github.com/spf13/viper"
)

// Default values
const (
	DefaultOutputName      = "SharedModels"
	DefaultInterfacePrefix = "I"
	DefaultDebounceMS      = 300
	DefaultMinIntervalMS   = 1000
	DefaultParsedUnits     = 4096
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	v.SetDefault("models", []string{})
	v.SetDefault("input_dir", "")
	v.SetDefault("output_dir", "")
	v.SetDefault("output_name", DefaultOutputName)
	v.SetDefault("module_dir", "")

	v.SetDefault("projection.interface_prefix", DefaultInterfacePrefix)
	v.SetDefault("projection.json_tags", false)
	v.SetDefault("projection.header", true)
	v.SetDefault("projection.comments", false)

	v.SetDefault("watch.debounce_ms", DefaultDebounceMS)
	v.SetDefault("watch.min_interval_ms", DefaultMinIntervalMS)

	v.SetDefault("cache.parsed_units", DefaultParsedUnits)
}

// Default returns a Config populated only with defaults
func Default() *Config {
	return &Config{
		OutputName: DefaultOutputName,
		Projection: ProjectionConfig{
			InterfacePrefix: DefaultInterfacePrefix,
			Header:          true,
		},
		Watch: WatchConfig{
			DebounceMS:    DefaultDebounceMS,
			MinIntervalMS: DefaultMinIntervalMS,
		},
		Cache: CacheConfig{ParsedUnits: DefaultParsedUnits},
	}
}
