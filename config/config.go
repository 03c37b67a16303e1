// Package config loads modelexport settings from defaults, an optional
// modelexport.toml, MODELEXPORT_* environment variables and CLI flags,
// in increasing order of precedence.
package config

// Config represents the modelexport configuration
type Config struct {
	Models     []string         `mapstructure:"models" toml:"models"`
	InputDir   string           `mapstructure:"input_dir" toml:"input_dir"`
	OutputDir  string           `mapstructure:"output_dir" toml:"output_dir"`
	OutputName string           `mapstructure:"output_name" toml:"output_name"`
	ModuleDir  string           `mapstructure:"module_dir" toml:"module_dir,omitempty"`
	Projection ProjectionConfig `mapstructure:"projection" toml:"projection"`
	Watch      WatchConfig      `mapstructure:"watch" toml:"watch"`
	Cache      CacheConfig      `mapstructure:"cache" toml:"cache"`
}

// ProjectionConfig controls how resolved types are rendered
type ProjectionConfig struct {
	InterfacePrefix string `mapstructure:"interface_prefix" toml:"interface_prefix"` // prepended to composite type names
	JSONTags        bool   `mapstructure:"json_tags" toml:"json_tags"`               // use json tag names for members
	Header          bool   `mapstructure:"header" toml:"header"`                     // emit the generated-file banner
	Comments        bool   `mapstructure:"comments" toml:"comments"`                 // emit field comments as JSDoc
}

// WatchConfig configures the watch subcommand
type WatchConfig struct {
	DebounceMS    int `mapstructure:"debounce_ms" toml:"debounce_ms"`         // quiet period after the last change
	MinIntervalMS int `mapstructure:"min_interval_ms" toml:"min_interval_ms"` // minimum time between regenerations
}

// CacheConfig bounds in-memory caches
type CacheConfig struct {
	ParsedUnits int `mapstructure:"parsed_units" toml:"parsed_units"` // parsed files kept between watch runs
}

// ConfigFileName is the project config file searched for from the working directory upwards
const ConfigFileName = "modelexport.toml"

// EnvPrefix is the prefix for environment variable overrides (MODELEXPORT_INPUT_DIR, ...)
const EnvPrefix = "MODELEXPORT"
