// Package config provides configuration loading for ais.
//
// Configuration Hierarchy (highest to lowest priority):
//  1. Command-line flags (applied by the cli package)
//  2. Environment variables (AIS_*)
//  3. Config file (.ais.yml in the project root, or --config)
//  4. Built-in defaults
//
// Environment Variable Convention:
//   - Prefix: AIS_
//   - Nested fields: Use underscores (AIS_SCHEMA_PATH, AIS_WATCH_DEBOUNCE_MS)
package config

// Config represents the complete ais configuration.
type Config struct {
	Schema  SchemaConfig  `yaml:"schema" mapstructure:"schema"`
	Extract ExtractConfig `yaml:"extract" mapstructure:"extract"`
	Watch   WatchConfig   `yaml:"watch" mapstructure:"watch"`
}

// SchemaConfig locates the input schema and the extracted output.
type SchemaConfig struct {
	Path   string `yaml:"path" mapstructure:"path"`     // schema file to read, e.g. db/schema.rb
	Output string `yaml:"output" mapstructure:"output"` // file receiving the extracted definitions
}

// ExtractConfig tunes how definitions are recognized and checked.
type ExtractConfig struct {
	Verify        bool     `yaml:"verify" mapstructure:"verify"`                 // check extracted blocks with tree-sitter
	TableKeywords []string `yaml:"table_keywords" mapstructure:"table_keywords"` // extra create_table-like helpers
	ViewKeywords  []string `yaml:"view_keywords" mapstructure:"view_keywords"`   // extra create_view-like helpers
}

// WatchConfig configures --watch mode.
type WatchConfig struct {
	DebounceMs int `yaml:"debounce_ms" mapstructure:"debounce_ms"` // quiet period before re-extracting
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Schema: SchemaConfig{
			Path:   "db/schema.rb",
			Output: "ai_context_schema.rb",
		},
		Extract: ExtractConfig{
			Verify:        false,
			TableKeywords: []string{},
			ViewKeywords:  []string{},
		},
		Watch: WatchConfig{
			DebounceMs: 500,
		},
	}
}
