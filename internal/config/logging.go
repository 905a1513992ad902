package config

// LoggingConfig configures the category-based file logger. Its field names
// mirror internal/logging's own bootstrap struct exactly: logging reads
// .cortex/config.json directly rather than importing this package (to avoid
// a config->logging->config import cycle), so the two shapes must agree by
// convention, not by the compiler.
type LoggingConfig struct {
	DebugMode  bool            `yaml:"debug_mode" json:"debug_mode"`
	Level      string          `yaml:"level" json:"level"`
	JSONFormat bool            `yaml:"json_format" json:"json_format"`
	Categories map[string]bool `yaml:"categories,omitempty" json:"categories,omitempty"`
}

// DefaultLoggingConfig returns logging disabled with info-level defaults,
// matching the teacher's production-safe posture of "no logging unless
// asked for".
func DefaultLoggingConfig() LoggingConfig {
	return LoggingConfig{
		DebugMode: false,
		Level:     "info",
	}
}

// IsCategoryEnabled returns whether logging is enabled for category. Debug
// mode off disables everything; debug mode on enables every category not
// explicitly turned off.
func (c LoggingConfig) IsCategoryEnabled(category string) bool {
	if !c.DebugMode {
		return false
	}
	if c.Categories == nil {
		return true
	}
	enabled, exists := c.Categories[category]
	if !exists {
		return true
	}
	return enabled
}
