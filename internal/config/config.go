// File: internal/config/config.go
package config

import (
	"fmt"
	"math"
	"time"

	"github.com/spf13/viper"
)

// Config holds the entire application configuration. It is populated by viper
// from defaults, an optional YAML file, GRIDLINE_* environment variables and CLI flags.
type Config struct {
	Logger   LoggerConfig   `mapstructure:"logger" yaml:"logger"`
	Engine   EngineConfig   `mapstructure:"engine" yaml:"engine"`
	Viewport ViewportConfig `mapstructure:"viewport" yaml:"viewport"`
	Grid     GridConfig     `mapstructure:"grid" yaml:"grid"`
	Virtual  VirtualConfig  `mapstructure:"virtual" yaml:"virtual"`
	Schedule ScheduleConfig `mapstructure:"schedule" yaml:"schedule"`
	Theme    ThemeConfig    `mapstructure:"theme" yaml:"theme"`
}

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig defines the color codes for different log levels.
type ColorConfig struct {
	Debug  string `mapstructure:"debug" yaml:"debug"`
	Info   string `mapstructure:"info" yaml:"info"`
	Warn   string `mapstructure:"warn" yaml:"warn"`
	Error  string `mapstructure:"error" yaml:"error"`
	DPanic string `mapstructure:"dpanic" yaml:"dpanic"`
	Panic  string `mapstructure:"panic" yaml:"panic"`
	Fatal  string `mapstructure:"fatal" yaml:"fatal"`
}

// EngineConfig carries the snapping defaults handed to the normalization engine.
type EngineConfig struct {
	Base             float64 `mapstructure:"base" yaml:"base"`
	Snapping         string  `mapstructure:"snapping" yaml:"snapping"`
	Round            bool    `mapstructure:"round" yaml:"round"`
	SuppressWarnings bool    `mapstructure:"suppress_warnings" yaml:"suppress_warnings"`
	ClampEnabled     bool    `mapstructure:"clamp_enabled" yaml:"clamp_enabled"`
	ClampMin         float64 `mapstructure:"clamp_min" yaml:"clamp_min"`
	ClampMax         float64 `mapstructure:"clamp_max" yaml:"clamp_max"`
}

// ViewportConfig holds the ambient metrics used to resolve relative units.
type ViewportConfig struct {
	Width          float64 `mapstructure:"width" yaml:"width"`
	Height         float64 `mapstructure:"height" yaml:"height"`
	RootFontSize   float64 `mapstructure:"root_font_size" yaml:"root_font_size"`
	ParentFontSize float64 `mapstructure:"parent_font_size" yaml:"parent_font_size"`
	ParentSize     float64 `mapstructure:"parent_size" yaml:"parent_size"`
}

// GridConfig is the default column guide layout.
type GridConfig struct {
	Variant     string   `mapstructure:"variant" yaml:"variant"`
	Gap         float64  `mapstructure:"gap" yaml:"gap"`
	Columns     int      `mapstructure:"columns" yaml:"columns"`
	Pattern     []string `mapstructure:"pattern" yaml:"pattern"`
	ColumnWidth string   `mapstructure:"column_width" yaml:"column_width"`
}

// VirtualConfig tunes overlay line virtualization.
type VirtualConfig struct {
	Buffer     string  `mapstructure:"buffer" yaml:"buffer"`
	LineHeight float64 `mapstructure:"line_height" yaml:"line_height"`
}

// ScheduleConfig tunes measurement coalescing.
type ScheduleConfig struct {
	FrameInterval time.Duration `mapstructure:"frame_interval" yaml:"frame_interval"`
	DebounceDelay time.Duration `mapstructure:"debounce_delay" yaml:"debounce_delay"`
}

// ThemeConfig is the root of the cascading theme.
type ThemeConfig struct {
	LineColor  string `mapstructure:"line_color" yaml:"line_color"`
	FlatColor  string `mapstructure:"flat_color" yaml:"flat_color"`
	TextColor  string `mapstructure:"text_color" yaml:"text_color"`
	Visibility string `mapstructure:"visibility" yaml:"visibility"`
}

// NewDefaultConfig creates a new configuration struct populated with default values.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		// This should not happen with defaults, but good to be safe.
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// SetDefaults initializes default values for various configuration parameters.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "gridline")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)
	v.SetDefault("logger.colors.debug", "cyan")
	v.SetDefault("logger.colors.info", "green")
	v.SetDefault("logger.colors.warn", "yellow")
	v.SetDefault("logger.colors.error", "red")

	// -- Engine --
	v.SetDefault("engine.base", 8)
	v.SetDefault("engine.snapping", "none")
	v.SetDefault("engine.round", true)
	v.SetDefault("engine.suppress_warnings", false)
	v.SetDefault("engine.clamp_enabled", false)
	v.SetDefault("engine.clamp_min", math.Inf(-1))
	v.SetDefault("engine.clamp_max", math.Inf(1))

	// -- Viewport --
	v.SetDefault("viewport.width", 1024)
	v.SetDefault("viewport.height", 768)
	v.SetDefault("viewport.root_font_size", 16)
	v.SetDefault("viewport.parent_font_size", 16)
	v.SetDefault("viewport.parent_size", 0)

	// -- Grid --
	v.SetDefault("grid.variant", "line")
	v.SetDefault("grid.gap", 8)
	v.SetDefault("grid.columns", 12)
	v.SetDefault("grid.column_width", "")

	// -- Virtual --
	v.SetDefault("virtual.buffer", "0")
	v.SetDefault("virtual.line_height", 8)

	// -- Schedule --
	v.SetDefault("schedule.frame_interval", "16ms")
	v.SetDefault("schedule.debounce_delay", "150ms")

	// -- Theme --
	v.SetDefault("theme.line_color", "rgba(255,0,0,0.3)")
	v.SetDefault("theme.flat_color", "rgba(255,0,0,0.1)")
	v.SetDefault("theme.text_color", "#e00")
	v.SetDefault("theme.visibility", "visible")
}

// NewConfigFromViper creates a new configuration instance from a viper object.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for required fields and sane values.
func (c *Config) Validate() error {
	if err := c.Engine.Validate(); err != nil {
		return fmt.Errorf("engine configuration invalid: %w", err)
	}
	if c.Viewport.Width < 0 || c.Viewport.Height < 0 {
		return fmt.Errorf("viewport.width and viewport.height must not be negative")
	}
	if c.Grid.Gap < 0 {
		return fmt.Errorf("grid.gap must not be negative")
	}
	if c.Virtual.LineHeight <= 0 {
		return fmt.Errorf("virtual.line_height must be positive")
	}
	if c.Schedule.FrameInterval <= 0 {
		return fmt.Errorf("schedule.frame_interval must be a positive duration")
	}
	if c.Schedule.DebounceDelay < 0 {
		return fmt.Errorf("schedule.debounce_delay must not be negative")
	}
	switch c.Theme.Visibility {
	case "", "visible", "hidden", "none":
	default:
		return fmt.Errorf("theme.visibility %q must be one of visible, hidden, none", c.Theme.Visibility)
	}
	return nil
}

// Validate checks the engine settings.
func (e *EngineConfig) Validate() error {
	if math.IsNaN(e.Base) || e.Base < 1 {
		return fmt.Errorf("base must be >= 1, got %v", e.Base)
	}
	switch e.Snapping {
	case "", "none", "height", "clamp":
	default:
		return fmt.Errorf("snapping %q must be one of none, height, clamp", e.Snapping)
	}
	if e.ClampEnabled && e.ClampMin > e.ClampMax {
		return fmt.Errorf("clamp_min (%v) must not exceed clamp_max (%v)", e.ClampMin, e.ClampMax)
	}
	return nil
}
