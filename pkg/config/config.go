// Package config loads the netviz configuration file. Every section starts
// from its package defaults; the file only needs to name what it changes.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dd0wney/cluso-netgraph/pkg/geom"
	"github.com/dd0wney/cluso-netgraph/pkg/interaction"
	"github.com/dd0wney/cluso-netgraph/pkg/logging"
	"github.com/dd0wney/cluso-netgraph/pkg/physics"
	"github.com/dd0wney/cluso-netgraph/pkg/render"
	"github.com/dd0wney/cluso-netgraph/pkg/validation"
)

// ErrInvalidConfig is returned when a loaded configuration fails validation
var ErrInvalidConfig = errors.New("invalid configuration")

// Terminal cell size in layout units
const (
	DefaultColumnWidth = 8.0
	DefaultRowHeight   = 16.0
)

// Config is the full netviz configuration
type Config struct {
	Viewport    ViewportConfig    `yaml:"viewport"`
	Physics     physics.Config    `yaml:"physics"`
	Interaction InteractionConfig `yaml:"interaction"`
	Render      RenderConfig      `yaml:"render"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// ViewportConfig sets the initial drawing area and resize filtering
type ViewportConfig struct {
	Width           float64 `yaml:"width" validate:"gt=0"`
	Height          float64 `yaml:"height" validate:"gt=0"`
	ResizeThreshold float64 `yaml:"resize_threshold" validate:"gte=0"`
	TrackHeight     bool    `yaml:"track_height"`
}

// Viewport returns the configured drawing area
func (v ViewportConfig) Viewport() geom.Viewport {
	return geom.Viewport{Width: v.Width, Height: v.Height}
}

// InteractionConfig sets the debounce delays and the initial category filter
type InteractionConfig struct {
	HoverEnterDelay    time.Duration `yaml:"hover_enter_delay"`
	HoverLeaveDelay    time.Duration `yaml:"hover_leave_delay"`
	SelectEnterDelay   time.Duration `yaml:"select_enter_delay"`
	SelectLeaveDelay   time.Duration `yaml:"select_leave_delay"`
	SelectedCategories []string      `yaml:"selected_categories"`
}

// RenderConfig holds the style constants and host drawing options
type RenderConfig struct {
	Style        render.StyleConfig `yaml:",inline"`
	IncludeCells bool               `yaml:"include_cells"`
	ColumnWidth  float64            `yaml:"column_width" validate:"gt=0"`
	RowHeight    float64            `yaml:"row_height" validate:"gt=0"`
}

// LoggingConfig selects the log level and destination
type LoggingConfig struct {
	Level string `yaml:"level" validate:"omitempty,oneof=debug info warn warning error"`
	// File is where logs go; empty means stderr
	File string `yaml:"file"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Viewport: ViewportConfig{
			Width:           800,
			Height:          600,
			ResizeThreshold: render.DefaultResizeThreshold,
		},
		Physics: physics.DefaultConfig(),
		Interaction: InteractionConfig{
			HoverEnterDelay:  interaction.HoverEnterDelay,
			HoverLeaveDelay:  interaction.HoverLeaveDelay,
			SelectEnterDelay: interaction.SelectEnterDelay,
			SelectLeaveDelay: interaction.SelectLeaveDelay,
		},
		Render: RenderConfig{
			Style:        render.DefaultStyle(),
			IncludeCells: true,
			ColumnWidth:  DefaultColumnWidth,
			RowHeight:    DefaultRowHeight,
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Load reads the YAML file at path over the defaults and validates the result
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer f.Close()

	cfg, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Decode reads a YAML document over the defaults and validates the result.
// An empty document yields the defaults.
func Decode(r io.Reader) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every section
func (c *Config) Validate() error {
	if err := validation.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := c.Physics.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	err := validation.NewConfigValidator("interaction").
		NonNegativeDuration("hover_enter_delay", c.Interaction.HoverEnterDelay).
		NonNegativeDuration("hover_leave_delay", c.Interaction.HoverLeaveDelay).
		NonNegativeDuration("select_enter_delay", c.Interaction.SelectEnterDelay).
		NonNegativeDuration("select_leave_delay", c.Interaction.SelectLeaveDelay).
		Validate()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// LogLevel returns the configured level. LOG_LEVEL overrides the file.
func (c *Config) LogLevel() logging.Level {
	s := c.Logging.Level
	if env := os.Getenv(logging.EnvLevel); env != "" {
		s = env
	}
	level, _ := logging.ParseLevel(s)
	return level
}

// Binding returns the render binding configuration
func (c *Config) Binding() render.Config {
	return render.Config{
		Physics:           c.Physics,
		Style:             c.Render.Style,
		HoverEnterDelay:   c.Interaction.HoverEnterDelay,
		HoverLeaveDelay:   c.Interaction.HoverLeaveDelay,
		SelectEnterDelay:  c.Interaction.SelectEnterDelay,
		SelectLeaveDelay:  c.Interaction.SelectLeaveDelay,
		ResizeThreshold:   c.Viewport.ResizeThreshold,
		ResizeTrackHeight: c.Viewport.TrackHeight,
		IncludeCells:      c.Render.IncludeCells,
	}
}
