package aggregate

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds one aggregation invocation's settings, loadable from a JSON (or YAML)
// document. Build it with NewConfig or LoadConfig; both validate eagerly and the result
// is treated as read-only afterwards.
type Config struct {
	Metric               string       `yaml:"metric"`
	MultiModel           bool         `yaml:"multimodel"`
	MetaModel            bool         `yaml:"metamodel"` // cross-run combination enabled
	MetaFunction         MetaFunction `yaml:"meta_function"`
	WindowFunction       MetaFunction `yaml:"window_function"`
	WindowSize           int          `yaml:"window_size"`
	SamplesPerMinute     int          `yaml:"samples_per_minute"` // accepted for document compatibility; unused
	Mode                 Mode         `yaml:"plot_type"`
	PlotTitle            string       `yaml:"plot_title"`
	CurrentUnit          string       `yaml:"current_unit"`
	UnitScalingMagnitude int          `yaml:"unit_scaling_magnitude"`
	XLabel               string       `yaml:"x_label"`
	YLabel               string       `yaml:"y_label"`
	XMin                 *float64     `yaml:"x_min"`
	XMax                 *float64     `yaml:"x_max"`
	YMin                 *float64     `yaml:"y_min"`
	YMax                 *float64     `yaml:"y_max"`
	XTicksCount          *int         `yaml:"x_ticks_count"`
	YTicksCount          *int         `yaml:"y_ticks_count"`
	Seed                 int          `yaml:"seed"`
	FigSize              []float64    `yaml:"figsize"`
	DataFile             string       `yaml:"data_file"` // run file base name under seed=<n>/
}

// Axis describes one plot axis. Range is set only when both bounds were configured.
type Axis struct {
	Label string
	Range *[2]float64
	Ticks *int
}

// HasRange reports whether both axis bounds were configured.
func (a Axis) HasRange() bool { return a.Range != nil }

// HasTicks reports whether a tick count was configured.
func (a Axis) HasTicks() bool { return a.Ticks != nil }

// XAxis returns the configured x axis.
func (c *Config) XAxis() Axis { return newAxis(c.XLabel, c.XMin, c.XMax, c.XTicksCount) }

// YAxis returns the configured y axis.
func (c *Config) YAxis() Axis { return newAxis(c.YLabel, c.YMin, c.YMax, c.YTicksCount) }

func newAxis(label string, lo, hi *float64, ticks *int) Axis {
	a := Axis{Label: label, Ticks: ticks}
	if lo != nil && hi != nil {
		a.Range = &[2]float64{*lo, *hi}
	}
	return a
}

// Unit resolves the configured display unit and scaling divisor.
func (c *Config) Unit() Unit {
	return ResolveUnit(c.CurrentUnit, c.UnitScalingMagnitude)
}

// Defaults for optional document fields.
const (
	DefaultWindowSize           = 1
	DefaultUnitScalingMagnitude = 1
	DefaultDataFile             = "host"
)

// defaultConfig returns a Config with every optional field at its default, ready to be
// overlaid by a decoded document.
func defaultConfig() Config {
	return Config{
		MultiModel:           true,
		WindowFunction:       MetaMean,
		WindowSize:           DefaultWindowSize,
		Mode:                 ModeTimeSeries,
		UnitScalingMagnitude: DefaultUnitScalingMagnitude,
		FigSize:              []float64{20, 10},
		DataFile:             DefaultDataFile,
	}
}

// NewConfig decodes and validates a configuration document.
// Uses strict parsing: unrecognized keys (typos) are rejected.
func NewConfig(doc []byte) (*Config, error) {
	cfg := defaultConfig()
	decoder := yaml.NewDecoder(bytes.NewReader(doc))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("%w: parsing config document: %w", ErrConfiguration, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadConfig reads and validates the configuration document at path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading config %s: %w", ErrIO, path, err)
	}
	cfg, err := NewConfig(data)
	if err != nil {
		return nil, fmt.Errorf("loading config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks required fields and enum values. Every failure wraps ErrConfiguration.
func (c *Config) Validate() error {
	if c.Metric == "" {
		return configErrorf("required field 'metric' is missing")
	}
	if c.MetaModel && c.MetaFunction == "" {
		return configErrorf("required field 'meta_function' is missing; valid: mean, median, or disable metamodel")
	}
	if c.MetaFunction != "" && !c.MetaFunction.IsValid() {
		return configErrorf("unknown meta_function %q; valid: mean, median", c.MetaFunction)
	}
	if !c.WindowFunction.IsValid() {
		return configErrorf("unknown window_function %q; valid: mean, median", c.WindowFunction)
	}
	if !c.Mode.IsValid() {
		return configErrorf("unknown plot_type %q; valid: time_series, cumulative, cumulative_time_series", c.Mode)
	}
	if c.WindowSize <= 0 {
		return configErrorf("window_size must be positive, got %d", c.WindowSize)
	}
	if c.SamplesPerMinute < 0 {
		return configErrorf("samples_per_minute must be non-negative, got %d", c.SamplesPerMinute)
	}
	if c.XTicksCount != nil && *c.XTicksCount <= 0 {
		return configErrorf("x_ticks_count must be positive, got %d", *c.XTicksCount)
	}
	if c.YTicksCount != nil && *c.YTicksCount <= 0 {
		return configErrorf("y_ticks_count must be positive, got %d", *c.YTicksCount)
	}
	if r := c.XAxis().Range; r != nil && r[0] >= r[1] {
		return configErrorf("x_min must be below x_max, got [%g, %g]", r[0], r[1])
	}
	if r := c.YAxis().Range; r != nil && r[0] >= r[1] {
		return configErrorf("y_min must be below y_max, got [%g, %g]", r[0], r[1])
	}
	if len(c.FigSize) != 2 || c.FigSize[0] <= 0 || c.FigSize[1] <= 0 {
		return configErrorf("figsize must be two positive numbers, got %v", c.FigSize)
	}
	if c.DataFile == "" {
		return configErrorf("data_file must not be empty")
	}
	return nil
}

func configErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConfiguration, fmt.Sprintf(format, args...))
}
