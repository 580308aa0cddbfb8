// Package configuration implements the engine's optional YAML-backed
// tunable layer: an operator-supplied file that can override the
// spec-fixed constants (LWT tolerance, check-rate bounds and adaptation
// factors, cache file location, log level) without recompiling. Every
// field is optional; an absent file, or a present-but-partial one, yields
// zero values that WithDefaults then fills in with the engine's built-in
// defaults.
package configuration

import (
	"fmt"
	"os"
	"time"

	"github.com/sizew/sizew/pkg/encoding"
)

// Duration wraps time.Duration with YAML text unmarshalling support so that
// configuration files can write "5s" rather than a raw nanosecond count.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var text string
	if err := unmarshal(&text); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(text)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	*d = Duration(parsed)
	return nil
}

// EngineOptions is the YAML-unmarshalable bundle of tunables the engine
// accepts. See SPEC_FULL.md §3.1 for the defaults table.
type EngineOptions struct {
	// LWTTolerance is the slack allowed between a cache entry's recorded
	// directory last-write time and a freshly probed one before the
	// mismatch forces a recompute.
	LWTTolerance Duration `yaml:"lwtTolerance"`
	// DefaultCheckRate is the check rate assumed for a directory with no
	// prior cache entry.
	DefaultCheckRate float64 `yaml:"defaultCheckRate"`
	// CheckRateGrowthFactor is the multiplier applied to a directory's
	// check rate when a change is observed at that node.
	CheckRateGrowthFactor float64 `yaml:"checkRateGrowthFactor"`
	// CheckRateShrinkFactor is the multiplier applied when no change is
	// observed.
	CheckRateShrinkFactor float64 `yaml:"checkRateShrinkFactor"`
	// MinCheckRate and MaxCheckRate bound every directory's check rate.
	MinCheckRate float64 `yaml:"minCheckRate"`
	MaxCheckRate float64 `yaml:"maxCheckRate"`
	// CacheFilePath overrides the default platform-specific cache file
	// location when non-empty.
	CacheFilePath string `yaml:"cacheFile"`
	// LogLevel is passed through to pkg/logging (e.g. "info", "debug").
	LogLevel string `yaml:"logLevel"`
}

// defaultLWTTolerance, defaultCheckRate, and friends mirror the constants
// spec.md fixes as literals; WithDefaults falls back to these whenever a
// field is left at its YAML zero value.
const (
	defaultLWTTolerance          = 5 * time.Second
	defaultCheckRate             = 0.2
	defaultCheckRateGrowthFactor = 1.5
	defaultCheckRateShrinkFactor = 0.2
	defaultMinCheckRate          = 0.01
	defaultMaxCheckRate          = 1.0
	defaultLogLevel              = "info"
)

// WithDefaults returns a copy of o with every zero-valued field replaced by
// the engine's built-in default, per SPEC_FULL.md §3.1.
func (o EngineOptions) WithDefaults() EngineOptions {
	if o.LWTTolerance == 0 {
		o.LWTTolerance = Duration(defaultLWTTolerance)
	}
	if o.DefaultCheckRate == 0 {
		o.DefaultCheckRate = defaultCheckRate
	}
	if o.CheckRateGrowthFactor == 0 {
		o.CheckRateGrowthFactor = defaultCheckRateGrowthFactor
	}
	if o.CheckRateShrinkFactor == 0 {
		o.CheckRateShrinkFactor = defaultCheckRateShrinkFactor
	}
	if o.MinCheckRate == 0 {
		o.MinCheckRate = defaultMinCheckRate
	}
	if o.MaxCheckRate == 0 {
		o.MaxCheckRate = defaultMaxCheckRate
	}
	if o.LogLevel == "" {
		o.LogLevel = defaultLogLevel
	}
	return o
}

// Load attempts to load a YAML-based engine configuration file from the
// specified path. An empty path, or one that doesn't exist, is not an error:
// callers should treat it as "no configuration supplied" and proceed with
// EngineOptions{}.
func Load(path string) (EngineOptions, error) {
	var result EngineOptions
	if path == "" {
		return result, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return result, nil
	}
	if err := encoding.LoadAndUnmarshalYAML(path, &result); err != nil {
		return EngineOptions{}, err
	}
	return result, nil
}
