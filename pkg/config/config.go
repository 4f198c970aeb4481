// Package config loads run settings from a TOML file.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/chazu/supportmesh/pkg/hull"
	"github.com/chazu/supportmesh/pkg/scene"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/exp/constraints"
)

// Sample count bounds applied by Normalize.
const (
	MinSamples = scene.MinSamples
	MaxSamples = 1_000_000
)

// Output formats.
const (
	FormatSTL  = "stl"
	FormatJSON = "json"
)

// Geometry kernels.
const (
	KernelSampled = "sampled"
	KernelSdfx    = "sdfx"
)

// Duration is a time.Duration that decodes from a TOML string like "5s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Config holds every tunable of a run.
type Config struct {
	Samples     int      `toml:"samples"`
	Tolerance   float64  `toml:"tolerance"`
	LogLevel    string   `toml:"log_level"`
	OutputDir   string   `toml:"output_dir"`
	Format      string   `toml:"format"`
	EvalTimeout Duration `toml:"eval_timeout"`
	Kernel      string   `toml:"kernel"`
	MeshCells   int      `toml:"mesh_cells"`
}

// Default returns the settings used when no file is given.
func Default() Config {
	return Config{
		Samples:     scene.DefaultSamples,
		Tolerance:   hull.DefaultTolerance,
		LogLevel:    "info",
		OutputDir:   ".",
		Format:      FormatSTL,
		EvalTimeout: Duration{5 * time.Second},
		Kernel:      KernelSampled,
		MeshCells:   64,
	}
}

// Load reads path over the defaults. Keys missing from the file keep their
// default values.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: %s: %w", path, err)
	}
	if err := cfg.Normalize(); err != nil {
		return cfg, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Normalize clamps numeric fields into range and rejects values that
// cannot be repaired.
func (c *Config) Normalize() error {
	c.Samples = Clamp(c.Samples, MinSamples, MaxSamples)
	if c.Tolerance <= 0 {
		c.Tolerance = hull.DefaultTolerance
	}
	if c.EvalTimeout.Duration <= 0 {
		c.EvalTimeout = Default().EvalTimeout
	}
	if c.OutputDir == "" {
		c.OutputDir = "."
	}
	c.Format = strings.ToLower(c.Format)
	switch c.Format {
	case FormatSTL, FormatJSON:
	case "":
		c.Format = FormatSTL
	default:
		return fmt.Errorf("unknown format %q (want %s or %s)", c.Format, FormatSTL, FormatJSON)
	}
	c.Kernel = strings.ToLower(c.Kernel)
	switch c.Kernel {
	case KernelSampled, KernelSdfx:
	case "":
		c.Kernel = KernelSampled
	default:
		return fmt.Errorf("unknown kernel %q (want %s or %s)", c.Kernel, KernelSampled, KernelSdfx)
	}
	if c.MeshCells <= 0 {
		c.MeshCells = Default().MeshCells
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	return nil
}

// Encode renders c as TOML.
func (c Config) Encode() ([]byte, error) {
	return toml.Marshal(c)
}

// Clamp returns v limited to [low, high].
func Clamp[T constraints.Ordered](v, low, high T) T {
	if v < low {
		return low
	}
	if v > high {
		return high
	}
	return v
}
