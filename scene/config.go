package scene

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/voxray/voxray/tracer"
)

// Config collects every tunable of a reconstruction run. It is loaded
// from a TOML file and individual fields may be overridden by command
// line flags afterwards.
type Config struct {
	Grid     GridConfig     `toml:"grid"`
	Bounds   BoundsConfig   `toml:"bounds"`
	Sampling SamplingConfig `toml:"sampling"`
	Render   RenderConfig   `toml:"render"`
	Train    TrainConfig    `toml:"train"`
	Target   TargetConfig   `toml:"target"`
}

type GridConfig struct {
	// Voxels per axis; the grids store one extra corner per axis.
	Resolution [3]int `toml:"resolution"`
}

type BoundsConfig struct {
	Min [3]float64 `toml:"min"`
	Max [3]float64 `toml:"max"`
}

type SamplingConfig struct {
	// Depth range along each ray, in units of the ray direction.
	Near float64 `toml:"near"`
	Far  float64 `toml:"far"`

	// Samples per ray, taken at the midpoints of samples+1 evenly
	// spaced depths in [near, far].
	Samples int `toml:"samples"`
}

type RenderConfig struct {
	// Background color composited behind transparent regions.
	Background [3]float64 `toml:"background"`

	// Distance ray origins sit outside the box on face views.
	Offset float64 `toml:"offset"`

	// Worker goroutines; 0 means one per CPU.
	Workers int `toml:"workers"`

	// Seed for the depth jitter stream.
	Seed int64 `toml:"seed"`
}

type TrainConfig struct {
	Iterations int     `toml:"iterations"`
	Rate       float64 `toml:"rate"`
	Momentum   float64 `toml:"momentum"`

	// Rays drawn per iteration from the pooled target views.
	Batch int `toml:"batch"`

	// Faces rendered into the target ray pool.
	Faces []string `toml:"faces"`

	// Initial grid values for the scene being fitted.
	InitDensity float64 `toml:"init_density"`
	InitColor   float64 `toml:"init_color"`

	// Iterations between progress rows; 0 disables.
	LogEvery int `toml:"log_every"`
}

type TargetConfig struct {
	// Synthetic ground truth: a solid axis-aligned cube.
	Center    [3]float64 `toml:"center"`
	HalfWidth float64    `toml:"half_width"`
	Density   float64    `toml:"density"`
	Color     [3]float64 `toml:"color"`
}

// DefaultConfig returns a runnable configuration: a 32^3 grid over
// [-1,1]^3 fitting a centered cube from all six faces.
func DefaultConfig() *Config {
	return &Config{
		Grid: GridConfig{Resolution: [3]int{32, 32, 32}},
		Bounds: BoundsConfig{
			Min: [3]float64{-1, -1, -1},
			Max: [3]float64{1, 1, 1},
		},
		Sampling: SamplingConfig{Near: 0, Far: 4, Samples: 128},
		Render: RenderConfig{
			Background: [3]float64{1, 1, 1},
			Offset:     0.5,
			Workers:    0,
			Seed:       1,
		},
		Train: TrainConfig{
			Iterations:  400,
			Rate:        0.3,
			Momentum:    0,
			Batch:       1024,
			Faces:       []string{"x", "y", "z", "-x", "-y", "-z"},
			InitDensity: 0.1,
			InitColor:   0.5,
			LogEvery:    20,
		},
		Target: TargetConfig{
			Center:    [3]float64{0, 0, 0},
			HalfWidth: 0.5,
			Density:   40,
			Color:     [3]float64{0.8, 0.3, 0.2},
		},
	}
}

// LoadConfig reads a TOML file over the defaults. Unknown keys are
// rejected so typos fail loudly instead of silently keeping defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("scene: parsing %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("%w: unknown key %q in %s", ErrInvalidConfig, undecoded[0].String(), path)
	}
	if err = cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the cross-field constraints the renderer depends on.
func (c *Config) Validate() error {
	for axis, n := range c.Grid.Resolution {
		if n <= 0 {
			return fmt.Errorf("%w: grid resolution must be positive, axis %d is %d", ErrInvalidConfig, axis, n)
		}
	}
	if c.Bounds.Box().Degenerate() {
		return fmt.Errorf("%w: min %v max %v", ErrDegenerateBounds, c.Bounds.Min, c.Bounds.Max)
	}
	if c.Sampling.Samples <= 0 {
		return fmt.Errorf("%w: samples per ray must be positive, got %d", ErrInvalidConfig, c.Sampling.Samples)
	}
	if c.Sampling.Far <= c.Sampling.Near {
		return fmt.Errorf("%w: far (%g) must exceed near (%g)", ErrInvalidConfig, c.Sampling.Far, c.Sampling.Near)
	}
	// Jitter displaces each depth by up to 1/(2*samples) in absolute
	// units; spans under one unit let perturbed samples leave their bins.
	if c.Sampling.Far-c.Sampling.Near < 1 {
		return fmt.Errorf("%w: depth span far-near must be at least 1, got %g", ErrInvalidConfig, c.Sampling.Far-c.Sampling.Near)
	}
	if c.Render.Offset <= 0 {
		return fmt.Errorf("%w: face offset must be positive, got %g", ErrInvalidConfig, c.Render.Offset)
	}
	if c.Render.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative, got %d", ErrInvalidConfig, c.Render.Workers)
	}
	if len(c.Train.Faces) == 0 {
		return fmt.Errorf("%w: at least one training face is required", ErrInvalidConfig)
	}
	for _, name := range c.Train.Faces {
		if !validFace(name) {
			return fmt.Errorf("%w: %q", tracer.ErrInvalidFace, name)
		}
	}
	if c.Train.Iterations <= 0 {
		return fmt.Errorf("%w: iteration count must be positive, got %d", ErrInvalidConfig, c.Train.Iterations)
	}
	if c.Train.Rate <= 0 {
		return fmt.Errorf("%w: learning rate must be positive, got %g", ErrInvalidConfig, c.Train.Rate)
	}
	if c.Train.Momentum < 0 || c.Train.Momentum >= 1 {
		return fmt.Errorf("%w: momentum must lie in [0,1), got %g", ErrInvalidConfig, c.Train.Momentum)
	}
	if c.Train.Batch <= 0 {
		return fmt.Errorf("%w: batch size must be positive, got %d", ErrInvalidConfig, c.Train.Batch)
	}
	// A zero initial density never produces opacity, so no gradient can
	// reach either grid and training stalls silently.
	if c.Train.InitDensity <= 0 {
		return fmt.Errorf("%w: initial density must be positive, got %g", ErrInvalidConfig, c.Train.InitDensity)
	}
	return nil
}

// Box returns the configured bounds as a box.
func (b BoundsConfig) Box() tracer.Box {
	return tracer.Box{Min: vec3(b.Min), Max: vec3(b.Max)}
}

// BackgroundColor returns the configured background as a vector.
func (r RenderConfig) BackgroundColor() r3.Vec {
	return vec3(r.Background)
}

// TrainFaces returns the configured face names as face identifiers.
func (t TrainConfig) TrainFaces() []tracer.Face {
	faces := make([]tracer.Face, len(t.Faces))
	for i, name := range t.Faces {
		faces[i] = tracer.Face(name)
	}
	return faces
}

// CubeColor returns the synthetic target color as a vector.
func (t TargetConfig) CubeColor() r3.Vec {
	return vec3(t.Color)
}

// CubeCenter returns the synthetic target center as a vector.
func (t TargetConfig) CubeCenter() r3.Vec {
	return vec3(t.Center)
}

func validFace(name string) bool {
	for _, f := range tracer.Faces {
		if string(f) == name {
			return true
		}
	}
	return false
}

func vec3(a [3]float64) r3.Vec {
	return r3.Vec{X: a[0], Y: a[1], Z: a[2]}
}
