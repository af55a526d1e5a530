package renderer

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/voxray/voxray/log"
	"github.com/voxray/voxray/scene"
)

type Options struct {
	// Depth range sampled along each ray.
	Near float64
	Far  float64

	// Samples per ray.
	Samples int

	// Background color composited behind transparent regions.
	Background r3.Vec

	// Distance ray origins sit outside the box on face views.
	Offset float64

	// Worker goroutines; 0 selects one per CPU.
	Workers int

	// Seed for the depth jitter stream.
	Seed int64

	// Logger; nil selects the no-op logger.
	Log log.Logger
}

// OptionsFromConfig maps the sampling and render sections of a
// configuration onto renderer options.
func OptionsFromConfig(cfg *scene.Config) Options {
	return Options{
		Near:       cfg.Sampling.Near,
		Far:        cfg.Sampling.Far,
		Samples:    cfg.Sampling.Samples,
		Background: cfg.Render.BackgroundColor(),
		Offset:     cfg.Render.Offset,
		Workers:    cfg.Render.Workers,
		Seed:       cfg.Render.Seed,
	}
}
