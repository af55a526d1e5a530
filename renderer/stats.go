package renderer

import (
	"time"

	"github.com/voxray/voxray/tracer"
)

type FaceStat struct {
	// The rendered face.
	Face tracer.Face

	// Image dims.
	W, H int

	// Rays cast and total field samples taken for the face.
	Rays    int
	Samples int

	// Render time for the face.
	RenderTime time.Duration
}

type FrameStats struct {
	// Individual face stats.
	Faces []FaceStat

	// Total render time across all faces.
	RenderTime time.Duration
}

// Add folds one rendered frame into the stats.
func (s *FrameStats) Add(f *Frame) {
	s.Faces = append(s.Faces, FaceStat{
		Face:       f.Face,
		W:          f.W,
		H:          f.H,
		Rays:       len(f.Pix),
		Samples:    f.Samples,
		RenderTime: f.Elapsed,
	})
	s.RenderTime += f.Elapsed
}
