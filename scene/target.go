package scene

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// PaintBox writes a solid axis-aligned cube into the grids: every
// lattice corner within half of center on all three axes receives the
// given density and color, other corners are left untouched.
func (s *Scene) PaintBox(center r3.Vec, half, density float64, color r3.Vec) {
	res := s.Res()
	for i := 0; i <= res[0]; i++ {
		for j := 0; j <= res[1]; j++ {
			for k := 0; k <= res[2]; k++ {
				p := s.CornerWorld(i, j, k)
				if math.Abs(p.X-center.X) > half ||
					math.Abs(p.Y-center.Y) > half ||
					math.Abs(p.Z-center.Z) > half {
					continue
				}
				s.Density.Corner(i, j, k)[0] = density
				c := s.Color.Corner(i, j, k)
				c[0], c[1], c[2] = color.X, color.Y, color.Z
			}
		}
	}
}

// FillColor sets every color corner to c without touching density.
func (s *Scene) FillColor(c r3.Vec) {
	for off := 0; off < len(s.Color.Data.Elements); off += 3 {
		s.Color.Data.Elements[off] = c.X
		s.Color.Data.Elements[off+1] = c.Y
		s.Color.Data.Elements[off+2] = c.Z
	}
}

// TargetScene builds the synthetic ground-truth scene described by the
// configuration's target section: a solid cube on empty space. The
// cube color fills the whole color grid so the density ramp at the
// cube boundary does not blend toward unpainted black corners.
func TargetScene(cfg *Config) (*Scene, error) {
	s, err := FromConfig(cfg)
	if err != nil {
		return nil, err
	}
	s.FillColor(cfg.Target.CubeColor())
	s.PaintBox(cfg.Target.CubeCenter(), cfg.Target.HalfWidth, cfg.Target.Density, cfg.Target.CubeColor())
	return s, nil
}
