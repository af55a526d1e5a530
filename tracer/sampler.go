package tracer

import (
	"math/rand"

	"gonum.org/v1/gonum/spatial/r3"
)

// SampleAlongRay returns origin + depth*dir for each depth, in depth
// order. Depths are used as given; nothing is clipped.
func SampleAlongRay(depths []float64, origin, dir r3.Vec) []r3.Vec {
	points := make([]r3.Vec, len(depths))
	for i, t := range depths {
		points[i] = r3.Add(origin, r3.Scale(t, dir))
	}
	return points
}

// PerturbDepths returns a jittered copy of depths. Each depth slot
// receives one uniform offset in [-1/(2n), +1/(2n)] with n the slot
// count, so every ray sampled against the returned slice shares the
// same offsets. The input slice is left untouched.
func PerturbDepths(depths []float64, rng *rand.Rand) []float64 {
	n := len(depths)
	out := make([]float64, n)
	if n == 0 {
		return out
	}
	halfBin := 1 / float64(2*n)
	for i, t := range depths {
		out[i] = t + (2*rng.Float64()-1)*halfBin
	}
	return out
}

// SampleRays generates the sample points for a batch of rays, one point
// row per ray. With stochastic set the depths are perturbed once via
// PerturbDepths and the perturbed slice applies to every ray of the
// batch; rng must be non-nil in that case. The depths actually used are
// returned alongside the points so a gradient pass can revisit the
// exact same locations.
func SampleRays(depths []float64, rays []Ray, stochastic bool, rng *rand.Rand) ([][]r3.Vec, []float64) {
	used := depths
	if stochastic {
		used = PerturbDepths(depths, rng)
	}
	points := make([][]r3.Vec, len(rays))
	for i, ray := range rays {
		points[i] = SampleAlongRay(used, ray.Origin, ray.Dir)
	}
	return points, used
}
