package optim

import (
	"math/rand"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/voxray/voxray/log"
	"github.com/voxray/voxray/renderer"
	"github.com/voxray/voxray/scene"
	"github.com/voxray/voxray/tracer"
)

// Progress is one logged point of a fitting run.
type Progress struct {
	Iteration int
	MSE       float64
	PSNR      float64
}

// Trainer fits a fresh scene to views of a target scene. The target is
// rendered once per configured face into a pooled set of rays and
// reference colors; every iteration then draws a mini-batch from the
// pool, renders it with depth jitter, and descends both grids along
// the compositing gradients.
type Trainer struct {
	cfg    *scene.Config
	scn    *scene.Scene
	rend   *renderer.Renderer
	sgd    *SGD
	rays   []tracer.Ray
	want   []r3.Vec
	rng    *rand.Rand
	logger log.Logger
}

// NewTrainer renders the target views and prepares an initialized
// scene to fit against them.
func NewTrainer(cfg *scene.Config, target *scene.Scene, logger log.Logger) (*Trainer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.Nop
	}

	ref, err := renderer.New(target, renderer.OptionsFromConfig(cfg))
	if err != nil {
		return nil, err
	}

	var rays []tracer.Ray
	var want []r3.Vec
	for _, face := range cfg.Train.TrainFaces() {
		faceRays, _, _, err := tracer.FaceRays(target.Bounds, target.Res(), face, cfg.Render.Offset)
		if err != nil {
			return nil, err
		}
		colors, err := ref.Render(faceRays, false)
		if err != nil {
			return nil, err
		}
		rays = append(rays, faceRays...)
		want = append(want, colors...)
	}
	logger.Debugf("pooled %d target rays across %d faces", len(rays), len(cfg.Train.Faces))

	scn, err := scene.FromConfig(cfg)
	if err != nil {
		return nil, err
	}
	scn.Density.Fill(cfg.Train.InitDensity)
	scn.Color.Fill(cfg.Train.InitColor)

	rend, err := renderer.New(scn, renderer.OptionsFromConfig(cfg))
	if err != nil {
		return nil, err
	}

	return &Trainer{
		cfg:    cfg,
		scn:    scn,
		rend:   rend,
		sgd:    NewSGD(cfg.Train.Rate, cfg.Train.Momentum),
		rays:   rays,
		want:   want,
		rng:    rand.New(rand.NewSource(cfg.Render.Seed)),
		logger: logger,
	}, nil
}

// Scene returns the scene being fitted.
func (t *Trainer) Scene() *scene.Scene {
	return t.scn
}

// Renderer returns the renderer attached to the fitted scene.
func (t *Trainer) Renderer() *renderer.Renderer {
	return t.rend
}

// Run executes the configured number of iterations and returns the
// logged loss trajectory.
func (t *Trainer) Run() ([]Progress, error) {
	var history []Progress
	for it := 1; it <= t.cfg.Train.Iterations; it++ {
		rays, want := t.sampleBatch()

		pass, err := t.rend.Forward(rays, true)
		if err != nil {
			return history, err
		}
		loss, grad, err := MSE(pass.Colors, want)
		if err != nil {
			return history, err
		}
		dDens, dCols, err := pass.Backward(grad)
		if err != nil {
			return history, err
		}
		if err := t.sgd.Step(t.scn.Density, dDens); err != nil {
			return history, err
		}
		if err := t.sgd.Step(t.scn.Color, dCols); err != nil {
			return history, err
		}

		if every := t.cfg.Train.LogEvery; every > 0 && (it%every == 0 || it == t.cfg.Train.Iterations) {
			p := Progress{Iteration: it, MSE: loss, PSNR: PSNR(loss)}
			history = append(history, p)
			t.logger.Infof("iteration %d/%d: mse %.6f, psnr %.2f dB", it, t.cfg.Train.Iterations, p.MSE, p.PSNR)
		}
	}
	return history, nil
}

// Eval renders the whole pool without jitter and returns the mean
// squared error against the target colors.
func (t *Trainer) Eval() (float64, error) {
	colors, err := t.rend.Render(t.rays, false)
	if err != nil {
		return 0, err
	}
	mse, _, err := MSE(colors, t.want)
	return mse, err
}

// sampleBatch draws rays with replacement; batches at least as large
// as the pool reuse the whole pool instead.
func (t *Trainer) sampleBatch() ([]tracer.Ray, []r3.Vec) {
	n := t.cfg.Train.Batch
	if n >= len(t.rays) {
		return t.rays, t.want
	}
	rays := make([]tracer.Ray, n)
	want := make([]r3.Vec, n)
	for i := range rays {
		j := t.rng.Intn(len(t.rays))
		rays[i] = t.rays[j]
		want[i] = t.want[j]
	}
	return rays, want
}
