package cmd

import (
	"fmt"

	"github.com/urfave/cli"

	"github.com/voxray/voxray/renderer"
	"github.com/voxray/voxray/scene"
	"github.com/voxray/voxray/tracer"
)

// loadConfig returns the defaults, or the TOML file named by --config
// layered over them.
func loadConfig(ctx *cli.Context) (*scene.Config, error) {
	path := ctx.String("config")
	if path == "" {
		return scene.DefaultConfig(), nil
	}
	logger.Debugf("loading configuration from %s", path)
	return scene.LoadConfig(path)
}

// loadScene opens the checkpoint named on the command line, or builds
// the synthetic target scene when no argument is given.
func loadScene(ctx *cli.Context, cfg *scene.Config) (*scene.Scene, error) {
	if ctx.NArg() == 0 {
		logger.Debug("no checkpoint argument, using the synthetic target scene")
		return scene.TargetScene(cfg)
	}

	path := ctx.Args().First()
	scn, err := scene.Load(path)
	if err != nil {
		return nil, err
	}
	logger.Debugf("loaded checkpoint %s", path)
	return scn, nil
}

// rendererOptions maps the configuration onto renderer options and
// attaches the command logger.
func rendererOptions(cfg *scene.Config) renderer.Options {
	opts := renderer.OptionsFromConfig(cfg)
	opts.Log = logger
	return opts
}

// faceList resolves repeated --face flags, defaulting to all six cube
// faces.
func faceList(ctx *cli.Context) ([]tracer.Face, error) {
	names := ctx.StringSlice("face")
	if len(names) == 0 {
		return tracer.Faces, nil
	}

	faces := make([]tracer.Face, len(names))
	for i, name := range names {
		face := tracer.Face(name)
		known := false
		for _, f := range tracer.Faces {
			if face == f {
				known = true
				break
			}
		}
		if !known {
			return nil, fmt.Errorf("%w: %q", tracer.ErrInvalidFace, name)
		}
		faces[i] = face
	}
	return faces, nil
}
