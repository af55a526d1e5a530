package cmd

import (
	"runtime"

	"github.com/urfave/cli"

	"github.com/voxray/voxray/renderer"
)

// Open an interactive window that renders the scene face by face.
func View(ctx *cli.Context) error {
	setupLogging(ctx)

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	scn, err := loadScene(ctx, cfg)
	if err != nil {
		return err
	}

	rend, err := renderer.New(scn, rendererOptions(cfg))
	if err != nil {
		return err
	}

	// GL and glfw calls must stay on the main thread.
	runtime.LockOSThread()
	viewer, err := renderer.NewInteractive(rend, ctx.Int("scale"))
	if err != nil {
		return err
	}
	defer viewer.Close()

	return viewer.Run()
}
