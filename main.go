package main

import (
	"os"

	"github.com/urfave/cli"

	"github.com/voxray/voxray/cmd"
)

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "voxray"
	app.Usage = "differentiable voxel volume renderer"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "train",
			Usage: "fit a scene to synthetic target views",
			Description: `
Render orthographic views of the synthetic target scene, then fit a fresh
density and color grid against them with stochastic gradient descent.

The fitted scene is written to a compressed checkpoint which can be supplied
as an argument to the render, view and info commands.`,
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "config, c",
					Usage: "TOML configuration file",
				},
				cli.StringFlag{
					Name:  "out, o",
					Value: "scene.vxr",
					Usage: "checkpoint filename for the fitted scene",
				},
			},
			Action: cmd.Train,
		},
		{
			Name:      "render",
			Usage:     "render orthographic face views to png",
			ArgsUsage: "[checkpoint.vxr]",
			Description: `
Render the six orthographic face views of a checkpointed scene to PNG files.
Without a checkpoint argument the synthetic target scene is rendered instead.`,
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "config, c",
					Usage: "TOML configuration file",
				},
				cli.StringSliceFlag{
					Name:  "face, f",
					Value: &cli.StringSlice{},
					Usage: "face to render; repeat for several (default: all six)",
				},
				cli.StringFlag{
					Name:  "out-dir, o",
					Value: ".",
					Usage: "directory for rendered images",
				},
				cli.BoolFlag{
					Name:  "jitter",
					Usage: "jitter depth samples",
				},
				cli.BoolFlag{
					Name:  "slices",
					Usage: "also write mid-grid opacity slices",
				},
			},
			Action: cmd.RenderViews,
		},
		{
			Name:      "view",
			Usage:     "inspect a scene in an interactive window",
			ArgsUsage: "[checkpoint.vxr]",
			Description: `
Open a window that renders one face view at a time. The arrow keys cycle
through the six faces and J toggles depth jitter.`,
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "config, c",
					Usage: "TOML configuration file",
				},
				cli.IntFlag{
					Name:  "scale",
					Value: 4,
					Usage: "window pixels per rendered ray",
				},
			},
			Action: cmd.View,
		},
		{
			Name:      "info",
			Usage:     "summarize a scene checkpoint",
			ArgsUsage: "checkpoint.vxr",
			Action:    cmd.Info,
		},
	}

	app.Run(os.Args)
}
