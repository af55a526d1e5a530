package cmd

import (
	"bytes"
	"fmt"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"

	"github.com/voxray/voxray/renderer"
)

// Render orthographic face views of a scene to PNG files.
func RenderViews(ctx *cli.Context) error {
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

	faces, err := faceList(ctx)
	if err != nil {
		return err
	}

	outDir := ctx.String("out-dir")
	var stats renderer.FrameStats
	for _, face := range faces {
		frame, err := rend.RenderFace(face, ctx.Bool("jitter"))
		if err != nil {
			return err
		}

		path := filepath.Join(outDir, fmt.Sprintf("voxray_%s.png", face))
		if err = frame.WritePNG(path); err != nil {
			return err
		}
		logger.Noticef("wrote %s", path)
		stats.Add(frame)
	}
	displayFrameStats(stats)

	if ctx.Bool("slices") {
		return writeAlphaSlices(rend, outDir)
	}
	return nil
}

// Display per-face render statistics.
func displayFrameStats(stats renderer.FrameStats) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Face", "Resolution", "Rays", "Samples", "Render time"})
	for _, stat := range stats.Faces {
		table.Append([]string{
			string(stat.Face),
			fmt.Sprintf("%dx%d", stat.W, stat.H),
			fmt.Sprintf("%d", stat.Rays),
			humanize.Comma(int64(stat.Samples)),
			stat.RenderTime.String(),
		})
	}
	table.SetFooter([]string{"", "", "", "TOTAL", stats.RenderTime.String()})

	table.Render()
	logger.Noticef("frame statistics\n%s", buf.String())
}

// Write a mid-grid opacity slice for each axis.
func writeAlphaSlices(rend *renderer.Renderer, dir string) error {
	field := rend.AlphaField()
	res := rend.Scene().Res()
	for axis := 0; axis < 3; axis++ {
		img, err := renderer.AlphaSlice(field, axis, res[axis]/2)
		if err != nil {
			return err
		}

		path := filepath.Join(dir, fmt.Sprintf("alpha_%c.png", 'x'+axis))
		if err = renderer.WriteGrayPNG(img, path); err != nil {
			return err
		}
		logger.Noticef("wrote %s", path)
	}
	return nil
}
