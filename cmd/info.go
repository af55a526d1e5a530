package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
	"gonum.org/v1/gonum/floats"

	"github.com/voxray/voxray/scene"
)

// Summarize a scene checkpoint.
func Info(ctx *cli.Context) error {
	setupLogging(ctx)

	if ctx.NArg() != 1 {
		return errors.New("missing checkpoint argument")
	}

	path := ctx.Args().First()
	scn, err := scene.Load(path)
	if err != nil {
		return err
	}
	fi, err := os.Stat(path)
	if err != nil {
		return err
	}

	res := scn.Res()
	corners := (res[0] + 1) * (res[1] + 1) * (res[2] + 1)
	density := scn.Density.Data.Elements
	color := scn.Color.Data.Elements

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Field", "Value"})
	table.Append([]string{"File", path})
	table.Append([]string{"Size", humanize.IBytes(uint64(fi.Size()))})
	table.Append([]string{"Resolution", fmt.Sprintf("%dx%dx%d", res[0], res[1], res[2])})
	table.Append([]string{"Bounds min", fmt.Sprintf("(%g, %g, %g)", scn.Bounds.Min.X, scn.Bounds.Min.Y, scn.Bounds.Min.Z)})
	table.Append([]string{"Bounds max", fmt.Sprintf("(%g, %g, %g)", scn.Bounds.Max.X, scn.Bounds.Max.Y, scn.Bounds.Max.Z)})
	table.Append([]string{"Corners", humanize.Comma(int64(corners))})
	table.Append([]string{"Density range", fmt.Sprintf("%.4f to %.4f", floats.Min(density), floats.Max(density))})
	table.Append([]string{"Color range", fmt.Sprintf("%.4f to %.4f", floats.Min(color), floats.Max(color))})

	table.Render()
	logger.Noticef("checkpoint information\n%s", buf.String())
	return nil
}
