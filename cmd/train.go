package cmd

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"

	"github.com/voxray/voxray/optim"
	"github.com/voxray/voxray/scene"
)

// Fit a fresh scene to synthetic target views and write a checkpoint.
func Train(ctx *cli.Context) error {
	setupLogging(ctx)

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	target, err := scene.TargetScene(cfg)
	if err != nil {
		return err
	}

	tr, err := optim.NewTrainer(cfg, target, logger)
	if err != nil {
		return err
	}

	res := cfg.Grid.Resolution
	logger.Noticef("fitting a %dx%dx%d scene over %d iterations", res[0], res[1], res[2], cfg.Train.Iterations)
	start := time.Now()
	history, err := tr.Run()
	if err != nil {
		return err
	}
	logger.Noticef("fitted scene in %s", time.Since(start).Round(time.Millisecond))

	mse, err := tr.Eval()
	if err != nil {
		return err
	}
	logger.Noticef("final fit: mse %.6f, psnr %.2f dB", mse, optim.PSNR(mse))
	displayProgress(history)

	out := ctx.String("out")
	if err = tr.Scene().Save(out); err != nil {
		return err
	}
	fi, err := os.Stat(out)
	if err != nil {
		return err
	}
	logger.Noticef("wrote checkpoint %s (%s)", out, humanize.IBytes(uint64(fi.Size())))
	return nil
}

// Display the logged loss trajectory.
func displayProgress(history []optim.Progress) {
	if len(history) == 0 {
		return
	}

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Iteration", "MSE", "PSNR"})
	for _, p := range history {
		table.Append([]string{
			fmt.Sprintf("%d", p.Iteration),
			fmt.Sprintf("%.6f", p.MSE),
			fmt.Sprintf("%.2f dB", p.PSNR),
		})
	}

	table.Render()
	logger.Noticef("loss trajectory\n%s", buf.String())
}
