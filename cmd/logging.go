package cmd

import (
	"github.com/urfave/cli"

	"github.com/voxray/voxray/log"
)

// Shared by every subcommand; stays at the default Notice level unless
// raised by the global verbosity flags.
var logger = log.New("voxray")

func setupLogging(ctx *cli.Context) {
	switch {
	case ctx.GlobalBool("vv"):
		log.SetLevel(log.Debug)
	case ctx.GlobalBool("v"):
		log.SetLevel(log.Info)
	}
}
