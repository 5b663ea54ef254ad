package cmd

import (
	"github.com/urfave/cli"

	"github.com/glowtrace/livetracer/log"
)

var logger = log.New("livetracer")

func setupLogging(ctx *cli.Context) {
	if ctx.GlobalBool("q") {
		log.SetLevel(log.Warning)
	}

	if ctx.GlobalBool("v") {
		log.SetLevel(log.Debug)
	}
}
