package cmd

import (
	"bytes"
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"

	"github.com/glowtrace/livetracer/pkg/renderer"
)

// RenderFrame renders a scene to completion and saves it as a PNG.
func RenderFrame(ctx *cli.Context) error {
	setupLogging(ctx)

	sc, err := sceneFromFlags(ctx)
	if err != nil {
		return err
	}

	pr, err := renderer.NewProgressiveRenderer(sc, configFromFlags(ctx), logger)
	if err != nil {
		return err
	}

	renderCtx, cancel := signalContext()
	defer cancel()

	snapshot := pr.Render(renderCtx)
	displayRenderStats(snapshot.Stats)

	return savePNG(snapshot, ctx.String("out"))
}

func displayRenderStats(stats renderer.RenderStats) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Pixels", "Samples", "Avg/pixel", "Min", "Max", "Elapsed"})
	table.Append([]string{
		fmt.Sprintf("%d", stats.TotalPixels),
		fmt.Sprintf("%d", stats.TotalSamples),
		fmt.Sprintf("%.1f", stats.AverageSamples),
		fmt.Sprintf("%d", stats.MinSamples),
		fmt.Sprintf("%d", stats.MaxSamples),
		fmt.Sprintf("%s", stats.Elapsed),
	})
	table.Render()
	logger.Infof("render statistics\n%s", buf.String())
}
