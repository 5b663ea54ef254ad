package cmd

import (
	"github.com/urfave/cli"

	"github.com/glowtrace/livetracer/pkg/display"
	"github.com/glowtrace/livetracer/pkg/renderer"
)

// View renders in the background and follows the progress in a desktop
// window. Closing the window cancels the render.
func View(ctx *cli.Context) error {
	setupLogging(ctx)

	sc, err := sceneFromFlags(ctx)
	if err != nil {
		return err
	}

	pr, err := renderer.NewProgressiveRenderer(sc, configFromFlags(ctx), logger)
	if err != nil {
		return err
	}

	runCtx, cancel := signalContext()
	defer cancel()

	renderDone := make(chan *renderer.Snapshot, 1)
	go func() {
		renderDone <- pr.Render(runCtx)
	}()

	// The event loop must own the main goroutine; Run blocks until the
	// window closes.
	viewer := display.NewViewer(pr.Framebuffer(), "livetracer", cancel)
	viewer.Run(runCtx)

	snapshot := <-renderDone
	if out := ctx.String("out"); out != "" {
		return savePNG(snapshot, out)
	}
	return nil
}
