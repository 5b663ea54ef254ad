package cmd

import (
	"errors"
	"net/http"

	"github.com/urfave/cli"

	"github.com/glowtrace/livetracer/pkg/renderer"
	"github.com/glowtrace/livetracer/web/server"
)

// Serve renders in the background while exposing the progressive image
// over HTTP and websocket. The render and the server share one
// framebuffer; interrupting the process stops both.
func Serve(ctx *cli.Context) error {
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

	srv := server.NewServer(pr.Framebuffer(), ctx.String("static"), logger)
	if err := srv.ListenAndServe(runCtx, ctx.Int("port")); err != nil && !errors.Is(err, http.ErrServerClosed) {
		cancel()
		<-renderDone
		return err
	}

	// Server shut down on interrupt; wait for the render to drain and
	// save whatever it produced.
	snapshot := <-renderDone
	if out := ctx.String("out"); out != "" {
		return savePNG(snapshot, out)
	}
	return nil
}
