package cmd

import (
	"context"
	"fmt"
	"image/png"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli"

	"github.com/glowtrace/livetracer/pkg/renderer"
	"github.com/glowtrace/livetracer/pkg/scene"
)

// configFromFlags builds a render configuration from the common flags
func configFromFlags(ctx *cli.Context) renderer.Config {
	config := renderer.DefaultConfig()
	config.Width = ctx.Int("width")
	config.Height = ctx.Int("height")
	config.SamplesPerPixel = ctx.Int("spp")
	config.MaxDepth = ctx.Int("max-depth")
	config.TileSize = ctx.Int("tile-size")
	config.NumWorkers = ctx.Int("workers")
	config.Seed = ctx.Int64("seed")
	return config
}

// sceneFromFlags selects a built-in scene by name
func sceneFromFlags(ctx *cli.Context) (*scene.Scene, error) {
	name := ctx.String("scene")
	switch name {
	case "default":
		return scene.NewDefaultScene(), nil
	case "cover":
		return scene.NewCoverScene(ctx.Int64("seed")), nil
	default:
		return nil, fmt.Errorf("unknown scene %q (valid: default, cover)", name)
	}
}

// signalContext returns a context that is cancelled on SIGINT or SIGTERM,
// so a render in flight stops cleanly and partial output still gets saved.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// savePNG writes a snapshot to disk
func savePNG(snapshot *renderer.Snapshot, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := png.Encode(f, snapshot.ToImage()); err != nil {
		return err
	}
	logger.Infof("saved %s", path)
	return nil
}
