package renderer

import (
	"context"
	"fmt"
	"image"
	"math/rand"
	"time"

	"github.com/glowtrace/livetracer/pkg/core"
)

// Config contains configuration for a progressive render run
type Config struct {
	Width           int   // Image width in pixels
	Height          int   // Image height in pixels
	SamplesPerPixel int   // Target samples per pixel
	MaxDepth        int   // Maximum ray bounce depth
	TileSize        int   // Size of each tile (64 recommended; 0 = default)
	NumWorkers      int   // Number of parallel workers (0 = use CPU count)
	Seed            int64 // Base seed for the per-tile random streams
}

// DefaultConfig returns sensible default values
func DefaultConfig() Config {
	return Config{
		Width:           400,
		Height:          200,
		SamplesPerPixel: 100,
		MaxDepth:        50,
		TileSize:        64,
		NumWorkers:      0,
		Seed:            42,
	}
}

// Validate rejects configurations that cannot produce a render. These are
// the only user-facing errors; everything past this point has a defined
// numerical fallback instead.
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("resolution must be positive, got %dx%d", c.Width, c.Height)
	}
	if c.SamplesPerPixel <= 0 {
		return fmt.Errorf("samples per pixel must be positive, got %d", c.SamplesPerPixel)
	}
	if c.MaxDepth <= 0 {
		return fmt.Errorf("max bounce depth must be positive, got %d", c.MaxDepth)
	}
	return nil
}

// ProgressiveRenderer owns a framebuffer and drives the render loop: every
// pass adds one sample to every pixel, so the shared image sharpens while
// viewers poll it. The renderer goroutine is the buffer's sole writer.
type ProgressiveRenderer struct {
	scene  Scene
	config Config
	fb     *Framebuffer
	tiles  []*Tile
	pool   *WorkerPool
	logger core.Logger
}

// NewProgressiveRenderer validates the configuration and prepares a renderer
func NewProgressiveRenderer(scene Scene, config Config, logger core.Logger) (*ProgressiveRenderer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if config.TileSize <= 0 {
		config.TileSize = 64
	}

	fb := NewFramebuffer(config.Width, config.Height, config.SamplesPerPixel)

	return &ProgressiveRenderer{
		scene:  scene,
		config: config,
		fb:     fb,
		tiles:  NewTileGrid(config.Width, config.Height, config.TileSize, config.Seed),
		pool:   NewWorkerPool(scene, config, fb),
		logger: logger,
	}, nil
}

// Framebuffer exposes the shared image buffer for viewer consumers.
// Viewers only ever call Snapshot on it.
func (pr *ProgressiveRenderer) Framebuffer() *Framebuffer {
	return pr.fb
}

// Render runs passes until every pixel reaches the sample target or the
// context is cancelled, then marks the buffer complete and returns the
// final snapshot. Cancellation lets in-flight rows finish, so the final
// image has no torn pixels; it is reported through the snapshot's
// Cancelled statistic rather than an error.
func (pr *ProgressiveRenderer) Render(ctx context.Context) *Snapshot {
	pr.pool.Start(ctx)
	defer pr.pool.Stop()

	pr.logger.Infof("rendering %dx%d at %d spp with %d workers",
		pr.config.Width, pr.config.Height, pr.config.SamplesPerPixel, pr.pool.NumWorkers())

	cancelled := false
	for pass := 1; pass <= pr.config.SamplesPerPixel && !cancelled; pass++ {
		for _, tile := range pr.tiles {
			pr.pool.Submit(TileTask{Tile: tile, Pass: pass})
		}

		// Collect one result per submitted tile; workers that observed the
		// cancellation still report, so this never deadlocks.
		for range pr.tiles {
			result, ok := pr.pool.Result()
			if !ok || result.Cancelled {
				cancelled = true
			}
		}

		if ctx.Err() != nil {
			cancelled = true
		}

		if pass%10 == 0 || pass == pr.config.SamplesPerPixel {
			pr.logger.Debugf("pass %d/%d complete", pass, pr.config.SamplesPerPixel)
		}
	}

	pr.fb.MarkComplete(cancelled)

	snapshot := pr.fb.Snapshot()
	if cancelled {
		pr.logger.Infof("render cancelled after %v (%.1f avg samples/pixel)",
			snapshot.Stats.Elapsed.Round(time.Millisecond), snapshot.Stats.AverageSamples)
	} else {
		pr.logger.Infof("render complete in %v (%d samples/pixel)",
			snapshot.Stats.Elapsed.Round(time.Millisecond), snapshot.Stats.MaxSamples)
	}
	return snapshot
}

// Tile represents a rectangular region of the image to be rendered
type Tile struct {
	ID     int             // Unique tile identifier
	Bounds image.Rectangle // Pixel bounds (x0,y0,x1,y1)
	Random *rand.Rand      // Tile-local random stream, never shared
}

// NewTile creates a new tile with the specified bounds. Each tile owns an
// independent generator seeded from its ID so parallel workers never
// contend on randomness and runs are reproducible for a given seed.
func NewTile(id int, bounds image.Rectangle, baseSeed int64) *Tile {
	return &Tile{
		ID:     id,
		Bounds: bounds,
		Random: rand.New(rand.NewSource(baseSeed + int64(id))),
	}
}

// NewTileGrid creates a grid of tiles covering the entire image
func NewTileGrid(width, height, tileSize int, baseSeed int64) []*Tile {
	var tiles []*Tile
	tileID := 0

	tilesX := (width + tileSize - 1) / tileSize // Ceiling division
	tilesY := (height + tileSize - 1) / tileSize

	for tileY := 0; tileY < tilesY; tileY++ {
		for tileX := 0; tileX < tilesX; tileX++ {
			x0 := tileX * tileSize
			y0 := tileY * tileSize
			x1 := min(x0+tileSize, width) // Don't exceed image bounds
			y1 := min(y0+tileSize, height)

			tiles = append(tiles, NewTile(tileID, image.Rect(x0, y0, x1, y1), baseSeed))
			tileID++
		}
	}

	return tiles
}
