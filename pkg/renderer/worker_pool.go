package renderer

import (
	"context"
	"runtime"
	"sync"

	"github.com/glowtrace/livetracer/pkg/core"
)

// TileTask asks a worker to add one sample to every pixel of a tile
type TileTask struct {
	Tile *Tile
	Pass int
}

// TileResult reports a finished (or cancelled) tile task
type TileResult struct {
	TileID    int
	Cancelled bool
}

// WorkerPool renders tile tasks in parallel. Workers write disjoint tile
// bounds into the shared framebuffer through its row merge operation, and
// each carries its own raytracer so no state is shared between them.
type WorkerPool struct {
	scene      Scene
	config     Config
	fb         *Framebuffer
	tasks      chan TileTask
	results    chan TileResult
	numWorkers int
	wg         sync.WaitGroup
}

// NewWorkerPool creates a worker pool sized for the configured image
func NewWorkerPool(scene Scene, config Config, fb *Framebuffer) *WorkerPool {
	numWorkers := config.NumWorkers
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	tilesX := (config.Width + config.TileSize - 1) / config.TileSize
	tilesY := (config.Height + config.TileSize - 1) / config.TileSize
	maxTiles := tilesX * tilesY

	return &WorkerPool{
		scene:      scene,
		config:     config,
		fb:         fb,
		tasks:      make(chan TileTask, maxTiles),
		results:    make(chan TileResult, maxTiles),
		numWorkers: numWorkers,
	}
}

// Start launches the workers; they render until Stop closes the task queue
// or the context is cancelled.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.numWorkers; i++ {
		wp.wg.Add(1)
		go wp.run(ctx)
	}
}

// Stop drains the workers and closes the result queue
func (wp *WorkerPool) Stop() {
	close(wp.tasks)
	wp.wg.Wait()
	close(wp.results)
}

// Submit queues a tile task
func (wp *WorkerPool) Submit(task TileTask) {
	wp.tasks <- task
}

// Result retrieves one completed tile result
func (wp *WorkerPool) Result() (TileResult, bool) {
	result, ok := <-wp.results
	return result, ok
}

// NumWorkers returns the number of workers in the pool
func (wp *WorkerPool) NumWorkers() int {
	return wp.numWorkers
}

func (wp *WorkerPool) run(ctx context.Context) {
	defer wp.wg.Done()

	raytracer := NewRaytracer(wp.scene, wp.config.Width, wp.config.Height, wp.config.MaxDepth)
	scratch := make([]core.Vec3, 0, wp.config.TileSize)

	for task := range wp.tasks {
		wp.results <- wp.renderTile(ctx, raytracer, task, scratch)
	}
}

// renderTile adds one sample per pixel across the tile bounds. Samples for
// a row are computed into worker-local scratch first and merged into the
// framebuffer in a single short critical section, so a concurrent snapshot
// never sees a half-updated pixel. Cancellation is honored between rows:
// the in-flight row always completes, keeping the buffer coherent.
func (wp *WorkerPool) renderTile(ctx context.Context, raytracer *Raytracer, task TileTask, scratch []core.Vec3) TileResult {
	bounds := task.Tile.Bounds

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		select {
		case <-ctx.Done():
			return TileResult{TileID: task.Tile.ID, Cancelled: true}
		default:
		}

		row := scratch[:0]
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			row = append(row, raytracer.SamplePixel(x, y, task.Tile.Random))
		}
		wp.fb.MergeRow(y, bounds.Min.X, row)
	}

	return TileResult{TileID: task.Tile.ID}
}
