package renderer

import (
	"image"
	"image/color"
	"sync"
	"sync/atomic"
	"time"

	"github.com/glowtrace/livetracer/pkg/core"
)

// Framebuffer is the shared progressive image buffer: a grid of per-pixel
// accumulators written by the render workers and read concurrently by any
// number of viewers. Workers merge whole rows of samples under a per-row
// mutex; readers copy rows out under the same locks, so a snapshot never
// observes a pixel between its sum and count updates.
//
// State machine per render run: Rendering → Complete. Once complete the
// pixel data never changes again.
type Framebuffer struct {
	width, height int
	targetSamples int
	pixels        []PixelStats // Row-major, y=0 is the top row
	rowLocks      []sync.Mutex
	startTime     time.Time
	completed     atomic.Bool
	cancelled     atomic.Bool
}

// NewFramebuffer creates a zero-initialized buffer for one render run
func NewFramebuffer(width, height, targetSamples int) *Framebuffer {
	return &Framebuffer{
		width:         width,
		height:        height,
		targetSamples: targetSamples,
		pixels:        make([]PixelStats, width*height),
		rowLocks:      make([]sync.Mutex, height),
		startTime:     time.Now(),
	}
}

// Width returns the image width in pixels
func (fb *Framebuffer) Width() int { return fb.width }

// Height returns the image height in pixels
func (fb *Framebuffer) Height() int { return fb.height }

// TargetSamples returns the configured samples-per-pixel target
func (fb *Framebuffer) TargetSamples() int { return fb.targetSamples }

// MergeRow merges one sample per pixel into the row y starting at column x0.
// The critical section covers only the accumulate loop; samples themselves
// are computed outside the lock by the caller.
func (fb *Framebuffer) MergeRow(y, x0 int, samples []core.Vec3) {
	fb.rowLocks[y].Lock()
	base := y*fb.width + x0
	for i, sample := range samples {
		fb.pixels[base+i].AddSample(sample)
	}
	fb.rowLocks[y].Unlock()
}

// MarkComplete transitions the buffer to its final state. The cancelled
// flag records whether the sample target was abandoned early; completion
// is one-way and repeated calls keep the first cancellation state.
func (fb *Framebuffer) MarkComplete(cancelled bool) {
	if fb.completed.CompareAndSwap(false, true) {
		fb.cancelled.Store(cancelled)
	}
}

// Completed reports whether the render has reached its final state
func (fb *Framebuffer) Completed() bool {
	return fb.completed.Load()
}

// Snapshot is a point-in-time, internally consistent view of the image:
// gamma-corrected 8-bit RGB in row-major order plus render statistics.
type Snapshot struct {
	Width  int
	Height int
	Pixels []uint8 // RGB triples, row-major, top row first
	Stats  RenderStats
}

// Snapshot copies the current image state out of the buffer. Each row is
// copied under its lock and converted to display space afterwards, so the
// writer is never blocked for longer than a row memcpy. Successive
// snapshots by the same reader see non-decreasing sample counts; two
// snapshots taken after completion are identical.
func (fb *Framebuffer) Snapshot() *Snapshot {
	// Read the completion state before copying pixels: if the buffer was
	// already complete, the copied pixels are guaranteed final.
	completed := fb.completed.Load()
	cancelled := fb.cancelled.Load()
	elapsed := time.Since(fb.startTime)

	local := make([]PixelStats, fb.width*fb.height)
	for y := 0; y < fb.height; y++ {
		fb.rowLocks[y].Lock()
		copy(local[y*fb.width:(y+1)*fb.width], fb.pixels[y*fb.width:(y+1)*fb.width])
		fb.rowLocks[y].Unlock()
	}

	snapshot := &Snapshot{
		Width:  fb.width,
		Height: fb.height,
		Pixels: make([]uint8, 3*fb.width*fb.height),
		Stats: RenderStats{
			TotalPixels:   fb.width * fb.height,
			MinSamples:    fb.targetSamples,
			TargetSamples: fb.targetSamples,
			Elapsed:       elapsed,
			Completed:     completed,
			Cancelled:     cancelled,
		},
	}

	for i := range local {
		px := &local[i]

		snapshot.Stats.TotalSamples += int64(px.SampleCount)
		snapshot.Stats.MinSamples = min(snapshot.Stats.MinSamples, px.SampleCount)
		snapshot.Stats.MaxSamples = max(snapshot.Stats.MaxSamples, px.SampleCount)

		rgb := px.Color().GammaCorrect().Clamp(0, 1)
		snapshot.Pixels[3*i+0] = uint8(255.999 * rgb.X)
		snapshot.Pixels[3*i+1] = uint8(255.999 * rgb.Y)
		snapshot.Pixels[3*i+2] = uint8(255.999 * rgb.Z)
	}

	snapshot.Stats.AverageSamples = float64(snapshot.Stats.TotalSamples) /
		float64(snapshot.Stats.TotalPixels)

	return snapshot
}

// ToImage converts the snapshot to an RGBA image for PNG encoding or display
func (s *Snapshot) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, s.Width, s.Height))
	for y := 0; y < s.Height; y++ {
		for x := 0; x < s.Width; x++ {
			i := y*s.Width + x
			img.SetRGBA(x, y, color.RGBA{
				R: s.Pixels[3*i+0],
				G: s.Pixels[3*i+1],
				B: s.Pixels[3*i+2],
				A: 255,
			})
		}
	}
	return img
}
