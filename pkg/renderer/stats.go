package renderer

import (
	"time"

	"github.com/glowtrace/livetracer/pkg/core"
)

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalPixels    int           // Total number of pixels in the image
	TotalSamples   int64         // Total number of samples taken so far
	AverageSamples float64       // Average samples per pixel
	MinSamples     int           // Minimum samples taken by any pixel
	MaxSamples     int           // Maximum samples taken by any pixel
	TargetSamples  int           // Configured samples-per-pixel target
	Elapsed        time.Duration // Wall-clock time since the render started
	Completed      bool          // The buffer reached its final state
	Cancelled      bool          // Completed early due to cancellation
}

// PixelStats is the accumulator for a single pixel: a running sum of
// linear-space color samples plus the sample count. The count only
// increases and never resets during a render.
type PixelStats struct {
	ColorSum    core.Vec3
	SampleCount int
}

// AddSample adds a linear-space color sample to the accumulator
func (ps *PixelStats) AddSample(color core.Vec3) {
	ps.ColorSum = ps.ColorSum.Add(color)
	ps.SampleCount++
}

// Color returns the current average color for this pixel in linear space
func (ps *PixelStats) Color() core.Vec3 {
	if ps.SampleCount == 0 {
		return core.Vec3{}
	}
	return ps.ColorSum.Multiply(1.0 / float64(ps.SampleCount))
}
