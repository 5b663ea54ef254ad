package renderer

import (
	"math"
	"sync"
	"testing"
	"time"

	"github.com/glowtrace/livetracer/pkg/core"
)

func TestPixelStatsAccumulation(t *testing.T) {
	var ps PixelStats

	if got := ps.Color(); got != (core.Vec3{}) {
		t.Errorf("Empty pixel should average to black, got %v", got)
	}

	ps.AddSample(core.NewVec3(1, 0, 0))
	ps.AddSample(core.NewVec3(0, 1, 0))

	if ps.SampleCount != 2 {
		t.Errorf("Expected 2 samples, got %d", ps.SampleCount)
	}
	want := core.NewVec3(0.5, 0.5, 0)
	if got := ps.Color(); !got.Subtract(want).NearZero() {
		t.Errorf("Expected average %v, got %v", want, got)
	}
}

func TestFramebufferMergeAndSnapshot(t *testing.T) {
	fb := NewFramebuffer(2, 2, 4)

	// One sample on the top row only
	fb.MergeRow(0, 0, []core.Vec3{
		core.NewVec3(0.25, 0.25, 0.25),
		core.NewVec3(1, 1, 1),
	})

	snapshot := fb.Snapshot()
	stats := snapshot.Stats

	if stats.TotalPixels != 4 {
		t.Errorf("Expected 4 total pixels, got %d", stats.TotalPixels)
	}
	if stats.TotalSamples != 2 {
		t.Errorf("Expected 2 total samples, got %d", stats.TotalSamples)
	}
	if stats.MinSamples != 0 || stats.MaxSamples != 1 {
		t.Errorf("Expected sample range [0,1], got [%d,%d]", stats.MinSamples, stats.MaxSamples)
	}
	if stats.AverageSamples != 0.5 {
		t.Errorf("Expected average 0.5 samples/pixel, got %g", stats.AverageSamples)
	}
	if stats.Completed || stats.Cancelled {
		t.Error("In-progress snapshot should not report completion")
	}

	// Gamma 2: linear 0.25 displays as sqrt(0.25) = 0.5
	wantFirst := uint8(255.999 * math.Sqrt(0.25))
	if snapshot.Pixels[0] != wantFirst {
		t.Errorf("Expected gamma-corrected value %d, got %d", wantFirst, snapshot.Pixels[0])
	}
	if snapshot.Pixels[3] != 255 {
		t.Errorf("Expected white pixel to clamp to 255, got %d", snapshot.Pixels[3])
	}
	// Unsampled bottom row stays black
	for i := 6; i < 12; i++ {
		if snapshot.Pixels[i] != 0 {
			t.Errorf("Unsampled pixel channel %d should be 0, got %d", i, snapshot.Pixels[i])
		}
	}
}

func TestFramebufferCompletionOneWay(t *testing.T) {
	fb := NewFramebuffer(1, 1, 1)

	if fb.Completed() {
		t.Error("New framebuffer should not be complete")
	}

	fb.MarkComplete(true)
	fb.MarkComplete(false) // Must not overwrite the cancellation state

	if !fb.Completed() {
		t.Error("Framebuffer should be complete after MarkComplete")
	}
	stats := fb.Snapshot().Stats
	if !stats.Completed || !stats.Cancelled {
		t.Errorf("Expected completed+cancelled, got completed=%v cancelled=%v",
			stats.Completed, stats.Cancelled)
	}
}

func TestFramebufferSnapshotIdempotentAfterComplete(t *testing.T) {
	fb := NewFramebuffer(3, 2, 2)
	for y := 0; y < 2; y++ {
		fb.MergeRow(y, 0, []core.Vec3{
			core.NewVec3(0.1, 0.2, 0.3),
			core.NewVec3(0.4, 0.5, 0.6),
			core.NewVec3(0.7, 0.8, 0.9),
		})
	}
	fb.MarkComplete(false)

	a := fb.Snapshot()
	b := fb.Snapshot()

	for i := range a.Pixels {
		if a.Pixels[i] != b.Pixels[i] {
			t.Fatalf("Post-completion snapshots differ at byte %d: %d vs %d",
				i, a.Pixels[i], b.Pixels[i])
		}
	}
	if a.Stats.TotalSamples != b.Stats.TotalSamples {
		t.Errorf("Post-completion sample counts differ: %d vs %d",
			a.Stats.TotalSamples, b.Stats.TotalSamples)
	}
}

func TestFramebufferConcurrentReaders(t *testing.T) {
	const width, height, passes = 16, 8, 50
	fb := NewFramebuffer(width, height, passes)

	done := make(chan struct{})
	go func() {
		defer close(done)
		row := make([]core.Vec3, width)
		for i := range row {
			row[i] = core.NewVec3(0.5, 0.5, 0.5)
		}
		for pass := 0; pass < passes; pass++ {
			for y := 0; y < height; y++ {
				fb.MergeRow(y, 0, row)
			}
		}
		fb.MarkComplete(false)
	}()

	// Each reader polls snapshots while the writer runs; sample counts
	// must never go backwards.
	var wg sync.WaitGroup
	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var last int64
			for !fb.Completed() {
				stats := fb.Snapshot().Stats
				if stats.TotalSamples < last {
					t.Errorf("Sample count went backwards: %d after %d", stats.TotalSamples, last)
					return
				}
				if stats.MaxSamples > passes {
					t.Errorf("Sample count exceeded target: %d > %d", stats.MaxSamples, passes)
					return
				}
				last = stats.TotalSamples
				time.Sleep(time.Millisecond)
			}
		}()
	}

	<-done
	wg.Wait()

	stats := fb.Snapshot().Stats
	if stats.TotalSamples != int64(width*height*passes) {
		t.Errorf("Expected %d total samples, got %d", width*height*passes, stats.TotalSamples)
	}
	if stats.MinSamples != passes || stats.MaxSamples != passes {
		t.Errorf("Expected uniform %d samples/pixel, got [%d,%d]",
			passes, stats.MinSamples, stats.MaxSamples)
	}
}

func TestSnapshotToImage(t *testing.T) {
	fb := NewFramebuffer(2, 1, 1)
	fb.MergeRow(0, 0, []core.Vec3{
		core.NewVec3(1, 0, 0),
		core.NewVec3(0, 0, 1),
	})

	img := fb.Snapshot().ToImage()

	if img.Bounds().Dx() != 2 || img.Bounds().Dy() != 1 {
		t.Fatalf("Unexpected image bounds: %v", img.Bounds())
	}
	left := img.RGBAAt(0, 0)
	right := img.RGBAAt(1, 0)
	if left.R != 255 || left.G != 0 || left.B != 0 || left.A != 255 {
		t.Errorf("Expected pure red at (0,0), got %v", left)
	}
	if right.R != 0 || right.B != 255 {
		t.Errorf("Expected pure blue at (1,0), got %v", right)
	}
}
