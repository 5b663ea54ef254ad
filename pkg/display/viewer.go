// Package display shows a live render in a desktop window. The viewer is a
// read-only consumer: it polls the shared framebuffer for snapshots on a
// timer and blits them into a canvas, never touching the render itself.
package display

import (
	"context"
	"fmt"
	"image/draw"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/glowtrace/livetracer/pkg/renderer"
)

// refreshInterval is how often the viewer takes a fresh snapshot
const refreshInterval = 250 * time.Millisecond

// Viewer is a desktop window following one framebuffer
type Viewer struct {
	fb     *renderer.Framebuffer
	title  string
	cancel context.CancelFunc
}

// NewViewer creates a viewer for the given framebuffer. The cancel function
// is invoked when the window closes, so shutting the window also stops the
// render it was watching.
func NewViewer(fb *renderer.Framebuffer, title string, cancel context.CancelFunc) *Viewer {
	return &Viewer{fb: fb, title: title, cancel: cancel}
}

// Run opens the window and blocks until it is closed. Must be called from
// the main goroutine; the render runs elsewhere.
func (v *Viewer) Run(ctx context.Context) {
	a := app.New()
	w := a.NewWindow(v.title)

	img := v.fb.Snapshot().ToImage()
	imgCanvas := canvas.NewImageFromImage(img)
	imgCanvas.FillMode = canvas.ImageFillContain
	imgCanvas.ScaleMode = canvas.ImageScalePixels
	imgCanvas.SetMinSize(fyne.NewSize(float32(v.fb.Width()), float32(v.fb.Height())))

	status := widget.NewLabel("starting...")
	w.SetContent(container.NewBorder(nil, status, nil, nil, imgCanvas))
	w.SetCloseIntercept(func() {
		v.cancel()
		w.Close()
	})

	go func() {
		ticker := time.NewTicker(refreshInterval)
		defer ticker.Stop()

		for {
			snapshot := v.fb.Snapshot()

			// Blit into the image the canvas already holds so Refresh
			// picks it up without reallocating.
			draw.Draw(img, img.Bounds(), snapshot.ToImage(), img.Bounds().Min, draw.Src)
			imgCanvas.Refresh()
			status.SetText(statusLine(snapshot.Stats))

			if snapshot.Stats.Completed {
				return
			}

			select {
			case <-ticker.C:
			case <-ctx.Done():
				return
			}
		}
	}()

	w.ShowAndRun()
}

func statusLine(stats renderer.RenderStats) string {
	switch {
	case stats.Cancelled:
		return fmt.Sprintf("cancelled at %.1f samples/pixel", stats.AverageSamples)
	case stats.Completed:
		return fmt.Sprintf("complete: %d samples/pixel in %v",
			stats.MaxSamples, stats.Elapsed.Round(time.Second))
	default:
		return fmt.Sprintf("rendering: %.1f / %d samples/pixel",
			stats.AverageSamples, stats.TargetSamples)
	}
}
