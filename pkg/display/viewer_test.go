package display

import (
	"strings"
	"testing"
	"time"

	"github.com/glowtrace/livetracer/pkg/renderer"
)

func TestStatusLine(t *testing.T) {
	tests := []struct {
		name  string
		stats renderer.RenderStats
		want  string
	}{
		{
			"rendering",
			renderer.RenderStats{AverageSamples: 12.5, TargetSamples: 100},
			"rendering: 12.5 / 100 samples/pixel",
		},
		{
			"complete",
			renderer.RenderStats{Completed: true, MaxSamples: 100, Elapsed: 90 * time.Second},
			"complete: 100 samples/pixel in 1m30s",
		},
		{
			"cancelled",
			renderer.RenderStats{Completed: true, Cancelled: true, AverageSamples: 7.2},
			"cancelled at 7.2 samples/pixel",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := statusLine(tt.stats); !strings.HasPrefix(got, tt.want) {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}
