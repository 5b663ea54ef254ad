package server

import (
	"context"
	"encoding/json"
	"fmt"
	"image/png"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/glowtrace/livetracer/log"
	"github.com/glowtrace/livetracer/pkg/renderer"
)

// pushInterval is how often the websocket loop sends a fresh snapshot to
// each connected viewer while the render is in progress.
const pushInterval = 500 * time.Millisecond

// Server exposes a live render over HTTP: JSON and PNG snapshots for
// polling clients plus a websocket stream for push clients. Any number of
// viewers can connect while the render runs; each request takes its own
// snapshot so viewers never block the renderer or each other.
type Server struct {
	fb          *renderer.Framebuffer
	staticDir   string
	logger      log.Logger
	upgrader    websocket.Upgrader
	connections atomic.Int64
	snapshots   atomic.Int64
}

// NewServer creates a server for the given framebuffer
func NewServer(fb *renderer.Framebuffer, staticDir string, logger log.Logger) *Server {
	return &Server{
		fb:        fb,
		staticDir: staticDir,
		logger:    logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// ImageResponse is the JSON form of a snapshot: flat 8-bit RGB triples in
// row-major order, top row first. The pixel bytes serialize as base64,
// which keeps large frames a fraction of the size of a number array.
type ImageResponse struct {
	Width     int     `json:"width"`
	Height    int     `json:"height"`
	Samples   float64 `json:"samples"`
	Completed bool    `json:"completed"`
	Pixels    []uint8 `json:"pixels"`
}

// StatsResponse is the JSON form of the render statistics
type StatsResponse struct {
	TotalPixels    int     `json:"totalPixels"`
	TotalSamples   int64   `json:"totalSamples"`
	AverageSamples float64 `json:"averageSamples"`
	MinSamples     int     `json:"minSamples"`
	MaxSamples     int     `json:"maxSamples"`
	TargetSamples  int     `json:"targetSamples"`
	ElapsedMs      int64   `json:"elapsedMs"`
	Completed      bool    `json:"completed"`
	Cancelled      bool    `json:"cancelled"`
	Connections    int64   `json:"connections"`
	Snapshots      int64   `json:"snapshots"`
}

// Handler returns the routing table. It is a separate method so tests can
// drive the server through httptest without binding a port.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/", http.FileServer(http.Dir(s.staticDir)))
	mux.HandleFunc("/api/image", s.handleImage)
	mux.HandleFunc("/api/image.png", s.handleImagePNG)
	mux.HandleFunc("/api/stats", s.handleStats)
	mux.HandleFunc("/ws", s.handleWebSocket)
	return mux
}

// ListenAndServe serves until the context is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, port int) error {
	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: s.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Infof("serving live render on http://localhost:%d", port)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

// handleImage returns the current image as JSON
func (s *Server) handleImage(w http.ResponseWriter, r *http.Request) {
	snapshot := s.takeSnapshot()

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	json.NewEncoder(w).Encode(imageResponse(snapshot))
}

// handleImagePNG returns the current image as a PNG
func (s *Server) handleImagePNG(w http.ResponseWriter, r *http.Request) {
	snapshot := s.takeSnapshot()

	w.Header().Set("Content-Type", "image/png")
	if err := png.Encode(w, snapshot.ToImage()); err != nil {
		s.logger.Errorf("png encode failed: %v", err)
	}
}

// handleStats returns render progress and server counters as JSON
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	snapshot := s.takeSnapshot()
	stats := snapshot.Stats

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	json.NewEncoder(w).Encode(StatsResponse{
		TotalPixels:    stats.TotalPixels,
		TotalSamples:   stats.TotalSamples,
		AverageSamples: stats.AverageSamples,
		MinSamples:     stats.MinSamples,
		MaxSamples:     stats.MaxSamples,
		TargetSamples:  stats.TargetSamples,
		ElapsedMs:      stats.Elapsed.Milliseconds(),
		Completed:      stats.Completed,
		Cancelled:      stats.Cancelled,
		Connections:    s.connections.Load(),
		Snapshots:      s.snapshots.Load(),
	})
}

// handleWebSocket pushes snapshots to the client on a fixed interval until
// the render completes or the client goes away.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Errorf("websocket upgrade failed: %v", err)
		return
	}

	s.connections.Add(1)
	defer func() {
		conn.Close()
		s.connections.Add(-1)
	}()

	// Discard client messages but notice disconnects.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pushInterval)
	defer ticker.Stop()

	for {
		snapshot := s.takeSnapshot()
		if err := conn.WriteJSON(imageResponse(snapshot)); err != nil {
			return
		}
		if snapshot.Stats.Completed {
			// One final frame carries the finished image, then the
			// connection closes from our side.
			conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, "render complete"))
			return
		}

		select {
		case <-ticker.C:
		case <-closed:
			return
		}
	}
}

func (s *Server) takeSnapshot() *renderer.Snapshot {
	s.snapshots.Add(1)
	return s.fb.Snapshot()
}

func imageResponse(snapshot *renderer.Snapshot) ImageResponse {
	return ImageResponse{
		Width:     snapshot.Width,
		Height:    snapshot.Height,
		Samples:   snapshot.Stats.AverageSamples,
		Completed: snapshot.Stats.Completed,
		Pixels:    snapshot.Pixels,
	}
}
