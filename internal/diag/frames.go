package diag

import (
	"sync"
	"time"
)

// FrameRecorder aggregates render-loop timing over a sliding window.
// One entry per frame would flood the ring, so frames are counted here
// and only the derived FPS is displayed.
type FrameRecorder struct {
	mu          sync.Mutex
	windowStart time.Time
	frames      int
	lastFPS     float64
}

// NewFrameRecorder returns a recorder with an empty window.
func NewFrameRecorder() *FrameRecorder {
	return &FrameRecorder{windowStart: time.Now()}
}

// Tick records one rendered frame. The FPS figure refreshes once per
// second of wall time.
func (f *FrameRecorder) Tick() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.frames++
	elapsed := time.Since(f.windowStart)
	if elapsed >= time.Second {
		f.lastFPS = float64(f.frames) / elapsed.Seconds()
		f.frames = 0
		f.windowStart = time.Now()
	}
}

// FPS returns the most recently computed frames-per-second figure.
func (f *FrameRecorder) FPS() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastFPS
}
