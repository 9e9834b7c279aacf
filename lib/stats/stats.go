package stats

import (
	"sync"
	"time"
)

// Snapshot is the JSON view of the stats.
type Snapshot struct {
	FPS            uint64  `json:"fps"`
	Frames         uint64  `json:"frames"`
	FrameTimeMs    float64 `json:"frame_time_ms"`
	Uptime         float64 `json:"uptime"`
	DrawCalls      uint64  `json:"draw_calls"`
	ViewportWidth  int     `json:"viewport_width"`
	ViewportHeight int     `json:"viewport_height"`
	ProgramLinked  bool    `json:"program_linked"`
	ShaderSource   string  `json:"shader_source"`
	WsClients      int     `json:"ws_clients"`
}

// Stats is updated by the render loop and read from the API goroutines.
type Stats struct {
	mu      sync.Mutex
	current Snapshot

	frameCounter uint64
	frameTimer   time.Time
	deltaTimer   DeltaTimer
	start        time.Time
}

func New() *Stats {
	return NewAt(time.Now())
}

func NewAt(start time.Time) *Stats {
	s := &Stats{}
	s.start = start
	s.frameTimer = start
	return s
}

// Update counts a finished frame.
func (s *Stats) Update() {
	s.UpdateAt(time.Now())
}

func (s *Stats) UpdateAt(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	dt := s.deltaTimer.Next(now)
	s.current.FrameTimeMs = float64(dt.Microseconds()) / 1e3

	s.current.Frames++
	s.frameCounter++
	if now.Sub(s.frameTimer) >= 1*time.Second {
		s.current.FPS = s.frameCounter
		s.frameCounter = 0
		s.frameTimer = now
	}

	s.current.Uptime = now.Sub(s.start).Seconds()
}

func (s *Stats) AddDrawCall() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current.DrawCalls++
}

func (s *Stats) SetViewport(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current.ViewportWidth = width
	s.current.ViewportHeight = height
}

func (s *Stats) SetProgram(linked bool, source string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current.ProgramLinked = linked
	s.current.ShaderSource = source
}

func (s *Stats) SetWsClients(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current.WsClients = n
}

func (s *Stats) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}
