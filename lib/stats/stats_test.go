package stats

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestUpdate_FPS(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s := NewAt(start)

	for i := 1; i <= 60; i++ {
		s.UpdateAt(start.Add(time.Duration(i) * time.Second / 60))
	}

	got := s.Snapshot()
	if got.FPS != 60 {
		t.Errorf("FPS = %d, want 60", got.FPS)
	}
	if got.Frames != 60 {
		t.Errorf("Frames = %d, want 60", got.Frames)
	}
	if got.Uptime != 1 {
		t.Errorf("Uptime = %v, want 1", got.Uptime)
	}
	if got.FrameTimeMs < 16 || got.FrameTimeMs > 17 {
		t.Errorf("FrameTimeMs = %v, want about 16.7", got.FrameTimeMs)
	}
}

func TestUpdate_FirstFrameHasNoDelta(t *testing.T) {
	start := time.Now()
	s := NewAt(start)

	s.UpdateAt(start.Add(5 * time.Millisecond))

	if got := s.Snapshot().FrameTimeMs; got != 0 {
		t.Errorf("FrameTimeMs = %v after the first frame, want 0", got)
	}
}

func TestSnapshot_JSON(t *testing.T) {
	s := New()
	s.SetViewport(800, 600)
	s.SetProgram(false, "built-in")
	s.AddDrawCall()
	s.SetWsClients(2)

	b, err := json.Marshal(s.Snapshot())
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}
	for _, want := range []string{`"viewport_width":800`, `"viewport_height":600`, `"program_linked":false`, `"draw_calls":1`, `"ws_clients":2`, `"shader_source":"built-in"`} {
		if !strings.Contains(string(b), want) {
			t.Errorf("%s is missing %s", b, want)
		}
	}
}

func TestDeltaTimer(t *testing.T) {
	var d DeltaTimer
	t0 := time.Now()

	if got := d.Next(t0); got != 0 {
		t.Errorf("first Next() = %v, want 0", got)
	}
	if got := d.Next(t0.Add(20 * time.Millisecond)); got != 20*time.Millisecond {
		t.Errorf("Next() = %v, want 20ms", got)
	}
}
