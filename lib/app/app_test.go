package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"golang.org/x/sys/unix"

	"github.com/learngl/learngl/lib/config"
	"github.com/learngl/learngl/lib/metrics"
	"github.com/learngl/learngl/lib/rendering/renderingtest"
	"github.com/learngl/learngl/lib/rendering/shaders"
	"github.com/learngl/learngl/lib/window/windowtest"
)

const validVertex = `#version {{.GLSLVersion}} core
layout (location = 0) in vec3 aPos;
void main()
{
   gl_Position = vec4(aPos, 1.0);
}
`

const validFragment = `#version {{.GLSLVersion}} core
out vec4 FragColor;
void main()
{
   FragColor = vec4(1.0f, 0.5f, 0.2f, 1.0f);
}
`

func newTestApp(t *testing.T, cfg *config.Config) (*App, *windowtest.Window, *renderingtest.Device) {
	t.Helper()
	win := windowtest.New(cfg.Window.Width, cfg.Window.Height)
	dev := renderingtest.New()
	a, err := New(cfg, win, dev)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return a, win, dev
}

func writeShaders(t *testing.T, dir, vertex, fragment string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, shaders.VertexShaderName), []byte(vertex), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, shaders.FragmentShaderName), []byte(fragment), 0o644); err != nil {
		t.Fatal(err)
	}
}

func drawingConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	writeShaders(t, dir, validVertex, validFragment)
	cfg := config.Default()
	cfg.ShaderDir = config.CfgPath(dir)
	cfg.Draw = true
	return cfg
}

func TestRun_StopsWithinOneIterationOfClose(t *testing.T) {
	a, win, _ := newTestApp(t, config.Default())
	win.At(5, func(w *windowtest.Window) { w.SetShouldClose(true) })

	a.Run()

	if win.Swaps != 5 {
		t.Errorf("swapped %d times, want 5", win.Swaps)
	}
	if a.State != StateClosing {
		t.Errorf("State = %v, want closing", a.State)
	}
	if a.Step() {
		t.Error("Step() after closing returned true")
	}
}

func TestRun_EscapeClosesOnNextInputCheck(t *testing.T) {
	a, win, _ := newTestApp(t, config.Default())
	win.At(3, func(w *windowtest.Window) { w.Pressed[glfw.KeyEscape] = true })

	if !a.Step() || !a.Step() || !a.Step() {
		t.Fatal("loop stopped before escape was pressed")
	}
	if win.ShouldClose() {
		t.Fatal("close flag set before the input check")
	}

	// the input check of the next iteration sees escape
	if !a.Step() {
		t.Fatal("iteration with escape held should still complete")
	}
	if !win.ShouldClose() {
		t.Error("close flag not set after escape was processed")
	}
	if a.Step() {
		t.Error("loop continued after the close flag was set")
	}
	if win.Swaps != 4 {
		t.Errorf("swapped %d times, want 4", win.Swaps)
	}
}

func TestStep_ClearsWithoutDrawing(t *testing.T) {
	a, win, dev := newTestApp(t, config.Default())
	win.At(3, func(w *windowtest.Window) { w.SetShouldClose(true) })

	a.Run()

	if dev.Clears != 3 {
		t.Errorf("cleared %d times, want 3", dev.Clears)
	}
	if dev.ClearColour != [4]float32{0.2, 0.3, 0.3, 1.0} {
		t.Errorf("clear colour = %v, want (0.2, 0.3, 0.3, 1)", dev.ClearColour)
	}
	if dev.CurrentProgram != a.Program.ID || dev.Count("UseProgram") != 3 {
		t.Errorf("program bound %d times (current %d), want 3 times program %d",
			dev.Count("UseProgram"), dev.CurrentProgram, a.Program.ID)
	}
	if dev.DrawCalls != 0 {
		t.Errorf("issued %d draw calls, the default setup never draws", dev.DrawCalls)
	}
	if a.Stats.Snapshot().Frames != 3 {
		t.Errorf("stats counted %d frames, want 3", a.Stats.Snapshot().Frames)
	}
}

// With the built-in shaders the fragment stage fails and the program does
// not link, yet the loop keeps binding it.
func TestNew_BuiltinProgramDoesNotLink(t *testing.T) {
	a, _, dev := newTestApp(t, config.Default())

	if a.Program.Linked {
		t.Error("built-in program linked")
	}
	if a.Program.ID == 0 {
		t.Error("no program object was created")
	}
	if a.Stats.Snapshot().ProgramLinked {
		t.Error("stats report a linked program")
	}

	a.Step()
	if dev.CurrentProgram != a.Program.ID {
		t.Errorf("current program = %d, want %d", dev.CurrentProgram, a.Program.ID)
	}
}

func TestStep_DrawsWhenWired(t *testing.T) {
	a, win, dev := newTestApp(t, drawingConfig(t))
	win.At(2, func(w *windowtest.Window) { w.SetShouldClose(true) })

	if !a.Program.OK() {
		t.Fatalf("program from shader dir not OK: %+v", a.Program)
	}
	a.Run()

	if dev.DrawCalls != 2 {
		t.Errorf("issued %d draw calls, want 2", dev.DrawCalls)
	}
	if a.Stats.Snapshot().DrawCalls != 2 {
		t.Errorf("stats counted %d draw calls, want 2", a.Stats.Snapshot().DrawCalls)
	}
}

func TestResize_UpdatesViewport(t *testing.T) {
	a, win, dev := newTestApp(t, config.Default())
	if dev.ViewportRect != [4]int32{0, 0, 800, 600} {
		t.Errorf("initial viewport = %v, want 800x600", dev.ViewportRect)
	}

	var got []Event
	a.Events.AddEventListener(EventResize, func(_ *App, ev Event) {
		got = append(got, ev)
	})
	win.At(1, func(w *windowtest.Window) { w.Resize(1024, 768) })
	a.Step()

	if len(got) != 1 || got[0].Width != 1024 || got[0].Height != 768 {
		t.Fatalf("resize events = %+v, want one 1024x768", got)
	}
	if dev.ViewportRect != [4]int32{0, 0, 1024, 768} {
		t.Errorf("viewport = %v, want 1024x768", dev.ViewportRect)
	}
	if a.Viewport != (Viewport{Width: 1024, Height: 768}) {
		t.Errorf("App.Viewport = %+v", a.Viewport)
	}
	snap := a.Stats.Snapshot()
	if snap.ViewportWidth != 1024 || snap.ViewportHeight != 768 {
		t.Errorf("stats viewport = %dx%d", snap.ViewportWidth, snap.ViewportHeight)
	}
}

func TestKeyEvents_QuitShortcut(t *testing.T) {
	a, win, _ := newTestApp(t, config.Default())
	var keys []glfw.Key
	a.Events.AddEventListener(EventKey, func(_ *App, ev Event) {
		keys = append(keys, ev.Key)
	})
	win.At(1, func(w *windowtest.Window) {
		w.Press(glfw.KeyQ, glfw.ModControl|glfw.ModShift)
		w.Release(glfw.KeyQ, glfw.ModControl|glfw.ModShift)
	})

	a.Run()

	if len(keys) != 2 {
		t.Errorf("key listener saw %v, want press and release of Q", keys)
	}
	if win.Swaps != 1 {
		t.Errorf("swapped %d times, want 1", win.Swaps)
	}
}

func TestCloseEvent(t *testing.T) {
	a, win, _ := newTestApp(t, config.Default())
	closed := 0
	a.Events.AddEventListener(EventClose, func(_ *App, _ Event) { closed++ })
	win.SetShouldClose(true)

	a.Run()
	a.Run()

	if closed != 1 {
		t.Errorf("close event dispatched %d times, want 1", closed)
	}
}

func TestRequestClose(t *testing.T) {
	a, win, _ := newTestApp(t, config.Default())

	go a.RequestClose()
	deadline := time.Now().Add(2 * time.Second)
	for !a.closeRequested.Load() && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}

	a.Run()

	if win.Swaps != 1 {
		t.Errorf("swapped %d times, want 1", win.Swaps)
	}
}

func TestCloseOnSignals(t *testing.T) {
	a, win, _ := newTestApp(t, config.Default())
	stop := a.CloseOnSignals()
	defer stop()

	if err := unix.Kill(unix.Getpid(), unix.SIGTERM); err != nil {
		t.Fatalf("could not signal ourselves: %v", err)
	}
	deadline := time.Now().Add(2 * time.Second)
	for !a.closeRequested.Load() && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}

	a.Run()

	if !win.ShouldClose() || win.Swaps != 1 {
		t.Errorf("close flag = %v after %d swaps, want true after 1", win.ShouldClose(), win.Swaps)
	}
}

func TestClose_ReleasesResources(t *testing.T) {
	a, win, dev := newTestApp(t, drawingConfig(t))
	program := a.Program.ID
	vbo := a.Geometry.VBO

	a.Close()
	a.Close()

	if !dev.Programs[program].Deleted {
		t.Error("program was not deleted")
	}
	if len(dev.DeletedBuffers) != 1 || dev.DeletedBuffers[0] != vbo {
		t.Errorf("deleted buffers = %v, want [%d]", dev.DeletedBuffers, vbo)
	}
	if !win.Destroyed {
		t.Error("window was not closed")
	}
	if a.Step() {
		t.Error("Step() after Close() returned true")
	}
}

func TestReloadShaders(t *testing.T) {
	cfg := drawingConfig(t)
	a, _, dev := newTestApp(t, cfg)
	first := a.Program.ID

	reloads := make(chan struct{}, 1)
	a.WatchShaders(reloads)
	before := testutil.ToFloat64(metrics.ShaderReloads)

	// a broken fragment shader must not replace the working program
	writeShaders(t, string(cfg.ShaderDir), validVertex, "void main() {}\n")
	reloads <- struct{}{}
	a.Step()
	if a.Program.ID != first {
		t.Fatalf("program replaced by one that failed to link")
	}
	if got := testutil.ToFloat64(metrics.ShaderReloads) - before; got != 0 {
		t.Errorf("rejected reload counted, reloads went up by %v", got)
	}

	writeShaders(t, string(cfg.ShaderDir), validVertex, validFragment)
	reloads <- struct{}{}
	a.Step()
	if a.Program.ID == first {
		t.Fatal("program was not rebuilt")
	}
	if !dev.Programs[first].Deleted {
		t.Error("old program was not deleted")
	}
	if !a.Program.OK() {
		t.Errorf("reloaded program not OK: %+v", a.Program)
	}
	if got := testutil.ToFloat64(metrics.ShaderReloads) - before; got != 1 {
		t.Errorf("reloads went up by %v, want 1", got)
	}
}

func TestState_String(t *testing.T) {
	if StateRunning.String() != "running" || StateClosing.String() != "closing" {
		t.Errorf("unexpected state names %s, %s", StateRunning, StateClosing)
	}
}
