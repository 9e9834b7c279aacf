package app

import (
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/learngl/learngl/lib/config"
	"github.com/learngl/learngl/lib/kbdctl"
	"github.com/learngl/learngl/lib/metrics"
	"github.com/learngl/learngl/lib/rendering"
	"github.com/learngl/learngl/lib/rendering/shaders"
	"github.com/learngl/learngl/lib/stats"
	"github.com/learngl/learngl/lib/window"
)

type State int

const (
	StateRunning State = iota
	StateClosing
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateClosing:
		return "closing"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

type Viewport struct {
	Width  int
	Height int
}

// App owns everything the render loop touches. Apart from RequestClose,
// its methods must be called on the thread holding the GL context.
type App struct {
	Config   *config.Config
	Window   window.Window
	Device   rendering.Device
	Shaderer *shaders.Shaderer
	Program  *shaders.Program
	Geometry *rendering.Geometry
	Events   *Dispatcher
	Stats    *stats.Stats

	State    State
	Viewport Viewport

	clearColour    mgl32.Vec4
	closeRequested atomic.Bool
	reloads        <-chan struct{}
	logger         *slog.Logger
}

// New builds the shader program, registers the window callbacks and
// uploads the triangle. Shader compile and link failures are logged, not
// returned.
func New(cfg *config.Config, win window.Window, dev rendering.Device) (*App, error) {
	a := &App{
		Config:      cfg,
		Window:      win,
		Device:      dev,
		Events:      NewDispatcher(),
		Stats:       stats.New(),
		State:       StateRunning,
		clearColour: config.DefaultClearColour.Vec4(),
		logger:      slog.Default().With(slog.String("module", "app")),
	}
	if cfg.ClearColour != nil {
		a.clearColour = cfg.ClearColour.Vec4()
	}

	shaderer, err := shaders.NewShaderer(string(cfg.ShaderDir))
	if err != nil {
		return nil, err
	}
	program, err := shaders.BuildGLProgram(dev, shaderer, a.shaderData())
	if err != nil {
		return nil, fmt.Errorf("could not build shader program: %w", err)
	}
	a.Shaderer = shaderer
	a.Program = program
	a.Stats.SetProgram(program.OK(), shaderer.Origin())

	a.Events.AddEventListener(EventResize, updateViewport)
	a.Events.AddEventListener(EventKey, handleShortcut)
	win.OnResize(func(width, height int) {
		a.Events.Dispatch(a, Event{Kind: EventResize, Width: width, Height: height})
	})
	win.OnKey(func(key glfw.Key, action glfw.Action, mods glfw.ModifierKey) {
		a.Events.Dispatch(a, Event{Kind: EventKey, Key: key, Action: action, Mods: mods})
	})

	a.Geometry = rendering.UploadTriangle(dev, cfg.Draw)

	width, height := win.GetFramebufferSize()
	a.setViewport(width, height)
	return a, nil
}

func (a *App) shaderData() *shaders.ShaderData {
	return &shaders.ShaderData{GLSLVersion: a.Config.GLSLVersion()}
}

// RequestClose asks the loop to close the window on its next iteration.
// It is safe to call from any goroutine.
func (a *App) RequestClose() {
	a.closeRequested.Store(true)
}

// WatchShaders makes the loop rebuild the program whenever a value arrives
// on reloads.
func (a *App) WatchShaders(reloads <-chan struct{}) {
	a.reloads = reloads
}

// Run iterates until the window's close flag is set.
func (a *App) Run() {
	a.logger.Info("Entering render loop")
	for a.Step() {
	}
	a.logger.Info(fmt.Sprintf("Render loop finished after %d frames", a.Stats.Snapshot().Frames))
}

// Step runs one iteration of the render loop. It returns false, without
// touching the context, once the close flag has been seen.
func (a *App) Step() bool {
	if a.State == StateClosing {
		return false
	}
	if a.Window.ShouldClose() {
		a.State = StateClosing
		a.Events.Dispatch(a, Event{Kind: EventClose})
		return false
	}

	if kbdctl.ProcessInput(a.Window) {
		a.logger.Debug("Close key pressed")
	}
	if a.closeRequested.Swap(false) {
		a.Window.SetShouldClose(true)
	}

	a.Device.UseProgram(a.Program.ID)
	a.Device.ClearColor(a.clearColour.X(), a.clearColour.Y(), a.clearColour.Z(), a.clearColour.W())
	a.Device.Clear(gl.COLOR_BUFFER_BIT)
	if a.Geometry.Draw(a.Device) {
		metrics.DrawCalls.Inc()
		a.Stats.AddDrawCall()
	}

	a.Window.SwapBuffers()
	a.Window.PollEvents()

	metrics.FramesRendered.Inc()
	a.Stats.Update()
	a.reloadShadersIfChanged()
	return true
}

func (a *App) reloadShadersIfChanged() {
	if a.reloads == nil {
		return
	}
	select {
	case <-a.reloads:
	default:
		return
	}
	if err := a.ReloadShaders(); err != nil {
		a.logger.Warn(fmt.Sprintf("Shader reload failed: %s", err))
	}
}

// ReloadShaders rebuilds the program from the shader sources. A program
// that fails to link does not replace one that linked.
func (a *App) ReloadShaders() error {
	shaderer, err := shaders.NewShaderer(string(a.Config.ShaderDir))
	if err != nil {
		return err
	}
	program, err := shaders.BuildGLProgram(a.Device, shaderer, a.shaderData())
	if err != nil {
		return fmt.Errorf("could not build shader program: %w", err)
	}
	if !program.Linked && a.Program.Linked {
		program.Delete(a.Device)
		return fmt.Errorf("new program did not link, keeping program %d", a.Program.ID)
	}
	metrics.ShaderReloads.Inc()

	a.Program.Delete(a.Device)
	a.Program = program
	a.Shaderer = shaderer
	a.Stats.SetProgram(program.OK(), shaderer.Origin())
	a.logger.Info(fmt.Sprintf("Reloaded shaders from %s", shaderer.Origin()), slog.Bool("linked", program.Linked))
	return nil
}

func (a *App) setViewport(width, height int) {
	a.Device.Viewport(0, 0, int32(width), int32(height))
	a.Viewport = Viewport{Width: width, Height: height}
	a.Stats.SetViewport(width, height)
	metrics.SetViewport(width, height)
}

func updateViewport(a *App, ev Event) {
	a.logger.Debug(fmt.Sprintf("Framebuffer resized to %dx%d", ev.Width, ev.Height))
	a.setViewport(ev.Width, ev.Height)
	metrics.ViewportResizes.Inc()
}

func handleShortcut(a *App, ev Event) {
	kbdctl.HandleShortcut(a.Window, ev.Key, ev.Action, ev.Mods)
}

// Close releases the program, the geometry and the window. It is safe to
// call more than once.
func (a *App) Close() {
	if a.Program != nil {
		a.Program.Delete(a.Device)
	}
	if a.Geometry != nil {
		a.Geometry.Delete(a.Device)
	}
	if a.Window != nil {
		a.Window.Close()
		a.Window = nil
	}
	a.State = StateClosing
}
