package window

import (
	"fmt"
	"log/slog"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/learngl/learngl/lib/config"
)

// Window is what the render loop needs from the window system.
type Window interface {
	ShouldClose() bool
	SetShouldClose(value bool)
	KeyPressed(key glfw.Key) bool
	SwapBuffers()
	PollEvents()
	GetFramebufferSize() (width, height int)

	// OnResize and OnKey replace the framebuffer size and key callbacks.
	OnResize(func(width, height int))
	OnKey(func(key glfw.Key, action glfw.Action, mods glfw.ModifierKey))

	// Close destroys the window and releases the window system.
	Close()
}

type GLFWWindow struct {
	*glfw.Window
	logger *slog.Logger
}

var _ Window = (*GLFWWindow)(nil)

// New initialises GLFW, opens a window with an OpenGL core profile context
// and makes that context current on the calling thread.
func New(cfg *config.Config) (*GLFWWindow, error) {
	w := &GLFWWindow{
		logger: slog.Default().With(slog.String("module", "window")),
	}

	w.logger.Debug("Initializing window")
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize glfw: %w", err)
	}

	resizable := glfw.True
	if !cfg.Window.IsResizable() {
		resizable = glfw.False
	}
	glfw.WindowHint(glfw.Resizable, resizable)
	glfw.WindowHint(glfw.ContextVersionMajor, cfg.GL.Major)
	glfw.WindowHint(glfw.ContextVersionMinor, cfg.GL.Minor)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	window, err := glfw.CreateWindow(cfg.Window.Width, cfg.Window.Height, cfg.Window.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("failed to create GLFW window: %w", err)
	}
	w.Window = window
	w.MakeContextCurrent()

	w.logger.Info(fmt.Sprintf("Opened %dx%d window %q with OpenGL %d.%d core context",
		cfg.Window.Width, cfg.Window.Height, cfg.Window.Title, cfg.GL.Major, cfg.GL.Minor))
	return w, nil
}

func (w *GLFWWindow) KeyPressed(key glfw.Key) bool {
	return w.GetKey(key) == glfw.Press
}

func (w *GLFWWindow) PollEvents() {
	glfw.PollEvents()
}

func (w *GLFWWindow) OnResize(cb func(width, height int)) {
	w.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		cb(width, height)
	})
}

func (w *GLFWWindow) OnKey(cb func(key glfw.Key, action glfw.Action, mods glfw.ModifierKey)) {
	w.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, mods glfw.ModifierKey) {
		cb(key, action, mods)
	})
}

func (w *GLFWWindow) Close() {
	if w.Window != nil {
		w.Destroy()
		w.Window = nil
	}
	glfw.Terminate()
	w.logger.Debug("Window closed")
}
