package kbdctl

import (
	"log/slog"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/learngl/learngl/lib/window"
)

// CloseKey closes the window when it is held during ProcessInput.
const CloseKey = glfw.KeyEscape

// ProcessInput polls the keyboard state once per frame. It reports whether
// it set the close flag.
func ProcessInput(w window.Window) bool {
	if w.KeyPressed(CloseKey) {
		w.SetShouldClose(true)
		return true
	}
	return false
}

// IsQuitShortcut reports whether a key event is Ctrl+Shift+Q being released.
func IsQuitShortcut(key glfw.Key, action glfw.Action, mods glfw.ModifierKey) bool {
	return action == glfw.Release &&
		key == glfw.KeyQ &&
		mods&glfw.ModControl != 0 &&
		mods&glfw.ModShift != 0
}

// HandleShortcut acts on key events delivered by the window system.
func HandleShortcut(w window.Window, key glfw.Key, action glfw.Action, mods glfw.ModifierKey) {
	if IsQuitShortcut(key, action, mods) {
		slog.Info("told to quit, exiting", slog.String("module", "kbdctl"))
		w.SetShouldClose(true)
	}
}
