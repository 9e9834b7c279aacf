// Package windowtest provides a scripted window.Window for tests.
package windowtest

import (
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/learngl/learngl/lib/window"
)

// Script is run at the start of PollEvents on the given frame, counting
// from 1. It can queue events or change window state.
type Script func(w *Window)

type Window struct {
	Width, Height int

	Closed     bool
	Destroyed  bool
	Swaps      int
	Polls      int
	Pressed    map[glfw.Key]bool
	KeyQueries int

	// Scripts are keyed by the poll number they run on.
	Scripts map[int]Script

	onResize func(width, height int)
	onKey    func(key glfw.Key, action glfw.Action, mods glfw.ModifierKey)
}

var _ window.Window = (*Window)(nil)

func New(width, height int) *Window {
	return &Window{
		Width:   width,
		Height:  height,
		Pressed: make(map[glfw.Key]bool),
		Scripts: make(map[int]Script),
	}
}

// At registers a script for the given poll.
func (w *Window) At(poll int, s Script) *Window {
	w.Scripts[poll] = s
	return w
}

func (w *Window) ShouldClose() bool {
	return w.Closed
}

func (w *Window) SetShouldClose(value bool) {
	w.Closed = value
}

func (w *Window) KeyPressed(key glfw.Key) bool {
	w.KeyQueries++
	return w.Pressed[key]
}

func (w *Window) SwapBuffers() {
	w.Swaps++
}

func (w *Window) PollEvents() {
	w.Polls++
	if s, ok := w.Scripts[w.Polls]; ok {
		s(w)
	}
}

func (w *Window) GetFramebufferSize() (int, int) {
	return w.Width, w.Height
}

func (w *Window) OnResize(cb func(width, height int)) {
	w.onResize = cb
}

func (w *Window) OnKey(cb func(key glfw.Key, action glfw.Action, mods glfw.ModifierKey)) {
	w.onKey = cb
}

func (w *Window) Close() {
	w.Destroyed = true
}

// Resize changes the framebuffer size and fires the resize callback.
func (w *Window) Resize(width, height int) {
	w.Width, w.Height = width, height
	if w.onResize != nil {
		w.onResize(width, height)
	}
}

// Press marks key as held and fires the key callback.
func (w *Window) Press(key glfw.Key, mods glfw.ModifierKey) {
	w.Pressed[key] = true
	if w.onKey != nil {
		w.onKey(key, glfw.Press, mods)
	}
}

// Release marks key as released and fires the key callback.
func (w *Window) Release(key glfw.Key, mods glfw.ModifierKey) {
	w.Pressed[key] = false
	if w.onKey != nil {
		w.onKey(key, glfw.Release, mods)
	}
}
