package app

import "github.com/go-gl/glfw/v3.3/glfw"

type EventKind string

const (
	EventResize EventKind = "resize"
	EventKey    EventKind = "key"
	EventClose  EventKind = "close"
)

// Event is delivered to listeners on the render thread.
type Event struct {
	Kind   EventKind        `json:"event"`
	Width  int              `json:"width,omitempty"`
	Height int              `json:"height,omitempty"`
	Key    glfw.Key         `json:"key,omitempty"`
	Action glfw.Action      `json:"action,omitempty"`
	Mods   glfw.ModifierKey `json:"mods,omitempty"`
}

type EventListener func(app *App, ev Event)

// Dispatcher maps event kinds to listeners. Listeners run synchronously,
// in registration order, on the thread that dispatches.
type Dispatcher struct {
	listener map[EventKind][]EventListener
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{listener: make(map[EventKind][]EventListener)}
}

func (d *Dispatcher) AddEventListener(kind EventKind, callback EventListener) {
	d.listener[kind] = append(d.listener[kind], callback)
}

func (d *Dispatcher) Dispatch(app *App, ev Event) {
	for _, listener := range d.listener[ev.Kind] {
		listener(app, ev)
	}
}
