// Package input translates SDL2 events into viewer events.
package input

import (
	"github.com/veandco/go-sdl2/sdl"
)

// EventType identifies a viewer event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventDrag   // mouse moved with a button held
	EventScroll // wheel
	EventClick  // button released without dragging
)

// Event is a processed input event.
type Event struct {
	Type   EventType
	Key    sdl.Scancode
	Width  int
	Height int
	DX, DY float32 // drag or scroll delta
	X, Y   float32 // click position in window coordinates
	Button uint8   // button held during a drag or released by a click
}

// Input collects the events of one frame.
type Input struct {
	events []Event
	held   uint8 // button currently held, 0 for none
	moved  bool  // held button was dragged
}

// New creates an input handler.
func New() *Input {
	return &Input{
		events: make([]Event, 0, 16),
	}
}

// Update polls pending SDL events. It returns true when the viewer should quit.
func (i *Input) Update() bool {
	i.events = i.events[:0]

	quit := false
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		if i.translate(event) {
			quit = true
		}
	}
	return quit
}

func (i *Input) translate(event sdl.Event) bool {
	switch e := event.(type) {
	case *sdl.QuitEvent:
		i.events = append(i.events, Event{Type: EventQuit})
		return true

	case *sdl.WindowEvent:
		if e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
			i.events = append(i.events, Event{
				Type:   EventWindowResize,
				Width:  int(e.Data1),
				Height: int(e.Data2),
			})
		}

	case *sdl.KeyboardEvent:
		if e.Type == sdl.KEYDOWN && e.Repeat == 0 {
			i.events = append(i.events, Event{Type: EventKeyDown, Key: e.Keysym.Scancode})
			if e.Keysym.Scancode == sdl.SCANCODE_ESCAPE {
				return true
			}
		}

	case *sdl.MouseButtonEvent:
		switch e.Type {
		case sdl.MOUSEBUTTONDOWN:
			i.held = e.Button
			i.moved = false
		case sdl.MOUSEBUTTONUP:
			if i.held == e.Button {
				if !i.moved {
					i.events = append(i.events, Event{
						Type:   EventClick,
						X:      float32(e.X),
						Y:      float32(e.Y),
						Button: e.Button,
					})
				}
				i.held = 0
			}
		}

	case *sdl.MouseMotionEvent:
		if i.held != 0 {
			i.moved = true
			i.events = append(i.events, Event{
				Type:   EventDrag,
				DX:     float32(e.XRel),
				DY:     float32(e.YRel),
				Button: i.held,
			})
		}

	case *sdl.MouseWheelEvent:
		i.events = append(i.events, Event{Type: EventScroll, DY: float32(e.Y)})
	}
	return false
}

// Events returns the events collected by the last Update.
func (i *Input) Events() []Event {
	return i.events
}

// KeyPressed reports whether scancode went down this frame.
func (i *Input) KeyPressed(scancode sdl.Scancode) bool {
	for _, e := range i.events {
		if e.Type == EventKeyDown && e.Key == scancode {
			return true
		}
	}
	return false
}
