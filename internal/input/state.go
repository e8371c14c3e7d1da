// Package input holds the per-frame device input resource. A listener
// outside the World feeds it events; systems only read it.
package input

import "github.com/l1jgo/ecsgraph/internal/core/ecs"

// MouseButton numbers follow the usual convention: 0 left, 1 middle, 2 right.
type MouseButton int

const (
	MouseLeft MouseButton = iota
	MouseMiddle
	MouseRight
)

// State tracks held keys, keys pressed or released since the last frame
// end, the pointer position and held mouse buttons. Key names are whatever
// the listener reports ("ArrowLeft", "a", "Space").
type State struct {
	held     map[string]struct{}
	pressed  map[string]struct{}
	released map[string]struct{}
	buttons  map[MouseButton]struct{}

	MouseX float64
	MouseY float64
}

func NewState() *State {
	return &State{
		held:     make(map[string]struct{}),
		pressed:  make(map[string]struct{}),
		released: make(map[string]struct{}),
		buttons:  make(map[MouseButton]struct{}),
	}
}

// StateType is the World resource handle. The factory gives each World its
// own State.
var StateType = ecs.NewResourceType[*State]("Input", NewState)

// KeyDown records a press. Auto-repeat events for a key already held do not
// count as a new press.
func (s *State) KeyDown(key string) {
	if _, ok := s.held[key]; ok {
		return
	}
	s.held[key] = struct{}{}
	s.pressed[key] = struct{}{}
}

func (s *State) KeyUp(key string) {
	if _, ok := s.held[key]; !ok {
		return
	}
	delete(s.held, key)
	s.released[key] = struct{}{}
}

func (s *State) MouseMove(x, y float64) {
	s.MouseX, s.MouseY = x, y
}

func (s *State) MouseDown(b MouseButton) { s.buttons[b] = struct{}{} }
func (s *State) MouseUp(b MouseButton)   { delete(s.buttons, b) }

func (s *State) IsKeyDown(key string) bool {
	_, ok := s.held[key]
	return ok
}

// WasKeyPressed reports a press since the last EndFrame.
func (s *State) WasKeyPressed(key string) bool {
	_, ok := s.pressed[key]
	return ok
}

// WasKeyReleased reports a release since the last EndFrame.
func (s *State) WasKeyReleased(key string) bool {
	_, ok := s.released[key]
	return ok
}

func (s *State) IsMouseDown(b MouseButton) bool {
	_, ok := s.buttons[b]
	return ok
}

// EndFrame clears the just-pressed and just-released sets. Held keys,
// buttons and the pointer position carry over.
func (s *State) EndFrame() {
	clear(s.pressed)
	clear(s.released)
}

// Reset drops everything, e.g. when the window loses focus and key-up
// events will never arrive.
func (s *State) Reset() {
	clear(s.held)
	clear(s.buttons)
	s.EndFrame()
}
