package workspace

import "github.com/1broseidon/dockwm/internal/platform"

// Signal is a list of subscribers notified in subscription order. The zero
// value is ready to use. Signals are not safe for concurrent use; they fire on
// the message thread.
type Signal[T any] struct {
	subs   []subscriber[T]
	nextID int
}

type subscriber[T any] struct {
	id int
	fn func(T)
}

// Subscribe registers fn and returns a function that removes it.
func (s *Signal[T]) Subscribe(fn func(T)) func() {
	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscriber[T]{id: id, fn: fn})
	return func() {
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

func (s *Signal[T]) emit(v T) {
	subs := s.subs
	for _, sub := range subs {
		sub.fn(v)
	}
}

// WindowEvent reports a change to one window of a workspace.
type WindowEvent struct {
	Workspace *Workspace
	Window    Window
}

// OrderEvent reports a tab-order move. Positions is the number of steps the
// window actually moved.
type OrderEvent struct {
	Workspace *Workspace
	Window    Window
	Positions int
	Backwards bool
}

// MonitorChange reports a workspace moving between monitors.
type MonitorChange struct {
	Workspace *Workspace
	Old       Monitor
	New       Monitor
}

// LayoutChange reports a workspace switching layouts.
type LayoutChange struct {
	Workspace *Workspace
	Old       Layout
}

// Hub carries the notifications shared by every workspace and hands out
// workspace ids.
type Hub struct {
	WindowAdded        Signal[WindowEvent]
	WindowRemoved      Signal[WindowEvent]
	WindowMinimized    Signal[WindowEvent]
	WindowRestored     Signal[WindowEvent]
	WindowOrderChanged Signal[OrderEvent]
	Hidden             Signal[*Workspace]
	Shown              Signal[*Workspace]
	Activated          Signal[*Workspace]
	Deactivated        Signal[*Workspace]
	MonitorChanged     Signal[MonitorChange]
	LayoutChanged      Signal[LayoutChange]
	WindowActivated    Signal[platform.WindowID]
	LayoutUpdated      Signal[struct{}]

	lastID int
}

// NewHub returns an empty hub.
func NewHub() *Hub {
	return &Hub{}
}

// NotifyLayoutUpdated fires LayoutUpdated.
func (h *Hub) NotifyLayoutUpdated() {
	h.LayoutUpdated.emit(struct{}{})
}

func (h *Hub) allocateID() int {
	h.lastID++
	return h.lastID
}
