package replay

import "github.com/bft-labs/replay/internal/app"

// State is the lifecycle state of a capture.
type State = app.State

// Capture lifecycle states.
const (
	StateStopped  = app.StateStopped
	StateStarting = app.StateStarting
	StateRunning  = app.StateRunning
	StateStopping = app.StateStopping
	StateCrashed  = app.StateCrashed
)

// StateChangeEvent describes a capture lifecycle transition.
type StateChangeEvent struct {
	Previous State
	Current  State
	Reason   string
}

// EventHandler receives capture lifecycle events.
type EventHandler interface {
	OnStateChange(event StateChangeEvent)
}

// BaseEventHandler implements EventHandler with no-op methods. Embed it to
// handle only the events you need.
type BaseEventHandler struct{}

// OnStateChange implements EventHandler.
func (BaseEventHandler) OnStateChange(StateChangeEvent) {}

// eventEmitterWrapper adapts an EventHandler to app.EventEmitter.
type eventEmitterWrapper struct {
	handler EventHandler
}

func (w eventEmitterWrapper) OnStateChange(previous, current app.State, reason string) {
	if w.handler == nil {
		return
	}
	w.handler.OnStateChange(StateChangeEvent{Previous: previous, Current: current, Reason: reason})
}
