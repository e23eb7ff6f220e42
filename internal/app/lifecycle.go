package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/bft-labs/replay/internal/domain"
	"github.com/bft-labs/replay/internal/ports"
)

// State is a recorder's position in its capture lifecycle.
type State int

const (
	StateStopped State = iota
	StateStarting
	StateRunning
	StateStopping
	StateCrashed
)

var stateNames = [...]string{"Stopped", "Starting", "Running", "Stopping", "Crashed"}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "Unknown"
	}
	return stateNames[s]
}

// next lists the moves a capture run can make. An interrupt may arrive
// while the writer is still starting, and a crashed recorder may run again.
var next = map[State][]State{
	StateStopped:  {StateStarting},
	StateStarting: {StateRunning, StateStopping, StateCrashed},
	StateRunning:  {StateStopping, StateCrashed},
	StateStopping: {StateStopped, StateCrashed},
	StateCrashed:  {StateStarting},
}

// EventEmitter is told about every state change.
type EventEmitter interface {
	OnStateChange(previous, current State, reason string)
}

// Lifecycle holds a recorder's state and the cancel func of its current run.
type Lifecycle struct {
	mu      sync.Mutex
	state   State
	cancel  context.CancelFunc
	logger  ports.Logger
	emitter EventEmitter
}

// NewLifecycle returns a lifecycle in StateStopped. emitter may be nil.
func NewLifecycle(logger ports.Logger, emitter EventEmitter) *Lifecycle {
	return &Lifecycle{state: StateStopped, logger: logger, emitter: emitter}
}

func (l *Lifecycle) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// TransitionTo moves to state and reports the change. A move that is not
// listed in next leaves the state as is and returns an error wrapping
// domain.ErrInvalidTransition. Reaching Stopped or Crashed drops the cancel
// func of the finished run.
func (l *Lifecycle) TransitionTo(state State, reason string) error {
	l.mu.Lock()
	from := l.state
	if !canMove(from, state) {
		l.mu.Unlock()
		return fmt.Errorf("%w: %s to %s", domain.ErrInvalidTransition, from, state)
	}
	l.state = state
	if state == StateStopped || state == StateCrashed {
		l.cancel = nil
	}
	l.mu.Unlock()

	if l.emitter != nil {
		l.emitter.OnStateChange(from, state, reason)
	}
	l.logger.Debug("state transition",
		ports.String("from", from.String()),
		ports.String("to", state.String()),
		ports.String("reason", reason),
	)
	return nil
}

func canMove(from, to State) bool {
	for _, s := range next[from] {
		if s == to {
			return true
		}
	}
	return false
}

// SetCancel registers the cancel func Cancel invokes for the current run.
func (l *Lifecycle) SetCancel(cancel context.CancelFunc) {
	l.mu.Lock()
	l.cancel = cancel
	l.mu.Unlock()
}

// Cancel interrupts the current run, if any.
func (l *Lifecycle) Cancel() {
	l.mu.Lock()
	cancel := l.cancel
	l.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}
