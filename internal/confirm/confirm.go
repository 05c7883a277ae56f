// Package confirm implements the two-phase flow guarding destructive
// actions: an action is first requested, which opens a confirmation; the
// action only runs once the same user confirms it, and declining drops it
// with no effect.
package confirm

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ActionKind names a destructive action that requires confirmation.
type ActionKind string

const (
	ActionDeleteMessage ActionKind = "delete-message"
	ActionLogout        ActionKind = "logout"
	ActionDeleteAccount ActionKind = "delete-account"
)

// State is the position of a flow in its lifecycle.
type State int

const (
	StateIdle State = iota
	StateConfirming
	StateExecuting
)

var (
	ErrNothingPending    = errors.New("no confirmation is pending")
	ErrExecutionInFlight = errors.New("a confirmed action is already executing")
	ErrUnknownAction     = errors.New("unknown action kind")
)

// Pending describes the action currently awaiting confirmation.
type Pending struct {
	Kind        ActionKind `json:"kind"`
	TargetID    uint       `json:"targetId,omitempty"`
	RequestedAt time.Time  `json:"requestedAt"`
}

// Flow is the per-user confirmation state machine:
// Idle -> Confirming -> Executing -> Idle, or Confirming -> Idle on decline.
// Only one confirmation is active at a time; requesting a new one replaces
// any prior pending context.
type Flow struct {
	mu      sync.Mutex
	state   State
	pending Pending
}

// Request opens a confirmation for the given action, replacing any pending
// one. It returns the pending context the caller should present to the user.
func (f *Flow) Request(kind ActionKind, targetID uint) (Pending, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state == StateExecuting {
		return Pending{}, ErrExecutionInFlight
	}

	f.pending = Pending{Kind: kind, TargetID: targetID, RequestedAt: time.Now()}
	f.state = StateConfirming
	return f.pending, nil
}

// Decline drops the pending confirmation and returns to Idle. Declining with
// nothing pending is a no-op.
func (f *Flow) Decline() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state == StateConfirming {
		f.state = StateIdle
		f.pending = Pending{}
	}
}

// Confirm executes the pending action via fn and returns to Idle whether or
// not fn fails; the error is passed through so the caller can report it.
func (f *Flow) Confirm(ctx context.Context, fn func(ctx context.Context, p Pending) error) error {
	f.mu.Lock()
	switch f.state {
	case StateExecuting:
		f.mu.Unlock()
		return ErrExecutionInFlight
	case StateIdle:
		f.mu.Unlock()
		return ErrNothingPending
	}
	p := f.pending
	f.state = StateExecuting
	f.mu.Unlock()

	err := fn(ctx, p)

	f.mu.Lock()
	f.state = StateIdle
	f.pending = Pending{}
	f.mu.Unlock()

	return err
}

// State returns the flow's current state.
func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// PendingAction returns the pending confirmation, if any.
func (f *Flow) PendingAction() (Pending, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pending, f.state == StateConfirming
}

// Registry hands out one Flow per user.
type Registry struct {
	mu    sync.Mutex
	flows map[uint]*Flow
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{flows: make(map[uint]*Flow)}
}

// Flow returns the flow for userID, creating it on first use.
func (r *Registry) Flow(userID uint) *Flow {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, ok := r.flows[userID]
	if !ok {
		f = &Flow{}
		r.flows[userID] = f
	}
	return f
}

// Drop forgets the flow for userID, used after account deletion.
func (r *Registry) Drop(userID uint) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.flows, userID)
}
