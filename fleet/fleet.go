// Package fleet is the in-memory roster of active drones: who is
// flying, where, and for which operator. The monitor feeds it position
// updates and the separation check consumes roster snapshots from it.
package fleet

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/skyfoundry/airspace-sentinel/core"
)

var (
	ErrDroneExists   = errors.New("drone already registered")
	ErrDroneNotFound = errors.New("drone not found")
	ErrBadDrone      = errors.New("invalid drone")
)

// EventType indicates what kind of change happened in the roster.
type EventType int

const (
	EventPositionUpdated EventType = iota
	EventDroneRemoved
)

// Event is emitted to subscribers when the roster changes.
type Event struct {
	Type  EventType
	State core.DroneState
}

// Roster is a thread-safe store of active drone states.
type Roster struct {
	mu sync.RWMutex

	drones    map[string]*core.DroneState
	subs      map[int]func(Event)
	nextSubID int
}

// NewRoster constructs an empty roster.
func NewRoster() *Roster {
	return &Roster{
		drones: make(map[string]*core.DroneState),
		subs:   make(map[int]func(Event)),
	}
}

// Register adds a new drone. It returns an error if the ID already
// exists.
func (r *Roster) Register(d core.DroneState) error {
	if d.ID == "" {
		return fmt.Errorf("%w: empty ID", ErrBadDrone)
	}
	if !d.Position.IsFinite() {
		return fmt.Errorf("%w: %q has a non-finite position", ErrBadDrone, d.ID)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.drones[d.ID]; exists {
		return fmt.Errorf("%w: %q", ErrDroneExists, d.ID)
	}
	state := d
	r.drones[d.ID] = &state
	return nil
}

// UpdatePosition moves a registered drone and notifies subscribers.
func (r *Roster) UpdatePosition(id string, pos core.Position, speedMS float64) error {
	if !pos.IsFinite() {
		return fmt.Errorf("%w: non-finite position for %q", ErrBadDrone, id)
	}

	r.mu.Lock()
	d, ok := r.drones[id]
	if !ok {
		r.mu.Unlock()
		return fmt.Errorf("%w: %q", ErrDroneNotFound, id)
	}
	d.Position = pos
	d.SpeedMS = speedMS
	event := Event{
		Type:  EventPositionUpdated,
		State: *d, // copy for safety
	}
	subs := r.subscriberList()
	r.mu.Unlock()

	// Notify subscribers outside the lock to avoid deadlocks.
	for _, sub := range subs {
		sub(event)
	}
	return nil
}

// Remove deletes a drone from the roster (landed or lost link).
func (r *Roster) Remove(id string) error {
	r.mu.Lock()
	d, ok := r.drones[id]
	if !ok {
		r.mu.Unlock()
		return fmt.Errorf("%w: %q", ErrDroneNotFound, id)
	}
	event := Event{Type: EventDroneRemoved, State: *d}
	delete(r.drones, id)
	subs := r.subscriberList()
	r.mu.Unlock()

	for _, sub := range subs {
		sub(event)
	}
	return nil
}

// Get returns the drone with the given ID, or nil if not found.
func (r *Roster) Get(id string) *core.DroneState {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if d, ok := r.drones[id]; ok {
		state := *d
		return &state
	}
	return nil
}

// Snapshot returns a value copy of every active drone, sorted by ID so
// callers see a stable ordering.
func (r *Roster) Snapshot() []core.DroneState {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]core.DroneState, 0, len(r.drones))
	for _, d := range r.drones {
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Peers returns the roster snapshot minus the named drone: exactly the
// input shape the separation check wants.
func (r *Roster) Peers(selfID string) []core.DroneState {
	all := r.Snapshot()
	out := all[:0]
	for _, d := range all {
		if d.ID != selfID {
			out = append(out, d)
		}
	}
	return out
}

// CountByOperator returns how many active drones each operator has.
func (r *Roster) CountByOperator() map[string]int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]int)
	for _, d := range r.drones {
		out[d.OperatorID]++
	}
	return out
}

// Subscribe registers a callback for roster events. It returns an
// unsubscribe function; subscribers are keyed by token, so callers may
// unsubscribe in any order. Calling unsubscribe twice is a no-op.
func (r *Roster) Subscribe(fn func(Event)) (unsubscribe func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	token := r.nextSubID
	r.nextSubID++
	r.subs[token] = fn

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		delete(r.subs, token)
	}
}

// subscriberList copies the current callbacks so notification can run
// outside the lock. Caller must hold r.mu.
func (r *Roster) subscriberList() []func(Event) {
	out := make([]func(Event), 0, len(r.subs))
	for _, fn := range r.subs {
		out = append(out, fn)
	}
	return out
}
