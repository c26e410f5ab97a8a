package app

import (
	"context"
	"sync"

	"github.com/dkeye/huddle/internal/core"
	"github.com/dkeye/huddle/internal/domain"
	"github.com/rs/zerolog/log"
)

type connEntry struct {
	Room   domain.RoomID
	Meta   domain.Connection
	Signal core.SignalConnection
	Cancel context.CancelFunc
}

// ConnSnapshot is a copy of a registry entry, safe to read without locks.
type ConnSnapshot struct {
	Meta domain.Connection
	Room domain.RoomID
}

// Registry maps live connections to their current room and outbound transport.
// Every method is safe to call with an id that is not registered.
type Registry struct {
	mu    sync.RWMutex
	conns map[domain.ConnID]*connEntry
}

func NewRegistry() *Registry {
	return &Registry{
		conns: make(map[domain.ConnID]*connEntry),
	}
}

// Register creates an entry with no room. It reports false if id is already live.
func (r *Registry) Register(meta *domain.Connection, sig core.SignalConnection, cancel context.CancelFunc) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.conns[meta.ID]; ok {
		return false
	}
	r.conns[meta.ID] = &connEntry{Meta: *meta, Signal: sig, Cancel: cancel}
	log.Info().Str("module", "app.registry").Str("sid", string(meta.ID)).Msg("registered connection")
	return true
}

func (r *Registry) Unregister(id domain.ConnID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.conns[id]; !ok {
		return false
	}
	delete(r.conns, id)
	log.Info().Str("module", "app.registry").Str("sid", string(id)).Msg("unregistered connection")
	return true
}

func (r *Registry) Get(id domain.ConnID) (ConnSnapshot, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.conns[id]
	if !ok {
		return ConnSnapshot{}, false
	}
	return ConnSnapshot{Meta: e.Meta, Room: e.Room}, true
}

// Lookup returns the room of id; ok is false when id is unknown or not joined.
func (r *Registry) Lookup(id domain.ConnID) (domain.RoomID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.conns[id]
	if !ok || e.Room == "" {
		return "", false
	}
	return e.Room, true
}

func (r *Registry) Signal(id domain.ConnID) (core.SignalConnection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.conns[id]
	if !ok || e.Signal == nil {
		return nil, false
	}
	return e.Signal, true
}

func (r *Registry) SetRoom(id domain.ConnID, room domain.RoomID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.conns[id]
	if !ok {
		return false
	}
	e.Room = room
	log.Info().Str("module", "app.registry").Str("sid", string(id)).Str("room", string(room)).Msg("updated room")
	return true
}

func (r *Registry) ClearRoom(id domain.ConnID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.conns[id]
	if !ok {
		return false
	}
	e.Room = ""
	log.Info().Str("module", "app.registry").Str("sid", string(id)).Msg("removed room association")
	return true
}

func (r *Registry) SetLabel(id domain.ConnID, label string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.conns[id]
	if !ok {
		return ErrNotRegistered
	}
	return e.Meta.SetLabel(label)
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}

// Cancel fires the connection's context cancel func, if any.
func (r *Registry) Cancel(id domain.ConnID) bool {
	r.mu.RLock()
	e, ok := r.conns[id]
	r.mu.RUnlock()
	if !ok {
		return false
	}
	if e.Cancel != nil {
		e.Cancel()
	}
	log.Info().Str("module", "app.registry").Str("sid", string(id)).Msg("canceled connection")
	return true
}
