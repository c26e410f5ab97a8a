package orch

import (
	"context"
	"fmt"
	"slices"

	"github.com/dkeye/huddle/internal/app"
	"github.com/dkeye/huddle/internal/core"
	"github.com/dkeye/huddle/internal/domain"
	"github.com/dkeye/huddle/internal/protocol"
	"github.com/rs/zerolog/log"
)

// maxRoomIDAttempts bounds collision retries when generating a room id.
const maxRoomIDAttempts = 16

// Connect registers a live connection with no room.
func (o *Orchestrator) Connect(meta *domain.Connection, sig core.SignalConnection, cancel context.CancelFunc) bool {
	if !o.Registry.Register(meta, sig, cancel) {
		log.Warn().Str("module", "orch").Str("sid", string(meta.ID)).Msg("connection id already registered")
		return false
	}
	o.syncGauges()
	return true
}

// Join places id into rawRoom, generating a room id when rawRoom is empty.
// The joiner gets room-state, every other member gets peer-joined.
func (o *Orchestrator) Join(id domain.ConnID, rawRoom, label string) (domain.RoomID, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	snap, ok := o.Registry.Get(id)
	if !ok {
		return "", app.ErrNotRegistered
	}
	if snap.Room != "" {
		return snap.Room, app.ErrAlreadyJoined
	}

	room, err := o.resolveRoom(rawRoom)
	if err != nil {
		return "", err
	}
	if err := o.Registry.SetLabel(id, label); err != nil {
		return "", err
	}

	o.Registry.SetRoom(id, room)
	members := o.Rooms.Join(room, id)
	initiator := pickInitiator(members)

	log.Info().Str("module", "orch").Str("sid", string(id)).Str("room", string(room)).Int("members", len(members)).Msg("joined room")

	o.send(id, protocol.TypeRoomState, protocol.RoomState{
		Type:      protocol.TypeRoomState,
		SelfID:    id,
		Room:      room,
		Members:   members,
		Initiator: initiator,
	})
	o.fanout(members, id, protocol.TypePeerJoined, protocol.PeerJoined{
		Type:      protocol.TypePeerJoined,
		PeerID:    id,
		Members:   members,
		Initiator: initiator,
	})
	o.syncGauges()
	return room, nil
}

func (o *Orchestrator) resolveRoom(raw string) (domain.RoomID, error) {
	if raw == "" {
		for range maxRoomIDAttempts {
			room := domain.NewRoomID()
			if !o.Rooms.Exists(room) {
				return room, nil
			}
		}
		return "", fmt.Errorf("%w: no free room id", app.ErrInvalidRoom)
	}
	room, err := domain.ParseRoomID(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %w", app.ErrInvalidRoom, err)
	}
	return room, nil
}

// pickInitiator names the offering side of a pair: the lowest id.
func pickInitiator(members []domain.ConnID) domain.ConnID {
	if len(members) != 2 {
		return ""
	}
	return slices.Min(members)
}

// Leave removes id from its room but keeps the connection registered.
// It returns the room left, or ErrNotJoined.
func (o *Orchestrator) Leave(id domain.ConnID) (domain.RoomID, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	room, ok := o.leave(id)
	if !ok {
		return "", app.ErrNotJoined
	}
	o.syncGauges()
	return room, nil
}

// Disconnect removes id from its room and unregisters it. Safe to call twice.
func (o *Orchestrator) Disconnect(id domain.ConnID) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.leave(id)
	if o.Registry.Unregister(id) {
		log.Info().Str("module", "orch").Str("sid", string(id)).Msg("disconnected")
	}
	o.syncGauges()
}

// leave must be called with o.mu held.
func (o *Orchestrator) leave(id domain.ConnID) (domain.RoomID, bool) {
	room, ok := o.Registry.Lookup(id)
	if !ok {
		return "", false
	}
	remaining, deleted := o.Rooms.Leave(room, id)
	o.Registry.ClearRoom(id)

	log.Info().Str("module", "orch").Str("sid", string(id)).Str("room", string(room)).Bool("room_deleted", deleted).Msg("left room")

	o.fanout(remaining, id, protocol.TypePeerLeft, protocol.PeerLeft{
		Type:   protocol.TypePeerLeft,
		PeerID: id,
	})
	return room, true
}

// EvictRoom closes and disconnects every member of room.
func (o *Orchestrator) EvictRoom(room domain.RoomID) int {
	members := o.Rooms.Members(room)
	for _, id := range members {
		if sig, ok := o.Registry.Signal(id); ok {
			o.closeConn(id, sig)
		}
		o.Disconnect(id)
	}
	log.Info().Str("module", "orch").Str("room", string(room)).Int("members", len(members)).Msg("room evicted")
	return len(members)
}

// WhoAmI reports id's label and current room.
func (o *Orchestrator) WhoAmI(id domain.ConnID) (protocol.WhoAmI, error) {
	snap, ok := o.Registry.Get(id)
	if !ok {
		return protocol.WhoAmI{}, app.ErrNotRegistered
	}
	return protocol.WhoAmI{
		Type:   protocol.TypeWhoAmI,
		SelfID: id,
		Label:  snap.Meta.Label,
		Room:   snap.Room,
	}, nil
}
