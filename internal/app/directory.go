package app

import (
	"slices"
	"sync"

	"github.com/dkeye/huddle/internal/domain"
	"github.com/rs/zerolog/log"
)

type RoomInfo struct {
	Room    domain.RoomID `json:"room"`
	Members int           `json:"members"`
}

// Directory maps rooms to their members in join order.
// A room exists only while it has at least one member.
type Directory struct {
	mu    sync.RWMutex
	rooms map[domain.RoomID][]domain.ConnID
}

func NewDirectory() *Directory {
	return &Directory{rooms: make(map[domain.RoomID][]domain.ConnID)}
}

// Join adds id to room, creating the room if needed, and returns the post-join members.
func (d *Directory) Join(room domain.RoomID, id domain.ConnID) []domain.ConnID {
	d.mu.Lock()
	defer d.mu.Unlock()
	members, ok := d.rooms[room]
	if !ok {
		log.Info().Str("module", "app.directory").Str("room", string(room)).Msg("room created")
	}
	if !slices.Contains(members, id) {
		members = append(members, id)
		d.rooms[room] = members
	}
	return slices.Clone(members)
}

// Leave removes id from room and deletes the room once empty.
func (d *Directory) Leave(room domain.RoomID, id domain.ConnID) (remaining []domain.ConnID, deleted bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	members, ok := d.rooms[room]
	if !ok {
		return nil, false
	}
	members = slices.DeleteFunc(members, func(m domain.ConnID) bool { return m == id })
	if len(members) == 0 {
		delete(d.rooms, room)
		log.Info().Str("module", "app.directory").Str("room", string(room)).Msg("room removed")
		return nil, true
	}
	d.rooms[room] = members
	return slices.Clone(members), false
}

// Members returns a copy of the member list; an absent room yields an empty slice.
func (d *Directory) Members(room domain.RoomID) []domain.ConnID {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return slices.Clone(d.rooms[room])
}

func (d *Directory) Exists(room domain.RoomID) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.rooms[room]
	return ok
}

func (d *Directory) Count() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.rooms)
}

func (d *Directory) List() []RoomInfo {
	d.mu.RLock()
	out := make([]RoomInfo, 0, len(d.rooms))
	for room, members := range d.rooms {
		out = append(out, RoomInfo{Room: room, Members: len(members)})
	}
	d.mu.RUnlock()
	slices.SortFunc(out, func(a, b RoomInfo) int {
		switch {
		case a.Room < b.Room:
			return -1
		case a.Room > b.Room:
			return 1
		}
		return 0
	})
	return out
}
