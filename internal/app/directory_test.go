package app

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/huddle/internal/domain"
)

func TestDirectory_JoinOrder(t *testing.T) {
	d := NewDirectory()

	assert.Equal(t, []domain.ConnID{"a"}, d.Join("R", "a"))
	assert.Equal(t, []domain.ConnID{"a", "b"}, d.Join("R", "b"))
	assert.Equal(t, []domain.ConnID{"a", "b", "c"}, d.Join("R", "c"))
	assert.Equal(t, []domain.ConnID{"a", "b", "c"}, d.Join("R", "b"), "rejoin does not duplicate")
}

func TestDirectory_Leave(t *testing.T) {
	tests := []struct {
		name        string
		joined      []domain.ConnID
		leave       domain.ConnID
		wantMembers []domain.ConnID
		wantDeleted bool
		wantExists  bool
	}{
		{
			name:        "sole member deletes room",
			joined:      []domain.ConnID{"a"},
			leave:       "a",
			wantDeleted: true,
		},
		{
			name:        "one of two keeps room",
			joined:      []domain.ConnID{"a", "b"},
			leave:       "a",
			wantMembers: []domain.ConnID{"b"},
			wantExists:  true,
		},
		{
			name:        "non member is noop",
			joined:      []domain.ConnID{"a"},
			leave:       "z",
			wantMembers: []domain.ConnID{"a"},
			wantExists:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDirectory()
			for _, id := range tt.joined {
				d.Join("R", id)
			}

			remaining, deleted := d.Leave("R", tt.leave)

			assert.Equal(t, tt.wantMembers, remaining)
			assert.Equal(t, tt.wantDeleted, deleted)
			assert.Equal(t, tt.wantExists, d.Exists("R"))
		})
	}
}

func TestDirectory_AbsentRoom(t *testing.T) {
	d := NewDirectory()

	members := d.Members("nope")
	assert.Empty(t, members)
	remaining, deleted := d.Leave("nope", "a")
	assert.Nil(t, remaining)
	assert.False(t, deleted)
	assert.False(t, d.Exists("nope"))
}

func TestDirectory_MembersIsCopy(t *testing.T) {
	d := NewDirectory()
	d.Join("R", "a")

	m := d.Members("R")
	m[0] = "mutated"

	assert.Equal(t, []domain.ConnID{"a"}, d.Members("R"))
}

func TestDirectory_List(t *testing.T) {
	d := NewDirectory()
	d.Join("ZED", "a")
	d.Join("ABC", "b")
	d.Join("ABC", "c")

	assert.Equal(t, []RoomInfo{{Room: "ABC", Members: 2}, {Room: "ZED", Members: 1}}, d.List())
	assert.Equal(t, 2, d.Count())
}

func TestDirectory_ConcurrentJoinLeave(t *testing.T) {
	d := NewDirectory()
	var wg sync.WaitGroup
	for i := range 64 {
		wg.Add(1)
		go func(id domain.ConnID) {
			defer wg.Done()
			d.Join("R", id)
			d.Leave("R", id)
		}(domain.ConnID(fmt.Sprintf("c%d", i)))
	}
	wg.Wait()

	require.False(t, d.Exists("R"))
	assert.Equal(t, 0, d.Count())
}
