package app

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/huddle/internal/core"
	"github.com/dkeye/huddle/internal/domain"
)

func TestRegistry_Lifecycle(t *testing.T) {
	r := NewRegistry()
	out := core.NewOutbox(1)

	require.True(t, r.Register(domain.NewConnection("c1", "tok"), out, nil))
	assert.False(t, r.Register(domain.NewConnection("c1", "tok"), out, nil), "duplicate id")
	assert.Equal(t, 1, r.Count())

	_, ok := r.Lookup("c1")
	assert.False(t, ok, "no room before join")

	require.True(t, r.SetRoom("c1", "ABC123"))
	room, ok := r.Lookup("c1")
	require.True(t, ok)
	assert.Equal(t, domain.RoomID("ABC123"), room)

	sig, ok := r.Signal("c1")
	require.True(t, ok)
	assert.Same(t, out, sig)

	require.True(t, r.ClearRoom("c1"))
	_, ok = r.Lookup("c1")
	assert.False(t, ok)

	require.True(t, r.Unregister("c1"))
	assert.Equal(t, 0, r.Count())
}

func TestRegistry_MissingIDIsSafe(t *testing.T) {
	r := NewRegistry()

	_, ok := r.Lookup("ghost")
	assert.False(t, ok)
	_, ok = r.Get("ghost")
	assert.False(t, ok)
	_, ok = r.Signal("ghost")
	assert.False(t, ok)
	assert.False(t, r.SetRoom("ghost", "R"))
	assert.False(t, r.ClearRoom("ghost"))
	assert.False(t, r.Unregister("ghost"))
	assert.False(t, r.Cancel("ghost"))
	assert.ErrorIs(t, r.SetLabel("ghost", "x"), ErrNotRegistered)
}

func TestRegistry_SetLabel(t *testing.T) {
	r := NewRegistry()
	r.Register(domain.NewConnection("c1", ""), nil, nil)

	require.NoError(t, r.SetLabel("c1", "alice"))
	snap, ok := r.Get("c1")
	require.True(t, ok)
	assert.Equal(t, "alice", snap.Meta.Label)

	assert.ErrorIs(t, r.SetLabel("c1", strings.Repeat("x", domain.MaxLabelLen+1)), domain.ErrLabelTooLong)
}

func TestRegistry_Cancel(t *testing.T) {
	r := NewRegistry()
	ctx, cancel := context.WithCancel(context.Background())
	r.Register(domain.NewConnection("c1", ""), nil, cancel)

	require.True(t, r.Cancel("c1"))
	assert.ErrorIs(t, ctx.Err(), context.Canceled)
}
