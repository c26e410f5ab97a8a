package protocol

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/huddle/internal/domain"
)

func TestDecodeType(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		want    Type
		wantErr bool
	}{
		{name: "join", data: `{"type":"join-room","room":"ABC123"}`, want: TypeJoinRoom},
		{name: "extra fields", data: `{"type":"draw","payload":{"x":1}}`, want: TypeDraw},
		{name: "missing type", data: `{"room":"x"}`, wantErr: true},
		{name: "not json", data: `nope`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeType([]byte(tt.data))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestType_IsEvent(t *testing.T) {
	assert.True(t, TypeDraw.IsEvent())
	assert.True(t, TypeClear.IsEvent())
	assert.True(t, TypeUndo.IsEvent())
	assert.False(t, TypeChat.IsEvent())
	assert.False(t, TypeNegotiate.IsEvent())
}

func TestEncode_OmitsEmptyOptionalFields(t *testing.T) {
	f, err := Encode(EventOut{Type: TypeClear, From: "a"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"clear","from":"a"}`, string(f))

	f, err = Encode(RoomState{Type: TypeRoomState, SelfID: "a", Room: "R", Members: []domain.ConnID{"a"}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"room-state","selfId":"a","room":"R","members":["a"]}`, string(f))
}

func TestEncode_PayloadPassthrough(t *testing.T) {
	raw := json.RawMessage(`{"sdp":"v=0","type":"offer"}`)
	f, err := Encode(NegotiateOut{Type: TypeNegotiate, From: "a", Payload: raw})
	require.NoError(t, err)

	var out struct {
		Payload json.RawMessage `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(f, &out))
	assert.JSONEq(t, string(raw), string(out.Payload))
}
