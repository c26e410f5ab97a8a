// Package protocol defines the tagged JSON messages exchanged over the
// signal socket. Every frame is an object with a "type" field.
package protocol

import (
	"encoding/json"
	"errors"

	"github.com/dkeye/huddle/internal/core"
	"github.com/dkeye/huddle/internal/domain"
)

type Type string

const (
	TypeJoinRoom   Type = "join-room"
	TypeRoomState  Type = "room-state"
	TypePeerJoined Type = "peer-joined"
	TypePeerLeft   Type = "peer-left"
	TypeNegotiate  Type = "negotiate"
	TypeDraw       Type = "draw"
	TypeClear      Type = "clear"
	TypeUndo       Type = "undo"
	TypeChat       Type = "chat"
	TypeLeave      Type = "leave"
	TypeLeft       Type = "left"
	TypePing       Type = "ping"
	TypePong       Type = "pong"
	TypeWhoAmI     Type = "whoami"
	TypeError      Type = "error"
)

// TimestampLayout is the chat timestamp format (ISO-8601, UTC, milliseconds).
const TimestampLayout = "2006-01-02T15:04:05.000Z"

var ErrMissingType = errors.New("missing type")

// InboundTypes lists every tag a client may send.
func InboundTypes() []Type {
	return []Type{
		TypeJoinRoom,
		TypeNegotiate,
		TypeDraw,
		TypeClear,
		TypeUndo,
		TypeChat,
		TypeLeave,
		TypePing,
		TypeWhoAmI,
	}
}

// IsEvent reports whether t is a fan-out event relayed without echo.
func (t Type) IsEvent() bool {
	switch t {
	case TypeDraw, TypeClear, TypeUndo:
		return true
	}
	return false
}

type Envelope struct {
	Type Type `json:"type"`
}

// DecodeType reads only the tag of a frame.
func DecodeType(data []byte) (Type, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return "", err
	}
	if env.Type == "" {
		return "", ErrMissingType
	}
	return env.Type, nil
}

func Encode(v any) (core.Frame, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return core.Frame(b), nil
}

// Inbound payloads.

type JoinRoom struct {
	Room        string `json:"room" validate:"max=64"`
	RequestedID string `json:"requestedId,omitempty" validate:"max=36"`
}

type NegotiateIn struct {
	To      domain.ConnID   `json:"to" validate:"required,max=64"`
	Payload json.RawMessage `json:"payload"`
}

type EventIn struct {
	Payload json.RawMessage `json:"payload,omitempty"`
}

type ChatIn struct {
	Text string `json:"text"`
}

// Outbound messages.

type RoomState struct {
	Type      Type            `json:"type"`
	SelfID    domain.ConnID   `json:"selfId"`
	Room      domain.RoomID   `json:"room"`
	Members   []domain.ConnID `json:"members"`
	Initiator domain.ConnID   `json:"initiator,omitempty"`
}

type PeerJoined struct {
	Type      Type            `json:"type"`
	PeerID    domain.ConnID   `json:"peerId"`
	Members   []domain.ConnID `json:"members"`
	Initiator domain.ConnID   `json:"initiator,omitempty"`
}

type PeerLeft struct {
	Type   Type          `json:"type"`
	PeerID domain.ConnID `json:"peerId"`
}

type NegotiateOut struct {
	Type    Type            `json:"type"`
	From    domain.ConnID   `json:"from"`
	Payload json.RawMessage `json:"payload"`
}

type EventOut struct {
	Type    Type            `json:"type"`
	From    domain.ConnID   `json:"from"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type ChatOut struct {
	Type Type          `json:"type"`
	From domain.ConnID `json:"from"`
	Text string        `json:"text"`
	TS   string        `json:"ts"`
}

type Left struct {
	Type Type          `json:"type"`
	Room domain.RoomID `json:"room,omitempty"`
}

type Pong struct {
	Type Type `json:"type"`
}

type WhoAmI struct {
	Type   Type          `json:"type"`
	SelfID domain.ConnID `json:"selfId"`
	Label  string        `json:"label"`
	Room   domain.RoomID `json:"room,omitempty"`
}

type ErrorCode string

const (
	CodeBadPayload    ErrorCode = "bad-payload"
	CodeUnknownType   ErrorCode = "unknown-type"
	CodeAlreadyJoined ErrorCode = "already-joined"
	CodeInvalidRoom   ErrorCode = "invalid-room"
	CodeRateLimited   ErrorCode = "rate-limited"
)

type Error struct {
	Type  Type      `json:"type"`
	Code  ErrorCode `json:"code"`
	Error string    `json:"error"`
}

func NewError(code ErrorCode, msg string) Error {
	return Error{Type: TypeError, Code: code, Error: msg}
}
