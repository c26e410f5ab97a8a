package domain

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

const (
	MaxRoomIDLen       = 64
	GeneratedRoomIDLen = 6
)

var (
	ErrRoomIDEmpty   = errors.New("room id empty")
	ErrRoomIDTooLong = errors.New("room id too long")
	ErrRoomIDInvalid = errors.New("room id has invalid characters")
)

const roomAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// RoomID names a room. It is a session-scoping token, not a secret.
type RoomID string

// ParseRoomID returns the canonical form of a caller-supplied room id:
// trimmed and upper-cased, so "abc123" and "ABC123" name the same room.
func ParseRoomID(raw string) (RoomID, error) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if s == "" {
		return "", ErrRoomIDEmpty
	}
	if len(s) > MaxRoomIDLen {
		return "", ErrRoomIDTooLong
	}
	for _, r := range s {
		switch {
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
		default:
			return "", ErrRoomIDInvalid
		}
	}
	return RoomID(s), nil
}

// NewRoomID generates a short room id such as "K3Z09Q".
func NewRoomID() RoomID {
	u := uuid.New()
	b := make([]byte, GeneratedRoomIDLen)
	for i := range b {
		b[i] = roomAlphabet[int(u[i])%len(roomAlphabet)]
	}
	return RoomID(b)
}
