package core

import "errors"

var (
	ErrBackpressure = errors.New("backpressure")
	ErrConnClosed   = errors.New("connection closed")
)

// Frame is a raw encoded outbound message.
type Frame []byte

// SignalConnection abstracts the outbound side of a messaging transport.
// Owned by the adapter; the adapter must Close() it.
// TrySend never blocks: a full queue returns ErrBackpressure, a closed one ErrConnClosed.
type SignalConnection interface {
	TrySend(Frame) error
	Close()
}
