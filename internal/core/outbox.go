package core

import "sync"

// Outbox is a bounded FIFO of frames waiting for a write pump.
// It implements SignalConnection.
type Outbox struct {
	send chan Frame

	mu     sync.RWMutex
	closed bool
}

func NewOutbox(size int) *Outbox {
	if size <= 0 {
		size = 1
	}
	return &Outbox{send: make(chan Frame, size)}
}

func (o *Outbox) TrySend(f Frame) error {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if o.closed {
		return ErrConnClosed
	}
	select {
	case o.send <- f:
	default:
		return ErrBackpressure
	}
	return nil
}

// C is drained by the write pump. It is closed by Close.
func (o *Outbox) C() <-chan Frame { return o.send }

func (o *Outbox) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return
	}
	o.closed = true
	close(o.send)
}
