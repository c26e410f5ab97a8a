package orch

import (
	"errors"
	"sync"
	"time"

	"github.com/dkeye/huddle/internal/app"
	"github.com/dkeye/huddle/internal/core"
	"github.com/dkeye/huddle/internal/domain"
	"github.com/dkeye/huddle/internal/metrics"
	"github.com/dkeye/huddle/internal/protocol"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/panics"
)

const DefaultMaxChatLen = 2000

// Orchestrator coordinates the connection registry and the room directory
// and routes every outbound frame to per-connection queues.
type Orchestrator struct {
	Registry   *app.Registry
	Rooms      *app.Directory
	Policy     app.Policy
	Metrics    *metrics.Metrics
	Clock      func() time.Time
	MaxChatLen int

	// mu serializes join/leave so both registries move together.
	mu sync.Mutex
}

func (o *Orchestrator) now() time.Time {
	if o.Clock != nil {
		return o.Clock()
	}
	return time.Now()
}

func (o *Orchestrator) maxChatLen() int {
	if o.MaxChatLen <= 0 {
		return DefaultMaxChatLen
	}
	return o.MaxChatLen
}

// send encodes v and delivers it to one recipient.
func (o *Orchestrator) send(to domain.ConnID, t protocol.Type, v any) {
	frame, err := protocol.Encode(v)
	if err != nil {
		log.Error().Err(err).Str("module", "orch").Str("type", string(t)).Msg("encode failed")
		o.Metrics.Dropped(metrics.DropEncode)
		return
	}
	o.deliver(to, t, frame)
}

// fanout encodes v once and delivers it to every id except skip.
func (o *Orchestrator) fanout(ids []domain.ConnID, skip domain.ConnID, t protocol.Type, v any) {
	frame, err := protocol.Encode(v)
	if err != nil {
		log.Error().Err(err).Str("module", "orch").Str("type", string(t)).Msg("encode failed")
		o.Metrics.Dropped(metrics.DropEncode)
		return
	}
	for _, id := range ids {
		if id == skip {
			continue
		}
		o.deliver(id, t, frame)
	}
}

// deliver never blocks and never fails the caller; a broken recipient
// only affects itself.
func (o *Orchestrator) deliver(to domain.ConnID, t protocol.Type, frame core.Frame) {
	sig, ok := o.Registry.Signal(to)
	if !ok {
		log.Debug().Str("module", "orch").Str("sid", string(to)).Str("type", string(t)).Msg("recipient not live")
		o.Metrics.Dropped(metrics.DropNotLive)
		return
	}

	var sendErr error
	var pc panics.Catcher
	pc.Try(func() { sendErr = sig.TrySend(frame) })
	if r := pc.Recovered(); r != nil {
		log.Error().Err(r.AsError()).Str("module", "orch").Str("sid", string(to)).Msg("delivery panicked")
		o.Metrics.Dropped(metrics.DropPanic)
		return
	}

	switch {
	case sendErr == nil:
		o.Metrics.Delivered(string(t))
	case errors.Is(sendErr, core.ErrConnClosed):
		log.Debug().Str("module", "orch").Str("sid", string(to)).Str("type", string(t)).Msg("recipient closed")
		o.Metrics.Dropped(metrics.DropClosed)
	default:
		log.Warn().Err(sendErr).Str("module", "orch").Str("sid", string(to)).Str("type", string(t)).Msg("frame dropped")
		o.Metrics.Dropped(metrics.DropBackpressure)
		o.onBackpressure(to, sig, sendErr)
	}
}

func (o *Orchestrator) onBackpressure(id domain.ConnID, sig core.SignalConnection, err error) {
	if o.Policy == nil {
		return
	}
	switch o.Policy.OnBackPressure(id, err) {
	case app.KickMember:
		log.Warn().Str("module", "orch").Str("sid", string(id)).Msg("kicking slow connection")
		o.closeConn(id, sig)
	case app.DropFrame:
	}
}

// Reply sends a frame to a single connection; used by adapters for
// acknowledgements and errors.
func (o *Orchestrator) Reply(to domain.ConnID, t protocol.Type, v any) {
	o.send(to, t, v)
}

// closeConn shuts the socket and cancels its context. Membership is cleaned
// up by the read pump's Disconnect, so this is safe while o.mu is held.
func (o *Orchestrator) closeConn(id domain.ConnID, sig core.SignalConnection) {
	sig.Close()
	o.Registry.Cancel(id)
}

func (o *Orchestrator) syncGauges() {
	o.Metrics.SetConnections(o.Registry.Count())
	o.Metrics.SetRooms(o.Rooms.Count())
}
