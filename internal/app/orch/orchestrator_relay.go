package orch

import (
	"encoding/json"

	"github.com/dkeye/huddle/internal/app"
	"github.com/dkeye/huddle/internal/domain"
	"github.com/dkeye/huddle/internal/protocol"
	"github.com/rs/zerolog/log"
)

// Negotiate forwards an opaque payload from one connection to another.
// Rooms are not consulted; an unknown target is a silent drop.
func (o *Orchestrator) Negotiate(from, to domain.ConnID, payload json.RawMessage) error {
	if _, ok := o.Registry.Get(from); !ok {
		return app.ErrNotRegistered
	}
	log.Debug().Str("module", "orch").Str("sid", string(from)).Str("to", string(to)).Int("bytes", len(payload)).Msg("negotiate")
	o.send(to, protocol.TypeNegotiate, protocol.NegotiateOut{
		Type:    protocol.TypeNegotiate,
		From:    from,
		Payload: payload,
	})
	return nil
}
