package signal

import (
	"github.com/dkeye/huddle/internal/domain"
	"github.com/dkeye/huddle/internal/protocol"
	"github.com/rs/zerolog/log"
)

// handleNegotiate relays offers, answers and candidates verbatim to the addressed peer.
func (ctl *SignalWSController) handleNegotiate(
	sid domain.ConnID,
	data []byte,
) {
	var p protocol.NegotiateIn
	if !ctl.decode(sid, data, &p) {
		return
	}
	if err := ctl.Orch.Negotiate(sid, p.To, p.Payload); err != nil {
		log.Debug().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("negotiate dropped")
	}
}
