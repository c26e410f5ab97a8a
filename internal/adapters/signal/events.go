package signal

import (
	"github.com/dkeye/huddle/internal/domain"
	"github.com/dkeye/huddle/internal/protocol"
	"github.com/rs/zerolog/log"
)

func (ctl *SignalWSController) handleEvent(kind protocol.Type) handlerFunc {
	return func(sid domain.ConnID, data []byte) {
		var p protocol.EventIn
		if !ctl.decode(sid, data, &p) {
			return
		}
		if err := ctl.Orch.Broadcast(sid, kind, p.Payload); err != nil {
			log.Debug().Err(err).Str("module", "signal").Str("sid", string(sid)).Str("type", string(kind)).Msg("event dropped")
		}
	}
}

func (ctl *SignalWSController) handleChat(
	sid domain.ConnID,
	data []byte,
) {
	var p protocol.ChatIn
	if !ctl.decode(sid, data, &p) {
		return
	}
	if err := ctl.Orch.Chat(sid, p.Text); err != nil {
		log.Debug().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("chat dropped")
	}
}
