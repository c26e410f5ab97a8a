package signal

import (
	"github.com/dkeye/huddle/internal/domain"
	"github.com/dkeye/huddle/internal/protocol"
	"github.com/rs/zerolog/log"
)

func (ctl *SignalWSController) handleWhoAmI(
	sid domain.ConnID,
	_ []byte,
) {
	resp, err := ctl.Orch.WhoAmI(sid)
	if err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("whoami")
		return
	}
	ctl.reply(sid, protocol.TypeWhoAmI, resp)
}
