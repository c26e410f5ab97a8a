package signal

import (
	"github.com/dkeye/huddle/internal/domain"
	"github.com/dkeye/huddle/internal/protocol"
)

func (ctl *SignalWSController) handlePing(
	sid domain.ConnID,
	_ []byte,
) {
	ctl.reply(sid, protocol.TypePong, protocol.Pong{Type: protocol.TypePong})
}
