package signal

import (
	"errors"

	"github.com/dkeye/huddle/internal/app"
	"github.com/dkeye/huddle/internal/domain"
	"github.com/dkeye/huddle/internal/protocol"
	"github.com/rs/zerolog/log"
)

func (ctl *SignalWSController) handleJoin(
	sid domain.ConnID,
	data []byte,
) {
	var p protocol.JoinRoom
	if !ctl.decode(sid, data, &p) {
		return
	}

	room, err := ctl.Orch.Join(sid, p.Room, p.RequestedID)
	switch {
	case err == nil:
		log.Info().Str("module", "signal").Str("sid", string(sid)).Str("room", string(room)).Msg("join")
	case errors.Is(err, app.ErrAlreadyJoined):
		ctl.replyError(sid, protocol.CodeAlreadyJoined, "already in room "+string(room))
	case errors.Is(err, app.ErrInvalidRoom):
		ctl.replyError(sid, protocol.CodeInvalidRoom, err.Error())
	case errors.Is(err, domain.ErrLabelTooLong):
		ctl.replyError(sid, protocol.CodeBadPayload, err.Error())
	default:
		log.Error().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("join failed")
	}
}

// handleLeave exits the current room; the socket stays open.
func (ctl *SignalWSController) handleLeave(
	sid domain.ConnID,
	_ []byte,
) {
	room, err := ctl.Orch.Leave(sid)
	if err != nil && !errors.Is(err, app.ErrNotJoined) {
		log.Error().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("leave failed")
		return
	}
	log.Info().Str("module", "signal").Str("sid", string(sid)).Str("room", string(room)).Msg("leave")
	ctl.reply(sid, protocol.TypeLeft, protocol.Left{Type: protocol.TypeLeft, Room: room})
}
