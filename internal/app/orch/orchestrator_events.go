package orch

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dkeye/huddle/internal/app"
	"github.com/dkeye/huddle/internal/domain"
	"github.com/dkeye/huddle/internal/metrics"
	"github.com/dkeye/huddle/internal/protocol"
	"github.com/rs/zerolog/log"
)

// Broadcast relays a draw, clear or undo event to every other member of the
// sender's room. The sender never receives its own event.
func (o *Orchestrator) Broadcast(from domain.ConnID, kind protocol.Type, payload json.RawMessage) error {
	if !kind.IsEvent() {
		return fmt.Errorf("not a broadcast event: %q", kind)
	}
	room, ok := o.Registry.Lookup(from)
	if !ok {
		log.Debug().Str("module", "orch").Str("sid", string(from)).Str("type", string(kind)).Msg("event from connection without room")
		o.Metrics.Dropped(metrics.DropNotJoined)
		return app.ErrNotJoined
	}
	o.fanout(o.Rooms.Members(room), from, kind, protocol.EventOut{
		Type:    kind,
		From:    from,
		Payload: payload,
	})
	return nil
}

// Chat delivers text to every member of the sender's room, sender included,
// stamped with server time.
func (o *Orchestrator) Chat(from domain.ConnID, text string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	room, ok := o.Registry.Lookup(from)
	if !ok {
		log.Debug().Str("module", "orch").Str("sid", string(from)).Msg("chat from connection without room")
		o.Metrics.Dropped(metrics.DropNotJoined)
		return app.ErrNotJoined
	}
	o.fanout(o.Rooms.Members(room), "", protocol.TypeChat, protocol.ChatOut{
		Type: protocol.TypeChat,
		From: from,
		Text: truncateRunes(text, o.maxChatLen()),
		TS:   o.now().UTC().Format(protocol.TimestampLayout),
	})
	return nil
}

func truncateRunes(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit])
}
