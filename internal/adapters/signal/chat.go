package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Meet/internal/domain"
)

type receiveMessageEvent struct {
	Type        string `json:"type"`
	Message     string `json:"message"`
	DisplayName string `json:"display_name"`
}

// handleSendMessage fans a chat line out to the whole room, sender included.
// Empty room or message is a silent no-op, as is a sender without a display
// name (it never went through /join).
func (ctl *SignalWSController) handleSendMessage(cl *client, data []byte) {
	var p struct {
		Type    string `json:"type"`
		RoomID  string `json:"room_id"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad send_message payload")
		return
	}

	m, ok := ctl.Orch.Directory.MemberOf(cl.sid)
	if !ok || m.Name == "" {
		log.Warn().Str("module", "signal").Str("sid", string(cl.sid)).Msg("send_message without session")
		return
	}
	if p.RoomID == "" || p.Message == "" {
		return
	}

	ev := receiveMessageEvent{Type: "receive_message", Message: p.Message, DisplayName: m.Name}
	for _, sig := range ctl.roomSignals(domain.RoomID(p.RoomID)) {
		ctl.sendJSON(sig, ev)
	}
}
