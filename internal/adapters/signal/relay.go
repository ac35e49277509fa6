package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"
)

// handleData relays a negotiation payload verbatim. Only the addressing
// fields are read; the frame itself is forwarded untouched so clients can
// extend the payload without the server caring. A declared sender that is
// not the caller is either a spoof attempt or a client bug — logged and
// dropped, never forwarded.
func (ctl *SignalWSController) handleData(cl *client, data []byte) {
	var p struct {
		Type     string `json:"type"`
		SenderID string `json:"sender_id"`
		TargetID string `json:"target_id"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad data payload")
		return
	}

	if p.SenderID != string(cl.sid) {
		log.Warn().Str("module", "signal").Str("sid", string(cl.sid)).Str("sender_id", p.SenderID).Msg("relay sender id mismatch, dropping")
		return
	}

	for _, sig := range ctl.Orch.ResolveTarget(p.TargetID) {
		_ = sig.TrySend(data)
	}
}
