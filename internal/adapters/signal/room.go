package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Meet/internal/core"
	"github.com/dkeye/Meet/internal/domain"
)

type userConnectEvent struct {
	Type string `json:"type"`
	SID  string `json:"sid"`
	Name string `json:"name"`
}

type userListEvent struct {
	Type string            `json:"type"`
	List map[string]string `json:"list,omitempty"`
	MyID string            `json:"my_id"`
}

type userDisconnectEvent struct {
	Type string `json:"type"`
	SID  string `json:"sid"`
}

// handleJoinRoom admits the connection into the room its session was bound
// to. Anything off — missing room, session mismatch, double join — is
// dropped without an answer; the peer only ever sees successful joins.
func (ctl *SignalWSController) handleJoinRoom(cl *client, data []byte) {
	var p struct {
		Type   string `json:"type"`
		RoomID string `json:"room_id"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad join-room payload")
		return
	}
	if p.RoomID == "" || cl.boundRoom != domain.RoomID(p.RoomID) {
		log.Warn().Str("module", "signal").Str("sid", string(cl.sid)).Str("room", p.RoomID).Msg("join-room without matching session")
		return
	}
	roomID := domain.RoomID(p.RoomID)

	roster, first, ok := ctl.Orch.JoinRoom(cl.sid, roomID)
	if !ok {
		return
	}

	name := "Unknown"
	if m, ok := ctl.Orch.Directory.MemberOf(cl.sid); ok {
		name = m.Name
	}
	log.Info().Str("module", "signal").Str("room", p.RoomID).Str("name", name).Str("sid", string(cl.sid)).Msg("new member joined")

	// Everyone already in the room hears about the newcomer; the newcomer
	// itself only gets the roster below.
	ev := userConnectEvent{Type: "user-connect", SID: string(cl.sid), Name: name}
	for _, entry := range roster {
		if sig, ok := ctl.Orch.Directory.Signal(entry.SID); ok {
			ctl.sendJSON(sig, ev)
		}
	}

	list := userListEvent{Type: "user-list", MyID: string(cl.sid)}
	if !first {
		list.List = make(map[string]string, len(roster))
		for _, entry := range roster {
			list.List[string(entry.SID)] = entry.Name
		}
	}
	ctl.sendJSON(cl.conn, list)
}

// handleDisconnect runs on every readPump exit. The gateway only reports
// state on the first call, so a transport that signals disconnect twice
// broadcasts once.
func (ctl *SignalWSController) handleDisconnect(cl *client) {
	roomID, name, remaining, ok := ctl.Orch.Disconnect(cl.sid)
	if !ok {
		return
	}
	log.Info().Str("module", "signal").Str("room", string(roomID)).Str("name", name).Str("sid", string(cl.sid)).Msg("member left")

	ev := userDisconnectEvent{Type: "user-disconnect", SID: string(cl.sid)}
	for _, sid := range remaining {
		if sig, ok := ctl.Orch.Directory.Signal(sid); ok {
			ctl.sendJSON(sig, ev)
		}
	}
}

// roomSignals is a fan-out helper over the gateway views.
func (ctl *SignalWSController) roomSignals(roomID domain.RoomID) []core.SignalConnection {
	return ctl.Orch.RoomSignals(roomID, "")
}
