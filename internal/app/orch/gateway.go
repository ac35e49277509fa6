// Package orch wires the three stores together and owns every sequence that
// spans more than one of them. Adapters never mutate a store directly.
package orch

import (
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Meet/internal/app"
	"github.com/dkeye/Meet/internal/core"
	"github.com/dkeye/Meet/internal/domain"
)

type Gateway struct {
	Credentials *app.CredentialStore
	Directory   *app.Directory
	Rooms       *app.RoomRegistry
}

func NewGateway() *Gateway {
	return &Gateway{
		Credentials: app.NewCredentialStore(),
		Directory:   app.NewDirectory(),
		Rooms:       app.NewRoomRegistry(),
	}
}

// Authorize is the password exchange behind POST /. It touches only the
// credential store; no connection state exists yet.
func (g *Gateway) Authorize(roomID domain.RoomID, password string) (string, error) {
	return g.Credentials.CreateOrValidate(roomID, password)
}

func (g *Gateway) ValidToken(roomID domain.RoomID, token string) bool {
	return g.Credentials.ValidateToken(roomID, token)
}

// Connect records a fresh transport connection, room-less until join-room.
func (g *Gateway) Connect(sid core.SessionID, m domain.Member, sig core.SignalConnection) {
	g.Directory.Register(sid, m, sig)
}

// RosterEntry pairs a member sid with its display name for roster delivery.
type RosterEntry struct {
	SID  core.SessionID
	Name string
}

// JoinRoom moves a registered connection into roomID. The returned roster is
// the room as it was before this join, so the joiner never appears in it.
// Returns ok=false when the connection is unknown or already joined; the
// caller drops the request silently either way.
func (g *Gateway) JoinRoom(sid core.SessionID, roomID domain.RoomID) (roster []RosterEntry, first, ok bool) {
	if _, joined := g.Directory.RoomOf(sid); joined {
		log.Warn().Str("module", "orch").Str("sid", string(sid)).Msg("join-room for already joined connection")
		return nil, false, false
	}
	if err := g.Directory.AssignRoom(sid, roomID); err != nil {
		log.Warn().Err(err).Str("module", "orch").Str("sid", string(sid)).Msg("join-room for unknown connection")
		return nil, false, false
	}
	prior, first, added := g.Rooms.Join(roomID, sid)
	if !added {
		return nil, false, false
	}
	roster = make([]RosterEntry, 0, len(prior))
	for _, m := range prior {
		name := "Unknown"
		if mem, ok := g.Directory.MemberOf(m); ok {
			name = mem.Name
		}
		roster = append(roster, RosterEntry{SID: m, Name: name})
	}
	return roster, first, true
}

// Disconnect tears down all state for sid. Idempotent: only the first call
// finds session state; remaining lists the members still in the room that
// should hear the leave broadcast. ok=false means sid never joined a room
// (or was already cleaned up) and nothing needs broadcasting.
func (g *Gateway) Disconnect(sid core.SessionID) (roomID domain.RoomID, name string, remaining []core.SessionID, ok bool) {
	roomID, name, ok = g.Directory.Remove(sid)
	if !ok {
		return "", "", nil, false
	}
	g.Rooms.Leave(roomID, sid)
	return roomID, name, g.Rooms.Members(roomID), true
}

// ResolveTarget finds the recipients for a point-to-point relay. A target
// naming a live connection wins; otherwise the target is tried as a room and
// every member receives the payload. Unknown targets yield nothing, the
// relay is best-effort.
func (g *Gateway) ResolveTarget(target string) []core.SignalConnection {
	if sig, ok := g.Directory.Signal(core.SessionID(target)); ok {
		return []core.SignalConnection{sig}
	}
	members := g.Rooms.Members(domain.RoomID(target))
	out := make([]core.SignalConnection, 0, len(members))
	for _, sid := range members {
		if sig, ok := g.Directory.Signal(sid); ok {
			out = append(out, sig)
		}
	}
	return out
}

// RoomSignals returns the live transports of everyone in roomID. A non-empty
// except sid is left out of the result.
func (g *Gateway) RoomSignals(roomID domain.RoomID, except core.SessionID) []core.SignalConnection {
	members := g.Rooms.Members(roomID)
	out := make([]core.SignalConnection, 0, len(members))
	for _, sid := range members {
		if sid == except {
			continue
		}
		if sig, ok := g.Directory.Signal(sid); ok {
			out = append(out, sig)
		}
	}
	return out
}
