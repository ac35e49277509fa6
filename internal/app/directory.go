package app

import (
	"errors"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Meet/internal/core"
	"github.com/dkeye/Meet/internal/domain"
)

var ErrNotRegistered = errors.New("connection not registered")

type connEntry struct {
	Member domain.Member
	RoomID domain.RoomID
	Signal core.SignalConnection
}

// Directory owns the connection → (member, room, transport) bindings. A
// connection appears here on transport connect, gets a room on successful
// join, and disappears on disconnect. The room registry's member lists are
// a derived view; the gateway keeps the two in step.
type Directory struct {
	mu    sync.RWMutex
	conns map[core.SessionID]*connEntry
}

func NewDirectory() *Directory {
	return &Directory{conns: make(map[core.SessionID]*connEntry)}
}

// Register records a pending, room-less connection. Re-registering the same
// sid overwrites: duplicate connect signals from the transport are not an
// error.
func (d *Directory) Register(sid core.SessionID, m domain.Member, sig core.SignalConnection) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.conns[sid] = &connEntry{Member: m, Signal: sig}
	log.Info().Str("module", "app.directory").Str("sid", string(sid)).Str("name", m.Name).Msg("registered connection")
}

func (d *Directory) AssignRoom(sid core.SessionID, roomID domain.RoomID) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	e, ok := d.conns[sid]
	if !ok {
		return ErrNotRegistered
	}
	e.RoomID = roomID
	return nil
}

func (d *Directory) RoomOf(sid core.SessionID) (domain.RoomID, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	e, ok := d.conns[sid]
	if !ok || e.RoomID == "" {
		return "", false
	}
	return e.RoomID, true
}

func (d *Directory) MemberOf(sid core.SessionID) (domain.Member, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	e, ok := d.conns[sid]
	if !ok {
		return domain.Member{}, false
	}
	return e.Member, true
}

func (d *Directory) Signal(sid core.SessionID) (core.SignalConnection, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	e, ok := d.conns[sid]
	if !ok || e.Signal == nil {
		return nil, false
	}
	return e.Signal, true
}

// Remove deletes the connection entirely. The last known room and name come
// back only if the connection had joined a room; a registered-but-never-
// joined connection is dropped silently, it owes nobody a leave broadcast.
func (d *Directory) Remove(sid core.SessionID) (domain.RoomID, string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	e, ok := d.conns[sid]
	if !ok {
		return "", "", false
	}
	delete(d.conns, sid)
	log.Info().Str("module", "app.directory").Str("sid", string(sid)).Msg("removed connection")
	if e.RoomID == "" {
		return "", "", false
	}
	return e.RoomID, e.Member.Name, true
}
