package app

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Meet/internal/core"
	"github.com/dkeye/Meet/internal/domain"
)

// RoomRegistry owns the per-room member sequences. Order is join order and
// governs roster display only. Empty rooms are dropped from the map;
// credentials live elsewhere and survive.
type RoomRegistry struct {
	mu      sync.Mutex
	members map[domain.RoomID][]core.SessionID
}

func NewRoomRegistry() *RoomRegistry {
	return &RoomRegistry{members: make(map[domain.RoomID][]core.SessionID)}
}

// Join appends sid to the room and returns the roster as it was before the
// append, plus whether sid opened the room. Snapshot and append happen under
// one lock so a concurrent joiner can never see itself in its own roster.
// Joining a room sid is already in is a no-op with added=false.
func (r *RoomRegistry) Join(roomID domain.RoomID, sid core.SessionID) (prior []core.SessionID, first, added bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur := r.members[roomID]
	for _, m := range cur {
		if m == sid {
			return nil, false, false
		}
	}
	prior = make([]core.SessionID, len(cur))
	copy(prior, cur)
	r.members[roomID] = append(cur, sid)
	log.Info().Str("module", "app.rooms").Str("room", string(roomID)).Str("sid", string(sid)).Int("members", len(cur)+1).Msg("member joined")
	return prior, len(cur) == 0, true
}

// Leave removes sid from the room's sequence; the room entry is dropped once
// the last member leaves. Unknown room or sid is a no-op.
func (r *RoomRegistry) Leave(roomID domain.RoomID, sid core.SessionID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.members[roomID]
	if !ok {
		return
	}
	for i, m := range cur {
		if m != sid {
			continue
		}
		cur = append(cur[:i], cur[i+1:]...)
		if len(cur) == 0 {
			delete(r.members, roomID)
		} else {
			r.members[roomID] = cur
		}
		log.Info().Str("module", "app.rooms").Str("room", string(roomID)).Str("sid", string(sid)).Int("members", len(cur)).Msg("member left")
		return
	}
}

// Members returns the room's member sids in join order.
func (r *RoomRegistry) Members(roomID domain.RoomID) []core.SessionID {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.members[roomID]
	if !ok {
		return nil
	}
	out := make([]core.SessionID, len(cur))
	copy(out, cur)
	return out
}

func (r *RoomRegistry) List() []domain.RoomInfo {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.RoomInfo, 0, len(r.members))
	for id, m := range r.members {
		out = append(out, domain.RoomInfo{ID: id, MemberCount: len(m)})
	}
	return out
}
