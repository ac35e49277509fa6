package signal

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/dkeye/Meet/internal/app/orch"
	"github.com/dkeye/Meet/internal/core"
	"github.com/dkeye/Meet/internal/domain"
)

type fakeConn struct {
	frames []core.Frame
}

func (f *fakeConn) TrySend(fr core.Frame) error {
	f.frames = append(f.frames, fr)
	return nil
}

func (f *fakeConn) Close() {}

func (f *fakeConn) decode(t *testing.T, i int) map[string]any {
	t.Helper()
	if i >= len(f.frames) {
		t.Fatalf("expected frame %d, only have %d", i, len(f.frames))
	}
	var m map[string]any
	if err := json.Unmarshal(f.frames[i], &m); err != nil {
		t.Fatalf("frame %d is not JSON: %v", i, err)
	}
	return m
}

func newController() *SignalWSController {
	return NewSignalWSController(orch.NewGateway(), 32768, 54*time.Second)
}

// joined wires a fake connection into the gateway and runs join-room for it,
// the same path HandleSignal + readPump would take.
func joined(t *testing.T, ctl *SignalWSController, sid core.SessionID, name string, room domain.RoomID) (*client, *fakeConn) {
	t.Helper()
	conn := &fakeConn{}
	cl := &client{sid: sid, boundRoom: room, conn: conn}
	ctl.Orch.Connect(sid, domain.Member{Name: name}, conn)
	ctl.handleJoinRoom(cl, []byte(`{"type":"join-room","room_id":"`+string(room)+`"}`))
	return cl, conn
}

func TestJoinRoomRosterAndPresence(t *testing.T) {
	ctl := newController()

	_, ca := joined(t, ctl, "A", "nameA", "r1")
	first := ca.decode(t, 0)
	if first["type"] != "user-list" || first["my_id"] != "A" {
		t.Fatalf("opener should get user-list with my_id only, got %v", first)
	}
	if _, ok := first["list"]; ok {
		t.Errorf("opener roster must be absent, got %v", first)
	}

	_, cb := joined(t, ctl, "B", "nameB", "r1")

	// A hears about B, never about itself.
	ev := ca.decode(t, 1)
	if ev["type"] != "user-connect" || ev["sid"] != "B" || ev["name"] != "nameB" {
		t.Errorf("A should receive user-connect{B,nameB}, got %v", ev)
	}

	// B's roster is the pre-join room and excludes B.
	list := cb.decode(t, 0)
	if list["type"] != "user-list" || list["my_id"] != "B" {
		t.Fatalf("B user-list = %v", list)
	}
	roster, _ := list["list"].(map[string]any)
	if len(roster) != 1 || roster["A"] != "nameA" {
		t.Errorf("B's roster should be {A: nameA}, got %v", roster)
	}
	if len(cb.frames) != 1 {
		t.Errorf("joiner must not receive its own user-connect, frames=%d", len(cb.frames))
	}
}

func TestJoinRoomSessionMismatchDropped(t *testing.T) {
	ctl := newController()

	conn := &fakeConn{}
	cl := &client{sid: "A", boundRoom: "r1", conn: conn}
	ctl.Orch.Connect("A", domain.Member{Name: "nameA"}, conn)

	ctl.handleJoinRoom(cl, []byte(`{"type":"join-room","room_id":"other"}`))
	ctl.handleJoinRoom(cl, []byte(`{"type":"join-room"}`))
	ctl.handleJoinRoom(cl, []byte(`not json`))

	if len(conn.frames) != 0 {
		t.Errorf("invalid joins must be silent, got %d frames", len(conn.frames))
	}
	if got := ctl.Orch.Rooms.Members("other"); len(got) != 0 {
		t.Errorf("mismatched join mutated the registry: %v", got)
	}
}

func TestJoinRoomTwiceNoDuplicate(t *testing.T) {
	ctl := newController()
	cl, ca := joined(t, ctl, "A", "nameA", "r1")

	ctl.handleJoinRoom(cl, []byte(`{"type":"join-room","room_id":"r1"}`))

	if got := ctl.Orch.Rooms.Members("r1"); len(got) != 1 {
		t.Errorf("double join duplicated the member set: %v", got)
	}
	if len(ca.frames) != 1 {
		t.Errorf("double join produced extra events: %d frames", len(ca.frames))
	}
}

func TestSendMessageReachesWholeRoom(t *testing.T) {
	ctl := newController()
	cla, ca := joined(t, ctl, "A", "nameA", "r1")
	_, cb := joined(t, ctl, "B", "nameB", "r1")

	before := len(ca.frames)
	ctl.handleSendMessage(cla, []byte(`{"type":"send_message","room_id":"r1","message":"hi"}`))

	got := ca.decode(t, before)
	if got["type"] != "receive_message" || got["message"] != "hi" || got["display_name"] != "nameA" {
		t.Errorf("sender should receive its own message, got %v", got)
	}
	got = cb.decode(t, len(cb.frames)-1)
	if got["type"] != "receive_message" || got["message"] != "hi" {
		t.Errorf("room mate should receive the message, got %v", got)
	}
}

func TestSendMessageMissingFieldsNoOp(t *testing.T) {
	ctl := newController()
	cla, ca := joined(t, ctl, "A", "nameA", "r1")

	before := len(ca.frames)
	ctl.handleSendMessage(cla, []byte(`{"type":"send_message","room_id":"r1"}`))
	ctl.handleSendMessage(cla, []byte(`{"type":"send_message","message":"hi"}`))

	if len(ca.frames) != before {
		t.Errorf("incomplete send_message must be a no-op, got %d new frames", len(ca.frames)-before)
	}
}

func TestDataRelayVerbatim(t *testing.T) {
	ctl := newController()
	cla, _ := joined(t, ctl, "A", "nameA", "r1")
	_, cb := joined(t, ctl, "B", "nameB", "r1")

	raw := []byte(`{"type":"data","sender_id":"A","target_id":"B","sdp":"v=0...","extra":{"k":1}}`)
	before := len(cb.frames)
	ctl.handleData(cla, raw)

	if len(cb.frames) != before+1 {
		t.Fatalf("expected one relayed frame, got %d", len(cb.frames)-before)
	}
	if string(cb.frames[before]) != string(raw) {
		t.Errorf("payload not forwarded verbatim:\n got %s\nwant %s", cb.frames[before], raw)
	}
}

func TestDataRelaySpoofDropped(t *testing.T) {
	ctl := newController()
	cla, _ := joined(t, ctl, "A", "nameA", "r1")
	_, cb := joined(t, ctl, "B", "nameB", "r1")

	before := len(cb.frames)
	ctl.handleData(cla, []byte(`{"type":"data","sender_id":"B","target_id":"B"}`))

	if len(cb.frames) != before {
		t.Error("spoofed relay must never be forwarded")
	}
}

func TestDataRelayToRoom(t *testing.T) {
	ctl := newController()
	cla, ca := joined(t, ctl, "A", "nameA", "r1")
	_, cb := joined(t, ctl, "B", "nameB", "r1")

	beforeA, beforeB := len(ca.frames), len(cb.frames)
	ctl.handleData(cla, []byte(`{"type":"data","sender_id":"A","target_id":"r1","candidate":"..."}`))

	if len(ca.frames) != beforeA+1 || len(cb.frames) != beforeB+1 {
		t.Errorf("room-addressed relay should reach every member: a=%d b=%d",
			len(ca.frames)-beforeA, len(cb.frames)-beforeB)
	}
}

func TestDisconnectBroadcast(t *testing.T) {
	ctl := newController()
	_, ca := joined(t, ctl, "A", "nameA", "r1")
	clb, _ := joined(t, ctl, "B", "nameB", "r1")

	before := len(ca.frames)
	ctl.handleDisconnect(clb)

	ev := ca.decode(t, before)
	if ev["type"] != "user-disconnect" || ev["sid"] != "B" {
		t.Errorf("A should receive user-disconnect{B}, got %v", ev)
	}
	if got := ctl.Orch.Rooms.Members("r1"); len(got) != 1 || got[0] != "A" {
		t.Errorf("member set should be {A}, got %v", got)
	}

	// Transport double-reporting disconnect stays quiet.
	ctl.handleDisconnect(clb)
	if len(ca.frames) != before+1 {
		t.Errorf("duplicate disconnect broadcast, frames=%d", len(ca.frames))
	}
}

func TestLastMemberDisconnectNoBroadcast(t *testing.T) {
	ctl := newController()
	cla, _ := joined(t, ctl, "A", "nameA", "r1")

	ctl.handleDisconnect(cla)
	if got := ctl.Orch.Rooms.Members("r1"); got != nil {
		t.Errorf("room should be reclaimed, got %v", got)
	}
}

func TestUnknownSignalIgnored(t *testing.T) {
	ctl := newController()
	cl, conn := joined(t, ctl, "A", "nameA", "r1")

	before := len(conn.frames)
	ctl.handleSignal(cl, []byte(`{"type":"launch-missiles"}`))
	ctl.handleSignal(cl, []byte(`garbage`))

	if len(conn.frames) != before {
		t.Errorf("unknown frames must be dropped silently, got %d new", len(conn.frames)-before)
	}
}

func TestPingPong(t *testing.T) {
	ctl := newController()
	cl, conn := joined(t, ctl, "A", "nameA", "r1")

	ctl.handleSignal(cl, []byte(`{"type":"ping"}`))
	got := conn.decode(t, len(conn.frames)-1)
	if got["type"] != "pong" {
		t.Errorf("expected pong, got %v", got)
	}
}
