package signal

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Meet/internal/app/orch"
	"github.com/dkeye/Meet/internal/core"
	"github.com/dkeye/Meet/internal/domain"
)

var ErrBackpressure = errors.New("backpressure")

type SignalWSController struct {
	Orch       *orch.Gateway
	ReadLimit  int64
	PingPeriod time.Duration
}

func NewSignalWSController(g *orch.Gateway, readLimit int64, pingPeriod time.Duration) *SignalWSController {
	if pingPeriod <= 0 {
		pingPeriod = 54 * time.Second
	}
	return &SignalWSController{
		Orch:       g,
		ReadLimit:  readLimit,
		PingPeriod: pingPeriod,
	}
}

type wsSignalConn struct {
	conn *websocket.Conn
	send chan core.Frame

	mu     sync.RWMutex
	closed bool
}

func (c *wsSignalConn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return errors.New("connection closed")
	}
	select {
	case c.send <- f:
	default:
		return ErrBackpressure
	}
	return nil
}

func (c *wsSignalConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
}

// client carries everything the handlers need about one connection: its
// transport-assigned sid, the transport itself, and the room its cookie
// session was bound to by GET /join. boundRoom empty means the connection
// never went through /join and can never join anything.
type client struct {
	sid       core.SessionID
	boundRoom domain.RoomID
	conn      core.SignalConnection
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func (ctl *SignalWSController) HandleSignal(ctx context.Context, c *gin.Context) {
	sess := sessions.Default(c)
	boundRoom, _ := sess.Get("room_id").(string)
	name, _ := sess.Get("display_name").(string)
	muteAudio, _ := sess.Get("mute_audio").(bool)
	muteVideo, _ := sess.Get("mute_video").(bool)

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Msg("ws upgrade")
		return
	}

	sid := core.SessionID(uuid.NewString())
	log.Info().Str("module", "signal").Str("sid", string(sid)).Str("room", boundRoom).Msg("new WS connection")

	conn := &wsSignalConn{
		conn: ws,
		send: make(chan core.Frame, 32),
	}
	if ctl.ReadLimit > 0 {
		ws.SetReadLimit(ctl.ReadLimit)
	}

	cl := &client{
		sid:       sid,
		boundRoom: domain.RoomID(boundRoom),
		conn:      conn,
	}
	ctl.Orch.Connect(sid, domain.Member{Name: name, MuteAudio: muteAudio, MuteVideo: muteVideo}, conn)

	ctx, cancel := context.WithCancel(ctx)
	go ctl.writePump(ctx, conn)
	go ctl.readPump(ctx, cancel, cl, conn)
}
