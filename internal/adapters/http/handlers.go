package http

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Meet/internal/app"
	"github.com/dkeye/Meet/internal/app/orch"
	"github.com/dkeye/Meet/internal/domain"
)

type Handlers struct {
	Orch    *orch.Gateway
	Limiter *AuthRateLimiter
}

type authorizeRequest struct {
	RoomID       string `form:"room_id" binding:"required"`
	DisplayName  string `form:"display_name" binding:"required"`
	RoomPassword string `form:"room_password"`
	MuteAudio    bool   `form:"mute_audio"`
	MuteVideo    bool   `form:"mute_video"`
}

// Index renders the entry form plus the list of rooms that currently have
// members. An error query flag comes from a failed /join redirect.
func (h *Handlers) Index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{
		"Rooms": h.Orch.Rooms.List(),
		"Error": c.Query("error"),
	})
}

// Authorize is the password exchange. First caller for a room fixes its
// password and receives a fresh token; later callers must match the
// password to get the same token. No connection state is created here.
func (h *Handlers) Authorize(c *gin.Context) {
	if !h.Limiter.Allow(c.ClientIP()) {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many attempts. Try again later."})
		return
	}

	var req authorizeRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Room ID and Display Name are required."})
		return
	}
	if _, err := domain.NewMember(req.DisplayName, req.MuteAudio, req.MuteVideo); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, err := h.Orch.Authorize(domain.RoomID(req.RoomID), req.RoomPassword)
	if errors.Is(err, app.ErrWrongPassword) {
		log.Warn().Str("module", "adapters.http").Str("room", req.RoomID).Msg("wrong room password")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Incorrect room password."})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

// Join redeems a token and binds (room, name, mute hints) into the cookie
// session for the WS upgrade that follows. Bad token sends the caller back
// to the entry point to re-authenticate.
func (h *Handlers) Join(c *gin.Context) {
	roomID := c.Query("room_id")
	displayName := c.Query("display_name")
	token := c.Query("token")
	muteAudio := c.Query("mute_audio") == "true"
	muteVideo := c.Query("mute_video") == "true"

	if !h.Orch.ValidToken(domain.RoomID(roomID), token) {
		c.Redirect(http.StatusFound, "/?error="+url.QueryEscape("Invalid token. Please login again."))
		return
	}
	if displayName == "" || roomID == "" {
		c.Redirect(http.StatusFound, "/")
		return
	}

	sess := sessions.Default(c)
	sess.Set("room_id", roomID)
	sess.Set("display_name", displayName)
	sess.Set("mute_audio", muteAudio)
	sess.Set("mute_video", muteVideo)
	if err := sess.Save(); err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Msg("session save")
		c.Redirect(http.StatusFound, "/?error="+url.QueryEscape("Session error. Please login again."))
		return
	}

	log.Info().Str("module", "adapters.http").Str("room", roomID).Str("name", displayName).Msg("session bound for join")
	c.HTML(http.StatusOK, "room.html", gin.H{
		"RoomID":      roomID,
		"DisplayName": displayName,
		"MuteAudio":   muteAudio,
		"MuteVideo":   muteVideo,
	})
}
