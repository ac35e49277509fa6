package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pion/webrtc/v4"

	"github.com/dkeye/Meet/internal/config"
)

// ICEConfig serves the ICE server list clients feed their RTCPeerConnection.
// The relay itself never touches negotiation payloads; this endpoint is the
// one place the server knows anything WebRTC at all.
func ICEConfig(servers []config.ICEServer) gin.HandlerFunc {
	ice := make([]webrtc.ICEServer, 0, len(servers))
	for _, s := range servers {
		srv := webrtc.ICEServer{URLs: s.URLs}
		if s.Username != "" {
			srv.Username = s.Username
			srv.Credential = s.Credential
		}
		ice = append(ice, srv)
	}
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"iceServers": ice})
	}
}
