package http

import (
	"context"
	"path/filepath"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Meet/internal/adapters/signal"
	"github.com/dkeye/Meet/internal/app/orch"
	"github.com/dkeye/Meet/internal/config"
)

func SetupRouter(ctx context.Context, cfg *config.Config, g *orch.Gateway) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	store := cookie.NewStore([]byte(cfg.Secret))
	r.Use(sessions.Sessions(cfg.SessionName, store))

	r.LoadHTMLGlob(filepath.Join(cfg.StaticPath, "templates", "*.html"))
	r.Static("/static", filepath.Join(cfg.StaticPath, "static"))

	log.Info().Str("module", "adapters.http").Str("static", cfg.StaticPath).Msg("router setup")

	h := &Handlers{
		Orch:    g,
		Limiter: NewAuthRateLimiter(10, time.Minute),
	}
	r.GET("/", h.Index)
	r.POST("/", h.Authorize)
	r.GET("/join", h.Join)

	api := r.Group("/api")
	api.GET("/ice-config", ICEConfig(cfg.ICEServers))

	ctl := signal.NewSignalWSController(g, cfg.ReadLimit, cfg.PingPeriod)
	api.GET("/ws/signal", func(c *gin.Context) {
		ctl.HandleSignal(ctx, c)
	})

	return r
}
