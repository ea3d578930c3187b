package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/carebridge/sessiongate/internal/adapters/signal"
	"github.com/carebridge/sessiongate/internal/config"
	"github.com/carebridge/sessiongate/internal/core"
)

func SetupRouter(ctx context.Context, cfg *config.Config, ctl *signal.Controller, rooms *core.RoomRegistry) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	log.Info().Str("module", "adapters.http").Str("mode", cfg.Mode).Msg("router setup")

	api := r.Group("/api")

	api.GET("/ws/session", func(c *gin.Context) {
		ctl.HandleSession(ctx, c)
	})

	api.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Occupancy view for operators; room keys only, no payloads.
	api.GET("/rooms", func(c *gin.Context) {
		c.JSON(http.StatusOK, rooms.List())
	})

	return r
}
