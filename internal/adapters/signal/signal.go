// Package signal is the websocket adapter: handshake authentication,
// the read/write pumps and the JSON event dispatch.
package signal

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/carebridge/sessiongate/internal/app"
	"github.com/carebridge/sessiongate/internal/core"
)

type Controller struct {
	Coordinator *app.Coordinator
	Presence    *app.Presence
	Gate        *Gate

	ReadLimit  int64
	PingPeriod time.Duration
}

func NewController(coordinator *app.Coordinator, presence *app.Presence, gate *Gate, readLimit int64, pingPeriod time.Duration) *Controller {
	return &Controller{
		Coordinator: coordinator,
		Presence:    presence,
		Gate:        gate,
		ReadLimit:   readLimit,
		PingPeriod:  pingPeriod,
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleSession authenticates the handshake and, only on success,
// upgrades and binds the connection. A rejected handshake aborts with
// 401 and creates no state anywhere.
func (ctl *Controller) HandleSession(ctx context.Context, c *gin.Context) {
	identity, err := ctl.Gate.Authenticate(c.Request.Context(), c.Request)
	if err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("remote", c.ClientIP()).Msg("handshake rejected")
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": rejectionMessage(err)})
		return
	}

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("ws upgrade")
		return
	}

	cid := core.ConnectionID(uuid.NewString())
	log.Info().Str("module", "signal").Str("conn", string(cid)).Str("user", identity.ID).Msg("new session")

	conn := newWsSignalConn(ws)
	ctx, cancel := context.WithCancel(ctx)
	ctl.Coordinator.Connect(cid, identity, conn, cancel)

	go ctl.writePump(ctx, conn)
	go ctl.readPump(ctx, cid, conn)
}
