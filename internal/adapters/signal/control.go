package signal

import (
	"github.com/carebridge/sessiongate/internal/app"
	"github.com/carebridge/sessiongate/internal/core"
)

func (ctl *Controller) handlePing(c *WsSignalConn) {
	ctl.sendJSON(c, app.PongEvent{Type: app.EventPong})
}

func (ctl *Controller) handleWhoAmI(cid core.ConnectionID) {
	ctl.Coordinator.WhoAmI(cid)
}
