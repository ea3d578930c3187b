package signal

import (
	"github.com/carebridge/sessiongate/internal/core"
)

func (ctl *Controller) handleTyping(cid core.ConnectionID, c *WsSignalConn, data []byte, isTyping bool) {
	p, ok := ctl.parseConsultation(c, data)
	if !ok {
		return
	}
	ctl.Presence.NotifyTyping(cid, p.ConsultationID, isTyping)
}
