package signal

import (
	"context"
	"encoding/json"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/carebridge/sessiongate/internal/core"
)

var validate = validator.New()

type consultationPayload struct {
	Type           string `json:"type"`
	ConsultationID string `json:"consultationId" validate:"required,max=64"`
}

func (ctl *Controller) parseConsultation(c *WsSignalConn, data []byte) (consultationPayload, bool) {
	var p consultationPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad consultation payload")
		ctl.sendError(c, "bad payload")
		return p, false
	}
	if err := validate.Struct(p); err != nil {
		ctl.sendError(c, "bad payload")
		return p, false
	}
	return p, true
}

func (ctl *Controller) handleJoin(ctx context.Context, cid core.ConnectionID, c *WsSignalConn, data []byte) {
	p, ok := ctl.parseConsultation(c, data)
	if !ok {
		return
	}
	log.Info().Str("module", "signal").Str("conn", string(cid)).Str("consultation", p.ConsultationID).Msg("join_consultation")
	ctl.Coordinator.JoinConsultation(ctx, cid, p.ConsultationID)
}

func (ctl *Controller) handleLeave(cid core.ConnectionID, c *WsSignalConn, data []byte) {
	p, ok := ctl.parseConsultation(c, data)
	if !ok {
		return
	}
	log.Info().Str("module", "signal").Str("conn", string(cid)).Str("consultation", p.ConsultationID).Msg("leave_consultation")
	ctl.Coordinator.LeaveConsultation(cid, p.ConsultationID)
}
