package handlers

import (
	"github.com/MaxWeaver7/NFLSTATSAPP-sub001/internal/services"
	"github.com/MaxWeaver7/NFLSTATSAPP-sub001/pkg/utils"
	"github.com/gin-gonic/gin"
)

type InjuryHandler struct {
	injuries *services.InjuryService
}

func NewInjuryHandler(injuries *services.InjuryService) *InjuryHandler {
	return &InjuryHandler{injuries: injuries}
}

type injuryQuery struct {
	Team   string `form:"team" binding:"omitempty,max=4"`
	Status string `form:"status" binding:"omitempty,max=32"`
}

func (h *InjuryHandler) GetInjuries(c *gin.Context) {
	var q injuryQuery
	if !bindQuery(c, &q) {
		return
	}
	rows, err := h.injuries.List(c.Request.Context(), q.Team, q.Status)
	if err != nil {
		_ = c.Error(err)
		utils.SendServiceError(c, err, "Failed to fetch injuries")
		return
	}
	utils.SendSuccess(c, rows)
}
