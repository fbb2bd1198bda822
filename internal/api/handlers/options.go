package handlers

import (
	"github.com/MaxWeaver7/NFLSTATSAPP-sub001/internal/services"
	"github.com/MaxWeaver7/NFLSTATSAPP-sub001/pkg/utils"
	"github.com/gin-gonic/gin"
)

type OptionsHandler struct {
	options *services.OptionsService
}

func NewOptionsHandler(options *services.OptionsService) *OptionsHandler {
	return &OptionsHandler{options: options}
}

// GetOptions returns the filter values the dashboard offers.
func (h *OptionsHandler) GetOptions(c *gin.Context) {
	opts, err := h.options.Options(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		utils.SendServiceError(c, err, "Failed to fetch options")
		return
	}
	utils.SendSuccess(c, opts)
}

func (h *OptionsHandler) GetSummary(c *gin.Context) {
	summary, err := h.options.Summary(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		utils.SendServiceError(c, err, "Failed to fetch summary")
		return
	}
	utils.SendSuccess(c, summary)
}
