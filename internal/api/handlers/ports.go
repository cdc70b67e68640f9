package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"maritime-forecast/internal/analysis"
	"maritime-forecast/internal/api/models"
)

// PortHandler serves port risk scores straight from the reference data,
// without running the full pipeline.
type PortHandler struct {
	loader Loader
}

func NewPortHandler(loader Loader) *PortHandler {
	return &PortHandler{loader: loader}
}

// RankPorts handles GET /api/v1/ports/risk
func (h *PortHandler) RankPorts(c *gin.Context) {
	ref, err := h.loader.LoadReference(c.Request.Context())
	if err != nil {
		abortWithRunError(c, err)
		return
	}
	scored, err := analysis.ScorePorts(ref.Ports)
	if err != nil {
		abortWithRunError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.NewPortsResponse(analysis.RankPortsByRisk(scored)))
}
