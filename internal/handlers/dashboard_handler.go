package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/elir-elirlab/osaifill-release/internal/services"
)

// DashboardHandler handles dashboard summary requests.
type DashboardHandler struct {
	dashboardService services.DashboardServicer
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboardService services.DashboardServicer) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// Summary handles computing the dataset-wide rollup. Figures are derived
// fresh on every call; nothing is cached or stored.
// @Summary     Dataset dashboard summary
// @Description Per-budget totals, overall totals, category breakdown and unassigned planned spend, recomputed from the current ledger
// @Tags        dashboard
// @Produce     json
// @Param       dataset_id query string true "Dataset ID"
// @Success     200 {object} services.DashboardSummary "Summary"
// @Failure     404 {object} ErrorResponse "Dataset not found"
// @Router      /dashboard [get]
func (h *DashboardHandler) Summary(c *gin.Context) {
	datasetID, err := requireDatasetQuery(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.dashboardService.Summary(datasetID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
