package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/svec-cse/efacilities-api/internal/service"
	"github.com/svec-cse/efacilities-api/pkg/response"
)

// StatsHandler exposes aggregation and report download endpoints.
type StatsHandler struct {
	stats  *service.StatsService
	export *service.ExportService
}

// NewStatsHandler constructs StatsHandler.
func NewStatsHandler(stats *service.StatsService, export *service.ExportService) *StatsHandler {
	return &StatsHandler{stats: stats, export: export}
}

// Get godoc
// @Summary Aggregate per-question statistics
// @Tags Stats
// @Produce json
// @Param branches query string false "Comma-separated branch codes"
// @Success 200 {object} response.Envelope
// @Router /stats [get]
func (h *StatsHandler) Get(c *gin.Context) {
	branches := parseBranches(c.Query("branches"))
	report, err := h.stats.Aggregate(c.Request.Context(), branches)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report)
}

// Download godoc
// @Summary Download the statistics report
// @Tags Stats
// @Produce application/pdf
// @Param branches query string false "Comma-separated branch codes"
// @Param format query string false "pdf or csv (default pdf)"
// @Success 200 {file} binary
// @Router /stats/download [get]
func (h *StatsHandler) Download(c *gin.Context) {
	branches := parseBranches(c.Query("branches"))
	result, err := h.export.Generate(c.Request.Context(), branches, c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+result.Filename)
	c.Data(http.StatusOK, result.ContentType, result.Payload)
}
