package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/svec-cse/efacilities-api/internal/service"
	appErrors "github.com/svec-cse/efacilities-api/pkg/errors"
	"github.com/svec-cse/efacilities-api/pkg/response"
)

// FeedbackHandler exposes submission endpoints.
type FeedbackHandler struct {
	feedback *service.FeedbackService
}

// NewFeedbackHandler constructs FeedbackHandler.
func NewFeedbackHandler(feedback *service.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{feedback: feedback}
}

// Submit godoc
// @Summary Submit the exit facilities survey
// @Tags Feedback
// @Accept json
// @Produce json
// @Param payload body service.SubmitFeedbackRequest true "Survey payload"
// @Success 201 {object} response.Envelope
// @Router /feedback [post]
func (h *FeedbackHandler) Submit(c *gin.Context) {
	var req service.SubmitFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if err := h.feedback.Submit(c.Request.Context(), req); err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, gin.H{"success": true})
}

// GetByRoll godoc
// @Summary Fetch one submission by roll number
// @Tags Feedback
// @Produce json
// @Param roll path string true "Roll number"
// @Success 200 {object} response.Envelope
// @Router /feedback/{roll} [get]
func (h *FeedbackHandler) GetByRoll(c *gin.Context) {
	fb, err := h.feedback.GetByRoll(c.Request.Context(), c.Param("roll"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, fb)
}

// List godoc
// @Summary List submissions, most recent roll first
// @Tags Feedback
// @Produce json
// @Param branches query string false "Comma-separated branch codes"
// @Success 200 {object} response.Envelope
// @Router /submissions [get]
func (h *FeedbackHandler) List(c *gin.Context) {
	branches := parseBranches(c.Query("branches"))
	rows, err := h.feedback.List(c.Request.Context(), branches)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows)
}

// parseBranches splits a comma-separated branch list, dropping blanks. An
// empty result means "all branches".
func parseBranches(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	branches := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			branches = append(branches, trimmed)
		}
	}
	return branches
}
