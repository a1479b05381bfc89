package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/svec-cse/efacilities-api/internal/service"
	appErrors "github.com/svec-cse/efacilities-api/pkg/errors"
	"github.com/svec-cse/efacilities-api/pkg/response"
)

// VerificationHandler exposes the email OTP endpoints.
type VerificationHandler struct {
	otp *service.OTPService
}

// NewVerificationHandler constructs VerificationHandler.
func NewVerificationHandler(otp *service.OTPService) *VerificationHandler {
	return &VerificationHandler{otp: otp}
}

type sendOTPRequest struct {
	Email string `json:"email"`
}

type verifyOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

// SendOTP godoc
// @Summary Issue a verification code to a college email
// @Tags Verification
// @Accept json
// @Produce json
// @Param payload body sendOTPRequest true "Email payload"
// @Success 200 {object} response.Envelope
// @Router /send-otp [post]
func (h *VerificationHandler) SendOTP(c *gin.Context) {
	var req sendOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if err := h.otp.Issue(c.Request.Context(), req.Email); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"message": "OTP sent successfully"})
}

// VerifyOTP godoc
// @Summary Verify a submitted code
// @Tags Verification
// @Accept json
// @Produce json
// @Param payload body verifyOTPRequest true "Verification payload"
// @Success 200 {object} response.Envelope
// @Router /verify-otp [post]
func (h *VerificationHandler) VerifyOTP(c *gin.Context) {
	var req verifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if err := h.otp.Verify(c.Request.Context(), req.Email, req.OTP); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"message": "Email verified successfully"})
}
