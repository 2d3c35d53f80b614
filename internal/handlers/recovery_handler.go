package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"pastelrecipes/internal/services"
)

// RecoveryHandler exposes the phone-based account-recovery flow. Every
// endpoint answers 200 with a result body; the client branches on `success`,
// never on the status code (the engine never surfaces raw errors).
type RecoveryHandler struct {
	recovery         *services.RecoveryService
	resets           services.PasswordResetService
	maintenanceToken string
}

func NewRecoveryHandler(recovery *services.RecoveryService, resets services.PasswordResetService, maintenanceToken string) *RecoveryHandler {
	return &RecoveryHandler{recovery: recovery, resets: resets, maintenanceToken: maintenanceToken}
}

type recoveryEmailRequest struct {
	Email string `json:"email" binding:"required"`
}

// CheckPhone reports whether the account has a phone on file, masked for
// display. The client uses this to offer SMS/voice or fall back to email.
func (h *RecoveryHandler) CheckPhone(c *gin.Context) {
	var req recoveryEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	masked, ok := h.recovery.MaskedUserPhone(req.Email)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"has_phone": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"has_phone":    true,
		"masked_phone": masked,
	})
}

// @Summary      Send a recovery code by SMS
// @Tags         Recovery
// @Accept       json
// @Produce      json
// @Param        request  body      recoveryEmailRequest  true  "Account email"
// @Success      200      {object}  services.RecoveryResult
// @Router       /recovery/sms [post]
func (h *RecoveryHandler) SendSMSCode(c *gin.Context) {
	var req recoveryEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.recovery.SendSMSCode(req.Email))
}

// @Summary      Send a recovery code by voice call
// @Tags         Recovery
// @Accept       json
// @Produce      json
// @Param        request  body      recoveryEmailRequest  true  "Account email"
// @Success      200      {object}  services.RecoveryResult
// @Router       /recovery/voice [post]
func (h *RecoveryHandler) SendVoiceCode(c *gin.Context) {
	var req recoveryEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.recovery.SendVoiceCode(req.Email))
}

// VerifyCode checks the submitted code. On success a password-reset token is
// issued alongside so the client can set a new password right away.
func (h *RecoveryHandler) VerifyCode(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required"`
		Code  string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result := h.recovery.VerifyCode(req.Email, req.Code)
	if !result.Success {
		c.JSON(http.StatusOK, result)
		return
	}

	resetToken, err := h.resets.IssueToken(req.Email)
	if err != nil {
		log.Printf("[recovery][verify] reset-token issue failed for %q: %v", req.Email, err)
		c.JSON(http.StatusOK, result)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":     result.Success,
		"kind":        result.Kind,
		"message":     result.Message,
		"reset_token": resetToken,
	})
}

// CleanExpired is the maintenance sweep; wire it to a cron hitting this
// endpoint rather than an in-process timer. The caller must present the
// configured maintenance token; with none configured the endpoint is off.
func (h *RecoveryHandler) CleanExpired(c *gin.Context) {
	token := c.GetHeader("X-Maintenance-Token")
	if h.maintenanceToken == "" || token != h.maintenanceToken {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}
	h.recovery.CleanExpiredCodes()
	c.JSON(http.StatusOK, gin.H{"message": "Expired recovery codes removed"})
}
