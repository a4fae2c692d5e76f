package httpserver

import (
	"net/http"

	"opticshop/internal/domain"
	"opticshop/internal/service/auth"
	"opticshop/internal/service/passwordreset"

	"github.com/gin-gonic/gin"
)

// register godoc
// @Summary  Register a customer account
// @Tags     auth
// @Accept   json
// @Produce  json
// @Param    body body auth.RegisterInput true "account"
// @Success  201 {object} userResponse
// @Failure  400 {object} errorResponse
// @Router   /auth/register [post]
func (h *handlers) register(c *gin.Context) {
	var in auth.RegisterInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid payload")
		return
	}
	u, err := h.deps.Auth.Register(c.Request.Context(), in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	// Carts are also created lazily on first use.
	if _, err := h.deps.Carts.RegisterNewCart(c.Request.Context(), u.ID); err != nil {
		h.logger.Printf("[http] register: cart user_id=%s error=%v", u.ID, err)
	}
	c.JSON(http.StatusCreated, toUser(*u))
}

// login godoc
// @Summary  Exchange credentials for a bearer token
// @Tags     auth
// @Accept   json
// @Produce  json
// @Param    body body loginRequest true "credentials"
// @Success  200 {object} tokenResponse
// @Failure  401 {object} errorResponse
// @Router   /auth/login [post]
func (h *handlers) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "email and password required")
		return
	}
	token, err := h.deps.Auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, tokenResponse{Token: token})
}

// updatePassword godoc
// @Summary  Change the current user's password
// @Tags     auth
// @Accept   json
// @Security BearerAuth
// @Param    body body passwordreset.UpdatePasswordInput true "old and new password"
// @Success  204
// @Failure  400 {object} errorResponse
// @Failure  401 {object} errorResponse
// @Router   /auth/password [patch]
func (h *handlers) updatePassword(c *gin.Context) {
	id, _ := identityFrom(c)
	var in passwordreset.UpdatePasswordInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid payload")
		return
	}
	if err := h.deps.Passwords.UpdatePassword(c.Request.Context(), id.UserID, in); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// initiatePasswordReset godoc
// @Summary  Email a password reset code
// @Description Answers 202 for unknown emails too.
// @Tags     auth
// @Accept   json
// @Param    body body passwordResetRequest true "account email"
// @Success  202
// @Failure  400 {object} errorResponse
// @Router   /auth/password-reset [post]
func (h *handlers) initiatePasswordReset(c *gin.Context) {
	var req passwordResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "email required")
		return
	}
	err := h.deps.Passwords.InitiatePasswordChange(c.Request.Context(), req.Email)
	if err != nil && statusFor(err) != http.StatusNotFound {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusAccepted)
}

// confirmPasswordReset godoc
// @Summary  Set a new password with a reset code
// @Tags     auth
// @Accept   json
// @Param    body body passwordResetConfirmRequest true "email, code and new password"
// @Success  204
// @Failure  400 {object} errorResponse
// @Router   /auth/password-reset/confirm [post]
func (h *handlers) confirmPasswordReset(c *gin.Context) {
	var req passwordResetConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "email, code and newPassword required")
		return
	}
	err := h.deps.Passwords.ConfirmPasswordChange(c.Request.Context(), req.Email, req.Code, req.NewPassword)
	if err != nil {
		if statusFor(err) == http.StatusNotFound {
			err = domain.Invalid("invalid or expired verification code")
		}
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
