package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/hotelreserve/hrs-backend/internal/application"
	"github.com/hotelreserve/hrs-backend/internal/domain/entity"
	"github.com/hotelreserve/hrs-backend/internal/interface/middleware"
	"github.com/hotelreserve/hrs-backend/pkg/response"
	"github.com/hotelreserve/hrs-backend/pkg/validation"
)

type AuthHandler struct {
	Svc    *application.AuthService
	Logger *logrus.Logger
}

func NewAuthHandler(svc *application.AuthService, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,pwd"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type resetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,pwd"`
}

func clientIP(c *gin.Context) string {
	if ip := c.GetString("real_ip"); ip != "" {
		return ip
	}
	return c.ClientIP()
}

func userJSON(u *entity.User) gin.H {
	return gin.H{
		"id":                u.ID,
		"name":              u.Name,
		"email":             u.Email,
		"role":              u.Role,
		"status":            u.Status,
		"isDefaultPassword": u.IsDefaultPassword,
		"created_at":        u.CreatedAt,
		"updated_at":        u.UpdatedAt,
	}
}

// AdminLogin POST /api/auth/admin-login {email, password}
func (h *AuthHandler) AdminLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "validation failed", validation.ToDetails(err))
		return
	}

	res, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password, entity.RoleAdmin, entity.RoleSuperAdmin)
	if err != nil {
		h.loginFailure(c, req.Email, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"user": userJSON(res.User), "token": res.Token}, "admin login successful")
}

// CustomerLogin POST /api/auth/customer-login {email, password}
func (h *AuthHandler) CustomerLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "validation failed", validation.ToDetails(err))
		return
	}

	res, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password, entity.RoleCustomer)
	if err != nil {
		h.loginFailure(c, req.Email, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"user":              userJSON(res.User),
		"token":             res.Token,
		"isDefaultPassword": res.IsDefaultPassword,
	}, "login successful")
}

// Both portals answer every credential failure, including a role outside the
// portal's set, with the same generic 401 so responses cannot be used to
// probe which emails are registered or which role an account holds.
func (h *AuthHandler) loginFailure(c *gin.Context, email string, err error) {
	if errors.Is(err, application.ErrInvalidCredentials) || errors.Is(err, application.ErrRoleNotAllowed) {
		h.Logger.WithFields(logrus.Fields{"email": email, "ip": clientIP(c)}).Warn("login rejected")
		response.Error[any](c, http.StatusUnauthorized, "invalid credentials", nil)
		return
	}
	h.Logger.WithError(err).WithField("email", email).Error("login failed")
	response.Error[any](c, http.StatusInternalServerError, "something went wrong", nil)
}

// ChangePassword PATCH /api/auth/change-password (auth required)
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	if uid == "" {
		response.Error[any](c, http.StatusUnauthorized, "authentication required", nil)
		return
	}

	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "validation failed", validation.ToDetails(err))
		return
	}

	if err := h.Svc.ChangePassword(c.Request.Context(), uid, req.OldPassword, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, application.ErrInvalidOldPassword):
			response.Error[any](c, http.StatusBadRequest, "old password is incorrect", nil)
		case errors.Is(err, application.ErrUserNotFound):
			response.Error[any](c, http.StatusNotFound, "user not found", nil)
		default:
			h.Logger.WithError(err).WithField("user_id", uid).Error("change password failed")
			response.Error[any](c, http.StatusInternalServerError, "something went wrong", nil)
		}
		return
	}

	response.Success[any](c, http.StatusOK, nil, "password changed successfully")
}

// ForgotPassword POST /api/auth/forgot-password {email}
// Replies with the same envelope whether or not the email is registered.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "validation failed", validation.ToDetails(err))
		return
	}

	if err := h.Svc.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		h.Logger.WithError(err).WithField("ip", clientIP(c)).Error("password reset request failed")
		response.Error[any](c, http.StatusInternalServerError, "something went wrong", nil)
		return
	}

	response.Success[any](c, http.StatusOK, nil, "a password reset link has been sent to your email")
}

// ResetPassword POST /api/auth/reset-password {token, newPassword}
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "validation failed", validation.ToDetails(err))
		return
	}

	if err := h.Svc.ResetPassword(c.Request.Context(), req.Token, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, application.ErrInvalidResetToken):
			response.Error[any](c, http.StatusBadRequest, "invalid or expired token", nil)
		case errors.Is(err, application.ErrUserNotFound):
			response.Error[any](c, http.StatusNotFound, "user not found", nil)
		default:
			h.Logger.WithError(err).Error("password reset failed")
			response.Error[any](c, http.StatusInternalServerError, "something went wrong", nil)
		}
		return
	}

	response.Success[any](c, http.StatusOK, nil, "password reset successfully")
}
