package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/hotelreserve/hrs-backend/internal/domain/repository"
	handlers "github.com/hotelreserve/hrs-backend/internal/interface/http"
	"github.com/hotelreserve/hrs-backend/internal/interface/middleware"
	"github.com/hotelreserve/hrs-backend/pkg/helpers"
)

// AuthModule wires the authentication endpoints.
// Public: admin-login, customer-login, forgot-password, reset-password.
// Protected: change-password.
type AuthModule struct {
	Handler *handlers.AuthHandler
	Users   repository.UserRepository
	JWT     *helpers.JWTManager
}

func NewAuthModule(h *handlers.AuthHandler, users repository.UserRepository, jwt *helpers.JWTManager) *AuthModule {
	return &AuthModule{Handler: h, Users: users, JWT: jwt}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	rg.POST("/auth/admin-login", m.Handler.AdminLogin)
	rg.POST("/auth/customer-login", m.Handler.CustomerLogin)
	rg.POST("/auth/forgot-password", m.Handler.ForgotPassword)
	rg.POST("/auth/reset-password", m.Handler.ResetPassword)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.Users, m.JWT))
	{
		auth.PATCH("/auth/change-password", m.Handler.ChangePassword)
	}
}
