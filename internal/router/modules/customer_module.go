package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/hotelreserve/hrs-backend/internal/domain/entity"
	"github.com/hotelreserve/hrs-backend/internal/domain/repository"
	handlers "github.com/hotelreserve/hrs-backend/internal/interface/http"
	"github.com/hotelreserve/hrs-backend/internal/interface/middleware"
	"github.com/hotelreserve/hrs-backend/pkg/helpers"
)

// CustomerModule wires the admin-only customer management endpoints.
type CustomerModule struct {
	Handler *handlers.CustomerHandler
	Users   repository.UserRepository
	JWT     *helpers.JWTManager
}

func NewCustomerModule(h *handlers.CustomerHandler, users repository.UserRepository, jwt *helpers.JWTManager) *CustomerModule {
	return &CustomerModule{Handler: h, Users: users, JWT: jwt}
}

func (m *CustomerModule) Register(rg *gin.RouterGroup) {
	admin := rg.Group("/customers")
	admin.Use(
		middleware.Auth(m.Users, m.JWT),
		middleware.RequireRoles(entity.RoleAdmin, entity.RoleSuperAdmin),
	)
	{
		admin.POST("", m.Handler.Create)
		admin.GET("", m.Handler.List)
		admin.GET("/search", m.Handler.Search)
	}
}
