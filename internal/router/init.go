package router

import (
	"github.com/hotelreserve/hrs-backend/internal/application"
	"github.com/hotelreserve/hrs-backend/internal/container"
	pginfra "github.com/hotelreserve/hrs-backend/internal/infrastructure/postgres"
	handlers "github.com/hotelreserve/hrs-backend/internal/interface/http"
	"github.com/hotelreserve/hrs-backend/internal/router/modules"
)

// InitModules initializes all application modules and registers them with the router registry.
// This function should be called once during application startup to wire up all modules.
func InitModules(r *Registry) {
	cfg := container.GetConfig()

	users := pginfra.NewUserRepository(container.GetPGPool())
	resets := pginfra.NewResetTokenRepository(container.GetPGPool(), cfg.ResetTTL)

	authSvc := application.NewAuthService(
		users,
		resets,
		container.GetJWT(),
		container.GetRabbitPub(),
		container.GetLogger(),
		cfg,
	)
	customerSvc := application.NewCustomerService(
		users,
		container.GetRedis(),
		container.GetRabbitPub(),
		container.GetLogger(),
		cfg,
		container.GetES(),
		cfg.ESCustomersIndex,
	)

	authHandler := handlers.NewAuthHandler(authSvc, container.GetLogger())
	customerHandler := handlers.NewCustomerHandler(customerSvc, container.GetLogger())

	r.Add(modules.NewAuthModule(authHandler, users, container.GetJWT()))
	r.Add(modules.NewCustomerModule(customerHandler, users, container.GetJWT()))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
