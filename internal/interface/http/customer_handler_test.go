package handlers_test

import (
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/hotelreserve/hrs-backend/config"
	"github.com/hotelreserve/hrs-backend/internal/application"
	"github.com/hotelreserve/hrs-backend/internal/domain/entity"
	handlers "github.com/hotelreserve/hrs-backend/internal/interface/http"
	"github.com/hotelreserve/hrs-backend/internal/interface/middleware"
	"github.com/hotelreserve/hrs-backend/pkg/helpers"
	"github.com/hotelreserve/hrs-backend/pkg/validation"
)

type customerEnv struct {
	*testEnv
}

func newCustomerEnv(t *testing.T) *customerEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validation.Init()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	cfg := &config.Config{
		AppName:         "hrs-backend",
		DefaultPassword: defaultPassword,
		CompanyName:     "Hotel Reservation System",
		ResetTTL:        time.Hour,
	}
	users := newMemoryUserRepo()
	jwt := helpers.NewJWTManager("session-secret", "reset-secret", time.Hour, time.Hour)
	svc := application.NewCustomerService(users, nil, nil, logger, cfg, nil, "")
	h := handlers.NewCustomerHandler(svc, logger)

	r := gin.New()
	grp := r.Group("/api/customers", middleware.Auth(users, jwt), middleware.RequireRoles(entity.RoleAdmin, entity.RoleSuperAdmin))
	grp.POST("", h.Create)
	grp.GET("", h.List)
	grp.GET("/search", h.Search)

	return &customerEnv{&testEnv{router: r, users: users, jwt: jwt}}
}

func (e *customerEnv) adminToken(t *testing.T) string {
	t.Helper()
	admin := e.seed(t, "Admin", "admin@x.com", "admin123", entity.RoleAdmin, true)
	token, _, err := e.jwt.GenerateSessionToken(admin.ID, admin.Email, string(admin.Role))
	require.NoError(t, err)
	return token
}

func TestCreateCustomerEndpoint(t *testing.T) {
	env := newCustomerEnv(t)
	token := env.adminToken(t)

	w := env.do(http.MethodPost, "/api/customers", token, gin.H{"name": "Jane Guest", "email": "jane@example.com"})
	require.Equal(t, http.StatusCreated, w.Code)

	data := decodeBody(t, w)["data"].(map[string]any)
	customer := data["customer"].(map[string]any)
	require.Equal(t, "jane@example.com", customer["email"])
	require.Equal(t, "customer", customer["role"])
	require.Equal(t, true, customer["isDefaultPassword"])
	require.NotContains(t, customer, "password")

	// Same email again conflicts.
	w = env.do(http.MethodPost, "/api/customers", token, gin.H{"name": "Jane Again", "email": "JANE@example.com"})
	require.Equal(t, http.StatusConflict, w.Code)
}

func TestCreateCustomerRequiresStaffRole(t *testing.T) {
	env := newCustomerEnv(t)
	guest := env.seed(t, "Guest", "guest@x.com", defaultPassword, entity.RoleCustomer, true)
	token, _, err := env.jwt.GenerateSessionToken(guest.ID, guest.Email, string(guest.Role))
	require.NoError(t, err)

	w := env.do(http.MethodPost, "/api/customers", token, gin.H{"name": "X", "email": "x@x.com"})
	require.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(http.MethodPost, "/api/customers", "", gin.H{"name": "X", "email": "x@x.com"})
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestListCustomersEndpoint(t *testing.T) {
	env := newCustomerEnv(t)
	token := env.adminToken(t)
	env.seed(t, "Guest A", "a@x.com", defaultPassword, entity.RoleCustomer, true)
	env.seed(t, "Guest B", "b@x.com", defaultPassword, entity.RoleCustomer, true)

	w := env.do(http.MethodGet, "/api/customers", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	data := decodeBody(t, w)["data"].(map[string]any)
	customers := data["customers"].([]any)
	require.Len(t, customers, 2)
	for _, c := range customers {
		require.NotContains(t, c.(map[string]any), "password")
	}
}

func TestSearchRequiresQuery(t *testing.T) {
	env := newCustomerEnv(t)
	token := env.adminToken(t)

	w := env.do(http.MethodGet, "/api/customers/search", token, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	// Without a search backend the endpoint degrades to an empty result set.
	w = env.do(http.MethodGet, "/api/customers/search?q=jane", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := decodeBody(t, w)["data"].(map[string]any)
	require.Empty(t, data["results"])
}
