package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/hotelreserve/hrs-backend/internal/domain/entity"
	"github.com/hotelreserve/hrs-backend/internal/domain/repository"
	"github.com/hotelreserve/hrs-backend/internal/interface/middleware"
	"github.com/hotelreserve/hrs-backend/pkg/helpers"
)

type stubUserRepo struct {
	users map[string]*entity.User
}

func (s *stubUserRepo) Create(u *entity.User) error { return errors.New("not implemented") }

func (s *stubUserRepo) GetByID(id string) (*entity.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u.Sanitized(), nil
}

func (s *stubUserRepo) GetByIDWithPassword(id string) (*entity.User, error) { return s.GetByID(id) }

func (s *stubUserRepo) GetActiveByEmail(email string) (*entity.User, error) {
	return nil, errors.New("not implemented")
}

func (s *stubUserRepo) GetByEmail(email string) (*entity.User, error) {
	return nil, errors.New("not implemented")
}

func (s *stubUserRepo) Update(u *entity.User) error { return errors.New("not implemented") }

func (s *stubUserRepo) UpdatePassword(id, hash string, isDefault bool) error {
	return errors.New("not implemented")
}

func (s *stubUserRepo) ListByRole(role entity.Role) ([]*entity.User, error) { return nil, nil }

func setupRouter(users *stubUserRepo, jwt *helpers.JWTManager, extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := append([]gin.HandlerFunc{middleware.Auth(users, jwt)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"userID":   c.GetString(middleware.CtxUserIDKey),
			"userRole": c.GetString(middleware.CtxUserRoleKey),
		})
	})
	r.GET("/protected", handlers...)
	return r
}

func doGet(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthRejectsMissingOrMalformedHeader(t *testing.T) {
	jwt := helpers.NewJWTManager("s", "r", time.Hour, time.Hour)
	r := setupRouter(&stubUserRepo{users: map[string]*entity.User{}}, jwt)

	require.Equal(t, http.StatusUnauthorized, doGet(r, "").Code)
	require.Equal(t, http.StatusUnauthorized, doGet(r, "Basic abc").Code)
	require.Equal(t, http.StatusUnauthorized, doGet(r, "Bearer not-a-jwt").Code)
}

func TestAuthRejectsExpiredToken(t *testing.T) {
	jwt := helpers.NewJWTManager("s", "r", -time.Minute, time.Hour)
	users := &stubUserRepo{users: map[string]*entity.User{
		"u-1": {ID: "u-1", Email: "a@x.com", Role: entity.RoleAdmin, Status: true},
	}}
	r := setupRouter(users, jwt)

	token, _, err := jwt.GenerateSessionToken("u-1", "a@x.com", "admin")
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, doGet(r, "Bearer "+token).Code)
}

func TestAuthRejectsDeletedOrInactiveUser(t *testing.T) {
	jwt := helpers.NewJWTManager("s", "r", time.Hour, time.Hour)
	users := &stubUserRepo{users: map[string]*entity.User{
		"u-2": {ID: "u-2", Email: "off@x.com", Role: entity.RoleCustomer, Status: false},
	}}
	r := setupRouter(users, jwt)

	// Token for a user that no longer exists.
	gone, _, err := jwt.GenerateSessionToken("u-1", "a@x.com", "admin")
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, doGet(r, "Bearer "+gone).Code)

	// Token for a deactivated user.
	off, _, err := jwt.GenerateSessionToken("u-2", "off@x.com", "customer")
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, doGet(r, "Bearer "+off).Code)
}

type downStubRepo struct {
	stubUserRepo
}

func (d *downStubRepo) GetByID(string) (*entity.User, error) {
	return nil, errors.New("connection refused")
}

func TestAuthStoreFailureIsNot401(t *testing.T) {
	jwt := helpers.NewJWTManager("s", "r", time.Hour, time.Hour)
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", middleware.Auth(&downStubRepo{}, jwt), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	token, _, err := jwt.GenerateSessionToken("u-1", "a@x.com", "admin")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestAuthSetsIdentityInContext(t *testing.T) {
	jwt := helpers.NewJWTManager("s", "r", time.Hour, time.Hour)
	users := &stubUserRepo{users: map[string]*entity.User{
		"u-1": {ID: "u-1", Email: "a@x.com", Role: entity.RoleAdmin, Status: true},
	}}
	r := setupRouter(users, jwt)

	token, _, err := jwt.GenerateSessionToken("u-1", "a@x.com", "admin")
	require.NoError(t, err)

	w := doGet(r, "Bearer "+token)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"userID":"u-1"`)
	require.Contains(t, w.Body.String(), `"userRole":"admin"`)
}

func TestRequireRolesBlocksOutsiders(t *testing.T) {
	jwt := helpers.NewJWTManager("s", "r", time.Hour, time.Hour)
	users := &stubUserRepo{users: map[string]*entity.User{
		"admin-1":    {ID: "admin-1", Email: "a@x.com", Role: entity.RoleAdmin, Status: true},
		"customer-1": {ID: "customer-1", Email: "c@x.com", Role: entity.RoleCustomer, Status: true},
	}}
	r := setupRouter(users, jwt, middleware.RequireRoles(entity.RoleAdmin, entity.RoleSuperAdmin))

	adminToken, _, err := jwt.GenerateSessionToken("admin-1", "a@x.com", "admin")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, doGet(r, "Bearer "+adminToken).Code)

	customerToken, _, err := jwt.GenerateSessionToken("customer-1", "c@x.com", "customer")
	require.NoError(t, err)
	require.Equal(t, http.StatusForbidden, doGet(r, "Bearer "+customerToken).Code)
}
