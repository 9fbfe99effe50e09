package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hotelreserve/hrs-backend/internal/domain/entity"
	"github.com/hotelreserve/hrs-backend/internal/domain/repository"
	"github.com/hotelreserve/hrs-backend/pkg/helpers"
	"github.com/hotelreserve/hrs-backend/pkg/response"
)

// Context keys set by Auth for downstream handlers.
const (
	CtxUserIDKey    = "userID"
	CtxUserEmailKey = "userEmail"
	CtxUserRoleKey  = "userRole"
)

// Auth validates the bearer token from the Authorization header and ensures
// the account behind it still exists and is active. On success it sets
// userID, userEmail, and userRole in the Gin context.
func Auth(users repository.UserRepository, jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			response.AbortError(c, http.StatusUnauthorized, "authentication required", nil)
			return
		}
		token := strings.TrimPrefix(auth, "Bearer ")

		claims, err := jwt.ParseSessionToken(token)
		if err != nil {
			response.AbortError(c, http.StatusUnauthorized, "invalid token", nil)
			return
		}

		u, err := users.GetByID(claims.UserID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				response.AbortError(c, http.StatusUnauthorized, "user not found or inactive", nil)
				return
			}
			response.AbortError(c, http.StatusInternalServerError, "something went wrong", nil)
			return
		}
		if !u.Status {
			response.AbortError(c, http.StatusUnauthorized, "user not found or inactive", nil)
			return
		}

		c.Set(CtxUserIDKey, u.ID)
		c.Set(CtxUserEmailKey, u.Email)
		c.Set(CtxUserRoleKey, string(u.Role))
		c.Next()
	}
}

// RequireRoles rejects an authenticated request whose role is outside the
// allowed set. Must run after Auth.
func RequireRoles(roles ...entity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := entity.Role(c.GetString(CtxUserRoleKey))
		if role == "" || !role.In(roles...) {
			response.AbortError(c, http.StatusForbidden, "forbidden", nil)
			return
		}
		c.Next()
	}
}
