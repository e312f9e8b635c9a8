package auth

import (
	"net/http"
	"strings"

	"snapfeed/internal/models"

	"github.com/gin-gonic/gin"
)

const userContextKey = "currentUser"

// RequireAuth resolves the bearer token to an active user and stores it on the
// request context. Requests with a missing, invalid or expired token, or whose
// user is gone or deactivated, are rejected with 401.
func (m *UserManager) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authz := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(authz, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Unauthorized"})
			return
		}

		id, err := m.Tokens.ParseAccessToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Unauthorized"})
			return
		}

		user, err := m.ByID(id)
		if err != nil || !user.IsActive {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Unauthorized"})
			return
		}

		c.Set(userContextKey, user)
		c.Next()
	}
}

// CurrentUser returns the user resolved by RequireAuth. It panics if called on
// a route that is not behind the middleware.
func CurrentUser(c *gin.Context) *models.User {
	return c.MustGet(userContextKey).(*models.User)
}
