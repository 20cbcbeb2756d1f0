package middlewares

import (
	"net/http"
	"strings"

	"github.com/geocoder89/eventpass/internal/auth"
	"github.com/geocoder89/eventpass/internal/domain/user"
	"github.com/gin-gonic/gin"
)

// Keep this small interface so tests can fake it easily.
type TokenVerifier interface {
	VerifyAccessToken(token string) (*auth.Claims, error)
}

type AuthMiddleware struct {
	jwt TokenVerifier
}

func NewAuthMiddleware(jwt TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwt}
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			abortUnauthorized(c, "Missing or invalid Authorization header")
			return
		}

		raw := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer"))
		if raw == "" {
			abortUnauthorized(c, "Missing or invalid access token")
			return
		}

		claims, err := m.jwt.VerifyAccessToken(raw)
		if err != nil {
			abortUnauthorized(c, "Invalid or expired access token")
			return
		}

		// Stash the verified identity on the context
		StoreIdentity(c, user.Identity{
			ID:    claims.UserID,
			Email: claims.Email,
			Name:  claims.Name,
			Role:  claims.Role,
		})

		c.Next()
	}
}

// Helpers so handlers and tests don't need to know the magic key.

func StoreIdentity(c *gin.Context, id user.Identity) {
	c.Set(ctxIdentityKey, id)
}

func IdentityFromContext(c *gin.Context) (user.Identity, bool) {
	v, ok := c.Get(ctxIdentityKey)
	if !ok {
		return user.Identity{}, false
	}
	id, ok := v.(user.Identity)
	return id, ok
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error": gin.H{
			"code":    "unauthorized",
			"message": message,
		},
	})
}
