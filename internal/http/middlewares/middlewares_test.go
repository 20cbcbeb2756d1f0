package middlewares_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/geocoder89/eventpass/internal/auth"
	"github.com/geocoder89/eventpass/internal/domain/user"
	"github.com/geocoder89/eventpass/internal/http/middlewares"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func protectedRouter(m *middlewares.AuthMiddleware, extra ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()

	chain := append([]gin.HandlerFunc{m.RequireAuth()}, extra...)
	chain = append(chain, func(c *gin.Context) {
		id, _ := middlewares.IdentityFromContext(c)
		c.JSON(http.StatusOK, gin.H{"sub": id.ID, "role": id.Role})
	})

	r.GET("/secure", chain...)

	return r
}

func TestRequireAuth(t *testing.T) {
	manager := auth.NewManager("test-secret", 15*time.Minute)

	userID := uuid.NewString()

	token, err := manager.GenerateAccessToken(userID, "ada@example.com", "Ada", "user")

	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	r := protectedRouter(middlewares.NewAuthMiddleware(manager))

	tests := []struct {
		name           string
		header         string
		wantStatusCode int
	}{
		{"valid_token", "Bearer " + token, http.StatusOK},
		{"missing_header", "", http.StatusUnauthorized},
		{"not_bearer", "Basic abc", http.StatusUnauthorized},
		{"garbage_token", "Bearer not.a.jwt", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/secure", nil)

			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	manager := auth.NewManager("test-secret", 15*time.Minute)

	m := middlewares.NewAuthMiddleware(manager)

	adminToken, err := manager.GenerateAccessToken(uuid.NewString(), "root@example.com", "Root", "admin")

	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	userToken, err := manager.GenerateAccessToken(uuid.NewString(), "ada@example.com", "Ada", "user")

	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	r := protectedRouter(m, m.RequireRole("admin"))

	tests := []struct {
		name           string
		token          string
		wantStatusCode int
	}{
		{"admin_allowed", adminToken, http.StatusOK},
		{"user_forbidden", userToken, http.StatusForbidden},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/secure", nil)
			req.Header.Set("Authorization", "Bearer "+tt.token)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}
		})
	}
}

func TestRateLimiterFixedWindow(t *testing.T) {
	rl := middlewares.NewRateLimiter(2, time.Minute)

	r := gin.New()
	r.GET("/limited", rl.RateLimiterMiddleware(middlewares.KeyByIP), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	hit := func() int {
		req := httptest.NewRequest(http.MethodGet, "/limited", nil)
		req.RemoteAddr = "10.0.0.1:50000"

		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		return w.Code
	}

	if got := hit(); got != http.StatusOK {
		t.Fatalf("first hit: %d", got)
	}

	if got := hit(); got != http.StatusOK {
		t.Fatalf("second hit: %d", got)
	}

	if got := hit(); got != http.StatusTooManyRequests {
		t.Fatalf("third hit should be limited, got %d", got)
	}
}

func TestRateLimiterKeyByUser(t *testing.T) {
	rl := middlewares.NewRateLimiter(1, time.Minute)

	r := gin.New()

	identityFor := func(id string) gin.HandlerFunc {
		return func(c *gin.Context) {
			middlewares.StoreIdentity(c, user.Identity{ID: id})
			c.Next()
		}
	}

	aliceID := uuid.NewString()
	bobID := uuid.NewString()

	r.GET("/a", identityFor(aliceID), rl.RateLimiterMiddleware(middlewares.KeyByUserOrIP), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	r.GET("/b", identityFor(bobID), rl.RateLimiterMiddleware(middlewares.KeyByUserOrIP), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	hit := func(path string) int {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.RemoteAddr = "10.0.0.1:50000" // same IP for both users

		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		return w.Code
	}

	if got := hit("/a"); got != http.StatusOK {
		t.Fatalf("alice first hit: %d", got)
	}

	if got := hit("/a"); got != http.StatusTooManyRequests {
		t.Fatalf("alice second hit should be limited, got %d", got)
	}

	// another user behind the same IP has their own budget
	if got := hit("/b"); got != http.StatusOK {
		t.Fatalf("bob first hit: %d", got)
	}
}
