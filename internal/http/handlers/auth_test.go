package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/geocoder89/eventpass/internal/auth"
	"github.com/geocoder89/eventpass/internal/domain/user"
	"github.com/geocoder89/eventpass/internal/http/handlers"
	"github.com/geocoder89/eventpass/internal/security"
)

type fakeUserStore struct {
	createFn     func(ctx context.Context, email, passwordHash, name, role string) (user.User, error)
	getByEmailFn func(ctx context.Context, email string) (user.User, error)
}

func (f *fakeUserStore) Create(ctx context.Context, email, passwordHash, name, role string) (user.User, error) {
	if f.createFn != nil {
		return f.createFn(ctx, email, passwordHash, name, role)
	}

	return user.User{}, nil
}

func (f *fakeUserStore) GetByEmail(ctx context.Context, email string) (user.User, error) {
	if f.getByEmailFn != nil {
		return f.getByEmailFn(ctx, email)
	}

	return user.User{}, user.ErrNotFound
}

func testJWTManager() *auth.Manager {
	return auth.NewManager("test-secret", 15*time.Minute)
}

func TestSignUpHandler(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		storeSetUp     func(*fakeUserStore)
		wantStatusCode int
	}{
		{
			name: "success",
			body: `{"email": "ada@example.com", "password": "correcthorse", "name": "Ada"}`,
			storeSetUp: func(f *fakeUserStore) {
				f.createFn = func(ctx context.Context, email, passwordHash, name, role string) (user.User, error) {
					if role != "user" {
						t.Fatalf("new accounts must get the user role, got %q", role)
					}
					return user.User{ID: newUUID(), Email: email, Name: name, Role: role}, nil
				}
			},
			wantStatusCode: http.StatusCreated,
		},
		{
			name:           "short_password",
			body:           `{"email": "ada@example.com", "password": "short", "name": "Ada"}`,
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name: "email_taken",
			body: `{"email": "ada@example.com", "password": "correcthorse", "name": "Ada"}`,
			storeSetUp: func(f *fakeUserStore) {
				f.createFn = func(ctx context.Context, email, passwordHash, name, role string) (user.User, error) {
					return user.User{}, user.ErrEmailInUse
				}
			},
			wantStatusCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			store := &fakeUserStore{}

			if tt.storeSetUp != nil {
				tt.storeSetUp(store)
			}

			h := handlers.NewAuthHandler(store, testJWTManager())
			r := setupRouter(http.MethodPost, "/auth/signup", h.SignUp)

			req := httptest.NewRequest(http.MethodPost, "/auth/signup", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")

			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}
		})
	}
}

func TestLoginHandler(t *testing.T) {
	hash, err := security.HashPassword("correcthorse")

	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	known := user.User{
		ID:           newUUID(),
		Email:        "ada@example.com",
		Name:         "Ada",
		Role:         "user",
		PasswordHash: hash,
	}

	store := &fakeUserStore{
		getByEmailFn: func(ctx context.Context, email string) (user.User, error) {
			if email == known.Email {
				return known, nil
			}
			return user.User{}, user.ErrNotFound
		},
	}

	jwtManager := testJWTManager()

	h := handlers.NewAuthHandler(store, jwtManager)
	r := setupRouter(http.MethodPost, "/auth/login", h.Login)

	login := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		return w
	}

	t.Run("success_issues_verifiable_token", func(t *testing.T) {
		w := login(`{"email": "ada@example.com", "password": "correcthorse"}`)

		if w.Code != http.StatusOK {
			t.Fatalf("got status %d, body=%s", w.Code, w.Body.String())
		}

		var payload struct {
			AccessToken string    `json:"accessToken"`
			User        user.User `json:"user"`
		}

		if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
			t.Fatalf("decode body: %v", err)
		}

		claims, err := jwtManager.VerifyAccessToken(payload.AccessToken)

		if err != nil {
			t.Fatalf("issued token does not verify: %v", err)
		}

		if claims.UserID != known.ID || claims.Email != known.Email {
			t.Fatalf("claims do not match the user: %+v", claims)
		}

		if strings.Contains(w.Body.String(), hash) {
			t.Fatal("password hash must never leave the server")
		}
	})

	t.Run("wrong_password", func(t *testing.T) {
		w := login(`{"email": "ada@example.com", "password": "wrong-password"}`)

		if w.Code != http.StatusUnauthorized {
			t.Fatalf("got status %d, body=%s", w.Code, w.Body.String())
		}
	})

	t.Run("unknown_email_same_response", func(t *testing.T) {
		w := login(`{"email": "nobody@example.com", "password": "correcthorse"}`)

		if w.Code != http.StatusUnauthorized {
			t.Fatalf("got status %d, body=%s", w.Code, w.Body.String())
		}
	})
}
