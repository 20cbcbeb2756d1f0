package handlers

import (
	"context"
	"errors"
	"time"

	"net/http"

	"github.com/geocoder89/eventpass/internal/auth"
	"github.com/geocoder89/eventpass/internal/config"
	"github.com/geocoder89/eventpass/internal/domain/user"
	"github.com/geocoder89/eventpass/internal/security"
	"github.com/gin-gonic/gin"
)

type UserStore interface {
	Create(ctx context.Context, email, passwordHash, name, role string) (user.User, error)
	GetByEmail(ctx context.Context, email string) (user.User, error)
}

// AuthHandler is the token issuer the auth middleware consumes. Account
// management beyond signup/login is out of scope.
type AuthHandler struct {
	users UserStore
	jwt   *auth.Manager
}

func NewAuthHandler(users UserStore, jwtManager *auth.Manager) *AuthHandler {
	return &AuthHandler{
		users: users,
		jwt:   jwtManager,
	}
}

type SignUpRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name" binding:"required,min=2"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) SignUp(ctx *gin.Context) {
	var req SignUpRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	hash, err := security.HashPassword(req.Password)

	if err != nil {
		RespondInternal(ctx, "Could not create user")
		return
	}

	// default role for new users

	u, err := h.users.Create(cctx, req.Email, hash, req.Name, "user")

	if err != nil {
		if errors.Is(err, user.ErrEmailInUse) {
			RespondBadRequest(ctx, "email_taken", "Email is already in use.", nil)
			return
		}

		RespondInternal(ctx, "Could not create user")
		return
	}

	token, err := h.jwt.GenerateAccessToken(u.ID, u.Email, u.Name, u.Role)

	if err != nil {
		RespondInternal(ctx, "Could not generate access token")
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"accessToken": token,
		"user":        u,
	})
}

func (h *AuthHandler) Login(ctx *gin.Context) {
	var req LoginRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	u, err := h.users.GetByEmail(cctx, req.Email)

	if err != nil {
		// indistinguishable from a wrong password on purpose
		RespondUnauthorized(ctx, "Invalid email or password")
		return
	}

	if err := security.CheckPassword(u.PasswordHash, req.Password); err != nil {
		RespondUnauthorized(ctx, "Invalid email or password")
		return
	}

	token, err := h.jwt.GenerateAccessToken(u.ID, u.Email, u.Name, u.Role)

	if err != nil {
		RespondInternal(ctx, "Could not generate access token")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"accessToken": token,
		"user":        u,
	})
}
