package user

import (
	"errors"
	"time"
)

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // never expose hash in JSON
	Name         string    `json:"name"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

var (
	ErrNotFound    = errors.New("user not found")
	ErrEmailInUse  = errors.New("email already in use")
	ErrBadPassword = errors.New("invalid credentials")
)

// Identity is the slice of a User the request pipeline carries around once
// the auth middleware has verified a token. Name and email ride along so the
// ticket artifact can be rendered without an extra lookup.
type Identity struct {
	ID    string
	Email string
	Name  string
	Role  string
}
