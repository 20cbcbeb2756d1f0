// Package security holds the password hashing primitives. Nothing here
// knows about users or tokens; it is bcrypt behind two names.
package security

import "golang.org/x/crypto/bcrypt"

// roughly 250ms per hash on current hardware
const hashCost = 12

func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), hashCost)

	if err != nil {
		return "", err
	}

	return string(hash), nil
}

// CheckPassword returns nil only when plain matches the stored hash.
func CheckPassword(hash, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
}
