package admin

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// VerifyToken checks a plain admin token against its stored bcrypt hash.
func VerifyToken(hashedToken, plainToken string) bool {
	if hashedToken == "" || plainToken == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hashedToken), []byte(plainToken)) == nil
}

// HashToken returns the bcrypt hash to put in ADMIN_TOKEN_HASH.
func HashToken(plainToken string) (string, error) {
	if len(plainToken) < 12 {
		return "", fmt.Errorf("admin token must be at least 12 characters")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(plainToken), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash token: %w", err)
	}
	return string(hashed), nil
}
