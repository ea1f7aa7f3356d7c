package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

var ErrInvalidToken = errors.New("invalid table token")

// IssueTableToken signs an HS256 token that lets its holder play on tableID
// until the returned expiry.
func IssueTableToken(secret, tableID string, ttl time.Duration) (string, time.Time, error) {
	exp := time.Now().Add(ttl)
	claims := jwt.MapClaims{"table_id": tableID, "exp": jwt.NewNumericDate(exp).Unix()}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign table token: %w", err)
	}
	return signed, exp, nil
}

// ParseTableToken validates a table token and returns the table it grants.
func ParseTableToken(secret, token string) (string, error) {
	parsed, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !parsed.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}
	tableID, ok := claims["table_id"].(string)
	if !ok || tableID == "" {
		return "", ErrInvalidToken
	}
	return tableID, nil
}
