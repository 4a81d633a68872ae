package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"todoapi/internal/models"
)

// ErrInvalidToken covers every verification failure: bad signature,
// malformed payload, missing claims, or expiry. Callers get no further
// detail.
var ErrInvalidToken = errors.New("token is invalid")

// TokenManager issues and verifies HS256-signed bearer tokens. The secret
// is loaded once at startup and never changes during the process lifetime.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), ttl: ttl}
}

// Issue creates a signed token carrying {sub, id, role, exp, iat}.
func (tm *TokenManager) Issue(username string, userID int64, role string) (string, error) {
	now := time.Now()
	claims := &models.Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			ExpiresAt: jwt.NewNumericDate(now.Add(tm.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(tm.secret)
}

// Verify parses and validates a token string and returns its claims.
func (tm *TokenManager) Verify(tokenString string) (*models.Claims, error) {
	claims := &models.Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// Ensure the token's signing method is what we expect
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return tm.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.Subject == "" || claims.UserID == 0 {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
