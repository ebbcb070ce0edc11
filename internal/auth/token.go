package auth

import (
	"errors"
	"time"

	"github.com/educonnect/educonnect/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const defaultTokenTTL = 7 * 24 * time.Hour

var ErrInvalidToken = errors.New("invalid session token")

type sessionClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// TokenIssuer mints the signed session token persisted next to the cached
// user. The original client stored a constant placeholder here; a signed,
// expiring credential replaces it.
type TokenIssuer struct {
	secretKey []byte
	ttl       time.Duration
}

func NewTokenIssuer(secretKey []byte, ttl time.Duration) *TokenIssuer {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &TokenIssuer{secretKey: secretKey, ttl: ttl}
}

func (issuer *TokenIssuer) Issue(user models.User) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		Role: user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ExternalID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(issuer.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(issuer.secretKey)
}

// Verify checks signature and expiry and returns the subject (the user's
// external id) and role.
func (issuer *TokenIssuer) Verify(raw string) (subject string, role string, err error) {
	parsed, err := jwt.ParseWithClaims(raw, &sessionClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return issuer.secretKey, nil
	})
	if err != nil || !parsed.Valid {
		return "", "", ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*sessionClaims)
	if !ok || claims.Subject == "" {
		return "", "", ErrInvalidToken
	}
	return claims.Subject, claims.Role, nil
}
