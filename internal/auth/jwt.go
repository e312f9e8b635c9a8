package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Audience claims. Each token carries the purpose it was issued for, so a
// reset token can never pass as a session token or vice versa.
const (
	PurposeAuth   = "snapfeed:auth"
	PurposeReset  = "snapfeed:reset"
	PurposeVerify = "snapfeed:verify"
)

var ErrInvalidToken = errors.New("invalid token")

// TokenIssuer signs and parses the HS256 bearer tokens used for sessions,
// password resets and email verification.
type TokenIssuer struct {
	secret   []byte
	lifetime time.Duration
}

func NewTokenIssuer(secret string, lifetime time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), lifetime: lifetime}
}

func (t *TokenIssuer) AccessToken(userID uuid.UUID) (string, error) {
	return t.PurposeToken(userID, PurposeAuth)
}

// ParseAccessToken validates a session token and returns the subject user id.
func (t *TokenIssuer) ParseAccessToken(tokenStr string) (uuid.UUID, error) {
	return t.ParsePurposeToken(tokenStr, PurposeAuth)
}

// PurposeToken issues a token bound to a single use, such as a password reset
// link.
func (t *TokenIssuer) PurposeToken(userID uuid.UUID, purpose string) (string, error) {
	claims := jwt.MapClaims{
		"sub": userID.String(),
		"aud": purpose,
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(t.lifetime).Unix(),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(t.secret)
}

func (t *TokenIssuer) ParsePurposeToken(tokenStr, purpose string) (uuid.UUID, error) {
	return t.parse(tokenStr, jwt.WithAudience(purpose))
}

func (t *TokenIssuer) parse(tokenStr string, opts ...jwt.ParserOption) (uuid.UUID, error) {
	opts = append(opts, jwt.WithValidMethods([]string{"HS256"}))
	tok, err := jwt.Parse(tokenStr, func(*jwt.Token) (any, error) {
		return t.secret, nil
	}, opts...)
	if err != nil || !tok.Valid {
		return uuid.Nil, ErrInvalidToken
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, ErrInvalidToken
	}
	sub, _ := claims["sub"].(string)
	id, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}
	return id, nil
}
