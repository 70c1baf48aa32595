package session

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	dErrors "betelgeuse-console/pkg/domain-errors"
)

// CookieName is the console session cookie.
const CookieName = "betelgeuse_console_session"

// claims binds the cookie to one stored session. The cookie carries only the
// session ID; everything else (role, backend cookie) stays server-side.
type claims struct {
	SessionID string `json:"session_id"`
	jwt.RegisteredClaims
}

// TokenCodec signs and validates the session cookie value.
type TokenCodec struct {
	signingKey []byte
	issuer     string
}

func NewTokenCodec(signingKey string) *TokenCodec {
	return &TokenCodec{
		signingKey: []byte(signingKey),
		issuer:     "betelgeuse-console",
	}
}

// Encode produces a signed cookie value for the session.
func (c *TokenCodec) Encode(sessionID uuid.UUID, expiresAt time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		SessionID: sessionID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    c.issuer,
			ID:        uuid.NewString(),
		},
	})
	signed, err := token.SignedString(c.signingKey)
	if err != nil {
		return "", err
	}
	return signed, nil
}

// Decode validates a cookie value and returns the embedded session ID.
func (c *TokenCodec) Decode(cookieValue string) (uuid.UUID, error) {
	parsed, err := jwt.ParseWithClaims(cookieValue, &claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return c.signingKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return uuid.Nil, dErrors.New(dErrors.CodeUnauthorized, "session has expired")
		}
		return uuid.Nil, dErrors.New(dErrors.CodeUnauthorized, "invalid session cookie")
	}
	cl, ok := parsed.Claims.(*claims)
	if !ok || !parsed.Valid {
		return uuid.Nil, dErrors.New(dErrors.CodeUnauthorized, "invalid session cookie")
	}
	sessionID, err := uuid.Parse(cl.SessionID)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeUnauthorized, "invalid session cookie")
	}
	return sessionID, nil
}
