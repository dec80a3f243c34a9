// Package auth provides the caller-authentication boundary the A2A Server
// calls before JSON-RPC dispatch. spec.md leaves the validator pluggable
// and out of scope for the core engine; this package supplies one concrete
// reference implementation (JWT bearer tokens) behind that boundary, plus
// a no-op for tests and the "out of the box" experience.
package auth

import (
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Validator authenticates an inbound HTTP request before it reaches the
// JSON-RPC dispatch boundary. A non-nil error rejects the request.
type Validator interface {
	Authenticate(req *http.Request) error
}

// Noop admits every request; the default when no auth secret is
// configured.
type Noop struct{}

func (Noop) Authenticate(*http.Request) error { return nil }

// JWTValidator checks a bearer token's signature and expiry against a
// single HMAC signing key, rate-limited per the RateLimiter below.
// Grounded on the teacher's auth.Service, trimmed to the validator
// boundary this engine actually needs: signature/expiry checking and
// minting, not the refresh/revoke token lifecycle the teacher's fuller
// Service managed (out of scope — no protocol method here needs it).
type JWTValidator struct {
	signingKey  []byte
	rateLimiter *RateLimiter
}

// NewJWTValidator builds a validator keyed by secret. A blank secret is a
// caller error — use Noop instead when auth is disabled.
func NewJWTValidator(secret string) *JWTValidator {
	return &JWTValidator{
		signingKey:  []byte(secret),
		rateLimiter: NewRateLimiter(100, time.Minute),
	}
}

func (v *JWTValidator) keyFunc(token *jwt.Token) (any, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
	}
	return v.signingKey, nil
}

// Authenticate validates the Authorization header's bearer token.
func (v *JWTValidator) Authenticate(req *http.Request) error {
	if !v.rateLimiter.Allow() {
		return fmt.Errorf("rate limit exceeded")
	}

	authHeader := req.Header.Get("Authorization")
	if authHeader == "" {
		return fmt.Errorf("missing authorization header")
	}

	tokenStr := authHeader
	if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
		tokenStr = authHeader[7:]
	}

	token, err := jwt.Parse(tokenStr, v.keyFunc)
	if err != nil {
		return fmt.Errorf("invalid token: %w", err)
	}
	if !token.Valid {
		return fmt.Errorf("token expired")
	}
	return nil
}

// IssueToken mints a bearer token for sub, valid for ttl. Used by CLI
// tooling and tests that need a credential to exercise JWTValidator.
func (v *JWTValidator) IssueToken(sub string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": sub,
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
		"jti": uuid.NewString(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(v.signingKey)
}
