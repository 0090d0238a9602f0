package jwtx

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultAccessTokenTTL is the lifetime of an access token. One hour keeps
// the stateless-token exposure window bounded without forcing integrations
// to re-authenticate mid-session.
const DefaultAccessTokenTTL = time.Hour

// TokenTypeAccess marks access tokens. Tokens without this "type" claim are
// rejected even when the signature checks out.
const TokenTypeAccess = "access"

// Claims are the access-token claims shared by every service surface.
// Changes must stay additive so outstanding tokens keep parsing.
type Claims struct {
	jwt.RegisteredClaims

	// ClientID of the credential the token was minted for. Mirrors "sub".
	ClientID string `json:"client_id,omitempty"`

	// AppID the client authenticated on behalf of.
	AppID string `json:"app_id,omitempty"`

	// Role the client holds (doctor, nurse, patient, admin, system).
	Role string `json:"role,omitempty"`

	// Scopes granted to the token, e.g. "read:patients".
	Scopes []string `json:"scopes,omitempty"`

	// TokenType distinguishes access tokens from anything minted later.
	TokenType string `json:"type,omitempty"`
}

// NewAccessClaims builds minimally-correct access-token claims. The caller
// supplies now so tests can pin the clock.
func NewAccessClaims(
	clientID, appID, role string,
	scopes []string,
	ttl time.Duration,
	issuer string,
	now time.Time,
) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   clientID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        NewJTI(),
		},
		ClientID:  clientID,
		AppID:     appID,
		Role:      role,
		Scopes:    scopes,
		TokenType: TokenTypeAccess,
	}
}

// NewJTI returns a URL-safe random identifier for the "jti" claim.
func NewJTI() string {
	var b [20]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}

// ValidateIssuer checks the issuer matches the expected value.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected == "" {
		return nil // nothing to enforce
	}

	if c.Issuer != expected {
		return ErrIssuer
	}

	return nil
}

// ValidateExpiry ensures the token hasn't expired (exp) and isn't used
// before it is valid (nbf).
func (c *Claims) ValidateExpiry() error {
	now := time.Now().UTC()

	if c.ExpiresAt != nil && now.After(c.ExpiresAt.Time) {
		return ErrExpired
	}

	if c.NotBefore != nil && now.Before(c.NotBefore.Time) {
		return ErrNotYetValid
	}

	return nil
}

// ValidateTokenType enforces the "type" claim.
func (c *Claims) ValidateTokenType(expected string) error {
	if c.TokenType != expected {
		return ErrInvalidClaim
	}
	return nil
}
