package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/curalinkhq/curalink/internal/ehr/domain"
	"github.com/curalinkhq/curalink/internal/ehr/store"
	"github.com/curalinkhq/curalink/pkg/cryptox"
	"github.com/curalinkhq/curalink/pkg/jwtx"
	"github.com/curalinkhq/curalink/pkg/slogx"
)

var (
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrTokenExpired       = errors.New("token_expired")
	ErrInvalidToken       = errors.New("invalid_token")
)

// AuthService implements the OAuth2 client_credentials grant for integration
// clients and stateless validation of the access tokens it mints.
type AuthService struct {
	Store     store.Store
	Signer    jwtx.Signer
	Verifier  jwtx.Verifier
	Issuer    string
	AccessTTL time.Duration
}

// Authenticate verifies a client_id/client_secret/app_id triple and mints an
// access token carrying the client's role and scopes.
//
// Every failure mode returns ErrInvalidCredentials: an unknown client, a
// deactivated client, an app_id that does not match the registration, and a
// wrong secret are indistinguishable to the caller, so the endpoint cannot
// be used to probe which client IDs exist.
func (s *AuthService) Authenticate(ctx context.Context, clientID, clientSecret, appID string) (*domain.AccessGrant, error) {
	log := slogx.FromContext(ctx)

	clientID = strings.TrimSpace(clientID)
	appID = strings.TrimSpace(appID)
	if clientID == "" || clientSecret == "" || appID == "" {
		return nil, ErrInvalidCredentials
	}

	client, err := s.Store.Clients().GetClientByClientID(ctx, clientID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Info("authentication failed: unknown client", slog.String("client_id", clientID))
			return nil, ErrInvalidCredentials
		}
		return nil, storageErr("authenticate", err)
	}

	if !client.Active {
		log.Info("authentication failed: client deactivated", slog.String("client_id", clientID))
		return nil, ErrInvalidCredentials
	}
	if cryptox.VerifySecret(clientSecret, client.SecretHash) != nil {
		log.Info("authentication failed: bad secret", slog.String("client_id", clientID))
		return nil, ErrInvalidCredentials
	}
	if client.AppID != appID {
		log.Info("authentication failed: app_id mismatch", slog.String("client_id", clientID))
		return nil, ErrInvalidCredentials
	}

	// Best effort; a failed bookkeeping write must not block the login.
	if err := s.Store.Clients().TouchClientLastUsed(ctx, client.ClientID); err != nil {
		log.Warn("failed to update client last_used", "error", err, slog.String("client_id", clientID))
	}

	now := time.Now()
	ttl := s.AccessTTL
	if ttl <= 0 {
		ttl = jwtx.DefaultAccessTokenTTL
	}

	claims := jwtx.NewAccessClaims(client.ClientID, client.AppID, client.Role.String(), client.Scopes, ttl, s.Issuer, now)
	token, err := s.Signer.Sign(claims)
	if err != nil {
		return nil, err
	}

	log.Info("client authenticated",
		slog.String("client_id", client.ClientID),
		slog.String("app_id", client.AppID),
		slog.String("role", client.Role.String()),
	)

	return &domain.AccessGrant{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int(ttl.Seconds()),
		Scopes:      client.Scopes,
		Client:      &client,
	}, nil
}

// ValidateToken checks the signature and registered claims of an access
// token and returns the identity baked into it. Validation is stateless; a
// token stays valid until expiry even if the client is deactivated later.
//
// Returns ErrTokenExpired for expired tokens and ErrInvalidToken for every
// other defect (bad signature, wrong issuer, wrong type, garbage input).
func (s *AuthService) ValidateToken(ctx context.Context, token string) (domain.TokenInfo, error) {
	claims, err := s.Verifier.Verify(strings.TrimSpace(token))
	if err != nil {
		if errors.Is(err, jwtx.ErrExpired) {
			return domain.TokenInfo{}, ErrTokenExpired
		}
		return domain.TokenInfo{}, ErrInvalidToken
	}

	info := domain.TokenInfo{
		ClientID: claims.ClientID,
		AppID:    claims.AppID,
		Role:     domain.Role(claims.Role),
		Scopes:   claims.Scopes,
	}
	if claims.ExpiresAt != nil {
		info.ExpiresAt = claims.ExpiresAt.Time
	}
	return info, nil
}
