package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/curalinkhq/curalink/internal/ehr/domain"
	"github.com/curalinkhq/curalink/internal/ehr/store"
	"github.com/curalinkhq/curalink/pkg/cryptox"
	"github.com/curalinkhq/curalink/pkg/idx"
	"github.com/curalinkhq/curalink/pkg/slogx"
)

var (
	ErrClientNotFound = errors.New("client not found")
	ErrClientInactive = errors.New("client already inactive")
)

// DefaultClientRateLimit is the advisory requests-per-hour budget stamped on
// registrations that do not ask for one.
const DefaultClientRateLimit = 1000

// ClientService manages integration client registrations.
type ClientService struct {
	Store store.Store
}

// RegisterClient creates a new OAuth client and returns the record along
// with the plaintext secret. The secret is hashed before storage and cannot
// be recovered afterwards, so the caller must hand it to the user exactly
// once.
func (s *ClientService) RegisterClient(ctx context.Context, reg domain.ClientRegistration) (*domain.Client, string, error) {
	log := slogx.FromContext(ctx)

	role, err := domain.ParseRole(strings.TrimSpace(reg.Role.String()))
	if err != nil {
		return nil, "", err
	}
	if len(reg.Scopes) == 0 {
		return nil, "", errors.New("at least one scope is required")
	}

	token, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return nil, "", err
	}
	clientID := "client_" + token

	secret, err := cryptox.GenerateToken(cryptox.TokenSize384)
	if err != nil {
		return nil, "", err
	}

	secretHash, err := cryptox.HashSecret(secret)
	if err != nil {
		log.Error("failed to hash client secret", "error", err)
		return nil, "", err
	}

	rateLimit := reg.RateLimit
	if rateLimit <= 0 {
		rateLimit = DefaultClientRateLimit
	}

	client := domain.Client{
		ID:           idx.New().String(),
		ClientID:     clientID,
		SecretHash:   secretHash,
		AppID:        strings.TrimSpace(reg.AppID),
		AppName:      strings.TrimSpace(reg.AppName),
		Role:         role,
		Scopes:       reg.Scopes,
		Description:  reg.Description,
		ContactEmail: reg.ContactEmail,
		RateLimit:    rateLimit,
		Active:       true,
	}

	if err := s.Store.Clients().CreateClient(ctx, client); err != nil {
		log.Error("failed to create client", "error", err)
		return nil, "", storageErr("register_client", err)
	}

	// The fingerprint lets operators correlate a leaked secret with its
	// registration without the log ever holding the secret itself.
	log.Info("client registered",
		slog.String("client_id", clientID),
		slog.String("app_id", client.AppID),
		slog.String("role", role.String()),
		slog.String("secret_fingerprint", cryptox.FingerprintToken(secret)),
	)

	return &client, secret, nil
}

// ListClients returns every registered client, newest first. Secret hashes
// ride along; callers deciding what to expose must project them out.
func (s *ClientService) ListClients(ctx context.Context) ([]domain.Client, error) {
	clients, err := s.Store.Clients().ListClients(ctx)
	if err != nil {
		return nil, storageErr("list_clients", err)
	}
	return clients, nil
}

// DeactivateClient disables a client so it can no longer authenticate.
// Outstanding access tokens keep working until they expire; deactivation
// only closes the front door.
//
// Returns ErrClientNotFound for unknown IDs and ErrClientInactive when the
// client was already deactivated, so callers can report the difference.
func (s *ClientService) DeactivateClient(ctx context.Context, clientID string) error {
	log := slogx.FromContext(ctx)

	client, err := s.Store.Clients().GetClientByClientID(ctx, clientID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrClientNotFound
		}
		return storageErr("deactivate_client", err)
	}

	if !client.Active {
		return ErrClientInactive
	}

	if err := s.Store.Clients().DeactivateClient(ctx, clientID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrClientNotFound
		}
		return storageErr("deactivate_client", err)
	}

	log.Info("client deactivated", slog.String("client_id", clientID))
	return nil
}
