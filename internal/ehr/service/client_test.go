package service

import (
	"context"
	"strings"
	"testing"

	"github.com/curalinkhq/curalink/internal/ehr/domain"
	"github.com/curalinkhq/curalink/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestRegisterClient(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	svc := &ClientService{Store: s}

	client, secret, err := svc.RegisterClient(ctx, domain.ClientRegistration{
		AppID:   "app_lab_portal",
		AppName: "Lab Portal",
		Role:    domain.RoleNurse,
		Scopes:  []string{"read:patients", "read:lab_results"},
	})
	require.NoError(t, err)

	require.True(t, strings.HasPrefix(client.ClientID, "client_"))
	require.NotEmpty(t, secret)
	require.NotEqual(t, secret, client.SecretHash)
	require.NoError(t, cryptox.VerifySecret(secret, client.SecretHash))

	require.True(t, client.Active)
	require.Equal(t, domain.RoleNurse, client.Role)
	require.Equal(t, DefaultClientRateLimit, client.RateLimit)

	// The stored record must carry the hash, never the secret.
	stored, err := s.Clients().GetClientByClientID(ctx, client.ClientID)
	require.NoError(t, err)
	require.Equal(t, client.SecretHash, stored.SecretHash)
	require.Equal(t, []string{"read:patients", "read:lab_results"}, stored.Scopes)
}

func TestRegisterClientRejectsUnknownRole(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	svc := &ClientService{Store: s}

	_, _, err := svc.RegisterClient(ctx, domain.ClientRegistration{
		AppID:   "app_lab_portal",
		AppName: "Lab Portal",
		Role:    domain.Role("superuser"),
	})
	require.ErrorContains(t, err, "invalid role")
}

func TestRegisterClientRequiresScopes(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	svc := &ClientService{Store: s}

	_, _, err := svc.RegisterClient(ctx, domain.ClientRegistration{
		AppID:   "app_lab_portal",
		AppName: "Lab Portal",
		Role:    domain.RoleNurse,
	})
	require.ErrorContains(t, err, "at least one scope")
}

func TestRegisterClientAllowsSharedAppID(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	svc := &ClientService{Store: s}

	// Several credentials may be issued for the same application, e.g. one
	// per environment. Only the client_id must be unique.
	for range 2 {
		_, _, err := svc.RegisterClient(ctx, domain.ClientRegistration{
			AppID:   "app_shared",
			AppName: "Shared App",
			Role:    domain.RoleSystem,
			Scopes:  []string{"read:patients"},
		})
		require.NoError(t, err)
	}

	clients, err := svc.ListClients(ctx)
	require.NoError(t, err)
	require.Len(t, clients, 2)
}

func TestListClientsNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	svc := &ClientService{Store: s}

	var last string
	for _, name := range []string{"First App", "Second App", "Third App"} {
		client, _, err := svc.RegisterClient(ctx, domain.ClientRegistration{
			AppID:   "app_" + strings.ToLower(strings.Fields(name)[0]),
			AppName: name,
			Role:    domain.RolePatient,
			Scopes:  []string{"read:patients"},
		})
		require.NoError(t, err)
		last = client.ClientID
	}

	clients, err := svc.ListClients(ctx)
	require.NoError(t, err)
	require.Len(t, clients, 3)
	require.Equal(t, last, clients[0].ClientID)
}

func TestDeactivateClient(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	svc := &ClientService{Store: s}

	client, _, err := svc.RegisterClient(ctx, domain.ClientRegistration{
		AppID:   "app_billing",
		AppName: "Billing Sync",
		Role:    domain.RoleSystem,
		Scopes:  []string{"read:patients"},
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeactivateClient(ctx, client.ClientID))

	got, err := s.Clients().GetClientByClientID(ctx, client.ClientID)
	require.NoError(t, err)
	require.False(t, got.Active)

	t.Run("already inactive", func(t *testing.T) {
		err := svc.DeactivateClient(ctx, client.ClientID)
		require.ErrorIs(t, err, ErrClientInactive)
	})

	t.Run("unknown client", func(t *testing.T) {
		err := svc.DeactivateClient(ctx, "client_missing")
		require.ErrorIs(t, err, ErrClientNotFound)
	})
}
