package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/curalinkhq/curalink/internal/ehr/service"
	"github.com/curalinkhq/curalink/internal/ehr/store"
	"github.com/curalinkhq/curalink/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func newAuthCatalogue(t *testing.T) (*Registry, store.Store) {
	t.Helper()

	s := newTestStore(t)

	key := bytes.Repeat([]byte("k"), jwtx.MinHS256KeySize)
	signer, err := jwtx.NewSignerHS256(key)
	require.NoError(t, err)
	verifier, err := jwtx.NewVerifierHS256(key, "curalink-test")
	require.NoError(t, err)

	auth := &service.AuthService{
		Store:     s,
		Signer:    signer,
		Verifier:  verifier,
		Issuer:    "curalink-test",
		AccessTTL: time.Minute,
	}
	clients := &service.ClientService{Store: s}
	clinical := &service.ClinicalService{Store: s}
	return NewCatalogue(auth, clients, clinical), s
}

func TestRegisterAndAuthenticateTools(t *testing.T) {
	registry, _ := newAuthCatalogue(t)

	registered := invoke(t, registry, "register_client",
		`{"app_id":"app_ehr","app_name":"EHR Bot","role":"doctor","scopes":["read:patients"]}`)
	require.Equal(t, "success", registered["status"])
	require.Regexp(t, `^client_`, registered["client_id"])
	require.NotEmpty(t, registered["client_secret"])
	require.Contains(t, registered["message"], "cannot be retrieved again")

	args := fmt.Sprintf(`{"client_id":%q,"client_secret":%q,"app_id":"app_ehr"}`,
		registered["client_id"], registered["client_secret"])

	granted := invoke(t, registry, "authenticate", args)
	require.Equal(t, "success", granted["status"])
	require.Equal(t, "Bearer", granted["token_type"])
	require.EqualValues(t, 60, granted["expires_in"])
	require.Equal(t, "read:patients", granted["scope"])

	info := granted["client_info"].(map[string]any)
	require.Equal(t, "app_ehr", info["app_id"])
	require.Equal(t, "doctor", info["role"])

	t.Run("wrong secret", func(t *testing.T) {
		bad := fmt.Sprintf(`{"client_id":%q,"client_secret":"nope","app_id":"app_ehr"}`,
			registered["client_id"])
		err := invokeErr(t, registry, "authenticate", bad)
		require.EqualError(t, err, "Invalid client credentials")
	})

	t.Run("invalid role rejected at registration", func(t *testing.T) {
		err := invokeErr(t, registry, "register_client",
			`{"app_id":"app_x","app_name":"X","role":"superuser","scopes":["read:patients"]}`)
		require.ErrorContains(t, err, "invalid role")
	})
}

func TestValidateTokenTool(t *testing.T) {
	registry, _ := newAuthCatalogue(t)

	registered := invoke(t, registry, "register_client",
		`{"app_id":"app_ehr","app_name":"EHR Bot","role":"nurse","scopes":["read:patients","read:vitals"]}`)

	args := fmt.Sprintf(`{"client_id":%q,"client_secret":%q,"app_id":"app_ehr"}`,
		registered["client_id"], registered["client_secret"])
	granted := invoke(t, registry, "authenticate", args)

	t.Run("valid token", func(t *testing.T) {
		result := invoke(t, registry, "validate_token",
			fmt.Sprintf(`{"access_token":%q}`, granted["access_token"]))
		require.Equal(t, true, result["valid"])
		require.Equal(t, "nurse", result["role"])
		require.Equal(t, []any{"read:patients", "read:vitals"}, result["scopes"])
	})

	t.Run("garbage token is a negative answer, not an error", func(t *testing.T) {
		tool, ok := registry.Get("validate_token")
		require.True(t, ok)

		result, err := tool.Handler(context.Background(), json.RawMessage(`{"access_token":"garbage"}`))
		require.NoError(t, err)

		raw, err := json.Marshal(result)
		require.NoError(t, err)
		var decoded map[string]any
		require.NoError(t, json.Unmarshal(raw, &decoded))

		require.Equal(t, false, decoded["valid"])
		require.Equal(t, "Invalid token", decoded["error"])
	})
}
