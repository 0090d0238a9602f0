package ehr_test

import (
	"bytes"
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	httpapi "github.com/curalinkhq/curalink/internal/ehr/http"
	"github.com/curalinkhq/curalink/internal/ehr/rpc"
	"github.com/curalinkhq/curalink/internal/ehr/service"
	"github.com/curalinkhq/curalink/internal/ehr/store/drivers/sqlite"
	"github.com/curalinkhq/curalink/internal/ehr/tools"
	"github.com/curalinkhq/curalink/pkg/ehrsdk"
	"github.com/curalinkhq/curalink/pkg/jwtx"
	"github.com/curalinkhq/curalink/pkg/slogx"
)

/*
 * Common constants and helper functions for gateway end-to-end tests.
 * Each test boots the full in-process stack: seeded in-memory store,
 * dispatcher, HTTP router behind httptest, and the TCP socket transport.
 */

const (
	testIssuer  = "curalink-ehr"
	testVersion = "e2e"

	// Seeded demo records the flows run against.
	seededPatientMRN   = "MRN4F2A1C"  // Margaret Thompson
	seededPatientMRN2  = "MRN9B83E2"  // David Kim
	seededProviderNPI  = "1104892763" // Dr. Emily Rodriguez, Family Medicine
	seededCardiologist = "Okafor"
)

// gateway holds the running transports of one in-process gateway instance.
type gateway struct {
	// HTTP drives both the JSON-RPC endpoint and the REST surface.
	HTTP *ehrsdk.Client

	// SocketAddr is the bound address of the TCP socket transport.
	SocketAddr string
}

// startGateway boots a complete gateway against a fresh seeded in-memory
// database and returns clients for its transports. Everything is torn down
// through t.Cleanup.
func startGateway(t *testing.T) *gateway {
	t.Helper()

	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.ApplyMigrations())

	logger := slogx.Discard()
	ctx := slogx.WithContext(context.Background(), logger)
	require.NoError(t, service.SeedDemoData(ctx, s), "demo data should seed into an empty database")

	key := bytes.Repeat([]byte("e"), jwtx.MinHS256KeySize)
	signer, err := jwtx.NewSignerHS256(key)
	require.NoError(t, err)
	verifier, err := jwtx.NewVerifierHS256(key, testIssuer)
	require.NoError(t, err)

	auth := &service.AuthService{
		Store:     s,
		Signer:    signer,
		Verifier:  verifier,
		Issuer:    testIssuer,
		AccessTTL: jwtx.DefaultAccessTokenTTL,
	}
	clients := &service.ClientService{Store: s}
	clinical := &service.ClinicalService{Store: s, Timeout: 5 * time.Second}
	registry := tools.NewCatalogue(auth, clients, clinical)

	dispatcher := &rpc.Dispatcher{
		Auth:     auth,
		Clients:  clients,
		Guard:    service.NewAccessGuard(),
		Registry: registry,
		Info:     ehrsdk.ServerInfo{Name: "curalink-ehr", Version: testVersion},
	}

	router := httpapi.NewRouter(verifier, testVersion, s, logger)
	router.Dispatcher = dispatcher
	router.AuthService = auth
	router.ClientService = clients
	router.Registry = registry
	router.ApplyRoutes()

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	socket := &rpc.SocketServer{Addr: "127.0.0.1:0", Dispatcher: dispatcher, Logger: logger}
	require.NoError(t, socket.Start())
	t.Cleanup(func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = socket.Stop(stopCtx)
	})

	return &gateway{
		HTTP:       ehrsdk.NewClient(srv.URL),
		SocketAddr: socket.ListenAddr().String(),
	}
}

// registerClient registers an OAuth client through the register_client method
// and returns its credential pair.
func registerClient(t *testing.T, c *ehrsdk.Client, appID, role string, scopes []string) (clientID, clientSecret string) {
	t.Helper()

	res, err := c.RegisterClient(t.Context(), ehrsdk.RegisterClientParams{
		AppID:   appID,
		AppName: "E2E " + appID,
		Role:    role,
		Scopes:  scopes,
	})
	require.NoError(t, err)
	require.Equal(t, "success", res.Status)
	require.NotEmpty(t, res.ClientID, "Client ID should be returned")
	require.NotEmpty(t, res.ClientSecret, "Client secret should be auto-generated")

	t.Logf("Client registered: %s (role: %s)", res.ClientID, role)
	return res.ClientID, res.ClientSecret
}

// authenticateClient exchanges credentials for an access token and verifies
// the response shape. The app_id must match the one used at registration.
func authenticateClient(t *testing.T, c *ehrsdk.Client, clientID, clientSecret, appID string) *ehrsdk.AuthenticateResult {
	t.Helper()

	res, err := c.Authenticate(t.Context(), clientID, clientSecret, appID)
	require.NoError(t, err)
	assertTokenResponse(t, res)
	return res
}

// assertTokenResponse verifies a token response has all required fields.
func assertTokenResponse(t *testing.T, res *ehrsdk.AuthenticateResult) {
	t.Helper()
	require.NotNil(t, res)
	require.Equal(t, "success", res.Status)
	require.NotEmpty(t, res.AccessToken, "Access token should not be empty")
	require.Equal(t, "Bearer", res.TokenType, "Token type should be Bearer")
	require.Greater(t, res.ExpiresIn, 0, "Expiry should be positive")
	require.NotEmpty(t, res.Scope, "Scope should not be empty")
}

// callTool invokes a protected tool with the access token injected and
// decodes the JSON document inside the result into a generic map.
func callTool(t *testing.T, c *ehrsdk.Client, token, name string, args map[string]any) map[string]any {
	t.Helper()

	if args == nil {
		args = map[string]any{}
	}
	if token != "" {
		args["access_token"] = token
	}

	res, err := c.CallTool(t.Context(), name, args)
	require.NoError(t, err)
	require.False(t, res.IsError, "tool %s should not report a business error", name)

	var payload map[string]any
	require.NoError(t, ehrsdk.UnmarshalToolResult(res, &payload))
	return payload
}

// assertRPCErrorCode checks that an SDK error is an RPCError with the given
// code.
func assertRPCErrorCode(t *testing.T, err error, code int) *ehrsdk.RPCError {
	t.Helper()
	require.Error(t, err)

	var rpcErr *ehrsdk.RPCError
	require.ErrorAs(t, err, &rpcErr, "expected an RPC protocol error, got: %v", err)
	require.Equal(t, code, rpcErr.Code, "unexpected RPC error code, message: %s", rpcErr.Message)
	return rpcErr
}
