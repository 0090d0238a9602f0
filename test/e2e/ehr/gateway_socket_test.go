package ehr_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/curalinkhq/curalink/pkg/ehrsdk"
)

// TestGatewaySocketTransport runs the credential and tool flow over the TCP
// socket and checks it answers exactly like the HTTP transport.
func TestGatewaySocketTransport(t *testing.T) {
	gw := startGateway(t)

	clientID, clientSecret := registerClient(t, gw.HTTP, "app_hl7_bridge", "system",
		[]string{"read:patients", "read:labs"})

	sock, err := ehrsdk.DialSocket(gw.SocketAddr)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sock.Close() })

	// Authenticate over the socket
	auth, err := sock.Authenticate(t.Context(), clientID, clientSecret, "app_hl7_bridge")
	require.NoError(t, err)
	assertTokenResponse(t, auth)

	t.Logf("Authenticated over TCP, scope: %s", auth.Scope)

	// Call a tool over the socket
	res, err := sock.CallTool(t.Context(), "get_patient", map[string]any{
		"access_token": auth.AccessToken,
		"mrn":          seededPatientMRN2,
	})
	require.NoError(t, err)
	require.False(t, res.IsError)

	var socketPayload map[string]any
	require.NoError(t, ehrsdk.UnmarshalToolResult(res, &socketPayload))

	patient := socketPayload["patient"].(map[string]any)
	require.Equal(t, "David", patient["first_name"])
	require.Equal(t, "Kim", patient["last_name"])

	// The HTTP transport must give the identical answer
	httpPayload := callTool(t, gw.HTTP, auth.AccessToken, "get_patient", map[string]any{
		"mrn": seededPatientMRN2,
	})
	require.Equal(t, httpPayload, socketPayload, "transports share one dispatcher")

	// Tokens are transport-independent in both directions
	validation, err := gw.HTTP.ValidateToken(t.Context(), auth.AccessToken)
	require.NoError(t, err)
	require.True(t, validation.Valid, "a token minted over TCP works over HTTP")
}

// TestGatewaySocketErrors checks that protocol errors arrive intact over the
// socket framing.
func TestGatewaySocketErrors(t *testing.T) {
	gw := startGateway(t)

	sock, err := ehrsdk.DialSocket(gw.SocketAddr)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sock.Close() })

	t.Run("unauthorized tool call", func(t *testing.T) {
		_, err := sock.CallTool(t.Context(), "get_patient", map[string]any{
			"mrn": seededPatientMRN,
		})
		rpcErr := assertRPCErrorCode(t, err, ehrsdk.CodeUnauthorized)
		require.Equal(t, "Access token required", rpcErr.Message)
	})

	t.Run("unknown method", func(t *testing.T) {
		_, err := sock.Call(t.Context(), "resources/list", nil)
		assertRPCErrorCode(t, err, ehrsdk.CodeMethodNotFound)
	})

	t.Run("connection survives errors", func(t *testing.T) {
		raw, err := sock.Call(t.Context(), "ping", nil)
		require.NoError(t, err)
		require.JSONEq(t, `{}`, string(raw))
	})
}
