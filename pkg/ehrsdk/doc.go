/*
Package ehrsdk provides a client SDK for the CuraLink EHR gateway.

# Overview

The gateway speaks JSON-RPC 2.0 over two transports: HTTP POST /mcp and a
newline-delimited TCP socket. This package implements both, along with the
wire types shared by the server and its clients. The same envelope carries
MCP protocol methods (initialize, tools/list, tools/call) and the gateway's
authentication methods (authenticate, validate_token, register_client).

# Transports

Client speaks JSON-RPC over HTTP and also covers the REST surface
(health probes, admin client management):

	client := ehrsdk.NewClient("http://localhost:8080")

	// MCP handshake
	init, err := client.Initialize(ctx)

	// Discover the tool catalogue (no authentication required)
	tools, err := client.ListTools(ctx)

SocketClient speaks the same protocol over a raw TCP connection, one JSON
document per line:

	sock, err := ehrsdk.DialSocket("localhost:7777")
	defer sock.Close()

	result, err := sock.Call(ctx, "ping", nil)

# Authentication

Clients authenticate with OAuth2 client credentials and receive a bearer
token for subsequent tool calls:

	auth, err := client.Authenticate(ctx, clientID, clientSecret, appID)
	if err != nil {
		var rpcErr *ehrsdk.RPCError
		if errors.As(err, &rpcErr) && rpcErr.Code == ehrsdk.CodeUnauthorized {
			// invalid credentials
		}
	}

The access token is passed inside tool arguments, not as a transport
header, so the same flow works over HTTP and the socket:

	result, err := client.CallTool(ctx, "get_patient", map[string]any{
		"access_token": auth.AccessToken,
		"mrn":          "MRN001234",
	})

# Error Handling

Protocol failures (malformed requests, unknown methods, missing or expired
tokens, insufficient scope) surface as *RPCError with the gateway's error
codes. Business failures (an unknown MRN, an already-booked slot) are not
protocol errors: they arrive as a successful tools/call response whose
result carries IsError and a JSON body with "status": "error".

REST endpoints report failures as *APIError with an OAuth2-style error code
and description.
*/
package ehrsdk
