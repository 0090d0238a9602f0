package http

import (
	"io"
	"net/http"

	"github.com/curalinkhq/curalink/internal/ehr/rpc"
	"github.com/curalinkhq/curalink/pkg/httpx"
)

// maxRequestBytes caps an RPC request body.
const maxRequestBytes = 1 << 20

// RPCHandler serves JSON-RPC requests over HTTP. Every response, including
// protocol errors, is written with status 200; only transport-level
// rejections such as rate limiting use other status codes.
type RPCHandler struct {
	Dispatcher *rpc.Dispatcher
}

// ServeHTTP handles POST /mcp
//
//	@Summary		JSON-RPC Endpoint
//	@Description	Accepts a single JSON-RPC 2.0 request and returns its response. Supported methods:
//	@Description	initialize, ping, tools/list, tools/call, authenticate, validate_token, register_client.
//	@Description	Protected tools carry the access token inside the tool arguments.
//	@Tags			RPC
//	@Accept			json
//	@Produce		json
//	@Param			request	body		ehrsdk.Request	true	"JSON-RPC request"
//	@Success		200		{object}	ehrsdk.Response	"JSON-RPC response (result or error member)"
//	@Router			/mcp [post].
func (h *RPCHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	if err != nil {
		// An oversized or truncated body cannot be echoed back with an id,
		// so it gets the same null-id parse error a garbled one would.
		body = nil
	}

	resp := h.Dispatcher.Dispatch(r.Context(), body)
	httpx.WriteJSON(w, http.StatusOK, resp)
}
