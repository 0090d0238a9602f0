// Package rpc implements the JSON-RPC 2.0 dispatcher behind both the HTTP
// endpoint and the TCP socket. Every request is evaluated independently:
// parse, validate the envelope, authenticate if the method needs it,
// authorize, execute, respond. Nothing persists between requests.
package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/curalinkhq/curalink/internal/ehr/domain"
	"github.com/curalinkhq/curalink/internal/ehr/service"
	"github.com/curalinkhq/curalink/internal/ehr/tools"
	"github.com/curalinkhq/curalink/pkg/ehrsdk"
	"github.com/curalinkhq/curalink/pkg/slogx"
)

// Dispatcher routes JSON-RPC requests to method handlers and tools. All
// fields must be set; there is no lazy initialization.
type Dispatcher struct {
	Auth     *service.AuthService
	Clients  *service.ClientService
	Guard    *service.AccessGuard
	Registry *tools.Registry
	Info     ehrsdk.ServerInfo
}

// toolFailure is the result envelope for business-level tool failures, e.g.
// an unknown MRN. Protocol failures never use it.
type toolFailure struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Tool    string `json:"tool"`
}

// Dispatch evaluates one raw JSON-RPC request and always produces a
// response. Malformed JSON yields a parse error with a null id.
func (d *Dispatcher) Dispatch(ctx context.Context, raw []byte) ehrsdk.Response {
	var req ehrsdk.Request
	if err := json.Unmarshal(raw, &req); err != nil {
		return errorResponse(nil, ehrsdk.CodeParseError, "Parse error")
	}

	if req.JSONRPC != ehrsdk.Version || req.Method == "" || len(req.ID) == 0 {
		return errorResponse(req.ID, ehrsdk.CodeInvalidRequest, "Invalid Request")
	}

	switch req.Method {
	case "initialize":
		return d.initialize(req)
	case "ping":
		return resultResponse(req.ID, struct{}{})
	case "tools/list":
		return resultResponse(req.ID, ehrsdk.ToolsListResult{Tools: d.Registry.List()})
	case "tools/call":
		return d.toolsCall(ctx, req)
	case "authenticate":
		return d.authenticate(ctx, req)
	case "validate_token":
		return d.validateToken(ctx, req)
	case "register_client":
		return d.registerClient(ctx, req)
	default:
		return errorResponse(req.ID, ehrsdk.CodeMethodNotFound,
			fmt.Sprintf("Method not found: %s", req.Method))
	}
}

func (d *Dispatcher) initialize(req ehrsdk.Request) ehrsdk.Response {
	return resultResponse(req.ID, ehrsdk.InitializeResult{
		ProtocolVersion: ehrsdk.ProtocolVersion,
		Capabilities: ehrsdk.ServerCapabilities{
			Tools: ehrsdk.ToolCapabilities{ListChanged: false},
		},
		ServerInfo: d.Info,
	})
}

// toolsCall runs the call pipeline: name, token, registry, scopes, handler.
// Token validation comes before the registry lookup so callers without valid
// credentials cannot probe which tools exist.
func (d *Dispatcher) toolsCall(ctx context.Context, req ehrsdk.Request) ehrsdk.Response {
	log := slogx.FromContext(ctx)

	// Decoded loosely: MCP clients attach envelope fields like _meta that
	// the gateway ignores. Argument strictness lives in the tool handlers.
	var params ehrsdk.ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return errorResponse(req.ID, ehrsdk.CodeInvalidParams, "Invalid params")
	}
	if params.Name == "" {
		return errorResponse(req.ID, ehrsdk.CodeInvalidParams, "Invalid params: missing 'name'")
	}

	log.Info("tool called", slog.String("tool", params.Name))

	tool, found := d.Registry.Get(params.Name)
	args := params.Arguments

	if !found || tool.RequiresToken {
		token := peekAccessToken(args)
		if token == "" {
			return errorResponse(req.ID, ehrsdk.CodeUnauthorized, "Access token required")
		}

		info, err := d.Auth.ValidateToken(ctx, token)
		if err != nil {
			if errors.Is(err, service.ErrTokenExpired) {
				return errorResponse(req.ID, ehrsdk.CodeTokenExpired, "Token has expired")
			}
			return errorResponse(req.ID, ehrsdk.CodeUnauthorized, "Invalid client credentials")
		}

		if !found {
			return errorResponse(req.ID, ehrsdk.CodeMethodNotFound,
				fmt.Sprintf("Unknown tool: %s", params.Name))
		}

		if err := d.Guard.CheckAccess(info, tool.Descriptor.RequiredScopes); err != nil {
			log.Info("tool call forbidden",
				slog.String("tool", params.Name),
				slog.String("client_id", info.ClientID),
			)
			return errorResponse(req.ID, ehrsdk.CodeForbidden, "Insufficient scope")
		}

		// The handler never sees the credential.
		args = stripAccessToken(args)
	}

	payload, err := tool.Handler(ctx, args)
	if err != nil {
		return d.toolError(ctx, req.ID, params.Name, err)
	}

	text, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		log.Error("failed to encode tool result", slog.String("tool", params.Name), "error", err)
		return errorResponse(req.ID, ehrsdk.CodeInternalError, "Internal error")
	}

	return resultResponse(req.ID, ehrsdk.ToolCallResult{
		Content: []ehrsdk.ContentBlock{{Type: "text", Text: string(text)}},
	})
}

// toolError translates a handler failure. Argument shape problems and
// storage failures are protocol errors; everything else is a business
// failure reported inside the tool result.
func (d *Dispatcher) toolError(ctx context.Context, id json.RawMessage, name string, err error) ehrsdk.Response {
	log := slogx.FromContext(ctx)

	if errors.Is(err, tools.ErrInvalidArguments) {
		return errorResponse(id, ehrsdk.CodeInvalidParams, err.Error())
	}

	var se *service.StorageError
	if errors.As(err, &se) {
		// The cause stays in the server log; the caller sees only the
		// opaque message.
		log.Error("storage failure",
			slog.String("tool", name),
			slog.String("op", se.Op),
			"error", se.Unwrap(),
		)
		return errorResponse(id, ehrsdk.CodeStorageError, se.Error())
	}

	log.Info("tool failed", slog.String("tool", name), "error", err)

	failure := toolFailure{Status: "error", Message: err.Error(), Tool: name}
	text, merr := json.MarshalIndent(failure, "", "  ")
	if merr != nil {
		return errorResponse(id, ehrsdk.CodeInternalError, "Internal error")
	}

	return resultResponse(id, ehrsdk.ToolCallResult{
		Content: []ehrsdk.ContentBlock{{Type: "text", Text: string(text)}},
		IsError: true,
	})
}

func (d *Dispatcher) authenticate(ctx context.Context, req ehrsdk.Request) ehrsdk.Response {
	var params ehrsdk.AuthenticateParams
	if err := decodeParams(req.Params, &params); err != nil {
		return errorResponse(req.ID, ehrsdk.CodeInvalidParams, "Invalid params")
	}

	grant, err := d.Auth.Authenticate(ctx, params.ClientID, params.ClientSecret, params.AppID)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return errorResponse(req.ID, ehrsdk.CodeUnauthorized, "Invalid client credentials")
		}
		return d.storageOrInternal(ctx, req.ID, err)
	}

	return resultResponse(req.ID, ehrsdk.AuthenticateResult{
		Status:      "success",
		AccessToken: grant.AccessToken,
		TokenType:   grant.TokenType,
		ExpiresIn:   grant.ExpiresIn,
		Scope:       strings.Join(grant.Scopes, " "),
		ClientInfo: ehrsdk.ClientInfo{
			ClientID: grant.Client.ClientID,
			AppID:    grant.Client.AppID,
			AppName:  grant.Client.AppName,
			Role:     grant.Client.Role.String(),
		},
	})
}

func (d *Dispatcher) validateToken(ctx context.Context, req ehrsdk.Request) ehrsdk.Response {
	var params ehrsdk.ValidateTokenParams
	if err := decodeParams(req.Params, &params); err != nil {
		return errorResponse(req.ID, ehrsdk.CodeInvalidParams, "Invalid params")
	}

	info, err := d.Auth.ValidateToken(ctx, params.AccessToken)
	if err != nil {
		// A bad token is a negative introspection result, not an error.
		msg := "Invalid token"
		if errors.Is(err, service.ErrTokenExpired) {
			msg = "Token has expired"
		}
		return resultResponse(req.ID, ehrsdk.TokenValidation{Valid: false, Error: msg})
	}

	return resultResponse(req.ID, ehrsdk.TokenValidation{
		Valid:    true,
		ClientID: info.ClientID,
		AppID:    info.AppID,
		Role:     info.Role.String(),
		Scopes:   info.Scopes,
	})
}

func (d *Dispatcher) registerClient(ctx context.Context, req ehrsdk.Request) ehrsdk.Response {
	var params ehrsdk.RegisterClientParams
	if err := decodeParams(req.Params, &params); err != nil {
		return errorResponse(req.ID, ehrsdk.CodeInvalidParams, "Invalid params")
	}

	client, secret, err := d.Clients.RegisterClient(ctx, domain.ClientRegistration{
		AppID:        params.AppID,
		AppName:      params.AppName,
		Role:         domain.Role(params.Role),
		Scopes:       params.Scopes,
		Description:  params.Description,
		ContactEmail: params.ContactEmail,
	})
	if err != nil {
		var se *service.StorageError
		if errors.As(err, &se) {
			return d.storageOrInternal(ctx, req.ID, err)
		}
		return errorResponse(req.ID, ehrsdk.CodeInvalidParams,
			fmt.Sprintf("Invalid params: %s", err))
	}

	return resultResponse(req.ID, ehrsdk.RegisterClientResult{
		Status:       "success",
		ClientID:     client.ClientID,
		ClientSecret: secret,
		AppID:        client.AppID,
		AppName:      client.AppName,
		Role:         client.Role.String(),
		Scopes:       client.Scopes,
		Message:      "IMPORTANT: Save the client_secret securely. It cannot be retrieved again!",
	})
}

func (d *Dispatcher) storageOrInternal(ctx context.Context, id json.RawMessage, err error) ehrsdk.Response {
	log := slogx.FromContext(ctx)

	var se *service.StorageError
	if errors.As(err, &se) {
		log.Error("storage failure", slog.String("op", se.Op), "error", se.Unwrap())
		return errorResponse(id, ehrsdk.CodeStorageError, se.Error())
	}

	log.Error("internal error", "error", err)
	return errorResponse(id, ehrsdk.CodeInternalError, "Internal error")
}

// decodeParams strictly decodes a params object. Unknown keys and type
// mismatches are reported so the caller can fix the request instead of
// silently sending ignored fields.
func decodeParams(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// peekAccessToken reads only the token out of the arguments object.
func peekAccessToken(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var probe struct {
		AccessToken string `json:"access_token"`
	}
	_ = json.Unmarshal(raw, &probe)
	return strings.TrimSpace(probe.AccessToken)
}

// stripAccessToken removes the credential from the arguments before the
// handler runs, so tool code and its logs never see tokens.
func stripAccessToken(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 {
		return raw
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		// Not an object; let the handler's decoder report the shape.
		return raw
	}
	if _, ok := fields["access_token"]; !ok {
		return raw
	}
	delete(fields, "access_token")

	out, err := json.Marshal(fields)
	if err != nil {
		return raw
	}
	return out
}

func resultResponse(id json.RawMessage, v any) ehrsdk.Response {
	result, err := json.Marshal(v)
	if err != nil {
		return errorResponse(id, ehrsdk.CodeInternalError, "Internal error")
	}
	return ehrsdk.Response{JSONRPC: ehrsdk.Version, ID: id, Result: result}
}

func errorResponse(id json.RawMessage, code int, message string) ehrsdk.Response {
	return ehrsdk.Response{
		JSONRPC: ehrsdk.Version,
		ID:      id,
		Error:   ehrsdk.NewRPCError(code, message),
	}
}
