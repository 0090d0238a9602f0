package ehrsdk

import (
	"encoding/json"
	"time"
)

// Version is the JSON-RPC protocol version carried by every envelope.
const Version = "2.0"

// ProtocolVersion is the MCP protocol revision the gateway implements.
const ProtocolVersion = "2024-11-05"

// ============================================================================
// JSON-RPC Envelope
// ============================================================================

// Request is a JSON-RPC 2.0 request. IDs are kept as raw JSON so the server
// can echo whatever the caller sent, number or string, without rewriting it.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// Response is a JSON-RPC 2.0 response. Exactly one of Result and Error is
// set. A nil ID marshals as null, which is what parse errors require.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
}

// ============================================================================
// Method Parameters
// ============================================================================

// AuthenticateParams carries OAuth2 client credentials. The same shape is
// accepted by the authenticate method, the authenticate tool, and the REST
// authentication endpoint.
type AuthenticateParams struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	AppID        string `json:"app_id"`
}

// ValidateTokenParams identifies the access token to introspect.
type ValidateTokenParams struct {
	AccessToken string `json:"access_token"`
}

// RegisterClientParams describes a new client application to register.
type RegisterClientParams struct {
	// AppID is the caller-chosen application identifier. Several client
	// records may share one app_id.
	AppID string `json:"app_id"`

	// AppName is the human-readable application name.
	AppName string `json:"app_name"`

	// Role is one of doctor, nurse, patient, admin or system.
	Role string `json:"role"`

	// Scopes lists the access scopes granted to the client.
	Scopes []string `json:"scopes"`

	Description  string `json:"description,omitempty"`
	ContactEmail string `json:"contact_email,omitempty"`
}

// ToolCallParams names the tool to invoke and its arguments object.
type ToolCallParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
}

// ============================================================================
// MCP Results
// ============================================================================

// InitializeResult is the server half of the MCP handshake.
type InitializeResult struct {
	ProtocolVersion string             `json:"protocolVersion"`
	Capabilities    ServerCapabilities `json:"capabilities"`
	ServerInfo      ServerInfo         `json:"serverInfo"`
}

// ServerCapabilities advertises which MCP features the server supports.
type ServerCapabilities struct {
	Tools ToolCapabilities `json:"tools"`
}

// ToolCapabilities describes the tools capability. The gateway's catalogue
// is fixed at startup, so ListChanged is always false.
type ToolCapabilities struct {
	ListChanged bool `json:"listChanged"`
}

// ServerInfo identifies the server implementation.
type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Tool describes one entry in the tool catalogue.
type Tool struct {
	// Name is the tool identifier passed to tools/call.
	Name string `json:"name"`

	// Description is a one-line summary of what the tool does.
	Description string `json:"description,omitempty"`

	// InputSchema is a JSON Schema object describing the arguments.
	InputSchema ToolInputSchema `json:"inputSchema"`

	// RequiredScopes lists the scopes a caller must hold. Empty for the
	// public authentication tools.
	RequiredScopes []string `json:"requiredScopes,omitempty"`
}

// ToolInputSchema is the simplified JSON Schema shape published for tool
// arguments. The gateway rejects arguments not listed in Properties.
type ToolInputSchema struct {
	Type                 string                    `json:"type"`
	Properties           map[string]SchemaProperty `json:"properties,omitempty"`
	Required             []string                  `json:"required,omitempty"`
	AdditionalProperties bool                      `json:"additionalProperties"`
}

// SchemaProperty describes a single argument in a tool input schema.
type SchemaProperty struct {
	Type        string                    `json:"type,omitempty"`
	Description string                    `json:"description,omitempty"`
	Items       *SchemaProperty           `json:"items,omitempty"`
	Properties  map[string]SchemaProperty `json:"properties,omitempty"`
	Enum        []any                     `json:"enum,omitempty"`
}

// ToolsListResult is the result of tools/list.
type ToolsListResult struct {
	Tools []Tool `json:"tools"`
}

// ContentBlock is one element of a tool call result. The gateway only emits
// text blocks containing a JSON document.
type ContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// ToolCallResult is the result of tools/call. IsError marks business
// failures such as an unknown record; protocol failures never reach this
// type because they are reported as RPC errors instead.
type ToolCallResult struct {
	Content []ContentBlock `json:"content"`
	IsError bool           `json:"isError,omitempty"`
}

// ============================================================================
// Authentication Results
// ============================================================================

// AuthenticateResult is the payload returned for successful authentication.
type AuthenticateResult struct {
	// Status is "success".
	Status string `json:"status"`

	// AccessToken is the signed JWT to pass in tool arguments.
	AccessToken string `json:"access_token"`

	// TokenType is always "Bearer".
	TokenType string `json:"token_type"`

	// ExpiresIn is the token lifetime in seconds.
	ExpiresIn int `json:"expires_in"`

	// Scope is the space-delimited list of granted scopes.
	Scope string `json:"scope"`

	// ClientInfo echoes the authenticated client's identity.
	ClientInfo ClientInfo `json:"client_info"`
}

// ClientInfo identifies an authenticated client application.
type ClientInfo struct {
	ClientID string `json:"client_id"`
	AppID    string `json:"app_id"`
	AppName  string `json:"app_name"`
	Role     string `json:"role"`
}

// RegisterClientResult is the payload returned for a successful client
// registration. ClientSecret is shown exactly once; the gateway stores only
// a hash of it.
type RegisterClientResult struct {
	Status       string   `json:"status"`
	ClientID     string   `json:"client_id"`
	ClientSecret string   `json:"client_secret"`
	AppID        string   `json:"app_id"`
	AppName      string   `json:"app_name"`
	Role         string   `json:"role"`
	Scopes       []string `json:"scopes"`

	// Message reminds the caller to store the secret now.
	Message string `json:"message"`
}

// TokenValidation is the result of validate_token. Invalid tokens are not
// an error at the protocol level; Valid is false and Error says why.
type TokenValidation struct {
	Valid    bool     `json:"valid"`
	ClientID string   `json:"client_id,omitempty"`
	AppID    string   `json:"app_id,omitempty"`
	Role     string   `json:"role,omitempty"`
	Scopes   []string `json:"scopes,omitempty"`
	Error    string   `json:"error,omitempty"`
}

// ============================================================================
// REST Types
// ============================================================================

// ClientSummary is one entry in the admin client listing. It never carries
// the secret hash.
type ClientSummary struct {
	ClientID     string     `json:"client_id"`
	AppID        string     `json:"app_id"`
	AppName      string     `json:"app_name"`
	Role         string     `json:"role"`
	Scopes       []string   `json:"scopes"`
	Active       bool       `json:"active"`
	RateLimit    int        `json:"rate_limit"`
	Description  string     `json:"description,omitempty"`
	ContactEmail string     `json:"contact_email,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	LastUsed     *time.Time `json:"last_used,omitempty"`
}

// ClientListResult is the response of the admin client listing endpoint.
type ClientListResult struct {
	Clients []ClientSummary `json:"clients"`
	Count   int             `json:"count"`
}

// DeactivateClientResult confirms an admin deactivation.
type DeactivateClientResult struct {
	Status   string `json:"status"`
	ClientID string `json:"client_id"`
}

// HealthResponse is returned by the liveness and readiness probes.
type HealthResponse struct {
	// Status is "ok" or "degraded".
	Status string `json:"status"`

	// Uptime is a human-readable duration since process start.
	Uptime string `json:"uptime,omitempty"`

	// Version is the build version of the gateway.
	Version string `json:"version,omitempty"`

	// Checks reports per-dependency health. Only readiness sets it.
	Checks *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports the state of each readiness dependency.
type HealthChecks struct {
	Database string `json:"database"`
	Signer   string `json:"signer"`
}
