package ehrsdk

import "fmt"

// JSON-RPC 2.0 protocol error codes.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
)

// Gateway error codes in the implementation-defined server range.
const (
	// CodeUnauthorized covers missing or invalid credentials and missing or
	// invalid access tokens. The gateway deliberately reports every
	// authentication failure with this one code and message.
	CodeUnauthorized = -32001

	// CodeTokenExpired is returned when a structurally valid token is past
	// its expiry.
	CodeTokenExpired = -32002

	// CodeForbidden is returned when an authenticated client lacks the
	// scopes a tool requires.
	CodeForbidden = -32003

	// CodeClientInactive is returned for operations that target a client
	// record which has been deactivated.
	CodeClientInactive = -32004

	// CodeStorageError is returned when the storage backend fails. The
	// message never includes driver detail.
	CodeStorageError = -32005
)

// RPCError is the error member of a JSON-RPC response. It implements the
// error interface so client methods can return it directly.
type RPCError struct {
	// Code identifies the error class. Negative values in the -32xxx range
	// per the JSON-RPC 2.0 specification.
	Code int `json:"code"`

	// Message is a short human-readable description.
	Message string `json:"message"`

	// Data carries optional structured detail. The gateway rarely sets it.
	Data any `json:"data,omitempty"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

// NewRPCError builds an RPCError with the given code and message.
func NewRPCError(code int, message string) *RPCError {
	return &RPCError{Code: code, Message: message}
}

// APIError is an error response from one of the gateway's REST endpoints.
// The body follows the OAuth2 error convention of an error code plus a
// human-readable description.
type APIError struct {
	// StatusCode is the HTTP status the endpoint responded with.
	StatusCode int `json:"-"`

	// Code is the short error identifier (e.g. "invalid_client",
	// "rate_limit_exceeded").
	Code string `json:"error"`

	// Description is a human-readable explanation of the failure.
	Description string `json:"error_description"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s: %s", e.StatusCode, e.Code, e.Description)
}
