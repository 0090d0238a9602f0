package ehrsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"
	"time"
)

// Client talks JSON-RPC to the gateway over HTTP and also covers its REST
// surface. The zero value is not usable; construct with NewClient.
//
// Client is safe for concurrent use.
type Client struct {
	// BaseURL is the gateway base URL without a trailing slash, e.g.
	// "http://localhost:8080".
	BaseURL string

	// HTTPClient is the underlying HTTP client. Replace it to customize
	// timeouts or transports.
	HTTPClient *http.Client

	nextID atomic.Int64
}

// NewClient creates a Client for the gateway at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Call performs one JSON-RPC exchange against POST /mcp and returns the raw
// result. A populated error member is returned as *RPCError. Most callers
// should prefer the typed wrappers.
func (c *Client) Call(ctx context.Context, method string, params any) (json.RawMessage, error) {
	var rawParams json.RawMessage
	if params != nil {
		b, err := json.Marshal(params)
		if err != nil {
			return nil, fmt.Errorf("marshal params: %w", err)
		}
		rawParams = b
	}

	req := Request{
		JSONRPC: Version,
		ID:      json.RawMessage(strconv.FormatInt(c.nextID.Add(1), 10)),
		Method:  method,
		Params:  rawParams,
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/mcp", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	// RPC-level failures still come back as 200 with an error member. Any
	// other status is a transport-level rejection (rate limit, proxy).
	if resp.StatusCode != http.StatusOK {
		return nil, parseAPIError(resp.StatusCode, data)
	}

	var out Response
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if out.Error != nil {
		return nil, out.Error
	}
	return out.Result, nil
}

func (c *Client) callInto(ctx context.Context, method string, params, target any) error {
	raw, err := c.Call(ctx, method, params)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode %s result: %w", method, err)
	}
	return nil
}

// Initialize performs the MCP handshake.
func (c *Client) Initialize(ctx context.Context) (*InitializeResult, error) {
	var result InitializeResult
	if err := c.callInto(ctx, "initialize", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Ping checks that the gateway is answering RPC requests.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.Call(ctx, "ping", nil)
	return err
}

// Authenticate exchanges client credentials for an access token. Invalid
// credentials surface as *RPCError with CodeUnauthorized.
func (c *Client) Authenticate(ctx context.Context, clientID, clientSecret, appID string) (*AuthenticateResult, error) {
	params := AuthenticateParams{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		AppID:        appID,
	}
	var result AuthenticateResult
	if err := c.callInto(ctx, "authenticate", params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// RegisterClient registers a new client application. The returned secret is
// shown exactly once and cannot be recovered later.
func (c *Client) RegisterClient(ctx context.Context, params RegisterClientParams) (*RegisterClientResult, error) {
	var result RegisterClientResult
	if err := c.callInto(ctx, "register_client", params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ValidateToken introspects an access token. An invalid or expired token is
// not an error; inspect the Valid field.
func (c *Client) ValidateToken(ctx context.Context, accessToken string) (*TokenValidation, error) {
	params := ValidateTokenParams{AccessToken: accessToken}
	var result TokenValidation
	if err := c.callInto(ctx, "validate_token", params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListTools fetches the tool catalogue. No authentication is required.
func (c *Client) ListTools(ctx context.Context) ([]Tool, error) {
	var result ToolsListResult
	if err := c.callInto(ctx, "tools/list", nil, &result); err != nil {
		return nil, err
	}
	return result.Tools, nil
}

// CallTool invokes a tool by name. Protected tools expect the access token
// under the "access_token" argument key.
func (c *Client) CallTool(ctx context.Context, name string, args map[string]any) (*ToolCallResult, error) {
	params := ToolCallParams{Name: name}
	if args != nil {
		b, err := json.Marshal(args)
		if err != nil {
			return nil, fmt.Errorf("marshal arguments: %w", err)
		}
		params.Arguments = b
	}
	var result ToolCallResult
	if err := c.callInto(ctx, "tools/call", params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// UnmarshalToolResult decodes the JSON document inside the first text
// content block of a tool call result.
func UnmarshalToolResult(result *ToolCallResult, target any) error {
	if result == nil || len(result.Content) == 0 {
		return fmt.Errorf("tool result has no content")
	}
	block := result.Content[0]
	if block.Type != "text" {
		return fmt.Errorf("unexpected content type %q", block.Type)
	}
	if err := json.Unmarshal([]byte(block.Text), target); err != nil {
		return fmt.Errorf("decode tool result: %w", err)
	}
	return nil
}
