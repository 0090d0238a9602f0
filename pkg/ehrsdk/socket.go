package ehrsdk

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"strconv"
	"sync"
	"sync/atomic"
	"time"
)

// SocketClient talks JSON-RPC to the gateway's TCP socket transport. Each
// request and response is a single JSON document terminated by a newline.
//
// Calls are serialized over the one connection, so a SocketClient is safe
// for concurrent use but does not pipeline.
type SocketClient struct {
	conn net.Conn
	enc  *json.Encoder
	dec  *json.Decoder

	mu     sync.Mutex
	nextID atomic.Int64
}

// DialSocket connects to the gateway socket at addr, e.g. "localhost:7777".
func DialSocket(addr string) (*SocketClient, error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("dial socket: %w", err)
	}
	return &SocketClient{
		conn: conn,
		enc:  json.NewEncoder(conn),
		dec:  json.NewDecoder(conn),
	}, nil
}

// Call performs one JSON-RPC exchange over the socket. The context deadline,
// when set, bounds the whole exchange.
func (c *SocketClient) Call(ctx context.Context, method string, params any) (json.RawMessage, error) {
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

	c.mu.Lock()
	defer c.mu.Unlock()

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Time{}
	}
	if err := c.conn.SetDeadline(deadline); err != nil {
		return nil, fmt.Errorf("set deadline: %w", err)
	}

	if err := c.enc.Encode(req); err != nil {
		return nil, fmt.Errorf("write request: %w", err)
	}

	var resp Response
	if err := c.dec.Decode(&resp); err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.Error != nil {
		return nil, resp.Error
	}
	return resp.Result, nil
}

// Authenticate exchanges client credentials for an access token over the
// socket transport.
func (c *SocketClient) Authenticate(ctx context.Context, clientID, clientSecret, appID string) (*AuthenticateResult, error) {
	raw, err := c.Call(ctx, "authenticate", AuthenticateParams{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		AppID:        appID,
	})
	if err != nil {
		return nil, err
	}
	var result AuthenticateResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("decode authenticate result: %w", err)
	}
	return &result, nil
}

// CallTool invokes a tool by name over the socket transport.
func (c *SocketClient) CallTool(ctx context.Context, name string, args map[string]any) (*ToolCallResult, error) {
	params := ToolCallParams{Name: name}
	if args != nil {
		b, err := json.Marshal(args)
		if err != nil {
			return nil, fmt.Errorf("marshal arguments: %w", err)
		}
		params.Arguments = b
	}
	raw, err := c.Call(ctx, "tools/call", params)
	if err != nil {
		return nil, err
	}
	var result ToolCallResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("decode tool result: %w", err)
	}
	return &result, nil
}

// Close closes the underlying connection.
func (c *SocketClient) Close() error {
	return c.conn.Close()
}
