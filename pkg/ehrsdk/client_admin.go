package ehrsdk

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// AuthenticateREST exchanges client credentials for an access token via the
// REST endpoint instead of JSON-RPC. The endpoint is strictly rate limited.
func (c *Client) AuthenticateREST(ctx context.Context, clientID, clientSecret, appID string) (*AuthenticateResult, error) {
	body := AuthenticateParams{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		AppID:        appID,
	}
	resp, err := c.doRequest(ctx, http.MethodPost, "/api/v1/authenticate", body, nil)
	if err != nil {
		return nil, err
	}
	var result AuthenticateResult
	if err := decodeJSON(resp, &result, http.StatusOK); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetTools fetches the tool catalogue via REST. Equivalent to ListTools.
func (c *Client) GetTools(ctx context.Context) ([]Tool, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/api/v1/tools", nil, nil)
	if err != nil {
		return nil, err
	}
	var result ToolsListResult
	if err := decodeJSON(resp, &result, http.StatusOK); err != nil {
		return nil, err
	}
	return result.Tools, nil
}

// ListClients lists registered client applications. Requires a bearer token
// for a client with the admin role.
func (c *Client) ListClients(ctx context.Context, accessToken string) (*ClientListResult, error) {
	headers := map[string]string{"Authorization": "Bearer " + accessToken}
	resp, err := c.doRequest(ctx, http.MethodGet, "/api/v1/clients", nil, headers)
	if err != nil {
		return nil, err
	}
	var result ClientListResult
	if err := decodeJSON(resp, &result, http.StatusOK); err != nil {
		return nil, err
	}
	return &result, nil
}

// DeactivateClient disables a client application so it can no longer
// authenticate. Requires a bearer token for a client with the admin role.
// Existing tokens stay valid until they expire.
func (c *Client) DeactivateClient(ctx context.Context, accessToken, clientID string) (*DeactivateClientResult, error) {
	headers := map[string]string{"Authorization": "Bearer " + accessToken}
	path := fmt.Sprintf("/api/v1/clients/%s/deactivate", url.PathEscape(clientID))
	resp, err := c.doRequest(ctx, http.MethodPost, path, nil, headers)
	if err != nil {
		return nil, err
	}
	var result DeactivateClientResult
	if err := decodeJSON(resp, &result, http.StatusOK); err != nil {
		return nil, err
	}
	return &result, nil
}
