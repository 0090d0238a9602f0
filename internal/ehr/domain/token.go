package domain

import "time"

// AccessGrant is what a successful authentication produces.
type AccessGrant struct {
	AccessToken string
	TokenType   string // always "Bearer"
	ExpiresIn   int    // seconds until expiry
	Scopes      []string
	Client      *Client
}

// TokenInfo is the decoded identity carried by a valid access token.
type TokenInfo struct {
	ClientID  string
	AppID     string
	Role      Role
	Scopes    []string
	ExpiresAt time.Time
}
