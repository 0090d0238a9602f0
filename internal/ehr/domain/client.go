package domain

import "time"

// Client is a registered client application. Records are never deleted;
// deactivation clears Active and blocks future authentication.
type Client struct {
	ID           string
	ClientID     string // public identifier, "client_" + random token
	SecretHash   string // argon2 encoded, never exposed
	AppID        string
	AppName      string
	Role         Role
	Scopes       []string
	Description  string
	ContactEmail string
	RateLimit    int // requests per hour, advisory
	Active       bool
	LastUsed     *time.Time // last successful authentication (nullable)
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ClientRegistration is the input for registering a new client application.
type ClientRegistration struct {
	AppID        string
	AppName      string
	Role         Role
	Scopes       []string
	Description  string
	ContactEmail string
	RateLimit    int // 0 means the default
}
