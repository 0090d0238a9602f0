package tools

import (
	"context"
	"errors"
	"strings"

	"github.com/curalinkhq/curalink/internal/ehr/domain"
	"github.com/curalinkhq/curalink/internal/ehr/service"
	"github.com/curalinkhq/curalink/pkg/ehrsdk"
)

// secretWarning is appended to every registration result. The secret is
// hashed at rest and genuinely cannot be shown twice.
const secretWarning = "IMPORTANT: Save the client_secret securely. It cannot be retrieved again!"

type authenticateArgs struct {
	ClientID     string `json:"client_id" jsonschema:"description=OAuth client ID"`
	ClientSecret string `json:"client_secret" jsonschema:"description=OAuth client secret"`
	AppID        string `json:"app_id" jsonschema:"description=Application ID"`
}

type registerClientArgs struct {
	AppID        string   `json:"app_id" jsonschema:"description=Application identifier"`
	AppName      string   `json:"app_name" jsonschema:"description=Application name"`
	Role         string   `json:"role" jsonschema:"description=Client role,enum=doctor,enum=nurse,enum=patient,enum=admin,enum=system"`
	Scopes       []string `json:"scopes" jsonschema:"description=List of scopes"`
	Description  string   `json:"description,omitempty" jsonschema:"description=Optional description"`
	ContactEmail string   `json:"contact_email,omitempty" jsonschema:"description=Optional contact email"`
}

type validateTokenArgs struct {
	AccessToken string `json:"access_token" jsonschema:"description=Access token to validate"`
}

// AuthTools builds the three public authentication tools. They run without
// a token; everything else in the catalogue is gated behind one.
func AuthTools(auth *service.AuthService, clients *service.ClientService) []Tool {
	return []Tool{
		NewPublicTool("authenticate",
			"Authenticate using OAuth 2.0 Client Credentials (client_id, client_secret, app_id)",
			func(ctx context.Context, args authenticateArgs) (any, error) {
				grant, err := auth.Authenticate(ctx, args.ClientID, args.ClientSecret, args.AppID)
				if err != nil {
					if errors.Is(err, service.ErrInvalidCredentials) {
						return nil, failf("Invalid client credentials")
					}
					return nil, err
				}

				return ehrsdk.AuthenticateResult{
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
				}, nil
			}),

		NewPublicTool("register_client",
			"Register a new OAuth client application",
			func(ctx context.Context, args registerClientArgs) (any, error) {
				client, secret, err := clients.RegisterClient(ctx, domain.ClientRegistration{
					AppID:        args.AppID,
					AppName:      args.AppName,
					Role:         domain.Role(args.Role),
					Scopes:       args.Scopes,
					Description:  args.Description,
					ContactEmail: args.ContactEmail,
				})
				if err != nil {
					return nil, err
				}

				return ehrsdk.RegisterClientResult{
					Status:       "success",
					ClientID:     client.ClientID,
					ClientSecret: secret,
					AppID:        client.AppID,
					AppName:      client.AppName,
					Role:         client.Role.String(),
					Scopes:       client.Scopes,
					Message:      secretWarning,
				}, nil
			}),

		NewPublicTool("validate_token",
			"Validate OAuth access token",
			func(ctx context.Context, args validateTokenArgs) (any, error) {
				info, err := auth.ValidateToken(ctx, args.AccessToken)
				if err != nil {
					// Invalid tokens are a negative answer, not a failure.
					msg := "Invalid token"
					if errors.Is(err, service.ErrTokenExpired) {
						msg = "Token has expired"
					}
					return ehrsdk.TokenValidation{Valid: false, Error: msg}, nil
				}

				return ehrsdk.TokenValidation{
					Valid:    true,
					ClientID: info.ClientID,
					AppID:    info.AppID,
					Role:     info.Role.String(),
					Scopes:   info.Scopes,
				}, nil
			}),
	}
}
