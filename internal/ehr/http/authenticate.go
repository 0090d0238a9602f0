package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/curalinkhq/curalink/internal/ehr/service"
	"github.com/curalinkhq/curalink/pkg/ehrsdk"
	"github.com/curalinkhq/curalink/pkg/httpx"
	"github.com/curalinkhq/curalink/pkg/slogx"
)

// AuthenticateHandler is the REST twin of the authenticate RPC method for
// callers that only speak plain HTTP.
type AuthenticateHandler struct {
	AuthService *service.AuthService
}

// ServeHTTP handles POST /api/v1/authenticate
//
//	@Summary		Authenticate Client
//	@Description	Exchanges OAuth2 client credentials for a JWT access token. Every credential
//	@Description	failure returns the same error so the endpoint cannot be used to probe which
//	@Description	client IDs exist.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		ehrsdk.AuthenticateParams	true	"Client credentials"
//	@Success		200		{object}	ehrsdk.AuthenticateResult	"access token and client info"
//	@Failure		400		{object}	ehrsdk.APIError				"error, error_description"
//	@Failure		401		{object}	ehrsdk.APIError				"error, error_description"
//	@Failure		503		{object}	ehrsdk.APIError				"error, error_description"
//	@Router			/api/v1/authenticate [post].
func (h *AuthenticateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req ehrsdk.AuthenticateParams
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, ehrsdk.APIError{
			Code:        "invalid_request",
			Description: "Invalid JSON in request body",
		})
		return
	}

	grant, err := h.AuthService.Authenticate(ctx, req.ClientID, req.ClientSecret, req.AppID)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			httpx.WriteJSON(w, http.StatusUnauthorized, ehrsdk.APIError{
				Code:        "invalid_client",
				Description: "Invalid client credentials",
			})
			return
		}

		var se *service.StorageError
		if errors.As(err, &se) {
			log.Error("storage failure", "op", se.Op, "error", se.Unwrap())
			httpx.WriteJSON(w, http.StatusServiceUnavailable, ehrsdk.APIError{
				Code:        "storage_error",
				Description: se.Error(),
			})
			return
		}

		log.Error("authentication failed unexpectedly", "error", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, ehrsdk.APIError{
			Code:        "server_error",
			Description: "Failed to authenticate client",
		})
		return
	}

	httpx.WriteJSON(w, http.StatusOK, ehrsdk.AuthenticateResult{
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
