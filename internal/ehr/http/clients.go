package http

import (
	"errors"
	"net/http"

	"github.com/curalinkhq/curalink/internal/ehr/service"
	"github.com/curalinkhq/curalink/pkg/ehrsdk"
	"github.com/curalinkhq/curalink/pkg/httpx"
	"github.com/curalinkhq/curalink/pkg/slogx"
)

// ClientsHandler handles the admin client management endpoints.
type ClientsHandler struct {
	ClientService *service.ClientService
}

// HandleList handles GET /api/v1/clients
//
//	@Summary		List Clients
//	@Description	Returns every registered client application, newest first. Secret hashes are
//	@Description	never included.
//	@Tags			Clients
//	@Produce		json
//	@Security		BearerAuth
//	@Param			Authorization	header		string					true	"Bearer token with the admin role"
//	@Success		200				{object}	ehrsdk.ClientListResult	"list of clients"
//	@Failure		401				{object}	ehrsdk.APIError			"error, error_description"
//	@Failure		403				{object}	ehrsdk.APIError			"error, error_description"
//	@Failure		500				{object}	ehrsdk.APIError			"error, error_description"
//	@Router			/api/v1/clients [get].
func (h *ClientsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	clients, err := h.ClientService.ListClients(ctx)
	if err != nil {
		log.Error("failed to list clients", "error", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, ehrsdk.APIError{
			Code:        "server_error",
			Description: "Failed to list clients",
		})
		return
	}

	summaries := make([]ehrsdk.ClientSummary, len(clients))
	for i, client := range clients {
		summaries[i] = ehrsdk.ClientSummary{
			ClientID:     client.ClientID,
			AppID:        client.AppID,
			AppName:      client.AppName,
			Role:         client.Role.String(),
			Scopes:       client.Scopes,
			Active:       client.Active,
			RateLimit:    client.RateLimit,
			Description:  client.Description,
			ContactEmail: client.ContactEmail,
			CreatedAt:    client.CreatedAt,
			LastUsed:     client.LastUsed,
		}
	}

	httpx.WriteJSON(w, http.StatusOK, ehrsdk.ClientListResult{
		Clients: summaries,
		Count:   len(summaries),
	})
}

// HandleDeactivate handles POST /api/v1/clients/{client_id}/deactivate
//
//	@Summary		Deactivate Client
//	@Description	Disables a client so it can no longer authenticate. Access tokens already
//	@Description	issued keep working until they expire.
//	@Tags			Clients
//	@Produce		json
//	@Security		BearerAuth
//	@Param			Authorization	header		string							true	"Bearer token with the admin role"
//	@Param			client_id		path		string							true	"Public client identifier"
//	@Success		200				{object}	ehrsdk.DeactivateClientResult	"status, client_id"
//	@Failure		401				{object}	ehrsdk.APIError					"error, error_description"
//	@Failure		403				{object}	ehrsdk.APIError					"error, error_description"
//	@Failure		404				{object}	ehrsdk.APIError					"error, error_description"
//	@Failure		409				{object}	ehrsdk.APIError					"error, error_description"
//	@Failure		500				{object}	ehrsdk.APIError					"error, error_description"
//	@Router			/api/v1/clients/{client_id}/deactivate [post].
func (h *ClientsHandler) HandleDeactivate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	clientID := r.PathValue("client_id")

	err := h.ClientService.DeactivateClient(ctx, clientID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrClientNotFound):
			httpx.WriteJSON(w, http.StatusNotFound, ehrsdk.APIError{
				Code:        "client_not_found",
				Description: "Client not found",
			})
		case errors.Is(err, service.ErrClientInactive):
			httpx.WriteJSON(w, http.StatusConflict, ehrsdk.APIError{
				Code:        "client_inactive",
				Description: "Client is already deactivated",
			})
		default:
			log.Error("failed to deactivate client", "error", err, "client_id", clientID)
			httpx.WriteJSON(w, http.StatusInternalServerError, ehrsdk.APIError{
				Code:        "server_error",
				Description: "Failed to deactivate client",
			})
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, ehrsdk.DeactivateClientResult{
		Status:   "success",
		ClientID: clientID,
	})
}
