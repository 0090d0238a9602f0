package http

import (
	"net/http"

	"github.com/curalinkhq/curalink/internal/ehr/tools"
	"github.com/curalinkhq/curalink/pkg/ehrsdk"
	"github.com/curalinkhq/curalink/pkg/httpx"
)

// ToolsHandler serves the tool catalogue over REST.
type ToolsHandler struct {
	Registry *tools.Registry
}

// ServeHTTP handles GET /api/v1/tools
//
//	@Summary		List Tools
//	@Description	Returns the full tool catalogue with input schemas and required scopes.
//	@Description	The catalogue is identical for every caller; no authentication is required.
//	@Tags			Tools
//	@Produce		json
//	@Success		200	{object}	ehrsdk.ToolsListResult	"tool catalogue"
//	@Router			/api/v1/tools [get].
func (h *ToolsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, ehrsdk.ToolsListResult{
		Tools: h.Registry.List(),
	})
}
