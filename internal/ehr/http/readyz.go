package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/curalinkhq/curalink/internal/ehr/service"
	"github.com/curalinkhq/curalink/internal/ehr/store"
	"github.com/curalinkhq/curalink/pkg/ehrsdk"
	"github.com/curalinkhq/curalink/pkg/httpx"
	"github.com/curalinkhq/curalink/pkg/jwtx"
)

// ReadyzHandler godoc
//
//	@Summary		Readiness Check Endpoint
//	@Description	Readiness probe endpoint returning service health status and checks for critical dependencies
//	@Description	Includes uptime, version, and status of the database and token signer
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	ehrsdk.HealthResponse	"status, uptime, version, checks"
//	@Failure		503	{object}	ehrsdk.HealthResponse	"status, uptime, version, checks - service not ready"
//	@Router			/readyz [get].
func ReadyzHandler(
	startTime time.Time,
	version string,
	st store.Store,
	auth *service.AuthService,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &ehrsdk.HealthChecks{
			Database: "ok",
			Signer:   "ok",
		}
		overallStatus := "ok"
		statusCode := http.StatusOK

		// Check database connectivity
		if err := st.Ping(r.Context()); err != nil {
			checks.Database = "error: " + err.Error()
			overallStatus = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		// Check that the signer can actually mint a token with its key
		if err := probeSigner(auth); err != nil {
			checks.Signer = "error: " + err.Error()
			overallStatus = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		response := ehrsdk.HealthResponse{
			Status:  overallStatus,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		}
		httpx.WriteJSON(w, statusCode, response)
	}
}

func probeSigner(auth *service.AuthService) error {
	if auth == nil || auth.Signer == nil {
		return errors.New("no signer configured")
	}
	claims := jwtx.NewAccessClaims("readyz-probe", "readyz", "system",
		nil, time.Second, auth.Issuer, time.Now())
	_, err := auth.Signer.Sign(claims)
	return err
}
