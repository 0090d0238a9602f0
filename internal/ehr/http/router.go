package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/curalinkhq/curalink/internal/ehr/rpc"
	"github.com/curalinkhq/curalink/internal/ehr/service"
	"github.com/curalinkhq/curalink/internal/ehr/store"
	"github.com/curalinkhq/curalink/internal/ehr/tools"
	"github.com/curalinkhq/curalink/pkg/httpx"
	"github.com/curalinkhq/curalink/pkg/jwtx"
	"github.com/curalinkhq/curalink/pkg/slogx"

	_ "github.com/curalinkhq/curalink/api/ehr" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store store.Store

	Dispatcher    *rpc.Dispatcher
	AuthService   *service.AuthService
	ClientService *service.ClientService
	Registry      *tools.Registry
}

func NewRouter(
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerRPC()
	r.registerAuth()
	r.registerTools()
	r.registerClients()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			CuraLink EHR Gateway API
//	@version		0.1.0
//	@description	JSON-RPC 2.0 gateway exposing electronic health record operations as MCP tools,
//	@description	gated by OAuth2 client-credential authentication with JWT access tokens.
//	@description
//	@description				Clinical tools expect the access token inside the tool arguments; the REST
//	@description				admin surface uses standard bearer authentication.
//
//	@contact.name				CuraLink Team
//	@contact.url				https://github.com/curalinkhq/curalink
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerRPC() {
	// POST /mcp - the JSON-RPC endpoint. Authentication happens per request
	// inside the dispatcher, so the route itself is only IP limited.
	h := &RPCHandler{Dispatcher: r.Dispatcher}
	r.Mux.Handle("POST /mcp",
		httpx.Chain(h,
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerAuth() {
	// POST /api/v1/authenticate - strict rate limit by IP (credential
	// guessing happens here, not on /mcp)
	h := &AuthenticateHandler{AuthService: r.AuthService}
	r.Mux.Handle("POST /api/v1/authenticate",
		httpx.Chain(h,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerTools() {
	// GET /api/v1/tools - public catalogue, high limit
	h := &ToolsHandler{Registry: r.Registry}
	r.Mux.Handle("GET /api/v1/tools",
		httpx.Chain(h,
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
}

func (r *Router) registerClients() {
	h := &ClientsHandler{ClientService: r.ClientService}

	// GET /api/v1/clients - list registrations (admin role) - moderate limit
	securedList := httpx.Chain(http.HandlerFunc(h.HandleList),
		httpx.AuthnMiddleware(r.verifier),
		httpx.RequireRole("admin"),
		httpx.RateLimitByClient(httpx.ModerateLimit),
	)

	// POST /api/v1/clients/{client_id}/deactivate - disable a client
	// (admin role) - moderate limit
	securedDeactivate := httpx.Chain(http.HandlerFunc(h.HandleDeactivate),
		httpx.AuthnMiddleware(r.verifier),
		httpx.RequireRole("admin"),
		httpx.RateLimitByClient(httpx.ModerateLimit),
	)

	r.Mux.Handle("GET /api/v1/clients", securedList)
	r.Mux.Handle("POST /api/v1/clients/{client_id}/deactivate", securedDeactivate)
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.AuthService),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
