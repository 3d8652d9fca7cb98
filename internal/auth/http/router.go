package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/cobaltlabs/passport/internal/auth/service"
	"github.com/cobaltlabs/passport/internal/auth/store"
	"github.com/cobaltlabs/passport/pkg/httpx"
	"github.com/cobaltlabs/passport/pkg/jwtx"
	"github.com/cobaltlabs/passport/pkg/slogx"

	_ "github.com/cobaltlabs/passport/api" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	codec        *jwtx.Codec
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store        store.Store
	TokenService *service.TokenService
	UserService  *service.UserService
}

func NewRouter(
	codec *jwtx.Codec,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		codec:        codec,
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
	r.registerAuth()
	r.registerUsers()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Passport Authentication Service API
//	@version		0.1.0
//	@description	Credential-based authentication service issuing JWT access and refresh token pairs.
//	@description
//	@description				All tokens are signed with a symmetric HMAC secret. Refresh tokens are stateless
//	@description				and reusable until they expire; refreshing never rotates them.
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

func (r *Router) registerAuth() {
	r.Mux.Handle("POST /auth/token", &TokenHandler{TokenService: r.TokenService})
	r.Mux.Handle("POST /auth/refresh", &RefreshHandler{TokenService: r.TokenService})
}

func (r *Router) registerUsers() {
	r.Mux.Handle("POST /users", &RegisterHandler{UserService: r.UserService})

	// Authenticated endpoints
	authn := httpx.AuthnMiddleware(r.codec) // verify JWT (iss/exp/token class)

	r.Mux.Handle("GET /users/me",
		httpx.Chain(&UserInfoHandler{UserService: r.UserService}, authn))
	r.Mux.Handle("POST /users/me/verify",
		httpx.Chain(&VerifyHandler{UserService: r.UserService}, authn))
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store))
}
