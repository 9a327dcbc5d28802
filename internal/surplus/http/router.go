package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/surplus360/internal/surplus/domain"
	"github.com/aussiebroadwan/surplus360/internal/surplus/metrics"
	"github.com/aussiebroadwan/surplus360/internal/surplus/service"
	"github.com/aussiebroadwan/surplus360/internal/surplus/store"
	"github.com/aussiebroadwan/surplus360/pkg/httpx"
	"github.com/aussiebroadwan/surplus360/pkg/jwtx"
	"github.com/aussiebroadwan/surplus360/pkg/slogx"
	"github.com/prometheus/client_golang/prometheus"

	_ "github.com/aussiebroadwan/surplus360/api/surplus" // Swagger docs
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
	metrics      *metrics.Metrics
	gatherer     prometheus.Gatherer

	store               store.Store
	AuthService         *service.AuthService
	AccountService      *service.AccountService
	NotificationService *service.NotificationService
	ListingService      *service.ListingService

	// ExposeActivationKey returns activation keys from POST /register.
	ExposeActivationKey bool

	// Rate limit profiles, defaulting to the httpx ones.
	StrictLimit   httpx.RateLimitConfig
	ModerateLimit httpx.RateLimitConfig
	PublicLimit   httpx.RateLimitConfig
}

func NewRouter(
	codec *jwtx.Codec,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
	m *metrics.Metrics,
	gatherer prometheus.Gatherer,
) *Router {
	r := &Router{
		Mux:           http.NewServeMux(),
		codec:         codec,
		buildVersion:  buildVersion,
		startTime:     time.Now(),
		store:         st,
		logger:        logger,
		metrics:       m,
		gatherer:      gatherer,
		StrictLimit:   httpx.StrictLimit,
		ModerateLimit: httpx.ModerateLimit,
		PublicLimit:   httpx.PublicLimit,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger, m.ObserveRequest),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerAccount()
	r.registerNotifications()
	r.registerAdmin()
	r.registerListings()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			surplus360 Marketplace API
//	@version		0.1.0
//	@description	Authentication, accounts, notifications and listings for the surplus360 marketplace.
//	@description
//	@description				Tokens are HS512-signed JWTs. Session tokens come from /authenticate,
//	@description				access/refresh pairs from /auth/token. Refresh tokens are never accepted as bearer credentials.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/surplus360
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
//	@description				Session or access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// authenticated verifies the bearer token and limits by caller.
func (r *Router) authenticated(h http.Handler, extra ...httpx.Middleware) http.Handler {
	mws := []httpx.Middleware{
		httpx.AuthnMiddleware(r.codec, r.metrics.TokenRejected),
	}
	mws = append(mws, extra...)
	mws = append(mws, httpx.RateLimitByUser(r.ModerateLimit))
	return httpx.Chain(h, mws...)
}

func (r *Router) registerAuth() {
	// Rate limited by IP + username to slow down guessing
	r.Mux.Handle("POST /authenticate",
		httpx.Chain(&AuthenticateHandler{AuthService: r.AuthService},
			httpx.RateLimitByIPAndJSONField(r.StrictLimit, "username"),
		),
	)
	r.Mux.Handle("POST /auth/token",
		httpx.Chain(&TokenHandler{AuthService: r.AuthService},
			httpx.RateLimitByIPAndJSONField(r.StrictLimit, "username"),
		),
	)
	r.Mux.Handle("POST /auth/refresh",
		httpx.Chain(&RefreshHandler{AuthService: r.AuthService},
			httpx.RateLimitByIP(r.ModerateLimit),
		),
	)
}

func (r *Router) registerAccount() {
	r.Mux.Handle("POST /register",
		httpx.Chain(&RegisterHandler{
			AccountService:      r.AccountService,
			ExposeActivationKey: r.ExposeActivationKey,
		},
			httpx.RateLimitByIP(r.StrictLimit),
		),
	)
	r.Mux.Handle("GET /activate",
		httpx.Chain(&ActivateHandler{AccountService: r.AccountService},
			httpx.RateLimitByIP(r.StrictLimit),
		),
	)
	r.Mux.Handle("GET /account", r.authenticated(&AccountHandler{AccountService: r.AccountService}))
}

func (r *Router) registerNotifications() {
	h := &NotificationsHandler{
		NotificationService: r.NotificationService,
		AccountService:      r.AccountService,
	}

	r.Mux.Handle("GET /notifications/unread", r.authenticated(http.HandlerFunc(h.HandleUnread)))
	r.Mux.Handle("GET /notifications/unread/count", r.authenticated(http.HandlerFunc(h.HandleCount)))
	r.Mux.Handle("PUT /notifications/{id}/read", r.authenticated(http.HandlerFunc(h.HandleMarkRead)))
	r.Mux.Handle("PUT /notifications/read-all", r.authenticated(http.HandlerFunc(h.HandleMarkAll)))
}

func (r *Router) registerAdmin() {
	h := &AdminNotificationHandler{NotificationService: r.NotificationService}

	r.Mux.Handle("POST /admin/notifications",
		r.authenticated(h, httpx.RequireAnyRole(domain.RoleAdmin)),
	)
}

func (r *Router) registerListings() {
	h := &ListingsHandler{
		ListingService: r.ListingService,
		AccountService: r.AccountService,
	}

	// Browsing is public
	r.Mux.Handle("GET /listings",
		httpx.Chain(http.HandlerFunc(h.HandleSearch), httpx.RateLimitByIP(r.PublicLimit)),
	)
	r.Mux.Handle("GET /listings/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleGet), httpx.RateLimitByIP(r.PublicLimit)),
	)
	r.Mux.Handle("POST /listings", r.authenticated(http.HandlerFunc(h.HandleCreate)))
}

func (r *Router) registerSystem() {
	// Health and metrics endpoints - monitoring systems may poll frequently
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(r.PublicLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.codec),
			httpx.RateLimitByIP(r.PublicLimit),
		),
	)
	if r.gatherer != nil {
		r.Mux.Handle("GET /metrics", metrics.Handler(r.gatherer))
	}
}
