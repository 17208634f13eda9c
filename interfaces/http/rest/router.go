package rest

import (
	"net/http"
	"strings"

	"ifn-backend/interfaces/http/rest/handlers"
	"ifn-backend/interfaces/http/rest/middleware"
	"ifn-backend/pkg/auth"
	"ifn-backend/pkg/errors"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// Options tune the router
type Options struct {
	EnableCORS     bool
	AllowedOrigins []string
	// MetricsHandler serves /metrics; nil disables the route
	MetricsHandler http.Handler
	// Observer records request metrics; may be nil
	Observer middleware.HTTPObserver
	// Tracing wraps every request in a trace segment; may be nil
	Tracing func(http.Handler) http.Handler
}

// Router creates and configures the HTTP router
type Router struct {
	records   *handlers.RecordHandler
	catalog   *handlers.CatalogHandler
	listViews *handlers.ListViewHandler
	health    *handlers.HealthHandler
	authn     *middleware.Authenticator
	errs      *errors.ErrorHandler
	opts      Options
	logger    *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(
	records *handlers.RecordHandler,
	catalog *handlers.CatalogHandler,
	listViews *handlers.ListViewHandler,
	health *handlers.HealthHandler,
	authn *middleware.Authenticator,
	errs *errors.ErrorHandler,
	opts Options,
	logger *zap.Logger,
) *Router {
	return &Router{
		records:   records,
		catalog:   catalog,
		listViews: listViews,
		health:    health,
		authn:     authn,
		errs:      errs,
		opts:      opts,
		logger:    logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() *chi.Mux {
	router := chi.NewRouter()

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(middleware.Logger(rt.logger))
	router.Use(rt.errs.Middleware)
	if rt.opts.Observer != nil {
		router.Use(middleware.Metrics(rt.opts.Observer))
	}
	if rt.opts.Tracing != nil {
		router.Use(rt.opts.Tracing)
	}
	router.Use(versionMiddleware)

	if rt.opts.EnableCORS {
		origins := rt.opts.AllowedOrigins
		if len(origins) == 0 {
			origins = []string{"http://localhost:3000"}
		}
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   origins,
			AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	router.Get("/health", rt.health.Health)
	router.Get("/ready", rt.health.Ready)
	if rt.opts.MetricsHandler != nil {
		router.Method(http.MethodGet, "/metrics", rt.opts.MetricsHandler)
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.HandleFunc("/*", func(w http.ResponseWriter, req *http.Request) {
			http.Redirect(w, req, strings.Replace(req.URL.Path, "/api/v1", "/api/v2", 1), http.StatusPermanentRedirect)
		})
	})

	router.Route("/api/v2", func(r chi.Router) {
		r.Use(rt.authn.Middleware)

		r.Get("/collections", rt.catalog.Collections)
		r.Get("/search", rt.catalog.Search)
		r.Get("/reports/problemas", rt.catalog.ProblemReport)

		r.Route("/records/{collection}", func(r chi.Router) {
			r.Get("/", rt.records.List)
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(rt.errs, auth.RoleEncargado))
				r.Post("/reload", rt.records.Reload)
				r.Post("/import", rt.records.Import)
			})
		})

		r.Route("/listviews", func(r chi.Router) {
			r.Post("/", rt.listViews.Create)
			r.Get("/{id}", rt.listViews.Get)
			r.Delete("/{id}", rt.listViews.Delete)
			r.Post("/{id}/events", rt.listViews.Dispatch)
		})
	})

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		rt.errs.HandleStatus(w, r, http.StatusNotFound, "route not found")
	})

	return router
}

// versionMiddleware adds API version headers to all responses
func versionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		version := "v2"
		if strings.HasPrefix(r.URL.Path, "/api/v1") {
			version = "v1"
		}

		w.Header().Set("X-API-Version", version)
		w.Header().Set("X-API-Latest", "v2")
		w.Header().Set("X-API-Deprecated", "false")
		if version == "v1" {
			w.Header().Set("X-API-Deprecated", "true")
		}

		next.ServeHTTP(w, r)
	})
}
