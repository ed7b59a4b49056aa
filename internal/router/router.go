package router

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/GustavoCaso/bookcatalog/internal/logger"
	"github.com/GustavoCaso/bookcatalog/internal/storage"
)

type routeHandler interface {
	RegisterRoutes(mux *http.ServeMux)
}

type router struct {
	storage storage.Storage
	logger  *logger.Logger
	reload  bool

	templatesMu sync.RWMutex
	templates   *templates
}

type Option func(*router)

// WithLiveReload re-parses the templates from disk on every request.
func WithLiveReload() Option {
	return func(r *router) {
		r.reload = true
	}
}

func New(s storage.Storage, logger *logger.Logger, opts ...Option) (http.Handler, *router) {
	router := &router{
		storage: s,
		logger:  logger,
	}

	for _, opt := range opts {
		opt(router)
	}

	if err := router.parseTemplates(); err != nil {
		logger.Fatal("Unable to parse templates", "error", err.Error())
	}

	mux := http.NewServeMux()

	handlers := []routeHandler{
		&productsHandler{router: router},
		&authHandler{router: router},
		&profileHandler{router: router},
	}

	for _, h := range handlers {
		h.RegisterRoutes(mux)
	}

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/products", http.StatusSeeOther)
	})

	mux.Handle("GET /metrics", promhttp.Handler())

	var handler http.Handler = mux

	if router.reload {
		handler = liveReloadMiddleware(router, handler)
	}

	handler = loggingMiddleware(logger, handler)
	handler = metricsMiddleware(handler)
	handler = sessionMiddleware(router, handler)
	handler = csrfProtectionMiddleware(logger, handler)
	handler = xFrameDenyHeaderMiddleware(handler)

	return handler, router
}
