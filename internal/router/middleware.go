package router

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/GustavoCaso/bookcatalog/internal/logger"
	"github.com/GustavoCaso/bookcatalog/internal/storage"
)

type contextKey string

const userIDKey contextKey = "user_id"

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

// WriteHeader wraps the regular ResponseWriter so we can store the status code to later log it.
func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func wrapResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
	}
}

func loggingMiddleware(logger *logger.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := wrapResponseWriter(w)

		next.ServeHTTP(wrapped, r)

		logger.Debug("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", wrapped.statusCode,
			"duration", time.Since(start).String(),
			"remote_addr", r.RemoteAddr,
			"user_agent", r.UserAgent(),
		)
	})
}

// metricsMiddleware must wrap the ServeMux directly (or through middlewares
// that keep the same *http.Request) so the matched pattern is visible.
func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := wrapResponseWriter(w)

		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()

		next.ServeHTTP(wrapped, r)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}

		httpRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(wrapped.statusCode)).Inc()
		httpRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

func xFrameDenyHeaderMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Frame-Options", "DENY")
		next.ServeHTTP(w, r)
	})
}

// csrfProtectionMiddleware rejects unsafe cross-origin requests using the
// Sec-Fetch-Site and Origin headers. Origins listed in
// BOOKCATALOG_TRUSTED_ORIGINS are always accepted.
func csrfProtectionMiddleware(logger *logger.Logger, next http.Handler) http.Handler {
	trusted := trustedOrigins()

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			next.ServeHTTP(w, r)
			return
		}

		origin := r.Header.Get("Origin")
		if _, ok := trusted[origin]; ok && origin != "" {
			next.ServeHTTP(w, r)
			return
		}

		switch r.Header.Get("Sec-Fetch-Site") {
		case "same-origin", "none":
			next.ServeHTTP(w, r)
			return
		case "":
		default:
			logger.Warn("Rejected cross-site request", "method", r.Method, "path", r.URL.Path, "origin", origin)
			http.Error(w, "cross-origin request rejected", http.StatusForbidden)
			return
		}

		// Requests without Origin come from non-browser clients.
		if origin == "" {
			next.ServeHTTP(w, r)
			return
		}

		if u, err := url.Parse(origin); err == nil && u.Host == r.Host {
			next.ServeHTTP(w, r)
			return
		}

		logger.Warn("Rejected cross-origin request", "method", r.Method, "path", r.URL.Path, "origin", origin)
		http.Error(w, "cross-origin request rejected", http.StatusForbidden)
	})
}

func trustedOrigins() map[string]struct{} {
	origins := map[string]struct{}{}
	for _, origin := range strings.Split(os.Getenv("BOOKCATALOG_TRUSTED_ORIGINS"), ",") {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			origins[origin] = struct{}{}
		}
	}
	return origins
}

// sessionMiddleware resolves the session cookie into a user id stored in the
// request context. Anonymous requests are let through untouched.
func sessionMiddleware(router *router, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessionCookieName)
		if err != nil || cookie.Value == "" {
			next.ServeHTTP(w, r)
			return
		}

		session, err := router.storage.GetSession(r.Context(), cookie.Value)
		if err != nil {
			var notFoundErr *storage.NotFoundError
			if !errors.As(err, &notFoundErr) {
				router.logger.Error("Failed to get session", "error", err)
			}
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, session.UserID())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func userIDFromContext(ctx context.Context) int64 {
	userID, _ := ctx.Value(userIDKey).(int64)
	return userID
}

// requireUser redirects anonymous requests to the sign in page.
func requireUser(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if userIDFromContext(r.Context()) == 0 {
			http.Redirect(w, r, "/signin", http.StatusSeeOther)
			return
		}
		next(w, r)
	}
}

func liveReloadMiddleware(router *router, handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := router.parseTemplates(); err != nil {
			router.logger.Warn("Error parsing templates during live reload", "error", err.Error())
		}

		handler.ServeHTTP(w, r)
	})
}
