package app

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/healthcase/symptom-checker/internal/api"
	"github.com/healthcase/symptom-checker/internal/config"
	"github.com/healthcase/symptom-checker/internal/health"
	"github.com/healthcase/symptom-checker/internal/logx"
	"github.com/healthcase/symptom-checker/internal/metrics"
	"github.com/healthcase/symptom-checker/internal/runtime"
	"github.com/healthcase/symptom-checker/internal/ui"
)

type HTTPServer struct {
	srv     *http.Server
	handler http.Handler
}

func NewHTTPServer(env *config.EnvVars, a *api.API, defs *config.Definitions, rt *runtime.Runtime) *HTTPServer {
	mux := http.NewServeMux()

	a.RegisterHTTP(mux)
	mux.HandleFunc("/ui", ui.FormHandler(defs))
	mux.HandleFunc("/health/live", health.LiveHandler)
	mux.HandleFunc("/health/ready", health.ReadyHandler(rt))
	mux.HandleFunc("/metrics", metrics.ServeHTTP)

	// Wrap with CORS, metrics and security middleware
	hardened := secureMiddleware(corsMiddleware(metricsMiddleware(mux)))

	return &HTTPServer{
		handler: hardened,
		srv: &http.Server{
			Addr:              ":" + strconv.Itoa(env.Port),
			Handler:           hardened,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       env.ReadTimeout,
			WriteTimeout:      env.WriteTimeout,
			IdleTimeout:       60 * time.Second,
			MaxHeaderBytes:    1 << 20, // 1MB
		},
	}
}

// Handler returns the wrapped handler, for in-process tests.
func (h *HTTPServer) Handler() http.Handler {
	return h.handler
}

func (h *HTTPServer) Start(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		logx.Info("HTTP", "listening on %s", h.srv.Addr)
		errCh <- h.srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logx.Info("HTTP", "shutting down server...")
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return h.srv.Shutdown(shutCtx)
	}
}

// corsMiddleware permits cross-origin front-end callers, including the
// preflight requests browsers send before a JSON POST.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the response code for metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)

		lbls := map[string]string{
			"method": r.Method,
			"path":   r.URL.Path,
			"status": fmt.Sprintf("%d", rec.status),
		}
		metrics.HTTPRequests.Inc(lbls)
		metrics.HTTPDuration.Observe(lbls, time.Since(start).Seconds())
	})
}

// secureMiddleware adds basic hardening to HTTP server:
// - Common security headers
// - Body size limit
// - Block TRACE method
func secureMiddleware(next http.Handler) http.Handler {
	const maxBody = 1 << 20 // 1MB
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Block TRACE to avoid request smuggling tricks
		if r.Method == http.MethodTrace {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		// Limit body size early
		if r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, maxBody)
		}

		// Security headers
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "no-referrer")
		// Modern browsers ignore X-XSS-Protection; set to 0 to disable legacy filter quirks
		w.Header().Set("X-XSS-Protection", "0")
		// A conservative CSP that should not break the embedded form
		w.Header().Set("Content-Security-Policy", "default-src 'self'; img-src 'self' data:; style-src 'self' 'unsafe-inline'; script-src 'self' 'unsafe-inline'")
		// HSTS only when TLS is enabled
		if r.TLS != nil {
			w.Header().Set("Strict-Transport-Security", "max-age=63072000; includeSubDomains; preload")
		}

		next.ServeHTTP(w, r)
	})
}
