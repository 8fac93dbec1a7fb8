package gateway

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type Handler struct {
	catalogProxy *ServiceProxy
	ordersProxy  *ServiceProxy
	logger       *slog.Logger
}

func NewHandler(catalogProxy, ordersProxy *ServiceProxy, logger *slog.Logger) *Handler {
	return &Handler{
		catalogProxy: catalogProxy,
		ordersProxy:  ordersProxy,
		logger:       logger,
	}
}

// Register mounts every public route on mux.
func (h *Handler) Register(mux *http.ServeMux, wrap func(http.HandlerFunc) http.HandlerFunc) {
	if wrap == nil {
		wrap = func(f http.HandlerFunc) http.HandlerFunc { return f }
	}
	for _, pattern := range []string{
		"GET /customers",
		"POST /customers",
		"GET /customers/{id}",
		"PUT /customers/{id}",
		"DELETE /customers/{id}",
		"GET /items",
		"POST /items",
		"GET /items/stats",
		"GET /items/{id}",
		"PUT /items/{id}",
		"DELETE /items/{id}",
	} {
		mux.HandleFunc(pattern, wrap(h.HandleCatalog))
	}
	for _, pattern := range []string{
		"GET /orders",
		"POST /orders",
		"GET /orders/{id}",
		"PUT /orders/{id}",
		"PATCH /orders/{id}/status",
		"DELETE /orders/{id}",
		"GET /stats",
	} {
		mux.HandleFunc(pattern, wrap(h.HandleOrders))
	}
}

// Middleware tags every request with an id, resolves the client address and
// turns handler panics into 500s.
func Middleware(next http.Handler) http.Handler {
	return chi.Chain(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
	).Handler(next)
}

func (h *Handler) HandleCatalog(w http.ResponseWriter, r *http.Request) {
	h.proxyRequest(w, r, h.catalogProxy)
}

func (h *Handler) HandleOrders(w http.ResponseWriter, r *http.Request) {
	h.proxyRequest(w, r, h.ordersProxy)
}

func (h *Handler) proxyRequest(w http.ResponseWriter, r *http.Request, proxy *ServiceProxy) {
	path := r.URL.EscapedPath()
	resp, err := proxy.ForwardRequest(r.Context(), r, path)
	if err != nil {
		h.logger.Error("failed to forward request", "error", err, "path", path, "request_id", middleware.GetReqID(r.Context()))
		h.writeError(w, http.StatusBadGateway, "service unavailable")
		return
	}
	defer func() { _ = resp.Body.Close() }()

	if contentType := resp.Header.Get("Content-Type"); contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}

	w.WriteHeader(resp.StatusCode)

	h.logger.Info("request proxied",
		"method", r.Method,
		"path", path,
		"status", resp.StatusCode,
		"remote_addr", r.RemoteAddr,
		"request_id", middleware.GetReqID(r.Context()),
	)

	if _, err := io.Copy(w, resp.Body); err != nil {
		h.logger.Error("failed to copy response body", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]string{"error": message}); err != nil {
		h.logger.Error("failed to encode error response", "error", err)
	}
}
