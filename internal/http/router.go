package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

func NewRouter(h *WidgetHandler, requestTimeout time.Duration, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(LoggerMiddleware(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/", h.Page)
	r.Post("/actions", h.Action)

	r.Route("/api", func(r chi.Router) {
		r.Get("/cart", h.GetCart)
		r.Get("/catalog", h.GetCatalog)
		r.Post("/catalog/refresh", h.RefreshCatalog)
	})

	return otelhttp.NewHandler(r, "cart-widget")
}
