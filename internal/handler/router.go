package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/zhouzirui/misinfo-check/backend/internal/handler/check"
	"github.com/zhouzirui/misinfo-check/backend/internal/handler/page"
	"github.com/zhouzirui/misinfo-check/backend/internal/handler/ws"
	middlewarePkg "github.com/zhouzirui/misinfo-check/backend/internal/middleware"
	"github.com/zhouzirui/misinfo-check/backend/pkg/utils"
)

// NewRouter wires HTTP routes to the check service. metricsHandler may be nil.
func NewRouter(checker check.Checker, metricsHandler http.Handler, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middlewarePkg.Logger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	page.New("/check-misinformation").RegisterRoutes(r)
	check.New(checker).RegisterRoutes(r)
	ws.New(checker, logger).RegisterRoutes(r)

	if metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", metricsHandler)
	}
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	return r
}
