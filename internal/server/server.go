package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/emiliopalmerini/despertar/internal/dashboard"
	"github.com/emiliopalmerini/despertar/internal/onboarding"
	"github.com/emiliopalmerini/despertar/internal/plans"
	sharedmw "github.com/emiliopalmerini/despertar/internal/shared/middleware"
	"github.com/emiliopalmerini/despertar/internal/util"
)

// Config holds server-specific configuration.
type Config struct {
	Addr string
}

// Handlers are the feature handlers mounted on the router.
type Handlers struct {
	Plans      *plans.Handler
	Onboarding *onboarding.Handler
	Dashboard  *dashboard.Handler
}

// NewRouter builds the HTTP router. Nil handlers are not mounted.
func NewRouter(h Handlers, logger *zap.Logger) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(sharedmw.RequestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		util.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	if h.Plans != nil {
		plans.RegisterRoutes(r, h.Plans)
	}
	if h.Onboarding != nil {
		onboarding.RegisterRoutes(r, h.Onboarding)
	}
	if h.Dashboard != nil {
		dashboard.RegisterRoutes(r, h.Dashboard)
	}

	return r
}

func NewHTTPServer(cfg Config, h Handlers, logger *zap.Logger) *http.Server {
	return &http.Server{
		Addr:    cfg.Addr,
		Handler: NewRouter(h, logger),
	}
}
