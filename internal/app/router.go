package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/rogerioalves7/domo-1/internal/accounts"
	"github.com/rogerioalves7/domo-1/internal/auth"
	"github.com/rogerioalves7/domo-1/internal/cards"
	"github.com/rogerioalves7/domo-1/internal/catalog"
	"github.com/rogerioalves7/domo-1/internal/history"
	"github.com/rogerioalves7/domo-1/internal/house"
	"github.com/rogerioalves7/domo-1/internal/inventory"
	"github.com/rogerioalves7/domo-1/internal/ledger"
	"github.com/rogerioalves7/domo-1/internal/observability"
	"github.com/rogerioalves7/domo-1/internal/recurring"
	"github.com/rogerioalves7/domo-1/internal/shopping"
	"github.com/rogerioalves7/domo-1/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger  *slog.Logger
	Config  *Config
	Metrics *observability.Metrics

	AuthService *auth.Service

	AuthHandler      *auth.Handler
	HouseHandler     *house.Handler
	AccountsHandler  *accounts.Handler
	CardsHandler     *cards.Handler
	LedgerHandler    *ledger.Handler
	CatalogHandler   *catalog.Handler
	InventoryHandler *inventory.Handler
	ShoppingHandler  *shopping.Handler
	RecurringHandler *recurring.Handler
	HistoryHandler   *history.Handler
	JobHandler       *jobs.Handler
}

// NewRouter constructs the chi.Router with every module mounted under
// /api/v1. Auth endpoints stay outside the token middleware.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}
	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}

	r.Route("/api/v1", func(r chi.Router) {
		params.AuthHandler.MountPublicRoutes(r)

		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(params.AuthService))

			params.AuthHandler.MountRoutes(r)
			params.HouseHandler.MountRoutes(r)
			params.AccountsHandler.MountRoutes(r)
			params.CardsHandler.MountRoutes(r)
			params.LedgerHandler.MountRoutes(r)
			params.CatalogHandler.MountRoutes(r)
			params.InventoryHandler.MountRoutes(r)
			params.ShoppingHandler.MountRoutes(r)
			params.RecurringHandler.MountRoutes(r)
			params.HistoryHandler.MountRoutes(r)
		})
	})

	return r
}
