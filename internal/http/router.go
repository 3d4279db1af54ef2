package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/rogerio-castellano/it-asset-tracker/internal/http/handlers"
)

func NewRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	// Public surface: reads, reports and authentication.
	r.Get("/items", handlers.GetItemsHandler)
	r.Get("/items/search", handlers.FilterItemsHandler)
	r.Get("/items/{id}", handlers.GetItemHandler)
	r.Get("/items/{id}/ledger", handlers.GetItemLedgerHandler)
	r.Get("/ledger", handlers.GetLedgerHandler)
	r.Get("/ledger/export", handlers.ExportLedgerHandler)
	r.Get("/locations", handlers.GetLocationsHandler)
	r.Get("/reports/stock", handlers.StockReportHandler)
	r.Get("/reports/stock/export", handlers.ExportStockReportHandler)
	r.Get("/reports/claims", handlers.ClaimsReportHandler)
	r.Get("/reports/claims/export", handlers.ExportClaimsReportHandler)
	r.Get("/metrics/dashboard", handlers.GetDashboardMetricsHandler)

	r.Post("/register", handlers.RegisterHandler)
	r.Post("/login", handlers.LoginHandler)
	r.Post("/refresh", handlers.RefreshHandler)

	r.Get("/swagger/*", httpSwagger.Handler())

	// Every mutation requires a valid token; the dangerous ones are
	// additionally checked against the authorization gate inside the
	// handler, once per logical operation.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware)

		r.Post("/items", handlers.CreateItemHandler)
		r.Put("/items/{id}", handlers.UpdateItemHandler)
		r.Delete("/items/{id}", handlers.DeleteItemHandler)
		r.Delete("/items", handlers.DeleteItemsByNameHandler)

		r.Post("/items/{id}/adjust", handlers.AdjustQuantityHandler)
		r.Post("/items/{id}/correct", handlers.CorrectQuantityHandler)
		r.Post("/items/{id}/reconcile", handlers.ReconcileHandler)
		r.Post("/items/bulk", handlers.BulkUpdateHandler)
		r.Put("/thresholds/{name}", handlers.SetThresholdHandler)

		r.Post("/admin/commands", handlers.AdminCommandHandler)
		r.Post("/admin/users", handlers.RegisterAsAdminHandler)
	})

	return r
}
