package httpapi

import (
	stdhttp "net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"kovil/internal/domain"
	"kovil/internal/http/handlers"
	"kovil/internal/middleware"
)

// NewRouter wires every API route. lookup may be nil when no GeoIP database
// is configured.
func NewRouter(app *handlers.App, lookup middleware.CountryLookup) stdhttp.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		middleware.Logger(app.Logger),
		chimw.Recoverer,
		middleware.CORS(app.Config.CORSAllowedOrigins),
		middleware.I18N(app.Config.DefaultLocale, lookup),
		app.Sessions.Load,
	)

	limit := middleware.RateLimit(app.Config.RateLimitPerMin, time.Minute)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", app.Health)
		r.Get("/openapi.json", app.OpenAPIJSON)
		r.Get("/docs", app.OpenAPIDocs)

		r.Route("/auth", func(r chi.Router) {
			r.With(limit).Post("/login", app.AuthLogin)
			r.Post("/logout", app.AuthLogout)
			r.Get("/status", app.AuthStatus)
			r.Get("/security-recommendations", app.SecurityRecommendations)
			r.With(middleware.RequireAdmin).Post("/change-credentials", app.AuthChangeCredentials)
		})

		r.With(limit).Post("/google-form-webhook", app.DonationsWebhook)

		r.Route("/donations", func(r chi.Router) {
			r.With(limit).Post("/", app.DonationsCreate)
			r.Get("/check-receipt/{receiptNo}", app.DonationsCheckReceipt)

			admin := r.With(middleware.RequireAdmin)
			admin.Get("/", app.DonationsList)
			admin.Get("/export", app.DonationsExport)
			admin.Post("/import", app.DonationsImport)
			admin.With(middleware.RequireRole(domain.AdminRoleSuperAdmin)).Delete("/delete-all", app.DonationsDeleteAll)
			admin.Get("/search/{phone}", app.DonationsByPhone)
			admin.Get("/{id}", app.DonationsGet)
			admin.Put("/{id}", app.DonationsUpdate)
			admin.Delete("/{id}", app.DonationsDelete)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin)

			r.Get("/receipt-number/next", app.ReceiptNumberNext)

			r.Route("/dashboard", func(r chi.Router) {
				r.Get("/stats", app.DashboardStats)
				r.Delete("/cache", app.DashboardClearCache)
				r.Get("/export", app.DashboardExport)
			})
			r.Get("/analytics/dashboard", app.AnalyticsDashboard)

			r.Route("/donors", func(r chi.Router) {
				r.Get("/search", app.DonorsSearch)
				r.Get("/{phone}", app.DonorsGet)
			})
		})
	})

	return r
}
