package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/sonumarket-core/api/controllers"
	"github.com/angelmondragon/sonumarket-core/api/middleware"
	"github.com/angelmondragon/sonumarket-core/internal/catalog"
	"github.com/angelmondragon/sonumarket-core/internal/catalog/query"
	"github.com/angelmondragon/sonumarket-core/internal/session"
	"github.com/angelmondragon/sonumarket-core/pkg/config"
	"github.com/angelmondragon/sonumarket-core/pkg/logger"
)

// RouterParams carries what the HTTP surface needs from cmd/api.
type RouterParams struct {
	Config   *config.Config
	Logger   *logger.Logger
	Catalog  *catalog.Store
	Query    *query.Engine
	Sessions *session.Manager
	// Ready lists the dependencies probed by /health/ready.
	Ready map[string]controllers.Pinger
	// Gatherer backs /metrics. Nil falls back to the default registry.
	Gatherer prometheus.Gatherer
}

func NewRouter(p RouterParams) http.Handler {
	cfg, logg := p.Config, p.Logger
	gatherer := p.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, p.Ready))
	})
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
	})

	r.Route("/api/v1/catalog", func(r chi.Router) {
		r.Get("/products", controllers.CatalogProducts(p.Query, logg))
		r.Get("/products/{productId}", controllers.CatalogProduct(p.Catalog, logg))
		r.Get("/search", controllers.CatalogSearch(p.Query, logg))
		r.Get("/tabs", controllers.CatalogTabs(p.Query))
		r.Get("/categories", controllers.CatalogCategories(p.Catalog))
		r.Get("/top-sellers", controllers.CatalogTopSellers(p.Catalog, logg))
		r.Get("/digital", controllers.CatalogDigital(p.Query, p.Catalog))
		r.Get("/services", controllers.CatalogServices(p.Catalog))
		r.Get("/cv-templates", controllers.CatalogCVTemplates(p.Catalog))
		r.Get("/redaction-options", controllers.CatalogRedactionOptions(p.Catalog))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Session(p.Sessions, logg))
		r.Get("/session", controllers.SessionPing())

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartFetch(logg))
			r.Delete("/", controllers.CartClear(logg))
			r.Post("/items", controllers.CartAddItem(p.Catalog, logg))
			r.Post("/items/batch", controllers.CartAddItems(p.Catalog, logg))
			r.Patch("/items/{productId}", controllers.CartUpdateQuantity(logg))
			r.Delete("/items/{productId}", controllers.CartRemoveItem(logg))
		})

		r.Route("/wizards/{flow}", func(r chi.Router) {
			r.Post("/", controllers.WizardOpen(logg))
			r.Get("/", controllers.WizardState(logg))
			r.Delete("/", controllers.WizardClose(logg))
			r.Put("/steps/{step}", controllers.WizardSelect(logg))
			r.Delete("/steps/{step}", controllers.WizardClear(logg))
			r.Post("/advance", controllers.WizardAdvance(logg))
			r.Post("/retreat", controllers.WizardRetreat(logg))
			r.Post("/reset", controllers.WizardReset(logg))
			r.Post("/jump", controllers.WizardJump(logg))
		})

		r.Route("/profile", func(r chi.Router) {
			r.Get("/", controllers.ProfileFetch(logg))
			r.Post("/sign-in", controllers.ProfileSignIn(logg))
			r.Post("/sign-out", controllers.ProfileSignOut(logg))
			r.Put("/settings", controllers.ProfileUpdateSettings(logg))
			r.Put("/addresses", controllers.ProfileSaveAddress(logg))
			r.Delete("/addresses/{addressId}", controllers.ProfileDeleteAddress(logg))
			r.Post("/payment-methods", controllers.ProfileAddPaymentMethod(logg))
			r.Delete("/payment-methods/{methodId}", controllers.ProfileDeletePaymentMethod(logg))
			r.Put("/wishlist/{productId}", controllers.ProfileAddToWishlist(p.Catalog, logg))
			r.Delete("/wishlist/{productId}", controllers.ProfileRemoveFromWishlist(logg))
		})
	})

	return r
}
