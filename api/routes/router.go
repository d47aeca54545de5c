package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nexobuy/nexobuy-backend/api/controllers"
	"github.com/nexobuy/nexobuy-backend/api/middleware"
	authsvc "github.com/nexobuy/nexobuy-backend/internal/auth"
	docsvc "github.com/nexobuy/nexobuy-backend/internal/documents"
	invoicesvc "github.com/nexobuy/nexobuy-backend/internal/invoices"
	itemsvc "github.com/nexobuy/nexobuy-backend/internal/orderitems"
	ordersvc "github.com/nexobuy/nexobuy-backend/internal/orders"
	pricingsvc "github.com/nexobuy/nexobuy-backend/internal/pricing"
	productsvc "github.com/nexobuy/nexobuy-backend/internal/products"
	"github.com/nexobuy/nexobuy-backend/pkg/auth/session"
	"github.com/nexobuy/nexobuy-backend/pkg/config"
	"github.com/nexobuy/nexobuy-backend/pkg/db"
	"github.com/nexobuy/nexobuy-backend/pkg/enums"
	"github.com/nexobuy/nexobuy-backend/pkg/logger"
	"github.com/nexobuy/nexobuy-backend/pkg/metrics"
	"github.com/nexobuy/nexobuy-backend/pkg/redis"
)

// Deps bundles everything the HTTP surface needs.
type Deps struct {
	Config      *config.Config
	Logger      *logger.Logger
	DB          db.Pinger
	Redis       *redis.Client
	Sessions    session.AccessSessionChecker
	HTTPMetrics *metrics.HTTPMetrics
	Gatherer    prometheus.Gatherer

	Auth       authsvc.Service
	Products   productsvc.Service
	Pricing    pricingsvc.Service
	Orders     ordersvc.Service
	OrderItems itemsvc.Service
	Invoices   invoicesvc.Service
	Documents  docsvc.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)
	if deps.HTTPMetrics != nil {
		r.Use(middleware.Metrics(deps.HTTPMetrics))
	}

	readiness := map[string]controllers.Pinger{}
	if deps.DB != nil {
		readiness["database"] = deps.DB
	}
	if deps.Redis != nil {
		readiness["redis"] = deps.Redis
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readiness))
	})

	if deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	loginPolicy := middleware.LoginRateLimitPolicy{
		Window:     cfg.RateLimit.LoginWindow,
		IPLimit:    cfg.RateLimit.LoginIPLimit,
		EmailLimit: cfg.RateLimit.LoginEmailLimit,
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.LoginRateLimit(loginPolicy, deps.Redis, logg)).Post("/login", controllers.Login(deps.Auth, logg))
		r.Post("/refresh", controllers.Refresh(deps.Auth, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))
			r.Post("/logout", controllers.Logout(deps.Auth, logg))
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))

		r.Get("/units", controllers.ListUnits(deps.Products, logg))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ListProducts(deps.Products, logg))
			r.Get("/{productId}", controllers.GetProduct(deps.Products, logg))

			r.Group(func(r chi.Router) {
				r.Use(
					middleware.RequireOrgType(enums.OrgTypeVendor, logg),
					middleware.RequireAdministrative(logg),
				)
				r.Post("/", controllers.CreateProduct(deps.Products, logg))
				r.Patch("/{productId}", controllers.UpdateProduct(deps.Products, logg))
			})
		})

		r.Route("/pricing", func(r chi.Router) {
			r.Post("/preview", controllers.PreviewPrice(deps.Pricing, logg))

			r.Group(func(r chi.Router) {
				r.Use(
					middleware.RequireOrgType(enums.OrgTypeVendor, logg),
					middleware.RequireAdministrative(logg),
				)
				r.Route("/products/{productId}/zones", func(r chi.Router) {
					r.Get("/", controllers.ListZoneRules(deps.Pricing, logg))
					r.Post("/", controllers.CreateZoneRule(deps.Pricing, logg))
				})
				r.Route("/products/{productId}/tiers", func(r chi.Router) {
					r.Get("/", controllers.ListTierRules(deps.Pricing, logg))
					r.Post("/", controllers.CreateTierRule(deps.Pricing, logg))
				})
				r.Put("/zones/{ruleId}", controllers.UpdateZoneRule(deps.Pricing, logg))
				r.Delete("/zones/{ruleId}", controllers.DeleteZoneRule(deps.Pricing, logg))
				r.Put("/tiers/{ruleId}", controllers.UpdateTierRule(deps.Pricing, logg))
				r.Delete("/tiers/{ruleId}", controllers.DeleteTierRule(deps.Pricing, logg))
			})
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.ListOrders(deps.Orders, logg))
			r.Get("/{orderId}", controllers.GetOrder(deps.Orders, logg))

			r.Group(func(r chi.Router) {
				r.Use(
					middleware.RequireOrgType(enums.OrgTypeCompany, logg),
					middleware.RequireAdministrative(logg),
				)
				r.Post("/", controllers.CreateOrder(deps.Orders, logg))
				r.Patch("/{orderId}/status", controllers.UpdateOrderStatus(deps.Orders, logg))
			})
		})

		r.Route("/order-items", func(r chi.Router) {
			r.Get("/", controllers.ListOrderItems(deps.OrderItems, logg))
			r.Get("/{itemId}", controllers.GetOrderItem(deps.OrderItems, logg))
			r.Get("/{itemId}/history", controllers.OrderItemHistory(deps.OrderItems, logg))

			r.Group(func(r chi.Router) {
				r.Use(
					middleware.RequireOrgType(enums.OrgTypeCompany, logg),
					middleware.RequireAdministrative(logg),
				)
				r.Post("/", controllers.CreateOrderItem(deps.OrderItems, logg))
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireOrgType(enums.OrgTypeVendor, logg))
				r.Put("/{itemId}/status", controllers.UpdateOrderItemStatus(deps.OrderItems, logg))
			})

			r.Group(func(r chi.Router) {
				r.Use(
					middleware.RequireOrgType(enums.OrgTypeVendor, logg),
					middleware.RequireAdministrative(logg),
				)
				r.Put("/{itemId}/override-price", controllers.OverrideOrderItemPrice(deps.OrderItems, logg))
			})
		})

		r.Route("/invoices", func(r chi.Router) {
			r.Use(middleware.RequireAdministrative(logg))
			r.Get("/", controllers.ListInvoices(deps.Invoices, logg))
			r.Get("/{invoiceId}", controllers.GetInvoice(deps.Invoices, logg))
			r.Post("/", controllers.CreateInvoice(deps.Invoices, logg))
			r.Delete("/{invoiceId}", controllers.DeleteInvoice(deps.Invoices, logg))
		})

		r.Route("/documents", func(r chi.Router) {
			r.Use(middleware.RequireAdministrative(logg))
			r.Get("/", controllers.ListDocuments(deps.Documents, logg))
			r.Get("/{documentId}", controllers.GetDocument(deps.Documents, logg))
			r.Post("/", controllers.CreateDocument(deps.Documents, logg))
			r.Delete("/{documentId}", controllers.DeleteDocument(deps.Documents, logg))
		})
	})

	return r
}
