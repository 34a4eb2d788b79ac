package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ajdelacruz/saristore-backend/api/controllers"
	"github.com/ajdelacruz/saristore-backend/api/middleware"
	"github.com/ajdelacruz/saristore-backend/internal/auth"
	"github.com/ajdelacruz/saristore-backend/internal/cart"
	"github.com/ajdelacruz/saristore-backend/internal/catalog"
	"github.com/ajdelacruz/saristore-backend/internal/chat"
	checkoutsvc "github.com/ajdelacruz/saristore-backend/internal/checkout"
	"github.com/ajdelacruz/saristore-backend/internal/insights"
	"github.com/ajdelacruz/saristore-backend/internal/notifications"
	"github.com/ajdelacruz/saristore-backend/internal/reports"
	"github.com/ajdelacruz/saristore-backend/internal/storefront"
	"github.com/ajdelacruz/saristore-backend/internal/stores"
	"github.com/ajdelacruz/saristore-backend/internal/users"
	"github.com/ajdelacruz/saristore-backend/pkg/auth/session"
	"github.com/ajdelacruz/saristore-backend/pkg/config"
	"github.com/ajdelacruz/saristore-backend/pkg/db"
	"github.com/ajdelacruz/saristore-backend/pkg/logger"
	"github.com/ajdelacruz/saristore-backend/pkg/redis"
)

// Deps bundles everything the HTTP surface needs. cmd/api builds one
// after wiring the services.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       db.Pinger
	Redis    redis.Pinger
	Registry *prometheus.Registry

	Sessions session.AccessSessionChecker

	AuthService         auth.Service
	RegisterService     auth.RegisterService
	VerificationService auth.VerificationService

	UsersRepo     *users.Repository
	StoreService  stores.Service
	CatalogSvc    catalog.Service
	Storefront    storefront.Service
	CartService   cart.Service
	Checkout      checkoutsvc.Service
	ChatService   chat.Service
	Insights      insights.Service
	Notifications notifications.Service
	Reports       reports.Service
}

// NewRouter assembles the public shop surface and the authenticated
// seller dashboard behind one chi router.
func NewRouter(d Deps) http.Handler {
	cfg := d.Config
	logg := d.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOriginList()),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, d.DB, d.Redis))
	})

	if d.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/register", controllers.AuthRegister(d.RegisterService, logg))
		r.Post("/verify", controllers.AuthVerifyEmail(d.VerificationService, logg))
		r.Post("/resend", controllers.AuthResendCode(d.VerificationService, logg))
		r.Post("/login", controllers.AuthLogin(d.AuthService, logg))
		r.Post("/logout", controllers.AuthLogout(d.AuthService, cfg.JWT, logg))
		r.Post("/refresh", controllers.AuthRefresh(d.AuthService, logg))
	})

	r.Route("/api/v1/marketplace", func(r chi.Router) {
		r.Get("/stores", controllers.MarketplaceStores(d.Storefront, cfg.JWT, logg))
	})

	r.Route("/api/v1/shop", func(r chi.Router) {
		r.Get("/search/suggestions", controllers.ShopSearchSuggestions(d.Storefront, logg))
		r.Get("/items/{itemID}/logo", controllers.ShopItemLogo(d.Storefront, logg))

		r.Route("/{storeID}", func(r chi.Router) {
			r.Get("/items", controllers.ShopCatalog(d.Storefront, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.CartSession(cfg.Cart.TTL))
				r.Get("/cart", controllers.CartView(d.CartService, logg))
				r.Delete("/cart", controllers.CartClear(d.CartService, logg))
				r.Post("/cart/items", controllers.CartAddItem(d.CartService, logg))
				r.Patch("/cart/items/{itemID}", controllers.CartUpdateItem(d.CartService, logg))
				r.Delete("/cart/items/{itemID}", controllers.CartRemoveItem(d.CartService, logg))
				r.Post("/checkout", controllers.Checkout(d.Checkout, logg))
			})

			r.Get("/orders/{orderID}/receipt", controllers.CheckoutReceipt(d.Checkout, logg))

			r.Post("/chat/messages", controllers.ShopChatSend(d.ChatService, logg))
			r.Get("/chat/messages", controllers.ShopChatThread(d.ChatService, logg))
			r.Post("/chat/ai", controllers.ShopChatAI(d.Insights, logg))
		})
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, d.Sessions, logg))

		r.Route("/api/v1/dashboard", func(r chi.Router) {
			r.Get("/", controllers.DashboardHome(d.StoreService, d.UsersRepo, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireSeller(logg))

				r.Post("/store", controllers.DashboardUpdateStore(d.StoreService, logg))

				r.Route("/items", func(r chi.Router) {
					r.Get("/", controllers.DashboardListItems(d.CatalogSvc, logg))
					r.Post("/", controllers.DashboardCreateItem(d.CatalogSvc, logg))
					r.Post("/swap", controllers.DashboardSwapItems(d.CatalogSvc, logg))
					r.Post("/reindex", controllers.DashboardReindexItems(d.CatalogSvc, logg))
					r.Post("/mass-delete", controllers.DashboardMassDeleteItems(d.CatalogSvc, logg))
					r.Post("/seed", controllers.DashboardSeedItems(d.Insights, logg))
					r.Patch("/{itemID}", controllers.DashboardUpdateItem(d.CatalogSvc, logg))
					r.Delete("/{itemID}", controllers.DashboardDeleteItem(d.CatalogSvc, logg))
					r.Post("/{itemID}/logo", controllers.DashboardUploadItemLogo(d.CatalogSvc, logg))
				})

				r.Get("/insights", controllers.DashboardInsights(d.Insights, logg))

				r.Get("/notifications", controllers.ListNotifications(d.Notifications, logg))
				r.Post("/notifications/clear", controllers.ClearNotifications(d.Notifications, logg))
				r.Post("/notifications/{notificationID}/read", controllers.MarkNotificationRead(d.Notifications, logg))

				r.Get("/chat/messages", controllers.DashboardChatMessages(d.ChatService, logg))
				r.Post("/chat/reply", controllers.DashboardChatReply(d.ChatService, logg))
			})
		})

		r.Route("/api/v1/reports", func(r chi.Router) {
			r.Use(middleware.RequireSeller(logg))

			r.Get("/", controllers.ReportsSummary(d.Reports, logg))
			r.Post("/analyze", controllers.ReportsAnalyze(d.Insights, logg))
			r.Post("/orders/{orderID}/complete", controllers.ReportsCompleteOrder(d.Reports, logg))
			r.Post("/seed-history", controllers.ReportsSeedHistory(d.Reports, logg))
			r.Get("/export/csv", controllers.ReportsExportCSV(d.Reports, logg))
			r.Get("/export/pdf", controllers.ReportsExportPDF(d.Reports, logg))
		})
	})

	return r
}
