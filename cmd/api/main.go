package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/ajdelacruz/saristore-backend/api/routes"
	"github.com/ajdelacruz/saristore-backend/internal/auth"
	"github.com/ajdelacruz/saristore-backend/internal/cart"
	"github.com/ajdelacruz/saristore-backend/internal/catalog"
	"github.com/ajdelacruz/saristore-backend/internal/chat"
	checkoutsvc "github.com/ajdelacruz/saristore-backend/internal/checkout"
	"github.com/ajdelacruz/saristore-backend/internal/insights"
	"github.com/ajdelacruz/saristore-backend/internal/notifications"
	"github.com/ajdelacruz/saristore-backend/internal/orders"
	"github.com/ajdelacruz/saristore-backend/internal/reports"
	"github.com/ajdelacruz/saristore-backend/internal/storefront"
	"github.com/ajdelacruz/saristore-backend/internal/stores"
	"github.com/ajdelacruz/saristore-backend/internal/users"
	"github.com/ajdelacruz/saristore-backend/pkg/auth/session"
	"github.com/ajdelacruz/saristore-backend/pkg/config"
	"github.com/ajdelacruz/saristore-backend/pkg/db"
	"github.com/ajdelacruz/saristore-backend/pkg/gemini"
	"github.com/ajdelacruz/saristore-backend/pkg/logger"
	"github.com/ajdelacruz/saristore-backend/pkg/mailer"
	"github.com/ajdelacruz/saristore-backend/pkg/metrics"
	"github.com/ajdelacruz/saristore-backend/pkg/migrate"
	"github.com/ajdelacruz/saristore-backend/pkg/redis"
	"github.com/ajdelacruz/saristore-backend/pkg/secrets"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	var mail mailer.Sender
	if cfg.Mail.SMTPHost != "" {
		mail, err = mailer.New(cfg.Mail)
		if err != nil {
			logg.Error(context.Background(), "failed to create mailer", err)
			os.Exit(1)
		}
	} else {
		logg.Warn(context.Background(), "smtp not configured, dropping outgoing mail")
		mail = mailer.NoopMailer{}
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	aiMetrics := metrics.NewAIMetrics(registry)
	checkoutMetrics := metrics.NewCheckoutMetrics(registry)

	usersRepo := users.NewRepository(dbClient.DB())
	storesRepo := stores.NewRepository(dbClient.DB())
	catalogRepo := catalog.NewRepository(dbClient.DB())
	ordersRepo := orders.NewRepository(dbClient.DB())
	chatRepo := chat.NewRepository(dbClient.DB())

	notificationsService, err := notifications.NewService(notifications.NewRepository(dbClient.DB()))
	exitOn(logg, "notifications service", err)

	verificationService, err := auth.NewVerificationService(usersRepo, mail)
	exitOn(logg, "verification service", err)

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       usersRepo,
		StoreRepo:      storesRepo,
		SessionManager: sessionManager,
		Verification:   verificationService,
		JWTConfig:      cfg.JWT,
	})
	exitOn(logg, "auth service", err)

	registerService, err := auth.NewRegisterService(auth.RegisterServiceParams{
		DB:             dbClient,
		Mailer:         mail,
		PasswordConfig: cfg.Password,
	})
	exitOn(logg, "register service", err)

	storeService, err := stores.NewService(storesRepo)
	exitOn(logg, "store service", err)

	catalogService, err := catalog.NewService(catalogRepo, dbClient)
	exitOn(logg, "catalog service", err)

	storefrontService, err := storefront.NewService(catalogRepo, storesRepo)
	exitOn(logg, "storefront service", err)

	cartStore, err := cart.NewStore(redisClient, cfg.Cart.TTL)
	exitOn(logg, "cart store", err)

	cartService, err := cart.NewService(cartStore, catalogRepo, notificationsService)
	exitOn(logg, "cart service", err)

	checkoutService, err := checkoutsvc.NewService(dbClient, cartService, catalogRepo, ordersRepo, notificationsService, checkoutMetrics)
	exitOn(logg, "checkout service", err)

	chatService, err := chat.NewService(chatRepo, notificationsService)
	exitOn(logg, "chat service", err)

	reportsService, err := reports.NewService(dbClient, ordersRepo, catalogRepo, storesRepo)
	exitOn(logg, "reports service", err)

	// Sari is optional: without API keys the rest of the app still
	// serves, the AI endpoints just report unavailable.
	var insightsService insights.Service
	keyPool := secrets.NewKeyPool(cfg.Gemini.Keys)
	if keyPool.Size() > 0 {
		geminiClient, err := gemini.NewClient(cfg.Gemini, keyPool)
		exitOn(logg, "gemini client", err)

		insightsService, err = insights.NewService(geminiClient, catalogRepo, ordersRepo, storesRepo, chatService, catalogService, aiMetrics)
		exitOn(logg, "insights service", err)
	} else {
		logg.Warn(context.Background(), "no gemini api keys configured, ai endpoints disabled")
	}

	handler := routes.NewRouter(routes.Deps{
		Config:   cfg,
		Logger:   logg,
		DB:       dbClient,
		Redis:    redisClient,
		Registry: registry,

		Sessions: sessionManager,

		AuthService:         authService,
		RegisterService:     registerService,
		VerificationService: verificationService,

		UsersRepo:     usersRepo,
		StoreService:  storeService,
		CatalogSvc:    catalogService,
		Storefront:    storefrontService,
		CartService:   cartService,
		Checkout:      checkoutService,
		ChatService:   chatService,
		Insights:      insightsService,
		Notifications: notificationsService,
		Reports:       reportsService,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-stop:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
			os.Exit(1)
		}
	}
}

func exitOn(logg *logger.Logger, what string, err error) {
	if err != nil {
		logg.Error(context.Background(), "failed to create "+what, err)
		os.Exit(1)
	}
}
