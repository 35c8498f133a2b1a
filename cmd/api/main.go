package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/holidaysri/promo-api/internal/config"
	"github.com/holidaysri/promo-api/internal/domain/agent"
	"github.com/holidaysri/promo-api/internal/domain/booking"
	"github.com/holidaysri/promo-api/internal/domain/discount"
	"github.com/holidaysri/promo-api/internal/domain/earning"
	"github.com/holidaysri/promo-api/internal/domain/notification"
	"github.com/holidaysri/promo-api/internal/domain/tier"
	"github.com/holidaysri/promo-api/internal/domain/wallet"
	"github.com/holidaysri/promo-api/internal/middleware"
	"github.com/holidaysri/promo-api/internal/pkg/database"
	"github.com/holidaysri/promo-api/internal/pkg/jwt"
	"github.com/holidaysri/promo-api/internal/pkg/logger"
	"github.com/holidaysri/promo-api/internal/pkg/response"
)

func main() {
	cfg := config.Load()

	if err := logger.Init(logger.Config{Level: cfg.LogLevel, Environment: cfg.Env}); err != nil {
		log.Fatal().Err(err).Msg("failed to init logger")
	}

	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer database.ClosePostgres(db)

	redisClient, err := database.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, catalog cache disabled")
	}
	defer database.CloseRedis(redisClient)

	jwtService := jwt.NewService(cfg.JWTSecret, cfg.JWTAccessTTL)

	// Repositories
	tierRepo := tier.NewRepository(db)
	walletRepo := wallet.NewRepository(db)
	agentRepo := agent.NewRepository(db)
	earningRepo := earning.NewRepository(db)
	bookingRepo := booking.NewRepository(db)
	notificationRepo := notification.NewRepository(db)

	// Services
	catalog := tier.NewCatalog(tierRepo, redisClient, cfg.CatalogCacheTTL)
	notificationSvc := notification.NewService(notificationRepo)
	walletSvc := wallet.NewService(walletRepo)
	agentSvc := agent.NewService(agentRepo, catalog, walletRepo, notificationSvc, cfg.PromoCodeLength)
	discountSvc := discount.NewService(agentSvc, catalog)
	earningSvc := earning.NewService(earningRepo, agentSvc, notificationSvc, cfg.MinClaimThresholdLKR)
	bookingSvc := booking.NewService(bookingRepo, discountSvc, notificationSvc)

	// Handlers
	tierHandler := tier.NewHandler(catalog)
	walletHandler := wallet.NewHandler(walletSvc)
	agentHandler := agent.NewHandler(agentSvc)
	discountHandler := discount.NewHandler(discountSvc)
	earningHandler := earning.NewHandler(earningSvc, agentSvc)
	bookingHandler := booking.NewHandler(bookingSvc)
	notificationHandler := notification.NewHandler(notificationSvc)

	// Background jobs
	expiryWorker := agent.NewExpiryWorker(agentRepo, cfg.AgentExpirySchedule)
	if err := expiryWorker.Start(); err != nil {
		log.Fatal().Err(err).Msg("failed to start agent expiry worker")
	}
	defer expiryWorker.Stop()

	// Router
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recover)
	r.Use(middleware.Logger)
	r.Use(middleware.CORSHandler(cfg.AllowedOrigins))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		response.OK(w, map[string]string{"status": "ok"})
	})

	auth := middleware.Auth(jwtService)
	r.Route("/api/v1", func(r chi.Router) {
		r.Mount("/tiers", tierHandler.Routes())
		r.Mount("/wallets", walletHandler.Routes(auth))
		r.Mount("/agents", agentHandler.Routes(auth))
		r.Mount("/discounts", discountHandler.Routes(auth))
		r.Mount("/earnings", earningHandler.Routes(auth))
		r.Mount("/bookings", bookingHandler.Routes(auth))
		r.Mount("/notifications", notificationHandler.Routes(auth))
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server stopped")
}
