package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"

	"wishlist-tool-client/internal/common/config"
	apperrors "wishlist-tool-client/internal/common/errors"
	"wishlist-tool-client/internal/common/logger"
	feedService "wishlist-tool-client/internal/features/feed/service"
	sessionService "wishlist-tool-client/internal/features/session/service"
	subscriptionRepo "wishlist-tool-client/internal/features/subscription/repository/http"
	subscriptionService "wishlist-tool-client/internal/features/subscription/service"
	themeRepo "wishlist-tool-client/internal/features/theme/repository"
	themeMemory "wishlist-tool-client/internal/features/theme/repository/memory"
	themeRedis "wishlist-tool-client/internal/features/theme/repository/redis"
	themeService "wishlist-tool-client/internal/features/theme/service"
	userRepo "wishlist-tool-client/internal/features/user/repository/http"
	userService "wishlist-tool-client/internal/features/user/service"
	wishRepo "wishlist-tool-client/internal/features/wish/repository/http"
	wishService "wishlist-tool-client/internal/features/wish/service"
	wishlistRepo "wishlist-tool-client/internal/features/wishlist/repository/http"
	wishlistService "wishlist-tool-client/internal/features/wishlist/service"
	"wishlist-tool-client/internal/platform/api"
	"wishlist-tool-client/internal/platform/redis"
	"wishlist-tool-client/internal/platform/telegram"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load: %v\n", err)
		return 1
	}

	logger.Init("wishlist-client", cfg.Debug)
	defer logger.Close()

	// Метрики клиента
	registry := prometheus.NewRegistry()
	metrics := api.NewMetrics(registry)
	if cfg.Metrics.Addr != "" {
		srv := &http.Server{
			Addr:              cfg.Metrics.Addr,
			Handler:           metricsMux(registry),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			logger.Info().Str("addr", cfg.Metrics.Addr).Msg("Metrics server listening")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error().Err(err).Msg("Metrics server failed")
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	// Клиент API
	var limiter *rate.Limiter
	if cfg.API.RateLimitRPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.API.RateLimitRPS), cfg.API.RateLimitBurst)
	}
	client := api.New(api.Config{
		BaseURL:   cfg.API.BaseURL,
		Timeout:   cfg.API.Timeout,
		AuthToken: cfg.API.AuthToken,
		Limiter:   limiter,
		Metrics:   metrics,
	})

	// Хранилище темы
	store, closeStore, err := openThemeStore(ctx, cfg)
	if err != nil {
		logger.Error().Err(err).Str("store", cfg.Theme.Store).Msg("Failed to open theme store")
		return 1
	}
	defer closeStore()

	// Репозитории
	users := userRepo.NewUserRepository(client)
	wishlists := wishlistRepo.NewWishlistRepository(client)
	wishes := wishRepo.NewWishRepository(client)
	subscriptions := subscriptionRepo.NewSubscriptionRepository(client)

	// Сервисы
	state := themeService.NewState(store)
	engine := wishService.NewEngine(wishes, wishlists)
	wishlistSvc := wishlistService.NewWishlistService(wishlists)
	feedSvc := feedService.NewFeedService(subscriptions, wishes)
	userSvc := userService.NewUserService(users, wishlists, wishes)
	subscriptionSvc := subscriptionService.NewSubscriptionService(subscriptions)

	launch, err := telegram.NewParser(cfg.Telegram.BotToken, cfg.Telegram.InitDataTTL).
		Launch(cfg.Telegram.InitData, cfg.Telegram.ColorScheme, cfg.Telegram.BgColor)
	if err != nil {
		fmt.Fprintln(os.Stderr, apperrors.Handle(err, "launch", cfg.Locale))
		return 1
	}

	boot := sessionService.NewBootstrapper(users, state, *launch)
	session, err := boot.Run(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, apperrors.Handle(err, "bootstrap", cfg.Locale))
		return 1
	}

	app := &app{
		cfg:       cfg,
		launch:    launch,
		session:   session,
		boot:      boot,
		wishes:    wishes,
		wishlists: wishlistSvc,
		engine:    engine,
		feed:      feedSvc,
		users:     userSvc,
		follows:   subscriptionSvc,
		out:       os.Stdout,
	}
	if err := app.dispatch(ctx, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, apperrors.Handle(err, "command", cfg.Locale))
		return 1
	}
	return 0
}

func metricsMux(g prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", api.Handler(g))
	return mux
}

func openThemeStore(ctx context.Context, cfg *config.Config) (themeRepo.Store, func(), error) {
	if cfg.Theme.Store != "redis" {
		return themeMemory.NewThemeRepository(), func() {}, nil
	}
	rdb, err := redis.OpenFromConfig(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	logger.Info().Str("addr", cfg.RedisAddr()).Msg("Redis connection established")
	return themeRedis.NewThemeRepository(rdb, cfg.Theme.StorageKey), func() { _ = rdb.Close() }, nil
}
