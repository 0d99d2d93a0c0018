package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humaecho"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/tgrenier/marketly/internal/api/handlers"
	"github.com/tgrenier/marketly/internal/api/middleware"
	"github.com/tgrenier/marketly/internal/cache/memory"
	"github.com/tgrenier/marketly/internal/config"
	"github.com/tgrenier/marketly/internal/connector"
	"github.com/tgrenier/marketly/internal/connector/ebay"
	"github.com/tgrenier/marketly/internal/connector/kijiji"
	"github.com/tgrenier/marketly/internal/search"
	"github.com/tgrenier/marketly/internal/store"
	"github.com/tgrenier/marketly/pkg/logger"
	domain "github.com/tgrenier/marketly/pkg/types"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	if !cfg.Ebay.HasCredentials() {
		log.Warn("ebay credentials not configured; ebay searches will return empty results")
	}

	registry := buildRegistry(cfg, log)

	svc := search.NewService(
		registry,
		memory.New[[]domain.Listing](),
		search.WithCacheTTL(cfg.Search.CacheTTL),
		search.WithMaxLimit(cfg.Search.MaxLimit),
		search.WithLogger(log),
	)

	// The database is optional: without it only saved searches are off.
	var st store.Store
	if cfg.Database.Enabled() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		pg, err := store.NewPostgresStore(ctx, cfg.Database.DSN())
		cancel()
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		defer pg.Close()

		if err := pg.Migrate(context.Background()); err != nil {
			return fmt.Errorf("migrating database: %w", err)
		}
		st = pg
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	e.Use(middleware.Recovery(log))
	e.Use(middleware.RequestLog(log))
	e.Use(middleware.Metrics())

	health := handlers.NewHealthHandler(st)
	e.GET("/healthz", health.Healthz)
	e.GET("/readyz", health.Readyz)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := humaecho.New(e, huma.DefaultConfig("Marketly API", Version))
	handlers.RegisterSearchRoutes(api, handlers.NewSearchHandler(svc))
	handlers.RegisterSourcesRoutes(api, handlers.NewSourcesHandler(svc))
	if st != nil {
		handlers.RegisterSavedSearchRoutes(api, handlers.NewSavedSearchHandler(st, svc))
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Info("starting server",
		"addr", addr,
		"sources", registry.Sources(),
		"max_limit", svc.MaxLimit(),
	)

	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}

	log.Info("server stopped")
	return nil
}

// buildRegistry wires one connector per marketplace from config.
func buildRegistry(cfg *config.Config, log *slog.Logger) *connector.Registry {
	tokens := ebay.NewOAuthTokenProvider(
		cfg.Ebay.ClientID,
		cfg.Ebay.ClientSecret,
		ebay.WithTokenURL(cfg.Ebay.TokenURL),
		ebay.WithScope(cfg.Ebay.Scope),
		ebay.WithHTTPClient(&http.Client{Timeout: cfg.Ebay.Timeout}),
	)

	browse := ebay.NewBrowseClient(
		tokens,
		ebay.WithBrowseURL(cfg.Ebay.BrowseURL),
		ebay.WithMarketplace(cfg.Ebay.Marketplace),
		ebay.WithBrowseHTTPClient(&http.Client{Timeout: cfg.Ebay.Timeout}),
		ebay.WithRateLimiter(ebay.NewRateLimiter(
			cfg.Ebay.RateLimit.PerSecond,
			cfg.Ebay.RateLimit.Burst,
			cfg.Ebay.RateLimit.DailyLimit,
		)),
	)

	fetcher := kijiji.NewHTTPFetcher(
		kijiji.WithFetchTimeout(cfg.Kijiji.Timeout),
		kijiji.WithUserAgent(cfg.Kijiji.UserAgent),
	)

	return connector.NewRegistry(
		ebay.NewConnector(browse, ebay.WithLogger(log)),
		kijiji.NewConnector(
			fetcher,
			kijiji.WithBaseURL(cfg.Kijiji.BaseURL),
			kijiji.WithRegion(cfg.Kijiji.Region),
			kijiji.WithFallbackScraper(cfg.Kijiji.UseFallbackScraper),
			kijiji.WithLogger(log),
		),
	)
}
