package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang-quant-dashboard/internal/dashboard/config"
	delivery "golang-quant-dashboard/internal/dashboard/delivery/http"
	"golang-quant-dashboard/internal/dashboard/delivery/scheduler"
	_ "golang-quant-dashboard/internal/dashboard/docs"
	"golang-quant-dashboard/internal/dashboard/repository"
	"golang-quant-dashboard/internal/dashboard/service"
	"golang-quant-dashboard/pkg/logger"
	"golang-quant-dashboard/pkg/telegram"
	"golang-quant-dashboard/pkg/utils"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
	swagger "github.com/swaggo/echo-swagger"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the dashboard service",
	Run:   runServe,
}

func runServe(cmd *cobra.Command, args []string) {
	// Create a context that is canceled on interrupt signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	appLogger.Info("Starting Dashboard Service",
		logger.Field("name", cfg.App.Name),
		logger.Field("storage", cfg.Storage.Driver),
	)

	// Initialize storage
	store, closeStore, err := openStore(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize storage", logger.ErrorField(err))
	}
	defer closeStore()

	// Initialize AI provider; without one every insight resolves to its fallback text
	aiRepo, err := newAIRepository(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Warn("AI provider unavailable, serving fallback insights", logger.ErrorField(err))
		aiRepo = repository.NewUnavailableAIRepository(err)
	}

	// Initialize notifier
	notifier := telegram.NewNop()
	if cfg.Telegram.BotToken != "" {
		notifier, err = telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			appLogger.Fatal("Failed to initialize telegram", logger.ErrorField(err))
		}
	}

	// Initialize repositories
	stocksRepo := repository.NewStocksRepository()
	portfolioRepo := repository.NewPortfolioRepository(store, cfg.Storage.PortfolioKey)

	// Initialize services
	policy, err := service.ParseStaleInsightPolicy(cfg.View.StaleInsightPolicy)
	if err != nil {
		appLogger.Fatal("Invalid view configuration", logger.ErrorField(err))
	}
	loc, err := cfg.View.Location()
	if err != nil {
		appLogger.Fatal("Invalid view configuration", logger.ErrorField(err))
	}
	clock := utils.ClockIn(loc)

	generator := service.NewSeriesGenerator(service.WithClock(clock))
	insightSvc := service.NewInsightService(aiRepo, cfg.Gemini, appLogger)
	portfolioSvc := service.NewPortfolioService(portfolioRepo, stocksRepo, clock, appLogger)
	if err := portfolioSvc.Load(ctx); err != nil {
		appLogger.Error("Portfolio could not be loaded, starting empty", logger.ErrorField(err))
	}
	controller := service.NewViewController(stocksRepo, generator, insightSvc, portfolioSvc, policy, cfg.View.LoginDelay, appLogger)
	educationSvc := service.NewEducationService(insightSvc)
	analyticsSvc := service.NewAnalyticsService(stocksRepo, nil)
	backtestSvc := service.NewBacktestService(nil, appLogger)
	digestSvc := service.NewDigestService(portfolioSvc, notifier, clock, appLogger)
	pipelineSvc := service.NewPipelineService(nil, cfg.Pipeline.EpochInterval, appLogger)

	controller.Start(ctx)

	// Start digest schedule
	var digestJob *scheduler.DigestJob
	if cfg.Digest.Enabled {
		digestJob, err = scheduler.NewDigestJob(cfg.Digest.Cron, loc, digestSvc, appLogger)
		if err != nil {
			appLogger.Fatal("Failed to schedule digest", logger.ErrorField(err))
		}
		digestJob.Start()
	}

	// Initialize Echo server
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(delivery.RequestID())
	e.Use(delivery.RequestLogger(appLogger))

	// Initialize handlers and routes
	delivery.RegisterRoutes(e, delivery.Handlers{
		Stock:     delivery.NewStockHandler(stocksRepo, generator, appLogger),
		View:      delivery.NewViewHandler(controller, appLogger),
		Portfolio: delivery.NewPortfolioHandler(portfolioSvc, appLogger),
		Insight:   delivery.NewInsightHandler(insightSvc, educationSvc, stocksRepo, appLogger),
		Education: delivery.NewEducationHandler(educationSvc, appLogger),
		Analytics: delivery.NewAnalyticsHandler(analyticsSvc, appLogger),
		Backtest:  delivery.NewBacktestHandler(backtestSvc, appLogger),
		Pipeline:  delivery.NewPipelineHandler(pipelineSvc, appLogger),
		Health:    delivery.NewHealthHandler(cfg.Storage.Driver),
	})

	e.GET("/swagger/*", swagger.WrapHandler)

	// Start server
	go func() {
		addr := fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port)
		appLogger.Info("HTTP server starting", logger.Field("address", addr))
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			appLogger.Error("HTTP server failed to start", logger.ErrorField(err))
			stop() // trigger shutdown
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()

	appLogger.Info("Shutting down server...")

	// Gracefully shutdown the server
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if digestJob != nil {
		digestJob.Stop(shutdownCtx)
	}
	if err := e.Shutdown(shutdownCtx); err != nil {
		appLogger.Fatal("Server forced to shutdown", logger.ErrorField(err))
	}
	controller.Wait()
	pipelineSvc.Close()

	appLogger.Info("Server exiting")
}

// @title Quant Dashboard API
// @version 1.0
// @description Mock quantitative trading dashboard: synthetic series, AI insights and a persisted portfolio.
// @BasePath /api/v1
func main() {
	rootCmd := &cobra.Command{Use: "dashboard-service"}

	serveCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config-dashboard.yaml", "Path to the configuration file")

	rootCmd.AddCommand(serveCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing dashboard-service CLI: %s\n", err)
		os.Exit(1)
	}
}
