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

	"go.uber.org/zap"

	"github.com/gauravkeywords/gameloft/internal/app"
	"github.com/gauravkeywords/gameloft/internal/config"
	logpkg "github.com/gauravkeywords/gameloft/internal/logger"
	chiTransport "github.com/gauravkeywords/gameloft/internal/transport/chi"
	mcpTransport "github.com/gauravkeywords/gameloft/internal/transport/mcp"
	"github.com/gauravkeywords/gameloft/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting newsrank API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Bool("mcp", cfg.MCP.Enabled),
	)

	a, err := app.New(context.Background(), cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize", zap.Error(err))
	}
	defer a.Close()

	server := chiTransport.NewServer(a.Search, a.Health,
		time.Duration(cfg.HTTP.RequestTimeoutSec)*time.Second, logger)

	routerOpts := chiTransport.RouterOptions{APIKeys: cfg.Auth.APIKeys}
	if cfg.MCP.Enabled {
		threshold := cfg.MCP.DefaultThreshold
		if threshold == nil {
			d := a.Search.Defaults().Threshold
			threshold = &d
		}
		mcpServer := mcpTransport.NewServer(a.Search, a.Health, mcpTransport.Config{DefaultThreshold: threshold}, logger)
		routerOpts.MCPPath = cfg.MCP.Path
		routerOpts.MCPHandler = mcpTransport.Handler(mcpServer)
	}
	r := chiTransport.NewRouter(server, routerOpts, logger)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		ReadTimeout:       time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout:      time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}
