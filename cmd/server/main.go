package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"news-retriever/internal/adapter/search_http"
	"news-retriever/internal/di"
	"news-retriever/internal/infra"
	"news-retriever/internal/infra/config"
	"news-retriever/internal/infra/logger"
)

func main() {
	cfg := config.Load()

	ctx := context.Background()

	otelShutdown, err := logger.SetupOTelLogging(ctx, "news-retriever", cfg.Server.Env)
	if err != nil {
		slog.Error("failed to set up otel logging", "error", err)
		os.Exit(1)
	}
	enableOTel := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") != ""
	log := logger.NewWithOTel(enableOTel)
	slog.SetDefault(log)

	dbPool, err := infra.NewPostgresPool(ctx, cfg.DB.DSN(), infra.PoolConfig{
		MaxConns: cfg.DB.MaxConns,
		MinConns: cfg.DB.MinConns,
	})
	if err != nil {
		log.Error("failed to connect to db", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	components, err := di.NewApplicationComponents(cfg, dbPool, log)
	if err != nil {
		log.Error("failed to wire components", "error", err)
		os.Exit(1)
	}
	defer func() {
		if components.ScoreCache != nil {
			_ = components.ScoreCache.Close()
		}
	}()

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(search_http.RequestContext())

	components.Handler.Register(e)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		log.Info("starting server", "addr", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			e.Logger.Fatal("shutting down the server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown failed", "error", err)
	}
	if err := otelShutdown(shutdownCtx); err != nil {
		log.Error("otel shutdown failed", "error", err)
	}
}
