package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/insightdelivered/statement-analyzer/internal/api"
	"github.com/insightdelivered/statement-analyzer/internal/config"
	"github.com/insightdelivered/statement-analyzer/internal/pipeline"
	"github.com/insightdelivered/statement-analyzer/internal/store"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("failed to load configuration: %v", err)
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logger.Warnf("unknown log level %q, using info", cfg.LogLevel)
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	st, err := store.Open(cfg.DatabasePath)
	if err != nil {
		logger.Fatalf("failed to open store: %v", err)
	}

	handler := &api.Handler{
		Log:   logger,
		Store: st,
		Pipe:  pipeline.New(logger),
	}

	app := fiber.New(fiber.Config{
		AppName: "statement-analyzer",
	})
	handler.Register(app)

	go func() {
		logger.WithField("addr", cfg.ListenAddr).Info("starting server")
		if err := app.Listen(cfg.ListenAddr); err != nil {
			logger.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	if err := app.Shutdown(); err != nil {
		logger.Errorf("shutdown error: %v", err)
	}
	logger.Info("server stopped")
}
