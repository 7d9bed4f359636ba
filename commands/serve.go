package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/cobra"

	"inventory/advisor"
	"inventory/config"
	"inventory/database"
	"inventory/events"
	"inventory/handlers"
	"inventory/logging"
	"inventory/metrics"
	"inventory/middleware"
	"inventory/routes"
)

const shutdownTimeout = 10 * time.Second

func serveCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	logger, err := logging.NewFromConfig(cfg.Logging)
	if err != nil {
		return err
	}
	logging.SetGlobal(logger)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := database.Open(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	publisher, err := events.Open(cfg.Events)
	if err != nil {
		return fmt.Errorf("connect events: %w", err)
	}
	defer publisher.Close()

	adv, err := advisor.Open(ctx, cfg.Advisor)
	if err != nil {
		return fmt.Errorf("create advisor: %w", err)
	}
	defer adv.Close()

	m := metrics.New()
	h := handlers.New(handlers.Options{
		Store:     store,
		Logger:    logger,
		Metrics:   m,
		Events:    publisher,
		Advisor:   adv,
		JWTSecret: []byte(cfg.Auth.JWTSecret),
		TokenTTL:  cfg.Auth.TokenTTL,
	})

	app := newApp(cfg.Server, logger, m)
	routes.SetupRoutes(app, h, []byte(cfg.Auth.JWTSecret), m)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting server", "address", cfg.Server.Address, "driver", cfg.Database.Driver)
		errCh <- app.Listen(cfg.Server.Address)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	return app.ShutdownWithTimeout(shutdownTimeout)
}

func newApp(cfg config.ServerConfig, logger *logging.Logger, m *metrics.Metrics) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               appName,
		ErrorHandler:          middleware.ErrorHandler(logger),
		ReadTimeout:           cfg.ReadTimeout,
		WriteTimeout:          cfg.WriteTimeout,
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{AllowOrigins: cfg.AllowOrigins}))
	app.Use(middleware.RequestLogger(logger, m))
	return app
}
