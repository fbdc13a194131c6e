package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/support-pipeline/internal/api/http"
	"github.com/spec-kit/support-pipeline/internal/api/http/handlers"
	"github.com/spec-kit/support-pipeline/internal/auth"
	"github.com/spec-kit/support-pipeline/internal/classifier"
	"github.com/spec-kit/support-pipeline/internal/config"
	"github.com/spec-kit/support-pipeline/internal/events"
	"github.com/spec-kit/support-pipeline/internal/observability"
	"github.com/spec-kit/support-pipeline/internal/persistence"
	"github.com/spec-kit/support-pipeline/internal/repository"
	"github.com/spec-kit/support-pipeline/internal/service"
	"github.com/spec-kit/support-pipeline/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher(logger)

	var ticketRepo repository.TicketRepository
	if pool := pg.PoolHandle(); pool != nil {
		ticketRepo = repository.NewTicketRepository(pool)
	} else {
		ticketRepo = repository.NewMemoryTicketRepository()
	}

	msgClassifier := classifier.New(cfg.Classifier, redis.Client, logger, metrics)
	feedbackService := service.NewFeedbackService(ticketRepo, dispatcher, logger, metrics)
	queryService := service.NewQueryService(ticketRepo, logger, metrics)
	pipelineService := service.NewPipelineService(service.PipelineDependencies{
		Classifier: msgClassifier,
		Feedback:   feedbackService,
		Query:      queryService,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	ticketService := service.NewTicketService(ticketRepo, dispatcher, logger)

	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	tokenManager := auth.NewTokenManager(cfg.Ops.JWTSecret, cfg.Ops.TokenTTLMinutes)
	opsMiddleware := auth.NewOpsMiddleware(tokenManager)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	healthHandler := handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis, metrics)
	messagesHandler := handlers.NewMessagesHandler(pipelineService)
	ticketsHandler := handlers.NewTicketsHandler(ticketService)
	opsHandler, err := handlers.NewOpsHandler(cfg.Ops, tokenManager)
	if err != nil {
		logger.Fatal("failed to init ops handler", zap.Error(err))
	}

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:        healthHandler,
		Messages:      messagesHandler,
		Tickets:       ticketsHandler,
		Ops:           opsHandler,
		OpsMiddleware: opsMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
