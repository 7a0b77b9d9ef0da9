package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/atendesk/helpdesk/internal/api/http"
	"github.com/atendesk/helpdesk/internal/api/http/handlers"
	"github.com/atendesk/helpdesk/internal/auth"
	"github.com/atendesk/helpdesk/internal/config"
	"github.com/atendesk/helpdesk/internal/events"
	"github.com/atendesk/helpdesk/internal/observability"
	"github.com/atendesk/helpdesk/internal/persistence"
	"github.com/atendesk/helpdesk/internal/realtime"
	"github.com/atendesk/helpdesk/internal/repository"
	"github.com/atendesk/helpdesk/internal/service"
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

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	sectorRepo := repository.NewSectorRepository(pool)
	subjectRepo := repository.NewSubjectRepository(pool)
	statusRepo := repository.NewStatusRepository(pool)
	priorityRepo := repository.NewPriorityRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)
	messageRepo := repository.NewTicketMessageRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()

	authService := service.NewAuthService(cfg.Auth, userRepo, logger)
	userAdminService := service.NewUserAdminService(userRepo, cfg.Auth.BcryptCost)
	referenceService := service.NewReferenceService(sectorRepo, subjectRepo, statusRepo, priorityRepo)
	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:   ticketRepo,
		MessageRepo:  messageRepo,
		StatusRepo:   statusRepo,
		SectorRepo:   sectorRepo,
		SubjectRepo:  subjectRepo,
		PriorityRepo: priorityRepo,
		UserRepo:     userRepo,
		Dispatcher:   dispatcher,
	})
	dashboardService := service.NewDashboardService(ticketRepo, statusRepo)

	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	notificationService.RegisterHandlers()

	hub := realtime.NewHub(logger)
	broadcaster := realtime.NewBroadcaster(hub, redis.Client, logger)
	broadcaster.RegisterHandlers(dispatcher)
	go broadcaster.Run(ctx)

	if err := authService.EnsureBootstrapAdmin(ctx, cfg.Auth.BootstrapUsername, cfg.Auth.BootstrapPassword); err != nil {
		logger.Fatal("failed to ensure bootstrap admin", zap.Error(err))
	}

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo)
	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Tickets:        handlers.NewTicketsHandler(ticketService),
		Dashboard:      handlers.NewDashboardHandler(dashboardService),
		Users:          handlers.NewUsersHandler(userAdminService),
		References:     handlers.NewReferencesHandler(referenceService),
		Realtime:       handlers.NewRealtimeHandler(hub, ticketService, logger),
		AuthMiddleware: authMiddleware,
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
