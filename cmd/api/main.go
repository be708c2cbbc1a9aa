package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/garage-scheduler/internal/api/http"
	"github.com/spec-kit/garage-scheduler/internal/api/http/handlers"
	"github.com/spec-kit/garage-scheduler/internal/auth"
	"github.com/spec-kit/garage-scheduler/internal/config"
	"github.com/spec-kit/garage-scheduler/internal/events"
	"github.com/spec-kit/garage-scheduler/internal/observability"
	"github.com/spec-kit/garage-scheduler/internal/persistence"
	"github.com/spec-kit/garage-scheduler/internal/repository"
	"github.com/spec-kit/garage-scheduler/internal/service"
	"github.com/spec-kit/garage-scheduler/internal/storage"
	"github.com/spec-kit/garage-scheduler/internal/worker"
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

	uploads, err := storage.NewUploadStore(cfg.Uploads)
	if err != nil {
		logger.Fatal("failed to init upload store", zap.Error(err))
	}

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	appointmentRepo := repository.NewAppointmentRepository(pool)
	notificationRepo := repository.NewNotificationRepository(pool)
	profileRepo := repository.NewMechanicProfileRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()

	authService := service.NewAuthService(*cfg, userRepo)
	appointmentService := service.NewAppointmentService(service.AppointmentDependencies{
		AppointmentRepo: appointmentRepo,
		UserRepo:        userRepo,
		Dispatcher:      dispatcher,
	})
	assignmentService := service.NewAssignmentService(service.AssignmentDependencies{
		ProfileRepo:     profileRepo,
		AppointmentRepo: appointmentRepo,
		UserRepo:        userRepo,
	})
	notificationService := service.NewNotificationService(notificationRepo, userRepo, dispatcher, redis.Client, logger)
	worker.StartNotificationWorker(notificationService)

	sessionMiddleware := auth.NewSessionMiddleware(authService.TokenManager(), userRepo, cfg.Auth.CookieName)

	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:        handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:          handlers.NewAuthHandler(authService, uploads, cfg.Auth.CookieName),
		Dashboard:     handlers.NewDashboardHandler(authService, appointmentService, notificationService, uploads, cfg.Auth.CookieName),
		Appointments:  handlers.NewAppointmentsHandler(appointmentService, assignmentService),
		Notifications: handlers.NewNotificationsHandler(notificationService),
		Session:       sessionMiddleware,
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
