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

	"hospital-or-scheduling/internal/cache"
	"hospital-or-scheduling/internal/config"
	"hospital-or-scheduling/internal/database"
	"hospital-or-scheduling/internal/events"
	"hospital-or-scheduling/internal/handler"
	"hospital-or-scheduling/internal/logger"
	"hospital-or-scheduling/internal/repository"
	"hospital-or-scheduling/internal/service"
	"hospital-or-scheduling/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	log, err := logger.New(os.Getenv("APP_ENV"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	rootCmd := &cobra.Command{
		Use:          "or-scheduler",
		Short:        "Operating room scheduling API",
		SilenceUsage: true,
	}
	rootCmd.AddCommand(serveCmd(log))
	rootCmd.AddCommand(migrateCmd(log))

	if err := rootCmd.Execute(); err != nil {
		log.Error("command failed", zap.Error(err))
		os.Exit(1)
	}
}

func serveCmd(log *zap.Logger) *cobra.Command {
	var migrate bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server and the room status worker",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServer(ctx, config.LoadConfig(log), log, migrate)
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", false, "Apply pending migrations before serving")
	return cmd
}

func migrateCmd(log *zap.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	run := func(action func(ctx context.Context, m *database.Migrator) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := config.LoadConfig(log)
			db, err := database.Connect(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer func() { _ = database.Close(db) }()

			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			migrator, err := database.NewMigrator(sqlDB, log)
			if err != nil {
				return err
			}
			return action(ctx, migrator)
		}
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE:  run(func(ctx context.Context, m *database.Migrator) error { return m.Up(ctx) }),
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the latest migration",
		RunE:  run(func(ctx context.Context, m *database.Migrator) error { return m.Down(ctx) }),
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE:  run(func(ctx context.Context, m *database.Migrator) error { return m.Status(ctx) }),
	})
	return cmd
}

func runServer(ctx context.Context, cfg *config.Config, log *zap.Logger, migrate bool) error {
	log.Info("configuration loaded", zap.String("env", cfg.Server.Env), zap.String("port", cfg.Server.Port))

	db, err := database.Connect(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() { _ = database.Close(db) }()

	if migrate {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		migrator, err := database.NewMigrator(sqlDB, log)
		if err != nil {
			return err
		}
		if err := migrator.Up(ctx); err != nil {
			return err
		}
	}

	store := repository.NewStore(db)
	tokens := utils.NewTokenManager(cfg.JWT.AccessSecret, cfg.JWT.AccessTokenExpiry, cfg.JWT.RefreshTokenExpiry)

	deps := service.SchedulingDeps{
		Store:        store,
		SurgeryTopic: cfg.Kafka.SurgeryTopic,
		HoldTTL:      cfg.Redis.HoldTTL,
		Location:     cfg.Schedule.Location(),
		Log:          log,
	}

	if cfg.Redis.Addr != "" {
		slots := cache.NewSlotCache(cfg.Redis)
		defer func() { _ = slots.Close() }()
		if err := slots.Ping(ctx); err != nil {
			return fmt.Errorf("redis ping: %w", err)
		}
		deps.Locker = slots
		log.Info("booking slot holds enabled", zap.String("redis", cfg.Redis.Addr))
	}

	if len(cfg.Kafka.Brokers) > 0 {
		producer := events.NewProducer(cfg.Kafka.Brokers, log)
		defer func() { _ = producer.Close() }()
		deps.Events = producer
		log.Info("surgery events enabled", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.SurgeryTopic))
	}

	doctorRepo := repository.NewDoctorRepo(db)
	auditRepo := repository.NewAuditRepo(db)

	roomService := service.NewRoomService(deps)
	workerService := service.NewWorkerService(roomService, cfg.Schedule.ReconcileInterval, log)

	gin.SetMode(cfg.Server.GinMode)
	router, err := handler.NewRouter(cfg, handler.Services{
		Auth:          service.NewAuthService(doctorRepo, auditRepo, tokens),
		Schedule:      service.NewScheduleService(deps),
		Surgeries:     service.NewSurgeryService(deps),
		Rooms:         roomService,
		Patients:      service.NewPatientService(store, auditRepo),
		Doctors:       service.NewDoctorService(store, cfg.Schedule.Location()),
		Notifications: service.NewNotificationService(repository.NewNotificationRepo(db)),
		DB:            store,
	}, tokens, log)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		workerService.Start(gctx)
		return nil
	})
	g.Go(func() error {
		log.Info("server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info("server exited")
	return nil
}
