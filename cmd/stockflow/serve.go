package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	analyticsH "github.com/fekuna/stockflow-service/internal/analytics/handler"
	analyticsRepo "github.com/fekuna/stockflow-service/internal/analytics/repository"
	analyticsUC "github.com/fekuna/stockflow-service/internal/analytics/usecase"
	"github.com/fekuna/stockflow-service/internal/cache"
	"github.com/fekuna/stockflow-service/internal/database"
	"github.com/fekuna/stockflow-service/internal/events"
	fieldH "github.com/fekuna/stockflow-service/internal/field/handler"
	fieldRepo "github.com/fekuna/stockflow-service/internal/field/repository"
	fieldUC "github.com/fekuna/stockflow-service/internal/field/usecase"
	folderH "github.com/fekuna/stockflow-service/internal/folder/handler"
	folderRepo "github.com/fekuna/stockflow-service/internal/folder/repository"
	folderUC "github.com/fekuna/stockflow-service/internal/folder/usecase"
	"github.com/fekuna/stockflow-service/internal/health"
	productH "github.com/fekuna/stockflow-service/internal/product/handler"
	productRepo "github.com/fekuna/stockflow-service/internal/product/repository"
	productUC "github.com/fekuna/stockflow-service/internal/product/usecase"
	"github.com/fekuna/stockflow-service/internal/server"
	sessionH "github.com/fekuna/stockflow-service/internal/session/handler"
	"github.com/fekuna/stockflow-service/internal/session/reaper"
	sessionRepo "github.com/fekuna/stockflow-service/internal/session/repository"
	sessionUC "github.com/fekuna/stockflow-service/internal/session/usecase"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	shutdownTimeout     = 10 * time.Second
	healthCheckInterval = 15 * time.Second
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

func serve(ctx context.Context) error {
	// 1. Database
	db, err := openDatabase(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()
	appLogger.Info("Connected to database", zap.String("driver", cfg.Database.Driver))

	if _, _, err := database.ApplySchema(ctx, db, cfg.Database.Driver, appLogger); err != nil {
		return err
	}

	// 2. Event fan-out: cache invalidation then Kafka, both optional
	var publishers events.Multi

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient, err = cache.NewRedisClient(ctx, &cache.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			appLogger.Warn("Could not connect to Redis, analytics cache disabled", zap.Error(err))
			redisClient = nil
		} else {
			defer redisClient.Close()
			appLogger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))
		}
	}
	analyticsCache := cache.NewAnalyticsCache(redisClient, cfg.Redis.TTL, appLogger)
	if redisClient != nil {
		publishers = append(publishers, analyticsCache)
	}

	// Kafka goes after the cache so a slow broker never delays invalidation.
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaPublisher := events.NewKafkaPublisher(&events.KafkaConfig{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.Topic,
		})
		defer kafkaPublisher.Close()
		publishers = append(publishers, kafkaPublisher)
		appLogger.Info("Publishing catalog events to Kafka", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))
	}

	var publisher events.Publisher = events.Nop()
	if len(publishers) > 0 {
		publisher = publishers
	}

	// 3. Usecases
	sessions := sessionUC.NewSessionUseCase(sessionRepo.NewSQLRepository(db), cfg.Session.TTL, appLogger)
	if n, err := sessions.CountAdmins(ctx); err != nil {
		appLogger.Warn("Could not count admin accounts", zap.Error(err))
	} else if n == 0 {
		appLogger.Warn("No admin account exists, run stockflow setup")
	}
	folders := folderUC.NewFolderUseCase(folderRepo.NewSQLRepository(db), publisher, appLogger)
	fields := fieldUC.NewFieldUseCase(fieldRepo.NewSQLRepository(db), publisher, appLogger)
	products := productUC.NewProductUseCase(productRepo.NewSQLRepository(db), publisher, appLogger)
	analytics := cache.NewCachedAnalytics(
		analyticsUC.NewAnalyticsUseCase(analyticsRepo.NewSQLRepository(db), appLogger),
		analyticsCache,
	)

	// 4. Background workers
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if cfg.Session.ReapInterval > 0 {
		go reaper.NewSessionReaper(sessions, cfg.Session.ReapInterval, appLogger).Start(ctx)
	}

	var healthServer *health.Server
	errCh := make(chan error, 2)
	if cfg.Server.GRPCPort != "" {
		lis, err := net.Listen("tcp", listenAddr(cfg.Server.GRPCPort))
		if err != nil {
			return err
		}
		healthServer = health.NewServer(db, healthCheckInterval, appLogger)
		go func() { errCh <- healthServer.Serve(ctx, lis) }()
	}

	// 5. HTTP
	router := server.NewRouter(&server.Handlers{
		Session:   sessionH.NewSessionHandler(sessions, appLogger),
		Analytics: analyticsH.NewAnalyticsHandler(analytics, appLogger),
		Folder:    folderH.NewFolderHandler(folders, appLogger),
		Field:     fieldH.NewFieldHandler(fields, appLogger),
		Product:   productH.NewProductHandler(products, appLogger),
	}, sessions, appLogger)
	httpServer := server.NewHTTPServer(listenAddr(cfg.Server.HTTPPort), router)

	go func() {
		appLogger.Info("Starting HTTP server", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	var serveErr error
	select {
	case <-ctx.Done():
	case serveErr = <-errCh:
		appLogger.Error("Server failed", zap.Error(serveErr))
	}

	appLogger.Info("Shutting down server...")
	cancel()

	shutdownCtx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
	defer stop()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("HTTP shutdown failed", zap.Error(err))
	}
	if healthServer != nil {
		healthServer.Stop()
	}

	appLogger.Info("Server stopped")
	return serveErr
}

func listenAddr(port string) string {
	if strings.Contains(port, ":") {
		return port
	}
	return ":" + port
}
