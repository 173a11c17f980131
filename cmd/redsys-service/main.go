package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/LavaJover/shvark-redsys-service/internal/app/setup"
	"github.com/LavaJover/shvark-redsys-service/internal/config"
	"github.com/LavaJover/shvark-redsys-service/internal/delivery/grpcapi"
	"github.com/LavaJover/shvark-redsys-service/internal/delivery/http/handlers"
	"github.com/LavaJover/shvark-redsys-service/internal/infrastructure/logger"
	"github.com/LavaJover/shvark-redsys-service/internal/infrastructure/postgres"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("failed to load .env")
	}
	// Reading config
	cfg := config.MustLoad()

	zapLogger, err := logger.New(cfg.LogConfig)
	if err != nil {
		log.Fatalf("failed to init logger: %v\n", err)
	}
	defer zapLogger.Sync()

	if cfg.Redsys.SecretKey == "" {
		zapLogger.Warn("redsys.secret_key is empty: signatures will be computable but rejected by the gateway")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// gRPC health goes SERVING only after the database is migrated
	grpcServer, healthServer := grpcapi.NewServer()
	lis, err := net.Listen("tcp", cfg.GRPCServer.Address())
	if err != nil {
		zapLogger.Fatal("failed to listen", zap.String("address", cfg.GRPCServer.Address()), zap.Error(err))
	}
	go func() {
		zapLogger.Info("gRPC server started", zap.String("address", cfg.GRPCServer.Address()))
		if err := grpcServer.Serve(lis); err != nil {
			zapLogger.Error("gRPC server stopped", zap.Error(err))
		}
	}()

	// Init database
	db := postgres.MustInitDB(cfg)

	deps, err := setup.InitializeDependencies(cfg, db, zapLogger, prometheus.DefaultRegisterer)
	if err != nil {
		zapLogger.Fatal("failed to init dependencies", zap.Error(err))
	}
	defer deps.Close()

	useCases := setup.InitializeUseCases(deps)

	if tasks := setup.InitializeBackgroundTasks(deps); tasks != nil {
		tasks.StartAll(ctx)
	} else {
		zapLogger.Info("back-office callbacks disabled")
	}

	handler := handlers.NewRedsysHandler(useCases.NotificationUsecase, useCases.CheckoutUsecase, zapLogger.With(zap.String("component", "http")))
	httpServer := &http.Server{
		Addr:         cfg.HTTPServer.Address(),
		Handler:      handlers.NewRouter(handler, prometheus.DefaultGatherer, zapLogger),
		ReadTimeout:  cfg.HTTPServer.ReadTimeout,
		WriteTimeout: cfg.HTTPServer.WriteTimeout,
	}
	go func() {
		zapLogger.Info("HTTP server started",
			zap.String("address", cfg.HTTPServer.Address()),
			zap.String("redsys_environment", cfg.Redsys.Environment),
		)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	grpcapi.MarkServing(healthServer)

	<-ctx.Done()
	zapLogger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("HTTP shutdown failed", zap.Error(err))
	}
	grpcServer.GracefulStop()
}
