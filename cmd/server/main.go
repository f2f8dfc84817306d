package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Casiics/MagiCore/internal/bootstrap"
	"github.com/Casiics/MagiCore/internal/config"
	"github.com/Casiics/MagiCore/internal/deck"
	"github.com/Casiics/MagiCore/internal/server"
	"github.com/Casiics/MagiCore/internal/simulation"
	"github.com/Casiics/MagiCore/internal/telemetry"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/keepalive"
)

var (
	configPath = flag.String("config", "", "path to configuration file")
	version    = "dev" // set via ldflags during build
)

func main() {
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := bootstrap.NewLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting MagiCore server",
		zap.String("version", version),
		zap.String("config", *configPath),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	shutdownTelemetry, err := telemetry.Setup(ctx, cfg.Telemetry)
	if err != nil {
		logger.Fatal("failed to set up telemetry", zap.Error(err))
	}

	catalog, err := bootstrap.OpenCatalog(ctx, cfg.CardDB, logger)
	if err != nil {
		logger.Fatal("failed to load card catalog", zap.Error(err))
	}

	lists, err := bootstrap.LoadDecks(cfg.Decks)
	if err != nil {
		logger.Fatal("failed to load decks", zap.Error(err))
	}
	decks := make(map[string]*deck.List, len(lists))
	for _, list := range lists {
		decks[list.Name] = list
	}

	hub := server.NewHub(logger)
	matches := server.NewMatchServer(logger, catalog, decks, simulation.OptionsFromConfig(cfg), hub)
	logger.Info("match server initialized", zap.Strings("decks", matches.DeckNames()))

	grpcServer := grpc.NewServer(
		grpc.UnaryInterceptor(server.ChainUnaryInterceptors(
			server.RecoveryInterceptor(logger),
			server.LoggingInterceptor(logger),
		)),
		grpc.KeepaliveParams(keepalive.ServerParameters{
			Time:    30 * time.Second,
			Timeout: 10 * time.Second,
		}),
	)

	server.RegisterMatchServiceServer(grpcServer, matches)
	healthServer := server.RegisterHealth(grpcServer)

	lis, err := net.Listen("tcp", cfg.Server.GRPCAddress)
	if err != nil {
		logger.Fatal("failed to listen", zap.Error(err))
	}

	// Start gRPC server
	go func() {
		logger.Info("starting gRPC server", zap.String("address", cfg.Server.GRPCAddress))
		if serveErr := grpcServer.Serve(lis); serveErr != nil {
			logger.Error("gRPC server error", zap.Error(serveErr))
		}
	}()

	// Start WebSocket server
	httpServer := &http.Server{
		Addr:              cfg.Server.WSAddress,
		Handler:           hub.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("starting WebSocket server", zap.String("address", cfg.Server.WSAddress))
		if wsErr := httpServer.ListenAndServe(); wsErr != nil && !errors.Is(wsErr, http.ErrServerClosed) {
			logger.Error("WebSocket server error", zap.Error(wsErr))
		}
	}()

	logger.Info("MagiCore server initialized",
		zap.String("version", version),
		zap.String("grpc_address", cfg.Server.GRPCAddress),
		zap.String("websocket_address", cfg.Server.WSAddress),
	)

	// Wait for termination signal
	sig := <-sigChan
	logger.Info("received shutdown signal", zap.String("signal", sig.String()))

	// Graceful shutdown
	logger.Info("shutting down gracefully...")
	healthServer.Shutdown()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := matches.Shutdown(shutdownCtx); err != nil {
		logger.Warn("matches still running at shutdown", zap.Error(err))
	}
	hub.Close()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("WebSocket server shutdown", zap.Error(err))
	}
	grpcServer.GracefulStop()
	if err := shutdownTelemetry(shutdownCtx); err != nil {
		logger.Warn("telemetry shutdown", zap.Error(err))
	}
	cancel()

	logger.Info("MagiCore server stopped")
}
