// Package main provides besd, the Build Event Service ingest server: it accepts
// Bazel's PublishBuildEvent gRPC stream, persists build/test results, and exposes an
// admin HTTP surface for metrics and operator diagnostics.
package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"regexp"
	"syscall"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/keepalive"

	"github.com/blade-bes/besd/internal/adminhttp"
	"github.com/blade-bes/besd/internal/besconfig"
	"github.com/blade-bes/besd/internal/buildeventproto"
	"github.com/blade-bes/besd/internal/eventmirror"
	"github.com/blade-bes/besd/internal/handlers"
	"github.com/blade-bes/besd/internal/ingest"
	"github.com/blade-bes/besd/internal/retention"
	"github.com/blade-bes/besd/internal/store"
)

const (
	version = "1.0.0-dev"
	name    = "besd"
)

func main() {
	args := os.Args[1:]
	if len(args) > 0 && (args[0] == "--version" || args[0] == "-version") {
		log.Printf("%s v%s\n", name, version)
		os.Exit(0)
	}

	cfg, err := besconfig.Load(args)
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := newLogger(cfg)
	logger.Info("starting besd", "version", version, "grpc_addr", cfg.GRPCAddr, "admin_addr", cfg.AdminAddr, "store_uri", cfg.StoreURI)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st, err := store.Open(ctx, cfg.StoreURI, store.DefaultPoolConfig())
	if err != nil {
		logger.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer st.Close()

	var mirror eventmirror.Publisher = eventmirror.NoopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		mirror = eventmirror.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
		defer mirror.Close()
	}

	chain := handlers.Chain(logger)
	printEvent := findPrintEventHandler(chain)
	if cfg.PrintEventPattern != "" {
		if re, err := regexp.Compile(cfg.PrintEventPattern); err != nil {
			logger.Error("invalid print_event_pattern", "error", err)
		} else {
			printEvent.SetPattern(re)
		}
	}

	besServer := &ingest.Server{
		Store:           st,
		Handlers:        chain,
		Mirror:          mirror,
		SessionLockTime: cfg.SessionLockTime,
		Logger:          logger,
	}

	if cfg.RetentionWindow > 0 {
		sweeper := &retention.Sweeper{Store: st, Retention: cfg.RetentionWindow, Logger: logger}
		go sweeper.Run(ctx)
	}

	admin := adminhttp.NewServer(printEvent, logger, cfg.AdminAuthTokenHash, 20)
	go func() {
		if err := admin.Serve(ctx, cfg.AdminAddr); err != nil {
			logger.Error("admin server stopped with error", "error", err)
		}
	}()

	grpcServer := newGRPCServer(cfg, besServer)

	lc := net.ListenConfig{KeepAlive: 20 * time.Second}
	listener, err := lc.Listen(ctx, "tcp", cfg.GRPCAddr)
	if err != nil {
		logger.Error("failed to listen", "addr", cfg.GRPCAddr, "error", err)
		os.Exit(1)
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("bes grpc server listening", "addr", cfg.GRPCAddr)
		serverErrors <- grpcServer.Serve(listener)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			logger.Error("grpc server failed", "error", err)
		}
	case sig := <-stop:
		logger.Info("received shutdown signal", "signal", sig.String())
		cancel()
		grpcServer.GracefulStop()
	}

	logger.Info("besd stopped")
}

func newLogger(cfg besconfig.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	if cfg.LogFormat == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}

func newGRPCServer(cfg besconfig.Config, besServer *ingest.Server) *grpc.Server {
	srv := grpc.NewServer(
		grpc.MaxRecvMsgSize(cfg.MaxRecvMessageBytes),
		grpc.KeepaliveParams(keepalive.ServerParameters{
			Time:    20 * time.Second,
			Timeout: 30 * time.Second,
		}),
		grpc.KeepaliveEnforcementPolicy(keepalive.EnforcementPolicy{
			MinTime:             20 * time.Second,
			PermitWithoutStream: true,
		}),
	)
	buildeventproto.RegisterPublishBuildEventServer(srv, besServer)
	return srv
}

func findPrintEventHandler(chain []handlers.EventHandler) *handlers.PrintEventHandler {
	for _, h := range chain {
		if pe, ok := h.(*handlers.PrintEventHandler); ok {
			return pe
		}
	}
	return nil
}
