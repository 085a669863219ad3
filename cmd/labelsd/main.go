package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"

	"github.com/joseph-ayodele/label-tracker/internal/common"
	"github.com/joseph-ayodele/label-tracker/internal/export"
	"github.com/joseph-ayodele/label-tracker/internal/extract"
	"github.com/joseph-ayodele/label-tracker/internal/ocr"
	processor "github.com/joseph-ayodele/label-tracker/internal/pipeline"
	parse "github.com/joseph-ayodele/label-tracker/internal/pipeline/parsefields"
	"github.com/joseph-ayodele/label-tracker/internal/pipeline/textextract"
	svc "github.com/joseph-ayodele/label-tracker/internal/server"
)

func main() {
	// message and attrs only; the process supervisor stamps time
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	}))
	slog.SetDefault(logger)

	cfg, err := common.LoadConfig()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(2)
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid config", "error", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, orders, err := svc.ConnectDB(ctx, cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect database", "error", err)
		os.Exit(1)
	}
	defer db.Close(logger)

	extractor := ocr.NewExtractor(ocr.Config{
		Pdftotext:        cfg.OCR.Pdftotext,
		Layout:           cfg.OCR.Layout,
		MaxPages:         cfg.OCR.MaxPages,
		ArtifactCacheDir: cfg.OCR.ArtifactCacheDir,
	}, logger)
	textPipe := textextract.NewPipeline(extract.NewOCRAdapter(extractor, logger), logger)
	proc := processor.NewProcessor(logger, textPipe, parse.NewPipeline(logger), orders)
	exporter := export.NewService(orders, logger)

	uploads, err := svc.NewUploadCache(cfg.Server.UploadCacheSize)
	if err != nil {
		logger.Error("failed to create upload cache", "error", err)
		os.Exit(1)
	}

	// gRPC
	lis, err := net.Listen("tcp", cfg.Server.GRPCAddr)
	if err != nil {
		logger.Error("failed to listen on address", "addr", cfg.Server.GRPCAddr, "error", err)
		os.Exit(1)
	}
	grpcServer := grpc.NewServer(grpc.ChainUnaryInterceptor(svc.UnaryLoggingInterceptor(logger)))
	svc.RegisterOrdersServer(grpcServer, svc.NewOrdersService(proc, exporter, logger))

	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(svc.OrdersServiceName, grpc_health_v1.HealthCheckResponse_SERVING)

	// HTTP
	httpServer := &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           svc.NewHTTPServer(proc, exporter, uploads, cfg.Server.MaxUploadBytes, logger).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 2)
	go func() {
		logger.Info("label-tracker grpc listening", "addr", cfg.Server.GRPCAddr)
		if err := grpcServer.Serve(lis); err != nil {
			errCh <- err
		}
	}()
	go func() {
		logger.Info("label-tracker http listening", "addr", cfg.Server.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err := <-errCh:
		logger.Error("server error", "error", err)
	}

	healthServer.Shutdown()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", "error", err)
	}
	grpcServer.GracefulStop()
}
