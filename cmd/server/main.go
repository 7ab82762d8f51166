// Package main - Entry point for the churnrisk scoring server
package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"churnrisk/api"
	"churnrisk/core/model"
	"churnrisk/core/scoring"
	"churnrisk/internal/config"
	"churnrisk/internal/logging"
	"churnrisk/store/audit"
	"churnrisk/stream"
)

const version = "0.1.0"

func main() {
	cfgPath := flag.String("config", "", "config file path")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		logging.Fatal("failed to load config", zap.Error(err))
	}
	config.Set(cfg)
	if err := logging.Initialize(cfg.Logging); err != nil {
		logging.Fatal("failed to initialize logging", zap.Error(err))
	}
	defer logging.Sync()

	// Artifacts load once at process start; missing or corrupt artifacts
	// block the server from accepting any requests.
	artifacts, err := model.Load(cfg.Artifacts.Dir)
	if err != nil {
		logging.Fatal("cannot serve without model artifacts",
			zap.String("dir", cfg.Artifacts.Dir), zap.Error(err))
	}
	engine, err := scoring.NewEngine(artifacts)
	if err != nil {
		logging.Fatal("failed to build scoring engine", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var auditor *audit.Store
	if cfg.Audit.Enabled {
		auditor, err = audit.New(ctx, cfg.Audit.DSN)
		if err != nil {
			logging.Fatal("failed to connect audit store", zap.Error(err))
		}
		defer auditor.Close()
	}

	if cfg.Stream.Enabled {
		worker := stream.NewWorker(cfg.Stream, engine, streamAuditor(auditor))
		defer worker.Close()
		go func() {
			if err := worker.Run(ctx); err != nil {
				logging.Error("stream worker stopped", zap.Error(err))
			}
		}()
	}

	server := api.NewServerWithAuditor(version, engine, apiAuditor(auditor))
	httpServer := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: server,
	}

	go func() {
		<-ctx.Done()
		_ = httpServer.Shutdown(context.Background())
	}()

	logging.Info("churnrisk server started",
		zap.String("addr", cfg.Server.Addr),
		zap.Float64("threshold", engine.Threshold()))

	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logging.Fatal("server failed", zap.Error(err))
	}
}

// A nil *audit.Store must become a nil interface, not a non-nil interface
// holding a nil pointer.
func apiAuditor(s *audit.Store) api.Auditor {
	if s == nil {
		return nil
	}
	return s
}

func streamAuditor(s *audit.Store) stream.Auditor {
	if s == nil {
		return nil
	}
	return s
}
