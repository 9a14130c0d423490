package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"imprint/internal/config"
	"imprint/internal/daemon"
	"imprint/internal/fingerprint"
	"imprint/internal/ipc"
	"imprint/internal/logging"
	"imprint/internal/match"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, _, _, err := config.Load("")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}

	store, err := fingerprint.Open(cfg)
	if err != nil {
		logger.Error("open fingerprint store", logging.Error(err))
		os.Exit(1)
	}

	engine := match.NewEngine(store, logger)

	d, err := daemon.New(cfg, store, engine, logger)
	if err != nil {
		logger.Error("create daemon", logging.Error(err))
		os.Exit(1)
	}
	defer d.Close()

	ipcServer, err := ipc.NewServer(ctx, cfg.SocketPath(), d, logger)
	if err != nil {
		logger.Error("start IPC server", logging.Error(err))
		os.Exit(1)
	}
	defer ipcServer.Close()
	ipcServer.Serve()

	if err := d.Start(ctx); err != nil {
		logger.Error("daemon start", logging.Error(err))
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("imprintd shutting down")
}
