package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"fulfillment-system/internal/common/logger"
	"fulfillment-system/internal/config"
	"fulfillment-system/internal/connections/database"
	"fulfillment-system/internal/connections/rabbitmq"
	"fulfillment-system/internal/microservices/allocation"
	"fulfillment-system/internal/microservices/exporter"
	"fulfillment-system/internal/microservices/lookup"
)

func main() {
	mode := flag.String("mode", "", "allocation-service | lookup-service | export-subscriber")
	port := flag.Int("port", 0, "http port for services that expose HTTP")
	cfgPath := flag.String("config", "", "path to config.yaml")
	prefetch := flag.Int("prefetch", 1, "export-subscriber: RabbitMQ prefetch")
	flag.Parse()

	lg := logger.New("bootstrap")
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	path := *cfgPath
	if path == "" {
		var err error
		path, err = config.FindConfig()
		if err != nil {
			fmt.Fprintln(os.Stderr, "no config found; pass --config")
			os.Exit(2)
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		lg.Error("config_load_failed", err, map[string]any{"path": path})
		os.Exit(1)
	}

	switch *mode {
	case "allocation-service":
		if *port == 0 {
			*port = 3000
		}
		db, err := database.ConnectDB(ctx, cfg.Database)
		if err != nil {
			lg.Error("fatal", err, nil)
			os.Exit(1)
		}
		defer db.Close()
		rmq, err := rabbitmq.Dial(cfg.RabbitMQ)
		if err != nil {
			lg.Error("fatal", err, nil)
			os.Exit(1)
		}
		defer rmq.Close()
		if err := rmq.DeclareAll(); err != nil {
			lg.Error("fatal", err, nil)
			os.Exit(1)
		}
		lg.Info("service_started", map[string]any{"service": "allocation-service", "port": *port})
		if err := allocation.Run(ctx, *port, db, rmq, cfg.Engine); err != nil {
			lg.Error("fatal", err, nil)
			os.Exit(1)
		}
	case "lookup-service":
		if *port == 0 {
			*port = 3002
		}
		db, err := database.ConnectDB(ctx, cfg.Database)
		if err != nil {
			lg.Error("fatal", err, nil)
			os.Exit(1)
		}
		defer db.Close()
		lg.Info("service_started", map[string]any{"service": "lookup-service", "port": *port})
		if err := lookup.Run(ctx, *port, db); err != nil {
			lg.Error("fatal", err, nil)
			os.Exit(1)
		}
	case "export-subscriber":
		rmq, err := rabbitmq.Dial(cfg.RabbitMQ)
		if err != nil {
			lg.Error("fatal", err, nil)
			os.Exit(1)
		}
		defer rmq.Close()
		if err := rmq.DeclareAll(); err != nil {
			lg.Error("fatal", err, nil)
			os.Exit(1)
		}
		lg.Info("service_started", map[string]any{"service": "export-subscriber"})
		if err := exporter.Run(ctx, rmq, *prefetch); err != nil {
			lg.Error("fatal", err, nil)
			os.Exit(1)
		}
	default:
		fmt.Fprintln(os.Stderr, "--mode is required: allocation-service | lookup-service | export-subscriber")
		os.Exit(2)
	}
}
