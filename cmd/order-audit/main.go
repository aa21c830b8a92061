// Command order-audit consumes the orders.confirmed queue and appends one
// line per confirmed order to logs/orders.log.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"go.uber.org/zap"

	"github.com/iliyamo/cinema-seat-booking/internal/config"
	"github.com/iliyamo/cinema-seat-booking/internal/logger"
	"github.com/iliyamo/cinema-seat-booking/internal/queue"
)

func main() {
	out := flag.String("out", filepath.Join("logs", "orders.log"), "audit log file")
	flag.Parse()

	cfg := config.LoadQueueConfig()
	log, err := logger.New(cfg.Env, "order-audit", cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c := &queue.AuditConsumer{URL: cfg.AMQPURL, LogPath: *out, Log: log}
	log.Info("consuming", zap.String("queue", queue.OrdersConfirmedQueue), zap.String("out", *out))
	if err := c.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("consumer stopped", zap.Error(err))
		os.Exit(1)
	}
}
