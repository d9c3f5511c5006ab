package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"homecare/internal/notify"
	"homecare/pkg/config"
	"homecare/pkg/kafka"
	kafkaconfig "homecare/pkg/kafka/config"
)

const ServiceName = "notifier"

func main() {
	cfg := config.Load(ServiceName)
	cfg.Log.Info("Starting notifier worker")

	mailer := initMailer(cfg)
	worker := notify.NewWorker(mailer, cfg.Log)

	consumer, err := kafka.NewConsumer(
		kafkaconfig.Load(),
		cfg.NotifyTopic,
		cfg.NotifyGroupID,
		cfg.NotifyDLQTopic,
		worker.Handle,
	)
	if err != nil {
		cfg.Log.Fatal("Failed to create notification consumer", "error", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-shutdown
		cfg.Log.Info("Shutdown signal received", "signal", sig)
		cancel()
	}()

	if err := consumer.Start(ctx); err != nil {
		cfg.Log.Error("Consumer stopped with error", "error", err)
	}

	if err := consumer.Close(); err != nil {
		cfg.Log.Error("Failed to close consumer", "error", err)
	}
	cfg.Log.Info("Notifier worker stopped")
}

func initMailer(cfg *config.Config) notify.Mailer {
	if cfg.SMTP.Host == "" {
		cfg.Log.Info("SMTP host not configured, using console delivery")
		return notify.NewConsoleMailer(cfg.Log)
	}
	cfg.Log.Info("SMTP delivery configured", "host", cfg.SMTP.Host, "from", cfg.SMTP.From)
	return notify.NewSMTPMailer(cfg.SMTP)
}
