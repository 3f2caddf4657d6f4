package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/config"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/notification"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/mailer"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/queue"
	"github.com/cmlabs-hris/attendance-engine-go/internal/repository/postgresql"
	amqp "github.com/rabbitmq/amqp091-go"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.Log.Level)); err != nil {
		logLevel = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})))

	if cfg.RabbitMQ.DSN == "" {
		slog.Error("RABBITMQ_DSN is required for the notifier")
		os.Exit(1)
	}
	if cfg.SMTP.Host == "" {
		slog.Error("SMTP_HOST is required for the notifier")
		os.Exit(1)
	}

	db, err := database.NewPostgreSQLDB(cfg.Database.DSN, cfg.Database.MaxConns, cfg.Database.MinConns)
	if err != nil {
		slog.Error("Error connecting to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	directory := postgresql.NewEmployeeDirectory(db)

	conn, err := amqp.Dial(cfg.RabbitMQ.DSN)
	if err != nil {
		slog.Error("Error connecting to RabbitMQ", "error", err)
		os.Exit(1)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		slog.Error("Error opening RabbitMQ channel", "error", err)
		os.Exit(1)
	}
	defer ch.Close()

	if _, err := queue.Declare(ch); err != nil {
		slog.Error("Error declaring notification queue", "error", err)
		os.Exit(1)
	}

	deliveries, err := ch.Consume(queue.NotificationQueue, "attendance-notifier", false, false, false, false, nil)
	if err != nil {
		slog.Error("Error starting consumer", "error", err)
		os.Exit(1)
	}

	m, err := mailer.New(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.From)
	if err != nil {
		slog.Error("Error creating mailer", "error", err)
		os.Exit(1)
	}
	defer m.Close()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	slog.Info("Notifier started", "queue", queue.NotificationQueue)

	for {
		select {
		case <-quit:
			slog.Info("Shutting down notifier")
			return
		case d, ok := <-deliveries:
			if !ok {
				slog.Error("Delivery channel closed")
				return
			}
			handleDelivery(d, directory, m)
		}
	}
}

func handleDelivery(d amqp.Delivery, directory employee.Directory, m *mailer.Mailer) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var msg notification.Message
	if err := json.Unmarshal(d.Body, &msg); err != nil {
		slog.Error("Malformed notification message", "error", err)
		// Malformed payloads never become deliverable; drop them.
		_ = d.Nack(false, false)
		return
	}

	emp, err := directory.GetByID(ctx, msg.RecipientID)
	if err != nil {
		slog.Error("Recipient lookup failed", "recipient_id", msg.RecipientID, "error", err)
		_ = d.Nack(false, false)
		return
	}
	if emp.Email == "" {
		slog.Warn("Recipient has no email, dropping", "recipient_id", msg.RecipientID)
		_ = d.Ack(false)
		return
	}

	if err := m.Send(ctx, emp.Email, msg.Title, msg.Body); err != nil {
		slog.Error("Send mail failed", "recipient_id", msg.RecipientID, "error", err)
		// Requeue once the broker redelivers; transient SMTP failures recover.
		_ = d.Nack(false, true)
		return
	}

	_ = d.Ack(false)
	slog.Info("Notification delivered", "recipient_id", msg.RecipientID, "kind", msg.Kind)
}
