package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-attendance/internal/area"
	"go-attendance/internal/attendance"
	"go-attendance/internal/audit"
	"go-attendance/internal/events"
	"go-attendance/internal/messaging/kafka"
	"go-attendance/internal/messaging/kafka/consumer"
	"go-attendance/internal/scope"
	"go-attendance/internal/shared/connection"
	"go-attendance/internal/syncstore"
	"go-attendance/internal/user"
	"go-attendance/internal/worker"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const consumerGroupID = "go-attendance-syncstore"

// RunConsumer bridges the broker's change topics onto the in-process
// bus and keeps a full working set warm against it. The session's
// refetch-on-notification loop is the same one interactive clients
// run.
func RunConsumer() error {
	logger := zap.L().Named("app.consumer")

	gormDB, err := connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
	)
	if err != nil {
		return err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	kafkaBroker := os.Getenv("KAFKA_BROKER")
	if kafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus := events.NewBus()

	families := []events.Family{
		events.FamilyAttendance,
		events.FamilyWorkers,
		events.FamilyUsers,
	}
	for _, family := range families {
		reader := kafkago.NewReader(kafkago.ReaderConfig{
			Brokers:        []string{kafkaBroker},
			Topic:          family.Topic(),
			GroupID:        consumerGroupID,
			CommitInterval: 0,
			StartOffset:    kafkago.FirstOffset,
		})
		defer reader.Close()
		go consumer.ConsumeChangeFeed(ctx, reader, family, bus, logger)
	}

	auditRepo := audit.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(sqlDB)
	areaRepo := area.NewRepository(gormDB)
	workerRepo := worker.NewRepository(gormDB)
	userRepo := user.NewRepository(gormDB)
	attendanceRepo := attendance.NewRepository(gormDB)

	workerService := worker.NewService(sqlDB, workerRepo, auditRepo, outboxRepo, nil)
	userService := user.NewService(sqlDB, userRepo, areaRepo, auditRepo, outboxRepo)
	attendanceService := attendance.NewService(sqlDB, attendanceRepo, auditRepo, outboxRepo)

	// System-wide read-only actor for the mirror session.
	systemActor := scope.Actor{
		UserID: "system:consumer",
		Role:   scope.RoleAdmin,
		Scope:  scope.Set{All: true},
	}
	client := syncstore.NewServiceClient(systemActor, attendanceService, workerService, userService)
	session := syncstore.NewSession(client, client, bus, logger)
	session.Start(ctx)
	defer session.Close()

	now := time.Now()
	if err := session.SetPeriod(ctx, int(now.Month()), now.Year()); err != nil {
		logger.Warn("initial period load failed", zap.Error(err))
	}
	if err := session.RefreshAll(ctx); err != nil {
		logger.Warn("initial working set load failed", zap.Error(err))
	}
	logger.Info("working set primed",
		zap.Int("records", len(session.Records())),
		zap.Int("workers", len(session.Workers())),
		zap.Int("users", len(session.Users())),
	)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("consumer shutting down")
	cancel()

	return nil
}
