package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/pressly/goose/v3"

	"github.com/m04kA/SMC-RoomBookingService/internal/config"
	"github.com/m04kA/SMC-RoomBookingService/internal/infra/storage/memory"
	notificationRepo "github.com/m04kA/SMC-RoomBookingService/internal/infra/storage/notification"
	reservationRepo "github.com/m04kA/SMC-RoomBookingService/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-RoomBookingService/internal/service/lifecycle"
	"github.com/m04kA/SMC-RoomBookingService/internal/service/notifications"
	"github.com/m04kA/SMC-RoomBookingService/internal/usecase/create_reservation"
	"github.com/m04kA/SMC-RoomBookingService/internal/usecase/get_availability"
	"github.com/m04kA/SMC-RoomBookingService/internal/usecase/sweep"
	"github.com/m04kA/SMC-RoomBookingService/migrations"
	"github.com/m04kA/SMC-RoomBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-RoomBookingService/pkg/logger"
	"github.com/m04kA/SMC-RoomBookingService/pkg/metrics"
	"github.com/m04kA/SMC-RoomBookingService/pkg/txmanager"
)

type reservationStore interface {
	create_reservation.ReservationRepository
	get_availability.ReservationRepository
	lifecycle.ReservationRepository
	sweep.ReservationRepository
}

type notificationStore interface {
	lifecycle.NotificationRepository
	notifications.NotificationRepository
}

type transactionManager interface {
	create_reservation.TransactionManager
	lifecycle.TransactionManager
}

// storage репозитории и менеджер транзакций выбранного драйвера
type storage struct {
	reservations  reservationStore
	notifications notificationStore
	txManager     transactionManager
	close         func()
}

func newMemoryStorage() *storage {
	store := memory.NewStore()
	return &storage{
		reservations:  store.Reservations(),
		notifications: store.Notifications(),
		txManager:     store.TxManager(),
		close:         func() {},
	}
}

func newPostgresStorage(cfg *config.Config, db *sql.DB, m *metrics.Metrics, log *logger.Logger) *storage {
	stopMetricsCh := make(chan struct{})

	var wrappedDB *dbmetrics.DB
	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, m, stopMetricsCh)
		log.Info("Database metrics collection started")
	} else {
		wrappedDB = dbmetrics.Wrap(db, nil)
	}

	txMgr := txmanager.NewTransactionManager(wrappedDB, txmanager.Config{
		MaxAttempts: cfg.Retry.MaxAttempts,
		BaseDelay:   time.Duration(cfg.Retry.BaseDelayMS) * time.Millisecond,
		MaxDelay:    time.Duration(cfg.Retry.MaxDelayMS) * time.Millisecond,
	})

	return &storage{
		reservations:  reservationRepo.NewRepository(wrappedDB),
		notifications: notificationRepo.NewRepository(wrappedDB),
		txManager:     txMgr,
		close: func() {
			close(stopMetricsCh)
		},
	}
}

func openDatabase(cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

// migrate применяет вшитые миграции goose
func migrate(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}
