package create_reservation

import (
	"context"
	"time"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
	"github.com/m04kA/SMC-RoomBookingService/pkg/types"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	Create(ctx context.Context, reservation *domain.Reservation) (*domain.Reservation, error)
	LockKeys(ctx context.Context, keys ...string) error
	GetOccupyingBySlot(ctx context.Context, roomID int64, date types.Date, slotID domain.SlotID) ([]*domain.Reservation, error)
	CountActiveByUser(ctx context.Context, userID int64, now time.Time) (int, error)
}

// RoomProvider интерфейс каталога комнат
type RoomProvider interface {
	GetRoom(ctx context.Context, roomID int64) (*domain.Room, error)
}

// NotificationEmitter лента уведомлений; ошибки доставки обрабатываются внутри
type NotificationEmitter interface {
	Emit(ctx context.Context, notification *domain.Notification)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics счетчики допуска
type Metrics interface {
	IncReservationCreated()
	IncAdmissionRejected(reason string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
