package sweep

import (
	"context"
	"time"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	// GetExpired страница закончившихся бронирований в статусе filter.Status, по (end_at, id)
	GetExpired(ctx context.Context, filter domain.ExpiredFilter) ([]*domain.Reservation, error)
}

// Expirer условный автоматический переход одного бронирования
type Expirer interface {
	Expire(ctx context.Context, r *domain.Reservation, now time.Time) (bool, error)
}

// Metrics метрики прогонов
type Metrics interface {
	ObserveSweep(transitioned int, duration time.Duration, err error)
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
