package get_availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
	"github.com/m04kA/SMC-RoomBookingService/pkg/types"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	// GetOccupyingByRoomsAndDate бронирования, занимающие слоты комнат в указанный день
	GetOccupyingByRoomsAndDate(ctx context.Context, roomIDs []int64, date types.Date) ([]*domain.Reservation, error)
}

// RoomProvider интерфейс каталога комнат
type RoomProvider interface {
	GetRoom(ctx context.Context, roomID int64) (*domain.Room, error)
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
