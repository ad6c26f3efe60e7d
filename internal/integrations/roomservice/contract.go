package roomservice

import (
	"context"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
)

// Provider источник данных о комнатах
type Provider interface {
	GetRoom(ctx context.Context, roomID int64) (*domain.Room, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
