package list_active_reservations

import (
	"context"

	"github.com/m04kA/SMC-RoomBookingService/internal/service/lifecycle/models"
)

type ReservationService interface {
	ListActive(ctx context.Context, userID int64) (*models.ReservationListResponse, error)
	CountActive(ctx context.Context, userID int64) (*models.ActiveCountResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
