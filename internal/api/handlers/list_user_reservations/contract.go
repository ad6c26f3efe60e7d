package list_user_reservations

import (
	"context"

	"github.com/m04kA/SMC-RoomBookingService/internal/service/lifecycle/models"
)

type ReservationService interface {
	ListUserReservations(ctx context.Context, req *models.ListUserReservationsRequest) (*models.ReservationListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
