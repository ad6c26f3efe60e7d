package list_reservations

import (
	"context"

	"github.com/m04kA/SMC-RoomBookingService/internal/service/lifecycle/models"
)

type ReservationService interface {
	ListReservations(ctx context.Context, req *models.ListReservationsRequest, actor models.Actor) (*models.ReservationListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
