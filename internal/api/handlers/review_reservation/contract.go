package review_reservation

import (
	"context"

	"github.com/m04kA/SMC-RoomBookingService/internal/service/lifecycle/models"
)

type ReservationService interface {
	Approve(ctx context.Context, id int64, actor models.Actor) (*models.ReservationResponse, error)
	Reject(ctx context.Context, id int64, actor models.Actor) (*models.ReservationResponse, error)
	StartUse(ctx context.Context, id int64, actor models.Actor) (*models.ReservationResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
