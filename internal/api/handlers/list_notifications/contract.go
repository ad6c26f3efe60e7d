package list_notifications

import (
	"context"

	"github.com/m04kA/SMC-RoomBookingService/internal/service/notifications/models"
)

type NotificationService interface {
	List(ctx context.Context, req *models.ListRequest) (*models.ListResponse, error)
	UnreadCount(ctx context.Context, userID int64) (*models.UnreadResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
