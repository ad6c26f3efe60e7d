package mark_notification_read

import (
	"context"

	"github.com/m04kA/SMC-RoomBookingService/internal/service/notifications/models"
)

type NotificationService interface {
	MarkRead(ctx context.Context, userID, id int64) error
	MarkAllRead(ctx context.Context, userID int64) (*models.MarkAllReadResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
