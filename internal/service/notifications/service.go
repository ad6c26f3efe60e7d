package notifications

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
	notificationRepo "github.com/m04kA/SMC-RoomBookingService/internal/infra/storage/notification"
	"github.com/m04kA/SMC-RoomBookingService/internal/service/notifications/models"
)

// Service лента уведомлений пользователя
type Service struct {
	repo    NotificationRepository
	metrics Metrics
	logger  Logger
}

// NewService создает новый экземпляр сервиса
func NewService(repo NotificationRepository, metrics Metrics, logger Logger) *Service {
	return &Service{
		repo:    repo,
		metrics: metrics,
		logger:  logger,
	}
}

// Emit добавляет уведомление в ленту. Best-effort: ошибка логируется и не возвращается.
func (s *Service) Emit(ctx context.Context, n *domain.Notification) {
	created, err := s.repo.Create(ctx, n)
	if err != nil {
		s.metrics.IncNotificationFailure(string(n.Kind))
		s.logger.Error("Emit: failed to store %s for user=%d reservation=%d: %v", n.Kind, n.UserID, n.ReservationID, err)
		return
	}
	s.logger.Info("Emit: notification id=%d %s for user=%d", created.ID, created.Kind, created.UserID)
}

// List страница ленты, новые сверху
func (s *Service) List(ctx context.Context, req *models.ListRequest) (*models.ListResponse, error) {
	if req.UserID <= 0 {
		return nil, fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}
	if req.BeforeID < 0 {
		return nil, fmt.Errorf("%w: beforeId must not be negative", ErrInvalidInput)
	}

	limit := req.Limit
	switch {
	case limit <= 0:
		limit = domain.DefaultNotificationsLimit
	case limit > domain.MaxNotificationsLimit:
		limit = domain.MaxNotificationsLimit
	}

	list, err := s.repo.GetByUser(ctx, req.UserID, req.BeforeID, uint64(limit))
	if err != nil {
		s.logger.Error("List: repository error for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	unread, err := s.repo.CountUnread(ctx, req.UserID)
	if err != nil {
		s.logger.Error("List: failed to count unread for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: List - count unread: %v", ErrInternal, err)
	}

	resp := &models.ListResponse{
		Notifications: make([]models.NotificationResponse, 0, len(list)),
		Unread:        unread,
	}
	for _, n := range list {
		resp.Notifications = append(resp.Notifications, models.FromDomainNotification(n))
	}
	if len(list) == limit {
		next := list[len(list)-1].ID
		resp.NextBeforeID = &next
	}

	return resp, nil
}

// MarkRead отмечает уведомление прочитанным
func (s *Service) MarkRead(ctx context.Context, userID, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: notification id must be positive", ErrInvalidInput)
	}

	if err := s.repo.MarkRead(ctx, userID, id); err != nil {
		if errors.Is(err, notificationRepo.ErrNotificationNotFound) {
			s.logger.Warn("MarkRead: notification id=%d not found for user=%d", id, userID)
			return ErrNotificationNotFound
		}
		s.logger.Error("MarkRead: repository error for notification id=%d: %v", id, err)
		return fmt.Errorf("%w: MarkRead - repository error: %v", ErrInternal, err)
	}
	return nil
}

// MarkAllRead отмечает прочитанными все уведомления пользователя
func (s *Service) MarkAllRead(ctx context.Context, userID int64) (*models.MarkAllReadResponse, error) {
	marked, err := s.repo.MarkAllRead(ctx, userID)
	if err != nil {
		s.logger.Error("MarkAllRead: repository error for user=%d: %v", userID, err)
		return nil, fmt.Errorf("%w: MarkAllRead - repository error: %v", ErrInternal, err)
	}
	s.logger.Info("MarkAllRead: marked %d notifications for user=%d", marked, userID)
	return &models.MarkAllReadResponse{Marked: marked}, nil
}

// UnreadCount число непрочитанных уведомлений
func (s *Service) UnreadCount(ctx context.Context, userID int64) (*models.UnreadResponse, error) {
	unread, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		s.logger.Error("UnreadCount: repository error for user=%d: %v", userID, err)
		return nil, fmt.Errorf("%w: UnreadCount - repository error: %v", ErrInternal, err)
	}
	return &models.UnreadResponse{Unread: unread}, nil
}
