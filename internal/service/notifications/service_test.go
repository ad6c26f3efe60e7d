package notifications

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
	"github.com/m04kA/SMC-RoomBookingService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-RoomBookingService/internal/service/notifications/models"
	"github.com/m04kA/SMC-RoomBookingService/pkg/logger"
)

type mockMetrics struct {
	mock.Mock
}

func (m *mockMetrics) IncNotificationFailure(kind string) {
	m.Called(kind)
}

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) Create(ctx context.Context, n *domain.Notification) (*domain.Notification, error) {
	args := m.Called(ctx, n)
	if res, ok := args.Get(0).(*domain.Notification); ok {
		return res, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRepository) GetByUser(ctx context.Context, userID int64, beforeID int64, limit uint64) ([]*domain.Notification, error) {
	args := m.Called(ctx, userID, beforeID, limit)
	if res, ok := args.Get(0).([]*domain.Notification); ok {
		return res, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRepository) MarkRead(ctx context.Context, userID int64, id int64) error {
	return m.Called(ctx, userID, id).Error(0)
}

func (m *mockRepository) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockRepository) CountUnread(ctx context.Context, userID int64) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func payload() domain.NotificationPayload {
	return domain.NotificationPayload{
		ReservationID: 5,
		RoomName:      "Atlas Room",
		RoomCode:      "E-207",
		SlotStart:     time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC),
		SlotEnd:       time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC),
		Status:        domain.StatusPending,
	}
}

func TestService_EmitSwallowsErrors(t *testing.T) {
	repo := &mockRepository{}
	metrics := &mockMetrics{}
	svc := NewService(repo, metrics, logger.Nop())

	repo.On("Create", mock.Anything, mock.Anything).Return(nil, errors.New("insert failed")).Once()
	metrics.On("IncNotificationFailure", "booking_created").Once()

	svc.Emit(context.Background(), domain.NewNotification(10, domain.NotificationBookingCreated, payload()))

	repo.AssertExpectations(t)
	metrics.AssertExpectations(t)
}

func TestService_FeedPagination(t *testing.T) {
	store := memory.NewStore()
	svc := NewService(store.Notifications(), &mockMetrics{}, logger.Nop())
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		svc.Emit(ctx, domain.NewNotification(10, domain.NotificationBookingApproved, payload()))
	}
	svc.Emit(ctx, domain.NewNotification(11, domain.NotificationBookingApproved, payload()))

	first, err := svc.List(ctx, &models.ListRequest{UserID: 10, Limit: 2})
	require.NoError(t, err)
	require.Len(t, first.Notifications, 2)
	assert.Equal(t, int64(5), first.Notifications[0].ID)
	assert.Equal(t, 5, first.Unread)
	require.NotNil(t, first.NextBeforeID)
	assert.Equal(t, "Бронирование подтверждено", first.Notifications[0].Title)
	assert.Equal(t, "2025-03-10T08:00:00Z", *first.Notifications[0].SlotStart)

	second, err := svc.List(ctx, &models.ListRequest{UserID: 10, BeforeID: *first.NextBeforeID, Limit: 10})
	require.NoError(t, err)
	require.Len(t, second.Notifications, 3)
	assert.Equal(t, int64(3), second.Notifications[0].ID)
	assert.Nil(t, second.NextBeforeID)

	require.NoError(t, svc.MarkRead(ctx, 10, 5))
	assert.ErrorIs(t, svc.MarkRead(ctx, 10, 6), ErrNotificationNotFound)

	unread, err := svc.UnreadCount(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, 4, unread.Unread)

	marked, err := svc.MarkAllRead(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(4), marked.Marked)

	unread, err = svc.UnreadCount(ctx, 11)
	require.NoError(t, err)
	assert.Equal(t, 1, unread.Unread)
}

func TestService_ListValidatesAndClampsLimit(t *testing.T) {
	repo := &mockRepository{}
	svc := NewService(repo, &mockMetrics{}, logger.Nop())

	_, err := svc.List(context.Background(), &models.ListRequest{UserID: 0})
	assert.ErrorIs(t, err, ErrInvalidInput)

	repo.On("GetByUser", mock.Anything, int64(10), int64(0), uint64(domain.MaxNotificationsLimit)).Return([]*domain.Notification{}, nil).Once()
	repo.On("CountUnread", mock.Anything, int64(10)).Return(0, nil).Once()

	resp, err := svc.List(context.Background(), &models.ListRequest{UserID: 10, Limit: 1000})
	require.NoError(t, err)
	assert.Empty(t, resp.Notifications)
	repo.AssertExpectations(t)
}
