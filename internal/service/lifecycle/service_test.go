package lifecycle

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
	"github.com/m04kA/SMC-RoomBookingService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-RoomBookingService/internal/service/lifecycle/models"
	"github.com/m04kA/SMC-RoomBookingService/pkg/logger"
	"github.com/m04kA/SMC-RoomBookingService/pkg/ptr"
	"github.com/m04kA/SMC-RoomBookingService/pkg/types"
)

var (
	testDay   = types.Date{Year: 2025, Month: time.March, Day: 10}
	slotStart = time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	slotEnd   = time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	beforeNow = time.Date(2025, 3, 10, 7, 0, 0, 0, time.UTC)
	afterEnd  = time.Date(2025, 3, 10, 10, 1, 0, 0, time.UTC)

	owner = models.Actor{UserID: 10}
	admin = models.Actor{UserID: 1, IsAdmin: true}
)

type fixedClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fixedClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

type transitionCounter struct {
	mu    sync.Mutex
	calls []string
}

func (m *transitionCounter) IncTransition(from, to, trigger string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, from+"->"+to+":"+trigger)
}

type fixture struct {
	svc     *Service
	store   *memory.Store
	clock   *fixedClock
	metrics *transitionCounter
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memory.NewStore()
	clock := &fixedClock{now: beforeNow}
	metrics := &transitionCounter{}

	svc := NewService(store.Reservations(), store.Notifications(), store.TxManager(), 2, metrics, logger.Nop())
	svc.timeProvider = clock

	return &fixture{svc: svc, store: store, clock: clock, metrics: metrics}
}

func (f *fixture) seed(t *testing.T, status domain.ReservationStatus) *domain.Reservation {
	t.Helper()

	r, err := f.store.Reservations().Create(context.Background(), &domain.Reservation{
		UserID:         owner.UserID,
		RoomID:         7,
		RoomName:       "Atlas Room",
		RoomCode:       "E-207",
		SlotID:         domain.SlotS1,
		SlotDate:       testDay,
		StartAt:        slotStart,
		EndAt:          slotEnd,
		Status:         status,
		NumberOfPeople: 3,
	})
	require.NoError(t, err)
	return r
}

func (f *fixture) notifications(t *testing.T) []*domain.Notification {
	t.Helper()

	list, err := f.store.Notifications().GetByUser(context.Background(), owner.UserID, 0, 100)
	require.NoError(t, err)
	return list
}

func TestService_Approve(t *testing.T) {
	f := newFixture(t)
	r := f.seed(t, domain.StatusPending)

	resp, err := f.svc.Approve(context.Background(), r.ID, admin)

	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusApproved), resp.Status)

	list := f.notifications(t)
	require.Len(t, list, 1)
	assert.Equal(t, domain.NotificationBookingApproved, list[0].Kind)
	assert.Equal(t, domain.StatusApproved, list[0].Status)
	assert.Contains(t, list[0].Description, "Atlas Room (E-207)")
	assert.Equal(t, []string{"pending->approved:approve"}, f.metrics.calls)
}

func TestService_ManualTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    domain.ReservationStatus
		call    func(s *Service, id int64) (*models.ReservationResponse, error)
		want    domain.ReservationStatus
		wantErr error
	}{
		{
			name: "admin rejects pending",
			from: domain.StatusPending,
			call: func(s *Service, id int64) (*models.ReservationResponse, error) {
				return s.Reject(context.Background(), id, admin)
			},
			want: domain.StatusRejected,
		},
		{
			name: "owner cancels pending",
			from: domain.StatusPending,
			call: func(s *Service, id int64) (*models.ReservationResponse, error) {
				return s.Cancel(context.Background(), id, owner)
			},
			want: domain.StatusCanceled,
		},
		{
			name: "owner cancels approved",
			from: domain.StatusApproved,
			call: func(s *Service, id int64) (*models.ReservationResponse, error) {
				return s.Cancel(context.Background(), id, owner)
			},
			want: domain.StatusCanceled,
		},
		{
			name: "admin starts approved",
			from: domain.StatusApproved,
			call: func(s *Service, id int64) (*models.ReservationResponse, error) {
				return s.StartUse(context.Background(), id, admin)
			},
			want: domain.StatusInUse,
		},
		{
			name: "cannot approve approved",
			from: domain.StatusApproved,
			call: func(s *Service, id int64) (*models.ReservationResponse, error) {
				return s.Approve(context.Background(), id, admin)
			},
			wantErr: ErrInvalidTransition,
		},
		{
			name: "cannot cancel in use",
			from: domain.StatusInUse,
			call: func(s *Service, id int64) (*models.ReservationResponse, error) {
				return s.Cancel(context.Background(), id, owner)
			},
			wantErr: ErrInvalidTransition,
		},
		{
			name: "cannot start pending",
			from: domain.StatusPending,
			call: func(s *Service, id int64) (*models.ReservationResponse, error) {
				return s.StartUse(context.Background(), id, admin)
			},
			wantErr: ErrInvalidTransition,
		},
		{
			name: "admin cannot cancel someone else's reservation",
			from: domain.StatusPending,
			call: func(s *Service, id int64) (*models.ReservationResponse, error) {
				return s.Cancel(context.Background(), id, admin)
			},
			wantErr: ErrAccessDenied,
		},
		{
			name: "owner cannot approve",
			from: domain.StatusPending,
			call: func(s *Service, id int64) (*models.ReservationResponse, error) {
				return s.Approve(context.Background(), id, owner)
			},
			wantErr: ErrAccessDenied,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			r := f.seed(t, tt.from)

			resp, err := tt.call(f.svc, r.ID)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				stored, getErr := f.store.Reservations().GetByID(context.Background(), r.ID)
				require.NoError(t, getErr)
				assert.Equal(t, tt.from, stored.Status)
				assert.Empty(t, f.notifications(t))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, string(tt.want), resp.Status)
			assert.Len(t, f.notifications(t), 1)
		})
	}
}

func TestService_TerminalStatesAreFinal(t *testing.T) {
	for _, status := range domain.TerminalStatuses {
		f := newFixture(t)
		r := f.seed(t, status)

		_, err := f.svc.Approve(context.Background(), r.ID, admin)
		assert.ErrorIs(t, err, ErrInvalidTransition, status)
		_, err = f.svc.Reject(context.Background(), r.ID, admin)
		assert.ErrorIs(t, err, ErrInvalidTransition, status)
		_, err = f.svc.Cancel(context.Background(), r.ID, owner)
		assert.ErrorIs(t, err, ErrInvalidTransition, status)
		_, err = f.svc.StartUse(context.Background(), r.ID, admin)
		assert.ErrorIs(t, err, ErrInvalidTransition, status)

		applied, err := f.svc.Expire(context.Background(), r, afterEnd)
		require.NoError(t, err)
		assert.False(t, applied, status)
	}
}

func TestService_EndedReservation(t *testing.T) {
	f := newFixture(t)
	pending := f.seed(t, domain.StatusPending)
	f.clock.Set(afterEnd)

	_, err := f.svc.Approve(context.Background(), pending.ID, admin)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = f.svc.Cancel(context.Background(), pending.ID, owner)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	resp, err := f.svc.Reject(context.Background(), pending.ID, admin)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusRejected), resp.Status)
}

func TestService_NotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Approve(context.Background(), 404, admin)
	assert.ErrorIs(t, err, ErrReservationNotFound)

	_, err = f.svc.GetByID(context.Background(), 404, owner)
	assert.ErrorIs(t, err, ErrReservationNotFound)

	_, err = f.svc.Approve(context.Background(), 0, admin)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_Expire(t *testing.T) {
	tests := []struct {
		from domain.ReservationStatus
		want domain.ReservationStatus
		kind domain.NotificationKind
	}{
		{from: domain.StatusPending, want: domain.StatusRejected, kind: domain.NotificationBookingRejected},
		{from: domain.StatusApproved, want: domain.StatusCompleted, kind: domain.NotificationBookingCompleted},
		{from: domain.StatusInUse, want: domain.StatusCompleted, kind: domain.NotificationBookingCompleted},
	}

	for _, tt := range tests {
		t.Run(string(tt.from), func(t *testing.T) {
			f := newFixture(t)
			r := f.seed(t, tt.from)

			applied, err := f.svc.Expire(context.Background(), r, slotEnd.Add(-time.Second))
			require.NoError(t, err)
			assert.False(t, applied, "window has not ended yet")

			applied, err = f.svc.Expire(context.Background(), r, afterEnd)
			require.NoError(t, err)
			assert.True(t, applied)

			// Повтор по устаревшему снимку ничего не меняет
			applied, err = f.svc.Expire(context.Background(), r, afterEnd)
			require.NoError(t, err)
			assert.False(t, applied)

			stored, err := f.store.Reservations().GetByID(context.Background(), r.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.want, stored.Status)

			list := f.notifications(t)
			require.Len(t, list, 1)
			assert.Equal(t, tt.kind, list[0].Kind)
			assert.Equal(t, slotStart, list[0].SlotStart)
			assert.Equal(t, slotEnd, list[0].SlotEnd)
		})
	}
}

type failingNotifications struct{}

func (failingNotifications) Create(context.Context, *domain.Notification) (*domain.Notification, error) {
	return nil, errors.New("disk full")
}

func TestService_StatusAndNotificationAreOneUnit(t *testing.T) {
	store := memory.NewStore()
	svc := NewService(store.Reservations(), failingNotifications{}, store.TxManager(), 2, &transitionCounter{}, logger.Nop())
	svc.timeProvider = &fixedClock{now: beforeNow}

	r, err := store.Reservations().Create(context.Background(), &domain.Reservation{
		UserID: 10, RoomID: 7, SlotID: domain.SlotS1, SlotDate: testDay,
		StartAt: slotStart, EndAt: slotEnd, Status: domain.StatusApproved,
	})
	require.NoError(t, err)

	applied, err := svc.Expire(context.Background(), r, afterEnd)
	assert.ErrorIs(t, err, ErrInternal)
	assert.False(t, applied)

	_, err = svc.Cancel(context.Background(), r.ID, owner)
	assert.ErrorIs(t, err, ErrInternal)

	stored, err := store.Reservations().GetByID(context.Background(), r.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, stored.Status)
}

func TestService_ConcurrentApproveAndExpire(t *testing.T) {
	f := newFixture(t)
	r := f.seed(t, domain.StatusPending)
	f.clock.Set(slotEnd.Add(-time.Minute))

	var wg sync.WaitGroup
	var approveErr, expireErr error
	var expired bool

	wg.Add(2)
	go func() {
		defer wg.Done()
		_, approveErr = f.svc.Approve(context.Background(), r.ID, admin)
	}()
	go func() {
		defer wg.Done()
		expired, expireErr = f.svc.Expire(context.Background(), r, afterEnd)
	}()
	wg.Wait()

	require.NoError(t, expireErr)

	stored, err := f.store.Reservations().GetByID(context.Background(), r.ID)
	require.NoError(t, err)

	if expired {
		// sweep успел первым: подтверждение проигрывает гонку
		assert.ErrorIs(t, approveErr, ErrInvalidTransition)
		assert.Equal(t, domain.StatusRejected, stored.Status)
	} else {
		require.NoError(t, approveErr)
		assert.Equal(t, domain.StatusApproved, stored.Status)
	}
	assert.Len(t, f.notifications(t), 1)
}

func TestService_Reads(t *testing.T) {
	f := newFixture(t)
	active := f.seed(t, domain.StatusApproved)

	finished, err := f.store.Reservations().Create(context.Background(), &domain.Reservation{
		UserID: owner.UserID, RoomID: 7, SlotID: domain.SlotS2, SlotDate: testDay.AddDays(-1),
		StartAt: slotStart.AddDate(0, 0, -1), EndAt: slotEnd.AddDate(0, 0, -1), Status: domain.StatusCompleted,
	})
	require.NoError(t, err)

	got, err := f.svc.GetByID(context.Background(), active.ID, owner)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-10", got.Date)

	_, err = f.svc.GetByID(context.Background(), active.ID, models.Actor{UserID: 99})
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = f.svc.GetByID(context.Background(), active.ID, admin)
	assert.NoError(t, err)

	list, err := f.svc.ListActive(context.Background(), owner.UserID)
	require.NoError(t, err)
	require.Len(t, list.Reservations, 1)
	assert.Equal(t, active.ID, list.Reservations[0].ID)

	count, err := f.svc.CountActive(context.Background(), owner.UserID)
	require.NoError(t, err)
	assert.Equal(t, &models.ActiveCountResponse{Active: 1, Limit: 2}, count)

	history, err := f.svc.ListUserReservations(context.Background(), &models.ListUserReservationsRequest{UserID: owner.UserID})
	require.NoError(t, err)
	require.Len(t, history.Reservations, 2)
	assert.Equal(t, active.ID, history.Reservations[0].ID)
	assert.Equal(t, finished.ID, history.Reservations[1].ID)

	completed, err := f.svc.ListUserReservations(context.Background(), &models.ListUserReservationsRequest{UserID: owner.UserID, Status: ptr.Ptr("completed")})
	require.NoError(t, err)
	assert.Len(t, completed.Reservations, 1)

	_, err = f.svc.ListUserReservations(context.Background(), &models.ListUserReservationsRequest{UserID: owner.UserID, Status: ptr.Ptr("bogus")})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_ListReservations(t *testing.T) {
	f := newFixture(t)
	pending := f.seed(t, domain.StatusPending)

	canceled, err := f.store.Reservations().Create(context.Background(), &domain.Reservation{
		UserID:   owner.UserID,
		RoomID:   8,
		SlotID:   domain.SlotS2,
		SlotDate: testDay,
		StartAt:  slotStart.Add(2 * time.Hour),
		EndAt:    slotEnd.Add(2 * time.Hour),
		Status:   domain.StatusCanceled,
	})
	require.NoError(t, err)

	_, err = f.svc.ListReservations(context.Background(), &models.ListReservationsRequest{}, owner)
	assert.ErrorIs(t, err, ErrAccessDenied)

	list, err := f.svc.ListReservations(context.Background(), &models.ListReservationsRequest{}, admin)
	require.NoError(t, err)
	require.Len(t, list.Reservations, 1)
	assert.Equal(t, pending.ID, list.Reservations[0].ID)

	list, err = f.svc.ListReservations(context.Background(), &models.ListReservationsRequest{IncludeInactive: true}, admin)
	require.NoError(t, err)
	require.Len(t, list.Reservations, 2)
	assert.Equal(t, canceled.ID, list.Reservations[1].ID)

	status := "pending"
	room := int64(7)
	list, err = f.svc.ListReservations(context.Background(), &models.ListReservationsRequest{Status: &status, RoomID: &room}, admin)
	require.NoError(t, err)
	require.Len(t, list.Reservations, 1)

	nextDay := testDay.AddDays(1)
	list, err = f.svc.ListReservations(context.Background(), &models.ListReservationsRequest{From: &nextDay}, admin)
	require.NoError(t, err)
	assert.Empty(t, list.Reservations)

	_, err = f.svc.ListReservations(context.Background(), &models.ListReservationsRequest{From: &nextDay, To: &testDay}, admin)
	assert.ErrorIs(t, err, ErrInvalidInput)

	bad := "archived"
	_, err = f.svc.ListReservations(context.Background(), &models.ListReservationsRequest{Status: &bad}, admin)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
