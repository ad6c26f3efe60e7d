package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
	notificationRepo "github.com/m04kA/SMC-RoomBookingService/internal/infra/storage/notification"
	reservationRepo "github.com/m04kA/SMC-RoomBookingService/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-RoomBookingService/pkg/types"
)

// Store хранилище бронирований и уведомлений в памяти процесса.
// Транзакции полностью сериализованы одним мьютексом, при ошибке состояние откатывается.
// Используется в режиме storage.driver = "memory" и в тестах.
type Store struct {
	mu sync.Mutex

	reservations       map[int64]*domain.Reservation
	notifications      []*domain.Notification
	nextReservationID  int64
	nextNotificationID int64

	now func() time.Time
}

type txKey struct{}

// NewStore создает пустое хранилище
func NewStore() *Store {
	return &Store{
		reservations: make(map[int64]*domain.Reservation),
		now:          time.Now,
	}
}

// SetClock подменяет источник времени для created_at/updated_at
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// Reservations репозиторий бронирований поверх хранилища
func (s *Store) Reservations() *ReservationRepository {
	return &ReservationRepository{store: s}
}

// Notifications репозиторий уведомлений поверх хранилища
func (s *Store) Notifications() *NotificationRepository {
	return &NotificationRepository{store: s}
}

// TxManager менеджер транзакций поверх хранилища
func (s *Store) TxManager() *TxManager {
	return &TxManager{store: s}
}

// lock захватывает мьютекс, если вызов не внутри транзакции этого хранилища
func (s *Store) lock(ctx context.Context) func() {
	if owner, ok := ctx.Value(txKey{}).(*Store); ok && owner == s {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

type snapshot struct {
	reservations       map[int64]domain.Reservation
	notifications      int
	readFlags          []bool
	nextReservationID  int64
	nextNotificationID int64
}

func (s *Store) snapshot() snapshot {
	snap := snapshot{
		reservations:       make(map[int64]domain.Reservation, len(s.reservations)),
		notifications:      len(s.notifications),
		readFlags:          make([]bool, len(s.notifications)),
		nextReservationID:  s.nextReservationID,
		nextNotificationID: s.nextNotificationID,
	}
	for id, r := range s.reservations {
		snap.reservations[id] = *r
	}
	for i, n := range s.notifications {
		snap.readFlags[i] = n.Read
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.reservations = make(map[int64]*domain.Reservation, len(snap.reservations))
	for id, r := range snap.reservations {
		r := r
		s.reservations[id] = &r
	}
	s.notifications = s.notifications[:snap.notifications]
	for i, read := range snap.readFlags {
		s.notifications[i].Read = read
	}
	s.nextReservationID = snap.nextReservationID
	s.nextNotificationID = snap.nextNotificationID
}

// TxManager сериализует транзакции хранилища
type TxManager struct {
	store *Store
}

func (m *TxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, fn)
}

func (m *TxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, fn)
}

func (m *TxManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, fn)
}

func (m *TxManager) run(ctx context.Context, fn func(ctx context.Context) error) error {
	s := m.store
	if owner, ok := ctx.Value(txKey{}).(*Store); ok && owner == s {
		return fn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	snap := s.snapshot()
	if err := fn(context.WithValue(ctx, txKey{}, s)); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

// ReservationRepository бронирования в памяти; семантика совпадает с PostgreSQL репозиторием
type ReservationRepository struct {
	store *Store
}

func (r *ReservationRepository) Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	s := r.store
	defer s.lock(ctx)()

	if res.Status.IsOccupying() {
		for _, existing := range s.reservations {
			if existing.Status.IsOccupying() &&
				existing.RoomID == res.RoomID &&
				existing.SlotDate == res.SlotDate &&
				existing.SlotID == res.SlotID {
				return nil, reservationRepo.ErrSlotOccupied
			}
		}
	}

	s.nextReservationID++
	now := s.now()

	stored := *res
	stored.ID = s.nextReservationID
	stored.CreatedAt = now
	stored.UpdatedAt = now
	stored.Accessories = append([]string{}, res.Accessories...)
	s.reservations[stored.ID] = &stored

	out := stored
	return &out, nil
}

func (r *ReservationRepository) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	s := r.store
	defer s.lock(ctx)()

	res, ok := s.reservations[id]
	if !ok {
		return nil, reservationRepo.ErrReservationNotFound
	}
	out := *res
	return &out, nil
}

// LockKeys no-op: транзакции хранилища и так сериализованы
func (r *ReservationRepository) LockKeys(ctx context.Context, keys ...string) error {
	if owner, ok := ctx.Value(txKey{}).(*Store); !ok || owner != r.store {
		return reservationRepo.ErrNotInTransaction
	}
	return nil
}

func (r *ReservationRepository) GetOccupyingBySlot(ctx context.Context, roomID int64, date types.Date, slotID domain.SlotID) ([]*domain.Reservation, error) {
	return r.filter(ctx, func(res *domain.Reservation) bool {
		return res.Status.IsOccupying() && res.RoomID == roomID && res.SlotDate == date && res.SlotID == slotID
	}, byStart), nil
}

func (r *ReservationRepository) CountActiveByUser(ctx context.Context, userID int64, now time.Time) (int, error) {
	active, _ := r.GetActiveByUser(ctx, userID, now)
	return len(active), nil
}

func (r *ReservationRepository) GetActiveByUser(ctx context.Context, userID int64, now time.Time) ([]*domain.Reservation, error) {
	return r.filter(ctx, func(res *domain.Reservation) bool {
		return res.UserID == userID && res.IsActive(now)
	}, byStart), nil
}

func (r *ReservationRepository) GetByUser(ctx context.Context, filter domain.UserReservationsFilter) ([]*domain.Reservation, error) {
	return r.filter(ctx, func(res *domain.Reservation) bool {
		if res.UserID != filter.UserID {
			return false
		}
		return filter.Status == nil || res.Status == *filter.Status
	}, func(a, b *domain.Reservation) bool { return byStart(b, a) }), nil
}

func (r *ReservationRepository) GetWithFilter(ctx context.Context, f domain.ReservationsFilter) ([]*domain.Reservation, error) {
	page := r.filter(ctx, func(res *domain.Reservation) bool {
		if f.RoomID != nil && res.RoomID != *f.RoomID {
			return false
		}
		if f.From != nil && res.SlotDate.Before(*f.From) {
			return false
		}
		if f.To != nil && res.SlotDate.After(*f.To) {
			return false
		}
		if f.Status != nil {
			return res.Status == *f.Status
		}
		return f.IncludeInactive || res.Status.IsOccupying()
	}, byStart)

	if f.Limit > 0 && uint64(len(page)) > f.Limit {
		page = page[:f.Limit]
	}
	return page, nil
}

func (r *ReservationRepository) GetOccupyingByRoomsAndDate(ctx context.Context, roomIDs []int64, date types.Date) ([]*domain.Reservation, error) {
	rooms := make(map[int64]struct{}, len(roomIDs))
	for _, id := range roomIDs {
		rooms[id] = struct{}{}
	}
	return r.filter(ctx, func(res *domain.Reservation) bool {
		_, ok := rooms[res.RoomID]
		return ok && res.SlotDate == date && res.Status.IsOccupying()
	}, func(a, b *domain.Reservation) bool {
		if a.RoomID != b.RoomID {
			return a.RoomID < b.RoomID
		}
		return byStart(a, b)
	}), nil
}

func (r *ReservationRepository) GetExpired(ctx context.Context, f domain.ExpiredFilter) ([]*domain.Reservation, error) {
	page := r.filter(ctx, func(res *domain.Reservation) bool {
		if res.Status != f.Status || res.EndAt.After(f.EndsBy) {
			return false
		}
		if f.UserID != nil && res.UserID != *f.UserID {
			return false
		}
		if f.RoomID != nil && res.RoomID != *f.RoomID {
			return false
		}
		if f.After != nil {
			if res.EndAt.Before(f.After.EndAt) {
				return false
			}
			if res.EndAt.Equal(f.After.EndAt) && res.ID <= f.After.ID {
				return false
			}
		}
		return true
	}, byEnd)

	if f.Limit > 0 && uint64(len(page)) > f.Limit {
		page = page[:f.Limit]
	}
	return page, nil
}

func (r *ReservationRepository) UpdateStatus(ctx context.Context, upd domain.StatusUpdate) (*domain.Reservation, error) {
	s := r.store
	defer s.lock(ctx)()

	res, ok := s.reservations[upd.ID]
	if !ok || res.Status != upd.From {
		return nil, reservationRepo.ErrStatusConflict
	}
	if upd.EndsBy != nil && res.EndAt.After(*upd.EndsBy) {
		return nil, reservationRepo.ErrStatusConflict
	}

	res.Status = upd.To
	res.UpdatedAt = s.now()

	out := *res
	return &out, nil
}

func (r *ReservationRepository) filter(ctx context.Context, keep func(*domain.Reservation) bool, less func(a, b *domain.Reservation) bool) []*domain.Reservation {
	s := r.store
	defer s.lock(ctx)()

	result := make([]*domain.Reservation, 0)
	for _, res := range s.reservations {
		if keep(res) {
			out := *res
			result = append(result, &out)
		}
	}
	sort.Slice(result, func(i, j int) bool { return less(result[i], result[j]) })
	return result
}

func byStart(a, b *domain.Reservation) bool {
	if !a.StartAt.Equal(b.StartAt) {
		return a.StartAt.Before(b.StartAt)
	}
	return a.ID < b.ID
}

func byEnd(a, b *domain.Reservation) bool {
	if !a.EndAt.Equal(b.EndAt) {
		return a.EndAt.Before(b.EndAt)
	}
	return a.ID < b.ID
}

// NotificationRepository лента уведомлений в памяти
type NotificationRepository struct {
	store *Store
}

func (r *NotificationRepository) Create(ctx context.Context, n *domain.Notification) (*domain.Notification, error) {
	s := r.store
	defer s.lock(ctx)()

	s.nextNotificationID++
	stored := *n
	stored.ID = s.nextNotificationID
	stored.CreatedAt = s.now()
	s.notifications = append(s.notifications, &stored)

	out := stored
	return &out, nil
}

func (r *NotificationRepository) GetByUser(ctx context.Context, userID int64, beforeID int64, limit uint64) ([]*domain.Notification, error) {
	s := r.store
	defer s.lock(ctx)()

	result := make([]*domain.Notification, 0)
	for i := len(s.notifications) - 1; i >= 0; i-- {
		n := s.notifications[i]
		if n.UserID != userID || (beforeID > 0 && n.ID >= beforeID) {
			continue
		}
		out := *n
		result = append(result, &out)
		if limit > 0 && uint64(len(result)) == limit {
			break
		}
	}
	return result, nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, userID int64, id int64) error {
	s := r.store
	defer s.lock(ctx)()

	for _, n := range s.notifications {
		if n.ID == id && n.UserID == userID {
			n.Read = true
			return nil
		}
	}
	return notificationRepo.ErrNotificationNotFound
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	s := r.store
	defer s.lock(ctx)()

	var marked int64
	for _, n := range s.notifications {
		if n.UserID == userID && !n.Read {
			n.Read = true
			marked++
		}
	}
	return marked, nil
}

func (r *NotificationRepository) CountUnread(ctx context.Context, userID int64) (int, error) {
	s := r.store
	defer s.lock(ctx)()

	count := 0
	for _, n := range s.notifications {
		if n.UserID == userID && !n.Read {
			count++
		}
	}
	return count, nil
}
