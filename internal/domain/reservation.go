package domain

import (
	"time"

	"github.com/m04kA/SMC-RoomBookingService/pkg/types"
)

// ReservationStatus статус бронирования комнаты
type ReservationStatus string

const (
	StatusPending   ReservationStatus = "pending"
	StatusApproved  ReservationStatus = "approved"
	StatusInUse     ReservationStatus = "in_use"
	StatusCompleted ReservationStatus = "completed"
	StatusCanceled  ReservationStatus = "canceled"
	StatusRejected  ReservationStatus = "rejected"
)

// OccupyingStatuses статусы, в которых бронирование занимает слот
// и учитывается в лимите активных бронирований пользователя
var OccupyingStatuses = []ReservationStatus{
	StatusPending,
	StatusApproved,
	StatusInUse,
}

// TerminalStatuses конечные статусы, из которых переходов нет
var TerminalStatuses = []ReservationStatus{
	StatusCompleted,
	StatusCanceled,
	StatusRejected,
}

// IsValid проверяет, что статус известен
func (s ReservationStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusInUse, StatusCompleted, StatusCanceled, StatusRejected:
		return true
	}
	return false
}

// IsOccupying статус занимает слот
func (s ReservationStatus) IsOccupying() bool {
	return s == StatusPending || s == StatusApproved || s == StatusInUse
}

// IsTerminal статус конечный
func (s ReservationStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCanceled || s == StatusRejected
}

// Reservation бронирование комнаты на слот конкретного дня
type Reservation struct {
	ID     int64
	UserID int64
	RoomID int64

	// Снимок данных комнаты на момент бронирования (для истории и уведомлений)
	RoomName string
	RoomCode string

	SlotID   SlotID
	SlotDate types.Date
	StartAt  time.Time
	EndAt    time.Time
	Status   ReservationStatus

	NumberOfPeople int
	Accessories    []string
	Note           *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasEnded окно бронирования закончилось
func (r *Reservation) HasEnded(now time.Time) bool {
	return !r.EndAt.After(now)
}

// IsActive бронирование занимает слот и ещё не закончилось (учитывается в лимите)
func (r *Reservation) IsActive(now time.Time) bool {
	return r.Status.IsOccupying() && !r.HasEnded(now)
}

// IsOwnedBy проверяет владельца
func (r *Reservation) IsOwnedBy(userID int64) bool {
	return r.UserID == userID
}

// UserReservationsFilter фильтр истории бронирований пользователя
type UserReservationsFilter struct {
	UserID int64
	Status *ReservationStatus
}

// ReservationsFilter выборка для администратора: очередь заявок и расписание комнат.
// Без Status и IncludeInactive возвращаются только занимающие слот бронирования.
type ReservationsFilter struct {
	RoomID          *int64
	From            *types.Date // Включительно
	To              *types.Date // Включительно
	Status          *ReservationStatus
	IncludeInactive bool
	Limit           uint64
}

// ExpiredFilter выборка закончившихся бронирований для sweep.
// Страницы упорядочены по (end_at, id); After - ключ последней строки предыдущей страницы.
type ExpiredFilter struct {
	Status ReservationStatus
	EndsBy time.Time
	UserID *int64
	RoomID *int64
	After  *SweepCursor
	Limit  uint64
}

// SweepCursor позиция в упорядоченной выборке sweep
type SweepCursor struct {
	EndAt time.Time
	ID    int64
}

// StatusUpdate условное изменение статуса: применяется, только если
// бронирование всё ещё в статусе From (и, если указан EndsBy, уже закончилось к этому моменту)
type StatusUpdate struct {
	ID     int64
	From   ReservationStatus
	To     ReservationStatus
	EndsBy *time.Time
}
