package domain

import (
	"fmt"
	"time"
)

// NotificationKind тип события в ленте пользователя
type NotificationKind string

const (
	NotificationBookingCreated   NotificationKind = "booking_created"
	NotificationBookingApproved  NotificationKind = "booking_approved"
	NotificationBookingRejected  NotificationKind = "booking_rejected"
	NotificationBookingCancelled NotificationKind = "booking_cancelled"
	NotificationBookingStarted   NotificationKind = "booking_started"
	NotificationBookingCompleted NotificationKind = "booking_completed"
)

var notificationTitles = map[NotificationKind]string{
	NotificationBookingCreated:   "Заявка на бронирование создана",
	NotificationBookingApproved:  "Бронирование подтверждено",
	NotificationBookingRejected:  "Бронирование отклонено",
	NotificationBookingCancelled: "Бронирование отменено",
	NotificationBookingStarted:   "Бронирование началось",
	NotificationBookingCompleted: "Бронирование завершено",
}

// NotificationPayload данные бронирования, которые попадают в уведомление
type NotificationPayload struct {
	ReservationID int64
	RoomName      string
	RoomCode      string
	SlotStart     time.Time
	SlotEnd       time.Time
	Status        ReservationStatus
}

// Notification запись в ленте уведомлений пользователя (append-only)
type Notification struct {
	ID          int64
	UserID      int64
	Kind        NotificationKind
	Title       string
	Description string
	Read        bool
	NotificationPayload
	CreatedAt time.Time
}

// PayloadFromReservation снимок бронирования для уведомления
func PayloadFromReservation(r *Reservation) NotificationPayload {
	return NotificationPayload{
		ReservationID: r.ID,
		RoomName:      r.RoomName,
		RoomCode:      r.RoomCode,
		SlotStart:     r.StartAt,
		SlotEnd:       r.EndAt,
		Status:        r.Status,
	}
}

// NewNotification собирает уведомление: заголовок по типу, описание
// "комната (код) • дата время • статус: X"
func NewNotification(userID int64, kind NotificationKind, payload NotificationPayload) *Notification {
	title, ok := notificationTitles[kind]
	if !ok {
		title = string(kind)
	}

	return &Notification{
		UserID:              userID,
		Kind:                kind,
		Title:               title,
		Description:         describe(payload),
		NotificationPayload: payload,
	}
}

func describe(p NotificationPayload) string {
	room := p.RoomName
	if p.RoomCode != "" {
		room = fmt.Sprintf("%s (%s)", p.RoomName, p.RoomCode)
	}
	return fmt.Sprintf("%s • %s %s-%s • статус: %s",
		room,
		p.SlotStart.Format(DateFormat),
		p.SlotStart.Format("15:04"),
		p.SlotEnd.Format("15:04"),
		p.Status,
	)
}
