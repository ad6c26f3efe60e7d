package models

import (
	"time"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
)

// ListRequest запрос страницы ленты: новые сверху, BeforeID - курсор (id последнего полученного)
type ListRequest struct {
	UserID   int64
	BeforeID int64
	Limit    int
}

// NotificationResponse уведомление в ленте
type NotificationResponse struct {
	ID            int64     `json:"id"`
	Kind          string    `json:"kind"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Read          bool      `json:"read"`
	ReservationID int64     `json:"reservationId,omitempty"`
	RoomName      string    `json:"roomName,omitempty"`
	RoomCode      string    `json:"roomCode,omitempty"`
	SlotStart     *string   `json:"slotStart,omitempty"`
	SlotEnd       *string   `json:"slotEnd,omitempty"`
	Status        string    `json:"status,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// ListResponse страница ленты
type ListResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	NextBeforeID  *int64                 `json:"nextBeforeId,omitempty"`
	Unread        int                    `json:"unread"`
}

// UnreadResponse число непрочитанных уведомлений
type UnreadResponse struct {
	Unread int `json:"unread"`
}

// MarkAllReadResponse число отмеченных уведомлений
type MarkAllReadResponse struct {
	Marked int64 `json:"marked"`
}

// FromDomainNotification конвертирует domain модель в DTO
func FromDomainNotification(n *domain.Notification) NotificationResponse {
	resp := NotificationResponse{
		ID:            n.ID,
		Kind:          string(n.Kind),
		Title:         n.Title,
		Description:   n.Description,
		Read:          n.Read,
		ReservationID: n.ReservationID,
		RoomName:      n.RoomName,
		RoomCode:      n.RoomCode,
		Status:        string(n.Status),
		CreatedAt:     n.CreatedAt,
	}
	if !n.SlotStart.IsZero() {
		s := n.SlotStart.Format(time.RFC3339)
		resp.SlotStart = &s
	}
	if !n.SlotEnd.IsZero() {
		e := n.SlotEnd.Format(time.RFC3339)
		resp.SlotEnd = &e
	}
	return resp
}
