package models

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
	"github.com/m04kA/SMC-RoomBookingService/pkg/types"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid reservation status")
)

// Actor пользователь, выполняющий операцию
type Actor struct {
	UserID  int64
	IsAdmin bool
}

// ListUserReservationsRequest запрос истории бронирований пользователя
type ListUserReservationsRequest struct {
	UserID int64   `json:"userId"`
	Status *string `json:"status,omitempty"`
}

// ListReservationsRequest выборка бронирований для администратора
type ListReservationsRequest struct {
	RoomID          *int64
	From            *types.Date
	To              *types.Date
	Status          *string
	IncludeInactive bool
	Limit           int
}

// ReservationResponse ответ с данными бронирования
type ReservationResponse struct {
	ID             int64    `json:"id"`
	UserID         int64    `json:"userId"`
	RoomID         int64    `json:"roomId"`
	RoomName       string   `json:"roomName"`
	RoomCode       string   `json:"roomCode,omitempty"`
	SlotID         string   `json:"slotId"`
	Date           string   `json:"date"` // "2025-03-10"
	StartAt        string   `json:"startAt"`
	EndAt          string   `json:"endAt"`
	Status         string   `json:"status"`
	NumberOfPeople int      `json:"numberOfPeople"`
	Accessories    []string `json:"accessories"`
	Note           *string  `json:"note,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ReservationListResponse ответ со списком бронирований
type ReservationListResponse struct {
	Reservations []ReservationResponse `json:"reservations"`
}

// ActiveCountResponse число активных бронирований пользователя и лимит
type ActiveCountResponse struct {
	Active int `json:"active"`
	Limit  int `json:"limit"`
}

// FromDomainReservation конвертирует domain модель в DTO
func FromDomainReservation(r *domain.Reservation) *ReservationResponse {
	if r == nil {
		return nil
	}

	accessories := r.Accessories
	if accessories == nil {
		accessories = []string{}
	}

	return &ReservationResponse{
		ID:             r.ID,
		UserID:         r.UserID,
		RoomID:         r.RoomID,
		RoomName:       r.RoomName,
		RoomCode:       r.RoomCode,
		SlotID:         string(r.SlotID),
		Date:           r.SlotDate.String(),
		StartAt:        r.StartAt.Format(time.RFC3339),
		EndAt:          r.EndAt.Format(time.RFC3339),
		Status:         string(r.Status),
		NumberOfPeople: r.NumberOfPeople,
		Accessories:    accessories,
		Note:           r.Note,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

// FromDomainReservationList конвертирует список domain моделей в DTO
func FromDomainReservationList(reservations []*domain.Reservation) *ReservationListResponse {
	resp := &ReservationListResponse{
		Reservations: make([]ReservationResponse, 0, len(reservations)),
	}
	for _, r := range reservations {
		if dto := FromDomainReservation(r); dto != nil {
			resp.Reservations = append(resp.Reservations, *dto)
		}
	}
	return resp
}

// ToDomainReservationStatus конвертирует строку в domain.ReservationStatus с валидацией
func ToDomainReservationStatus(status string) (domain.ReservationStatus, error) {
	s := domain.ReservationStatus(status)
	if !s.IsValid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}
