package create_reservation

import (
	"time"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
	"github.com/m04kA/SMC-RoomBookingService/pkg/types"
)

// Rules правила допуска
type Rules struct {
	MaxActiveReservations int
	AdvanceBookingDays    int
}

// Request модель запроса на создание бронирования
type Request struct {
	UserID         int64
	RoomID         int64
	Date           types.Date
	SlotID         domain.SlotID
	NumberOfPeople int
	Accessories    []string
	Note           *string
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID             int64
	UserID         int64
	RoomID         int64
	RoomName       string
	RoomCode       string
	SlotID         domain.SlotID
	Date           types.Date
	StartAt        time.Time
	EndAt          time.Time
	Status         domain.ReservationStatus
	NumberOfPeople int
	Accessories    []string
	Note           *string
	CreatedAt      time.Time
}

func toResponse(r *domain.Reservation) *Response {
	return &Response{
		ID:             r.ID,
		UserID:         r.UserID,
		RoomID:         r.RoomID,
		RoomName:       r.RoomName,
		RoomCode:       r.RoomCode,
		SlotID:         r.SlotID,
		Date:           r.SlotDate,
		StartAt:        r.StartAt,
		EndAt:          r.EndAt,
		Status:         r.Status,
		NumberOfPeople: r.NumberOfPeople,
		Accessories:    r.Accessories,
		Note:           r.Note,
		CreatedAt:      r.CreatedAt,
	}
}
