package create_reservation

import (
	"time"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
	createReservation "github.com/m04kA/SMC-RoomBookingService/internal/usecase/create_reservation"
	"github.com/m04kA/SMC-RoomBookingService/pkg/types"
)

// CreateReservationRequest HTTP request model
type CreateReservationRequest struct {
	RoomID         int64    `json:"roomId"`
	Date           string   `json:"date"`   // "2025-03-10"
	SlotID         string   `json:"slotId"` // "S1".."S4"
	NumberOfPeople int      `json:"numberOfPeople"`
	Accessories    []string `json:"accessories,omitempty"`
	Note           *string  `json:"note,omitempty"`
}

// ReservationResponse HTTP response model
type ReservationResponse struct {
	ID             int64    `json:"id"`
	UserID         int64    `json:"userId"`
	RoomID         int64    `json:"roomId"`
	RoomName       string   `json:"roomName"`
	RoomCode       string   `json:"roomCode,omitempty"`
	SlotID         string   `json:"slotId"`
	Date           string   `json:"date"`
	StartAt        string   `json:"startAt"`
	EndAt          string   `json:"endAt"`
	Status         string   `json:"status"`
	NumberOfPeople int      `json:"numberOfPeople"`
	Accessories    []string `json:"accessories"`
	Note           *string  `json:"note,omitempty"`
	CreatedAt      string   `json:"createdAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case (с парсингом даты)
func (r *CreateReservationRequest) ToUseCaseRequest(userID int64) (*createReservation.Request, error) {
	date, err := types.ParseDate(r.Date)
	if err != nil {
		return nil, err
	}

	return &createReservation.Request{
		UserID:         userID,
		RoomID:         r.RoomID,
		Date:           date,
		SlotID:         domain.SlotID(r.SlotID),
		NumberOfPeople: r.NumberOfPeople,
		Accessories:    r.Accessories,
		Note:           r.Note,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createReservation.Response) *ReservationResponse {
	accessories := resp.Accessories
	if accessories == nil {
		accessories = []string{}
	}

	return &ReservationResponse{
		ID:             resp.ID,
		UserID:         resp.UserID,
		RoomID:         resp.RoomID,
		RoomName:       resp.RoomName,
		RoomCode:       resp.RoomCode,
		SlotID:         string(resp.SlotID),
		Date:           resp.Date.String(),
		StartAt:        resp.StartAt.Format(time.RFC3339),
		EndAt:          resp.EndAt.Format(time.RFC3339),
		Status:         string(resp.Status),
		NumberOfPeople: resp.NumberOfPeople,
		Accessories:    accessories,
		Note:           resp.Note,
		CreatedAt:      resp.CreatedAt.Format(time.RFC3339),
	}
}
