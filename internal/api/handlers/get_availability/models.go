package get_availability

import (
	getAvailability "github.com/m04kA/SMC-RoomBookingService/internal/usecase/get_availability"
)

// timeLayout время слота в часовом поясе площадки
const timeLayout = "15:04"

// AvailabilityResponse HTTP response model
type AvailabilityResponse struct {
	Date  string                 `json:"date"`
	Rooms []RoomAvailabilityView `json:"rooms"`
}

type RoomAvailabilityView struct {
	RoomID   int64      `json:"roomId"`
	RoomName string     `json:"roomName"`
	RoomCode string     `json:"roomCode,omitempty"`
	Slots    []SlotView `json:"slots"`
}

type SlotView struct {
	ID    string `json:"id"`
	Start string `json:"start"` // "08:00"
	End   string `json:"end"`   // "10:00"
	State string `json:"state"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailability.Response) *AvailabilityResponse {
	result := &AvailabilityResponse{
		Date:  resp.Date.String(),
		Rooms: make([]RoomAvailabilityView, 0, len(resp.Rooms)),
	}

	for _, room := range resp.Rooms {
		view := RoomAvailabilityView{
			RoomID:   room.RoomID,
			RoomName: room.RoomName,
			RoomCode: room.RoomCode,
			Slots:    make([]SlotView, 0, len(room.Slots)),
		}
		for _, s := range room.Slots {
			view.Slots = append(view.Slots, SlotView{
				ID:    string(s.ID),
				Start: s.Start.Format(timeLayout),
				End:   s.End.Format(timeLayout),
				State: string(s.State),
			})
		}
		result.Rooms = append(result.Rooms, view)
	}

	return result
}
