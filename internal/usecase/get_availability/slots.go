package get_availability

import (
	"time"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
	"github.com/m04kA/SMC-RoomBookingService/pkg/types"
)

// classifySlots раскладывает бронирования комнаты по слотам дня.
// Приоритет: past > busy > held > free. День раньше сегодняшнего целиком past.
func classifySlots(windows []domain.SlotWindow, reservations []*domain.Reservation, today types.Date, now time.Time) []Slot {
	dayPassed := len(windows) > 0 && windows[0].Day.Before(today)

	states := make(map[domain.SlotID]domain.SlotState, len(windows))
	for _, r := range reservations {
		if !r.Status.IsOccupying() {
			continue
		}
		state := domain.StateForStatus(r.Status)
		if state.Dominates(states[r.SlotID]) {
			states[r.SlotID] = state
		}
	}

	slots := make([]Slot, 0, len(windows))
	for _, w := range windows {
		state := domain.SlotFree
		switch {
		case dayPassed || w.IsPast(now):
			state = domain.SlotPast
		case states[w.Slot.ID] != "":
			state = states[w.Slot.ID]
		}

		slots = append(slots, Slot{
			ID:    w.Slot.ID,
			Start: w.Start,
			End:   w.End,
			State: state,
		})
	}
	return slots
}

// groupByRoom раскладывает бронирования по комнатам
func groupByRoom(reservations []*domain.Reservation) map[int64][]*domain.Reservation {
	result := make(map[int64][]*domain.Reservation)
	for _, r := range reservations {
		result[r.RoomID] = append(result[r.RoomID], r)
	}
	return result
}
