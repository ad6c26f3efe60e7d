package get_availability

import "fmt"

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if len(req.RoomIDs) == 0 {
		return fmt.Errorf("%w: at least one roomID is required", ErrInvalidInput)
	}

	if len(req.RoomIDs) > MaxRoomsPerRequest {
		return fmt.Errorf("%w: at most %d rooms per request", ErrInvalidInput, MaxRoomsPerRequest)
	}

	seen := make(map[int64]struct{}, len(req.RoomIDs))
	for _, id := range req.RoomIDs {
		if id <= 0 {
			return fmt.Errorf("%w: roomID must be positive", ErrInvalidInput)
		}
		if _, ok := seen[id]; ok {
			return fmt.Errorf("%w: duplicate roomID %d", ErrInvalidInput, id)
		}
		seen[id] = struct{}{}
	}

	return nil
}
