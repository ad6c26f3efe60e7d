package sweep

import "fmt"

// validateRequest валидирует область sweep
func validateRequest(req *Request) error {
	if req.UserID != nil && *req.UserID <= 0 {
		return fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}
	if req.RoomID != nil && *req.RoomID <= 0 {
		return fmt.Errorf("%w: roomID must be positive", ErrInvalidInput)
	}
	return nil
}

func describeScope(req *Request) string {
	switch {
	case req.UserID != nil && req.RoomID != nil:
		return fmt.Sprintf("user=%d room=%d", *req.UserID, *req.RoomID)
	case req.UserID != nil:
		return fmt.Sprintf("user=%d", *req.UserID)
	case req.RoomID != nil:
		return fmt.Sprintf("room=%d", *req.RoomID)
	}
	return "all"
}
