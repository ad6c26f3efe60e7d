package create_reservation

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
)

// validateRequest валидирует входные данные запроса (до обращения к хранилищу)
func validateRequest(req *Request) error {
	if req.UserID <= 0 {
		return fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	if req.RoomID <= 0 {
		return fmt.Errorf("%w: roomID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if _, ok := domain.SlotByID(req.SlotID); !ok {
		return fmt.Errorf("%w: unknown slot %q", ErrInvalidInput, req.SlotID)
	}

	if req.NumberOfPeople <= 0 {
		return fmt.Errorf("%w: numberOfPeople must be positive", ErrInvalidInput)
	}

	if len(req.Accessories) > domain.MaxAccessories {
		return fmt.Errorf("%w: at most %d accessories allowed", ErrInvalidInput, domain.MaxAccessories)
	}

	for _, a := range req.Accessories {
		if strings.TrimSpace(a) == "" || len(a) > domain.MaxAccessoryLength {
			return fmt.Errorf("%w: invalid accessory %q", ErrInvalidInput, a)
		}
	}

	if req.Note != nil && len(*req.Note) > domain.MaxNoteLength {
		return fmt.Errorf("%w: note is longer than %d characters", ErrInvalidInput, domain.MaxNoteLength)
	}

	return nil
}

// validateCapacity проверяет количество людей относительно вместимости комнаты
func validateCapacity(room *domain.Room, people int) error {
	if !room.FitsCapacity(people) {
		return fmt.Errorf("%w: room %d accepts %d-%d people, got %d",
			ErrCapacityMismatch, room.ID, room.CapacityMin, room.CapacityMax, people)
	}
	return nil
}

// validateTime проверяет, что слот не начался и не дальше горизонта
func validateTime(window domain.SlotWindow, now time.Time, advanceDays int) error {
	if window.Start.Before(now) {
		return fmt.Errorf("%w: slot %s on %s started at %s",
			ErrInvalidTime, window.Slot.ID, window.Day, window.Start.Format(time.RFC3339))
	}

	if advanceDays > 0 {
		horizon := now.AddDate(0, 0, advanceDays)
		if window.Start.After(horizon) {
			return fmt.Errorf("%w: can only book %d days in advance", ErrTooFarAhead, advanceDays)
		}
	}

	return nil
}

// normalizeAccessories убирает пробелы и дубликаты, сохраняя порядок
func normalizeAccessories(accessories []string) []string {
	result := make([]string, 0, len(accessories))
	seen := make(map[string]struct{}, len(accessories))
	for _, a := range accessories {
		a = strings.TrimSpace(a)
		if _, ok := seen[a]; ok {
			continue
		}
		seen[a] = struct{}{}
		result = append(result, a)
	}
	return result
}

func slotLockKey(req *Request) string {
	return fmt.Sprintf("slot:%d:%s:%s", req.RoomID, req.Date, req.SlotID)
}

func userLockKey(userID int64) string {
	return fmt.Sprintf("user:%d", userID)
}
