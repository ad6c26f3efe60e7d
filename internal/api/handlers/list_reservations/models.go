package list_reservations

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/m04kA/SMC-RoomBookingService/internal/service/lifecycle/models"
	"github.com/m04kA/SMC-RoomBookingService/pkg/types"
)

// ToServiceRequest формирует запрос к сервису из query параметров
// roomId, status, date | from+to, includeInactive, limit
func ToServiceRequest(query url.Values) (*models.ListReservationsRequest, error) {
	req := &models.ListReservationsRequest{}

	if raw := query.Get("roomId"); raw != "" {
		roomID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid roomId: %w", err)
		}
		req.RoomID = &roomID
	}

	if raw := query.Get("status"); raw != "" {
		req.Status = &raw
	}

	// date задаёт один день, from/to - период
	if raw := query.Get("date"); raw != "" {
		date, err := types.ParseDate(raw)
		if err != nil {
			return nil, err
		}
		req.From = &date
		req.To = &date
	} else {
		if raw := query.Get("from"); raw != "" {
			from, err := types.ParseDate(raw)
			if err != nil {
				return nil, err
			}
			req.From = &from
		}
		if raw := query.Get("to"); raw != "" {
			to, err := types.ParseDate(raw)
			if err != nil {
				return nil, err
			}
			req.To = &to
		}
	}

	if raw := query.Get("includeInactive"); raw != "" {
		includeInactive, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid includeInactive value: %w", err)
		}
		req.IncludeInactive = includeInactive
	}

	if raw := query.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid limit: %w", err)
		}
		req.Limit = limit
	}

	return req, nil
}
