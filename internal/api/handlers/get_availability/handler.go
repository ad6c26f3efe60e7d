package get_availability

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-RoomBookingService/internal/api/handlers"
	getAvailability "github.com/m04kA/SMC-RoomBookingService/internal/usecase/get_availability"
	"github.com/m04kA/SMC-RoomBookingService/pkg/types"
)

const (
	msgInvalidRoomID  = "некорректный ID комнаты"
	msgInvalidRoomIDs = "некорректный список roomIds"
	msgInvalidDate    = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgMissingDate    = "отсутствует параметр date"
	msgInvalidInput   = "некорректные параметры запроса"
	msgRoomNotFound   = "комната не найдена"
)

type Handler struct {
	useCase GetAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/rooms/{roomId}/availability?date=2025-03-10
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	roomID, err := strconv.ParseInt(mux.Vars(r)["roomId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /rooms/{id}/availability - Invalid room ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRoomID)
		return
	}

	date, ok := h.parseDate(w, r)
	if !ok {
		return
	}

	resp, ok := h.execute(w, r, &getAvailability.Request{RoomIDs: []int64{roomID}, Date: date})
	if !ok {
		return
	}

	room := resp.Rooms[0]
	handlers.RespondJSON(w, http.StatusOK, room)
}

// HandleOverview GET /api/v1/availability?date=2025-03-10&roomIds=1,2,3
func (h *Handler) HandleOverview(w http.ResponseWriter, r *http.Request) {
	roomIDs, err := parseRoomIDs(r.URL.Query().Get("roomIds"))
	if err != nil {
		h.logger.Warn("GET /availability - Invalid roomIds: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRoomIDs)
		return
	}

	date, ok := h.parseDate(w, r)
	if !ok {
		return
	}

	resp, ok := h.execute(w, r, &getAvailability.Request{RoomIDs: roomIDs, Date: date})
	if !ok {
		return
	}

	h.logger.Info("GET /availability - Overview built: rooms=%d, date=%s", len(resp.Rooms), date)
	handlers.RespondJSON(w, http.StatusOK, resp)
}

func (h *Handler) parseDate(w http.ResponseWriter, r *http.Request) (types.Date, bool) {
	raw := r.URL.Query().Get("date")
	if raw == "" {
		handlers.RespondBadRequest(w, msgMissingDate)
		return types.Date{}, false
	}
	date, err := types.ParseDate(raw)
	if err != nil {
		h.logger.Warn("GET availability - Invalid date %q: %v", raw, err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return types.Date{}, false
	}
	return date, true
}

func (h *Handler) execute(w http.ResponseWriter, r *http.Request, req *getAvailability.Request) (*AvailabilityResponse, bool) {
	result, err := h.useCase.Execute(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, getAvailability.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, getAvailability.ErrRoomNotFound):
			handlers.RespondNotFound(w, msgRoomNotFound)

		default:
			h.logger.Error("GET availability - Failed to build availability: rooms=%v, date=%s, error=%v",
				req.RoomIDs, req.Date, err)
			handlers.RespondInternalError(w)
		}
		return nil, false
	}
	return FromUseCaseResponse(result), true
}

// parseRoomIDs разбирает "1,2,3"; пустой список отсекает use case
func parseRoomIDs(raw string) ([]int64, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
