package trigger_sweep

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-RoomBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-RoomBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-RoomBookingService/internal/usecase/sweep"
)

const (
	msgMissingUserID = "отсутствует ID пользователя"
	msgInvalidRoomID = "некорректный ID комнаты"
	msgForbidden     = "sweep по комнате доступен только администратору"
)

type Handler struct {
	useCase SweepUseCase
	logger  Logger
}

func NewHandler(useCase SweepUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/sweep[?roomId=7]
// Пользователь запускает sweep своих бронирований, администратор может указать комнату.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /sweep - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	req := &sweep.Request{UserID: &userID}

	if raw := r.URL.Query().Get("roomId"); raw != "" {
		if !middleware.IsAdmin(r.Context()) {
			h.logger.Warn("POST /sweep - Room scope requested by non-admin user_id=%d", userID)
			handlers.RespondForbidden(w, msgForbidden)
			return
		}
		roomID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			handlers.RespondBadRequest(w, msgInvalidRoomID)
			return
		}
		req = &sweep.Request{RoomID: &roomID}
	}

	result, err := h.useCase.Execute(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, sweep.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidRoomID)

		default:
			h.logger.Error("POST /sweep - Sweep failed: user_id=%d, error=%v", userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
