package list_active_reservations

import (
	"net/http"

	"github.com/m04kA/SMC-RoomBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-RoomBookingService/internal/api/middleware"
)

const msgMissingUserID = "отсутствует ID пользователя"

type Handler struct {
	service ReservationService
	logger  Logger
}

func NewHandler(service ReservationService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/reservations/active
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /reservations/active - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	list, err := h.service.ListActive(r.Context(), userID)
	if err != nil {
		h.logger.Error("GET /reservations/active - Failed to list reservations: user_id=%d, error=%v", userID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /reservations/active - Returned %d reservations for user_id=%d", len(list.Reservations), userID)
	handlers.RespondJSON(w, http.StatusOK, list)
}

// HandleCount GET /api/v1/reservations/active/count
func (h *Handler) HandleCount(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /reservations/active/count - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	count, err := h.service.CountActive(r.Context(), userID)
	if err != nil {
		h.logger.Error("GET /reservations/active/count - Failed to count reservations: user_id=%d, error=%v", userID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, count)
}
