package review_reservation

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-RoomBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-RoomBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-RoomBookingService/internal/service/lifecycle"
	"github.com/m04kA/SMC-RoomBookingService/internal/service/lifecycle/models"
	"github.com/m04kA/SMC-RoomBookingService/pkg/txmanager"
)

const (
	msgInvalidReservationID = "некорректный ID бронирования"
	msgNotFound             = "бронирование не найдено"
	msgMissingUserID        = "отсутствует ID пользователя"
	msgForbidden            = "операция доступна только администратору"
	msgInvalidTransition    = "переход недоступен в текущем статусе бронирования"
	msgTryAgain             = "сервис временно перегружен, повторите запрос"
)

type transitionFunc func(ctx context.Context, id int64, actor models.Actor) (*models.ReservationResponse, error)

// Handler административные переходы: approve, reject, start
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

// Approve PATCH /api/v1/reservations/{reservationId}/approve
func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, "approve", h.service.Approve)
}

// Reject PATCH /api/v1/reservations/{reservationId}/reject
func (h *Handler) Reject(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, "reject", h.service.Reject)
}

// Start PATCH /api/v1/reservations/{reservationId}/start
func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, "start", h.service.StartUse)
}

func (h *Handler) handle(w http.ResponseWriter, r *http.Request, action string, apply transitionFunc) {
	reservationID, err := strconv.ParseInt(mux.Vars(r)["reservationId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /reservations/{id}/%s - Invalid reservation ID: %v", action, err)
		handlers.RespondBadRequest(w, msgInvalidReservationID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /reservations/{id}/%s - Missing user ID", action)
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	actor := models.Actor{UserID: userID, IsAdmin: middleware.IsAdmin(r.Context())}

	reservation, err := apply(r.Context(), reservationID, actor)
	if err != nil {
		switch {
		case errors.Is(err, txmanager.ErrTransient):
			handlers.RespondServiceUnavailable(w, msgTryAgain)

		case errors.Is(err, lifecycle.ErrReservationNotFound):
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, lifecycle.ErrAccessDenied):
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, lifecycle.ErrInvalidTransition):
			handlers.RespondConflict(w, msgInvalidTransition)

		default:
			h.logger.Error("PATCH /reservations/{id}/%s - Failed: reservation_id=%d, error=%v", action, reservationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /reservations/{id}/%s - Done: reservation_id=%d, status=%s, admin_id=%d",
		action, reservationID, reservation.Status, userID)
	handlers.RespondJSON(w, http.StatusOK, reservation)
}
