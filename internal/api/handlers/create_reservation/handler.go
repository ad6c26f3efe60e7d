package create_reservation

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-RoomBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-RoomBookingService/internal/api/middleware"
	createReservation "github.com/m04kA/SMC-RoomBookingService/internal/usecase/create_reservation"
	"github.com/m04kA/SMC-RoomBookingService/pkg/txmanager"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты бронирования, ожидается YYYY-MM-DD"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgInvalidInput       = "некорректные параметры бронирования"
	msgCapacityMismatch   = "количество участников не соответствует вместимости комнаты"
	msgRoomNotFound       = "комната не найдена"
	msgInvalidTime        = "слот уже начался или прошел"
	msgTooFarAhead        = "дата бронирования слишком далеко в будущем"
	msgSlotTaken          = "выбранный слот уже занят"
	msgQuotaExceeded      = "достигнут лимит активных бронирований"
	msgTryAgain           = "сервис временно перегружен, повторите запрос"
)

type Handler struct {
	useCase CreateReservationUseCase
	logger  Logger
}

func NewHandler(useCase CreateReservationUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/reservations
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /reservations - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateReservationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /reservations - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(userID)
	if err != nil {
		h.logger.Warn("POST /reservations - Failed to parse date %q: %v", req.Date, err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, txmanager.ErrTransient):
			h.logger.Warn("POST /reservations - Transient store error: user_id=%d, room_id=%d: %v", userID, req.RoomID, err)
			handlers.RespondServiceUnavailable(w, msgTryAgain)

		case errors.Is(err, createReservation.ErrCapacityMismatch):
			handlers.RespondBadRequest(w, msgCapacityMismatch)

		case errors.Is(err, createReservation.ErrInvalidInput):
			h.logger.Warn("POST /reservations - Invalid input: user_id=%d: %v", userID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, createReservation.ErrRoomNotFound):
			handlers.RespondNotFound(w, msgRoomNotFound)

		case errors.Is(err, createReservation.ErrInvalidTime):
			handlers.RespondBadRequest(w, msgInvalidTime)

		case errors.Is(err, createReservation.ErrTooFarAhead):
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgTooFarAhead)

		case errors.Is(err, createReservation.ErrSlotTaken):
			handlers.RespondConflict(w, msgSlotTaken)

		case errors.Is(err, createReservation.ErrQuotaExceeded):
			handlers.RespondConflict(w, msgQuotaExceeded)

		default:
			h.logger.Error("POST /reservations - Failed to create reservation: user_id=%d, room_id=%d, error=%v",
				userID, req.RoomID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /reservations - Reservation created successfully: reservation_id=%d, user_id=%d, room_id=%d",
		result.ID, userID, result.RoomID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
