package create_reservation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-RoomBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
	createReservation "github.com/m04kA/SMC-RoomBookingService/internal/usecase/create_reservation"
	"github.com/m04kA/SMC-RoomBookingService/pkg/logger"
	"github.com/m04kA/SMC-RoomBookingService/pkg/txmanager"
	"github.com/m04kA/SMC-RoomBookingService/pkg/types"
)

type mockUseCase struct {
	mock.Mock
}

func (m *mockUseCase) Execute(ctx context.Context, req *createReservation.Request) (*createReservation.Response, error) {
	args := m.Called(ctx, req)
	if resp, ok := args.Get(0).(*createReservation.Response); ok {
		return resp, args.Error(1)
	}
	return nil, args.Error(1)
}

const validBody = `{"roomId":7,"date":"2025-03-10","slotId":"S1","numberOfPeople":4,"accessories":["projector"]}`

func newRequest(body string, withUser bool) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/reservations", strings.NewReader(body))
	if withUser {
		req = req.WithContext(middleware.WithUser(req.Context(), 10, false))
	}
	return req
}

func TestHandler_Created(t *testing.T) {
	uc := &mockUseCase{}
	start := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	uc.On("Execute", mock.Anything, mock.MatchedBy(func(req *createReservation.Request) bool {
		return req.UserID == 10 &&
			req.RoomID == 7 &&
			req.SlotID == domain.SlotS1 &&
			req.Date == types.Date{Year: 2025, Month: time.March, Day: 10} &&
			req.NumberOfPeople == 4
	})).Return(&createReservation.Response{
		ID:       1,
		UserID:   10,
		RoomID:   7,
		RoomName: "Atlas",
		SlotID:   domain.SlotS1,
		Date:     types.Date{Year: 2025, Month: time.March, Day: 10},
		StartAt:  start,
		EndAt:    start.Add(2 * time.Hour),
		Status:   domain.StatusPending,
	}, nil)

	rec := httptest.NewRecorder()
	NewHandler(uc, logger.Nop()).Handle(rec, newRequest(validBody, true))

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp ReservationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, "pending", resp.Status)
	assert.Equal(t, "2025-03-10", resp.Date)
	assert.Equal(t, []string{}, resp.Accessories)
	uc.AssertExpectations(t)
}

func TestHandler_RequestErrors(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		withUser bool
		want     int
	}{
		{name: "no user", body: validBody, want: http.StatusUnauthorized},
		{name: "broken json", body: `{"roomId":`, withUser: true, want: http.StatusBadRequest},
		{name: "unknown field", body: `{"roomId":7,"userId":3}`, withUser: true, want: http.StatusBadRequest},
		{name: "bad date", body: `{"roomId":7,"date":"10.03.2025","slotId":"S1","numberOfPeople":4}`, withUser: true, want: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockUseCase{}
			rec := httptest.NewRecorder()
			NewHandler(uc, logger.Nop()).Handle(rec, newRequest(tt.body, tt.withUser))

			assert.Equal(t, tt.want, rec.Code)
			uc.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
		})
	}
}

func TestHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{err: createReservation.ErrInvalidInput, want: http.StatusBadRequest},
		{err: createReservation.ErrCapacityMismatch, want: http.StatusBadRequest},
		{err: createReservation.ErrRoomNotFound, want: http.StatusNotFound},
		{err: createReservation.ErrInvalidTime, want: http.StatusBadRequest},
		{err: createReservation.ErrTooFarAhead, want: http.StatusUnprocessableEntity},
		{err: fmt.Errorf("%w: held by 3", createReservation.ErrSlotTaken), want: http.StatusConflict},
		{err: createReservation.ErrQuotaExceeded, want: http.StatusConflict},
		{err: fmt.Errorf("%w: %w", txmanager.ErrTransient, createReservation.ErrInternal), want: http.StatusServiceUnavailable},
		{err: errors.New("boom"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			uc := &mockUseCase{}
			uc.On("Execute", mock.Anything, mock.Anything).Return(nil, tt.err)

			rec := httptest.NewRecorder()
			NewHandler(uc, logger.Nop()).Handle(rec, newRequest(validBody, true))

			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
