package review_reservation

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/m04kA/SMC-RoomBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-RoomBookingService/internal/service/lifecycle"
	"github.com/m04kA/SMC-RoomBookingService/internal/service/lifecycle/models"
	"github.com/m04kA/SMC-RoomBookingService/pkg/logger"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) call(method string, ctx context.Context, id int64, actor models.Actor) (*models.ReservationResponse, error) {
	args := m.Called(method, id, actor)
	if resp, ok := args.Get(0).(*models.ReservationResponse); ok {
		return resp, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockService) Approve(ctx context.Context, id int64, actor models.Actor) (*models.ReservationResponse, error) {
	return m.call("approve", ctx, id, actor)
}

func (m *mockService) Reject(ctx context.Context, id int64, actor models.Actor) (*models.ReservationResponse, error) {
	return m.call("reject", ctx, id, actor)
}

func (m *mockService) StartUse(ctx context.Context, id int64, actor models.Actor) (*models.ReservationResponse, error) {
	return m.call("start", ctx, id, actor)
}

func newRouter(h *Handler) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/reservations/{reservationId}/approve", h.Approve)
	r.HandleFunc("/reservations/{reservationId}/reject", h.Reject)
	r.HandleFunc("/reservations/{reservationId}/start", h.Start)
	return r
}

func serve(r *mux.Router, path string, admin bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPatch, path, nil)
	req = req.WithContext(middleware.WithUser(req.Context(), 1, admin))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandler_RoutesToServiceMethod(t *testing.T) {
	admin := models.Actor{UserID: 1, IsAdmin: true}

	for _, action := range []string{"approve", "reject", "start"} {
		t.Run(action, func(t *testing.T) {
			svc := &mockService{}
			svc.On("call", action, int64(5), admin).Return(&models.ReservationResponse{ID: 5, Status: "approved"}, nil)

			rec := serve(newRouter(NewHandler(svc, logger.Nop())), "/reservations/5/"+action, true)

			assert.Equal(t, http.StatusOK, rec.Code)
			svc.AssertExpectations(t)
		})
	}
}

func TestHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "not found", err: lifecycle.ErrReservationNotFound, want: http.StatusNotFound},
		{name: "not admin", err: lifecycle.ErrAccessDenied, want: http.StatusForbidden},
		{name: "invalid transition", err: lifecycle.ErrInvalidTransition, want: http.StatusConflict},
		{name: "internal", err: errors.New("boom"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockService{}
			svc.On("call", "approve", int64(5), mock.Anything).Return(nil, tt.err)

			rec := serve(newRouter(NewHandler(svc, logger.Nop())), "/reservations/5/approve", false)

			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestHandler_InvalidID(t *testing.T) {
	svc := &mockService{}

	rec := serve(newRouter(NewHandler(svc, logger.Nop())), "/reservations/abc/approve", true)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "call", mock.Anything, mock.Anything, mock.Anything)
}
