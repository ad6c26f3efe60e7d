package trigger_sweep

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/m04kA/SMC-RoomBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-RoomBookingService/internal/usecase/sweep"
	"github.com/m04kA/SMC-RoomBookingService/pkg/logger"
)

type mockUseCase struct {
	mock.Mock
}

func (m *mockUseCase) Execute(ctx context.Context, req *sweep.Request) (*sweep.Response, error) {
	args := m.Called(ctx, req)
	if resp, ok := args.Get(0).(*sweep.Response); ok {
		return resp, args.Error(1)
	}
	return nil, args.Error(1)
}

func request(target string, admin bool) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, nil)
	return req.WithContext(middleware.WithUser(req.Context(), 9, admin))
}

func TestHandler_UserScope(t *testing.T) {
	uc := &mockUseCase{}
	uc.On("Execute", mock.Anything, mock.MatchedBy(func(req *sweep.Request) bool {
		return req.UserID != nil && *req.UserID == 9 && req.RoomID == nil
	})).Return(&sweep.Response{RunID: "r", Transitioned: 1}, nil)

	rec := httptest.NewRecorder()
	NewHandler(uc, logger.Nop()).Handle(rec, request("/api/v1/sweep", false))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"runId":"r","scanned":0,"transitioned":1,"failed":0}`, rec.Body.String())
	uc.AssertExpectations(t)
}

func TestHandler_RoomScopeAdminOnly(t *testing.T) {
	uc := &mockUseCase{}
	uc.On("Execute", mock.Anything, mock.MatchedBy(func(req *sweep.Request) bool {
		return req.UserID == nil && req.RoomID != nil && *req.RoomID == 7
	})).Return(&sweep.Response{}, nil)

	h := NewHandler(uc, logger.Nop())

	rec := httptest.NewRecorder()
	h.Handle(rec, request("/api/v1/sweep?roomId=7", false))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = httptest.NewRecorder()
	h.Handle(rec, request("/api/v1/sweep?roomId=7", true))
	assert.Equal(t, http.StatusOK, rec.Code)
	uc.AssertNumberOfCalls(t, "Execute", 1)
}
