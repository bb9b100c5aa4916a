package cancel_booking

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/m04kA/FitClub-BookingService/internal/api/middleware"
	"github.com/m04kA/FitClub-BookingService/internal/domain"
	"github.com/m04kA/FitClub-BookingService/internal/service/bookings"
)

type mockService struct {
	err       error
	lastID    string
	lastActor domain.Actor
}

func (m *mockService) Cancel(ctx context.Context, bookingID string, actor domain.Actor) error {
	m.lastID = bookingID
	m.lastActor = actor
	return m.err
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

func newRouter(svc *mockService) *mux.Router {
	h := NewHandler(svc, nopLogger{})
	r := mux.NewRouter()
	r.Use(middleware.Auth)
	r.HandleFunc("/api/v1/bookings/{bookingId}/cancel", h.Handle).Methods(http.MethodPatch)
	return r
}

func TestHandle_StatusMapping(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		expected int
	}{
		{"success", nil, http.StatusNoContent},
		{"not found", bookings.ErrBookingNotFound, http.StatusNotFound},
		{"access denied", bookings.ErrAccessDenied, http.StatusForbidden},
		{"already cancelled", bookings.ErrAlreadyCancelled, http.StatusConflict},
		{"completed", bookings.ErrCannotCancel, http.StatusConflict},
		{"internal", assert.AnError, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mockService{err: tc.err}
			router := newRouter(svc)

			req := httptest.NewRequest(http.MethodPatch, "/api/v1/bookings/BI000001/cancel", nil)
			req.Header.Set("X-User-ID", "U1")
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tc.expected, rec.Code)
			assert.Equal(t, "BI000001", svc.lastID)
			assert.Equal(t, "U1", svc.lastActor.UserID)
		})
	}
}

func TestHandle_Unauthorized(t *testing.T) {
	svc := &mockService{}
	router := newRouter(svc)

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/bookings/BI000001/cancel", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, svc.lastID)
}
