package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nutriagenda/internal/auth"
	"nutriagenda/internal/entities"
	apperrors "nutriagenda/internal/errors"
	"nutriagenda/internal/utils"
)

type stubBooking struct {
	bookResp *entities.AppointmentResponse
	bookErr  error
	listResp []entities.AppointmentResponse
	listErr  error

	gotSlotID   int
	gotClientID int
}

func (s *stubBooking) BookSlot(slotID, clientID int) (*entities.AppointmentResponse, error) {
	s.gotSlotID = slotID
	s.gotClientID = clientID
	return s.bookResp, s.bookErr
}

func (s *stubBooking) ListMyAppointments(clientID int) ([]entities.AppointmentResponse, error) {
	s.gotClientID = clientID
	return s.listResp, s.listErr
}

func asClient(r *http.Request) *http.Request {
	return auth.WithUser(r, auth.AuthUser{ID: 9, Email: "leo@test.com", Role: utils.RoleClient})
}

func TestBookAppointmentHandler(t *testing.T) {
	stub := &stubBooking{
		bookResp: &entities.AppointmentResponse{ID: 3, Code: "abc", SlotID: 5, Date: "2099-01-01"},
	}
	h := NewBookingHandler(stub)

	req := asClient(httptest.NewRequest("POST", "/api/appointments", strings.NewReader(`{"availability_id":5}`)))
	rec := httptest.NewRecorder()
	h.BookAppointment(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 5, stub.gotSlotID)
	assert.Equal(t, 9, stub.gotClientID)

	var resp entities.AppointmentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "abc", resp.Code)
}

func TestBookAppointmentHandlerValidation(t *testing.T) {
	h := NewBookingHandler(&stubBooking{})

	for _, body := range []string{`{`, `{}`, `{"availability_id":0}`, `{"availability_id":-4}`} {
		req := asClient(httptest.NewRequest("POST", "/api/appointments", strings.NewReader(body)))
		rec := httptest.NewRecorder()
		h.BookAppointment(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "body %s", body)
	}
}

func TestBookAppointmentHandlerErrors(t *testing.T) {
	tests := []struct {
		name string
		err  *apperrors.HTTPError
		code int
	}{
		{"not found", apperrors.NotFound("slot not found"), http.StatusNotFound},
		{"already booked", apperrors.SlotAlreadyBooked("slot is already booked"), http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewBookingHandler(&stubBooking{bookErr: tt.err})
			req := asClient(httptest.NewRequest("POST", "/api/appointments", strings.NewReader(`{"availability_id":5}`)))
			rec := httptest.NewRecorder()
			h.BookAppointment(rec, req)

			assert.Equal(t, tt.code, rec.Code)
			assert.Equal(t, tt.err.Kind, decodeErrorKind(t, rec.Body.String()))
		})
	}
}

func TestBookAppointmentHandlerNoIdentity(t *testing.T) {
	h := NewBookingHandler(&stubBooking{})
	req := httptest.NewRequest("POST", "/api/appointments", strings.NewReader(`{"availability_id":5}`))
	rec := httptest.NewRecorder()
	h.BookAppointment(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestListMyAppointmentsHandler(t *testing.T) {
	stub := &stubBooking{listResp: []entities.AppointmentResponse{{ID: 1, Code: "x"}}}
	h := NewBookingHandler(stub)

	req := asClient(httptest.NewRequest("GET", "/api/appointments/me", nil))
	rec := httptest.NewRecorder()
	h.ListMyAppointments(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 9, stub.gotClientID)
}

func TestListMyAppointmentsHandlerEmpty(t *testing.T) {
	h := NewBookingHandler(&stubBooking{})

	req := asClient(httptest.NewRequest("GET", "/api/appointments/me", nil))
	rec := httptest.NewRecorder()
	h.ListMyAppointments(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]\n", rec.Body.String())
}
