package api

import (
	"encoding/json"
	"net/http"

	"nutriagenda/internal/auth"
	"nutriagenda/internal/entities"
	apperrors "nutriagenda/internal/errors"
	"nutriagenda/internal/service"
)

type BookingHandler struct {
	service service.BookingService
}

func NewBookingHandler(svc service.BookingService) *BookingHandler {
	return &BookingHandler{service: svc}
}

// BookAppointment books an open slot for the authenticated client.
func (h *BookingHandler) BookAppointment(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFrom(r)
	if !ok {
		writeError(w, apperrors.Unauthorized("authentication required"))
		return
	}

	var req entities.BookAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.InvalidInput("invalid request body"))
		return
	}
	if req.AvailabilityID <= 0 {
		writeError(w, apperrors.InvalidInput("availability_id must be a positive number"))
		return
	}

	appointment, err := h.service.BookSlot(req.AvailabilityID, user.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, appointment)
}

func (h *BookingHandler) ListMyAppointments(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFrom(r)
	if !ok {
		writeError(w, apperrors.Unauthorized("authentication required"))
		return
	}

	appointments, err := h.service.ListMyAppointments(user.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	if appointments == nil {
		appointments = []entities.AppointmentResponse{}
	}
	writeJSON(w, http.StatusOK, appointments)
}
