package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"nutriagenda/internal/auth"
	"nutriagenda/internal/entities"
	apperrors "nutriagenda/internal/errors"
	"nutriagenda/internal/service"
)

type SlotHandler struct {
	service service.AvailabilityService
}

func NewSlotHandler(svc service.AvailabilityService) *SlotHandler {
	return &SlotHandler{service: svc}
}

// CreateSlot publishes a new availability slot for the authenticated
// nutritionist.
func (h *SlotHandler) CreateSlot(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFrom(r)
	if !ok {
		writeError(w, apperrors.Unauthorized("authentication required"))
		return
	}

	var req entities.CreateSlotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.InvalidInput("invalid request body"))
		return
	}

	resp, err := h.service.CreateSlot(user.ID, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

// ListAvailable returns a nutritionist's unbooked slots for one day.
// Client-facing; filters come as query parameters.
func (h *SlotHandler) ListAvailable(w http.ResponseWriter, r *http.Request) {
	idParam := r.URL.Query().Get("nutritionist_id")
	date := r.URL.Query().Get("date")
	if idParam == "" || date == "" {
		writeError(w, apperrors.InvalidInput("nutritionist_id and date are required"))
		return
	}
	nutritionistID, err := strconv.Atoi(idParam)
	if err != nil {
		writeError(w, apperrors.InvalidInput("nutritionist_id must be a number"))
		return
	}

	slots, err := h.service.ListAvailable(nutritionistID, date)
	if err != nil {
		writeError(w, err)
		return
	}
	if slots == nil {
		slots = []entities.SlotResponse{}
	}
	writeJSON(w, http.StatusOK, slots)
}

// ListMySlots returns every slot, booked or not, owned by the
// authenticated nutritionist.
func (h *SlotHandler) ListMySlots(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFrom(r)
	if !ok {
		writeError(w, apperrors.Unauthorized("authentication required"))
		return
	}

	slots, err := h.service.ListOwnSlots(user.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	if slots == nil {
		slots = []entities.SlotResponse{}
	}
	writeJSON(w, http.StatusOK, slots)
}

func (h *SlotHandler) DeleteSlot(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFrom(r)
	if !ok {
		writeError(w, apperrors.Unauthorized("authentication required"))
		return
	}
	slotID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, apperrors.InvalidInput("invalid slot id"))
		return
	}

	if err := h.service.DeleteSlot(slotID, user.ID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Slot deleted"})
}
