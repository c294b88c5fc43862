package service

import (
	"errors"
	"fmt"
	"log"
	"time"

	"nutriagenda/internal/db"
	"nutriagenda/internal/entities"
	apperrors "nutriagenda/internal/errors"
	"nutriagenda/internal/repository"
	"nutriagenda/internal/utils"
)

type AvailabilityService interface {
	CreateSlot(nutritionistID int, req entities.CreateSlotRequest) (*entities.CreateSlotResponse, error)
	ListAvailable(nutritionistID int, date string) ([]entities.SlotResponse, error)
	ListOwnSlots(nutritionistID int) ([]entities.SlotResponse, error)
	DeleteSlot(slotID, nutritionistID int) error
}

type availabilityService struct {
	slots repository.SlotRepository
	users repository.UserRepository
	now   func() time.Time
}

func NewAvailabilityService(slots repository.SlotRepository, users repository.UserRepository) AvailabilityService {
	return &availabilityService{
		slots: slots,
		users: users,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (s *availabilityService) CreateSlot(nutritionistID int, req entities.CreateSlotRequest) (*entities.CreateSlotResponse, error) {
	day, start, end, err := utils.NormalizeSlotTimes(req.Date, req.StartTime, req.EndTime)
	if err != nil {
		return nil, apperrors.InvalidInput("invalid date or time format")
	}

	user, err := s.users.GetByID(nutritionistID)
	if err != nil {
		return nil, fmt.Errorf("error loading user %d: %w", nutritionistID, err)
	}
	if user == nil || user.Role != utils.RoleNutritionist.String() {
		return nil, apperrors.NotANutritionist("user is not a nutritionist")
	}

	if !start.Before(end) {
		return nil, apperrors.InvalidRange("start time must be before end time")
	}
	if !start.After(s.now()) {
		return nil, apperrors.PastSlot("cannot create slots in the past")
	}

	// Half-open overlap pre-check. The store's exclusion constraint
	// re-validates this atomically with the insert, so a concurrent
	// creator cannot slip through the window between check and insert.
	overlapping, err := s.slots.FindOverlapping(nutritionistID, day, start, end)
	if err != nil {
		return nil, fmt.Errorf("error checking slot overlap: %w", err)
	}
	if len(overlapping) > 0 {
		return nil, apperrors.ConflictingSlot("conflicts with another availability slot")
	}

	slot := &db.AvailabilitySlot{
		NutritionistID: nutritionistID,
		Day:            day,
		StartTime:      start,
		EndTime:        end,
	}
	if err := s.slots.Create(slot); err != nil {
		if errors.Is(err, repository.ErrSlotConflict) {
			// lost the race to a concurrent insert
			return nil, apperrors.ConflictingSlot("conflicts with another availability slot")
		}
		return nil, fmt.Errorf("error creating slot: %w", err)
	}

	log.Printf("slot %d created for nutritionist %d (%s %s-%s)",
		slot.ID, nutritionistID, req.Date, req.StartTime, req.EndTime)

	return &entities.CreateSlotResponse{
		Message: "Availability slot created",
		Slot:    toSlotResponse(slot),
	}, nil
}

func (s *availabilityService) ListAvailable(nutritionistID int, date string) ([]entities.SlotResponse, error) {
	if nutritionistID == 0 || date == "" {
		return nil, apperrors.InvalidInput("nutritionist_id and date are required")
	}

	user, err := s.users.GetByID(nutritionistID)
	if err != nil {
		return nil, fmt.Errorf("error loading user %d: %w", nutritionistID, err)
	}
	if user == nil || user.Role != utils.RoleNutritionist.String() {
		return nil, apperrors.NotFound("nutritionist not found")
	}

	day, err := utils.ParseDay(date)
	if err != nil {
		return nil, apperrors.InvalidInput("invalid date format")
	}

	slots, err := s.slots.ListAvailable(nutritionistID, day)
	if err != nil {
		return nil, fmt.Errorf("error listing available slots: %w", err)
	}
	return toSlotResponses(slots), nil
}

func (s *availabilityService) ListOwnSlots(nutritionistID int) ([]entities.SlotResponse, error) {
	slots, err := s.slots.ListByNutritionist(nutritionistID)
	if err != nil {
		return nil, fmt.Errorf("error listing nutritionist slots: %w", err)
	}
	return toSlotResponses(slots), nil
}

func (s *availabilityService) DeleteSlot(slotID, nutritionistID int) error {
	slot, err := s.slots.GetByID(slotID)
	if err != nil {
		return fmt.Errorf("error loading slot %d: %w", slotID, err)
	}
	if slot == nil {
		return apperrors.NotFound("slot not found")
	}
	if slot.NutritionistID != nutritionistID {
		return apperrors.Forbidden("you do not own this slot")
	}
	if slot.IsBooked {
		return apperrors.SlotAlreadyBooked("cannot delete a booked slot")
	}

	deleted, err := s.slots.DeleteUnbooked(slotID)
	if err != nil {
		return fmt.Errorf("error deleting slot %d: %w", slotID, err)
	}
	if !deleted {
		// the precondition failed between check and delete
		current, err := s.slots.GetByID(slotID)
		if err != nil {
			return fmt.Errorf("error re-loading slot %d: %w", slotID, err)
		}
		if current == nil {
			return apperrors.NotFound("slot not found")
		}
		return apperrors.SlotAlreadyBooked("cannot delete a booked slot")
	}

	log.Printf("slot %d deleted by nutritionist %d", slotID, nutritionistID)
	return nil
}

func toSlotResponse(slot *db.AvailabilitySlot) entities.SlotResponse {
	return entities.SlotResponse{
		ID:        slot.ID,
		Date:      slot.Day.Format(utils.DayLayout),
		StartTime: slot.StartTime.Format(utils.TimeLayout),
		EndTime:   slot.EndTime.Format(utils.TimeLayout),
		IsBooked:  slot.IsBooked,
	}
}

func toSlotResponses(slots []db.AvailabilitySlot) []entities.SlotResponse {
	out := make([]entities.SlotResponse, len(slots))
	for i := range slots {
		out[i] = toSlotResponse(&slots[i])
	}
	return out
}
