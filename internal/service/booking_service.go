package service

import (
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"

	"nutriagenda/internal/db"
	"nutriagenda/internal/entities"
	apperrors "nutriagenda/internal/errors"
	"nutriagenda/internal/repository"
	"nutriagenda/internal/utils"
)

// Notifier delivers booking notifications out of band. Failures are
// logged by the implementation and never affect the booking result.
type Notifier interface {
	NotifyBookingConfirmed(client *db.User, nutritionist *db.User, appointment entities.AppointmentResponse)
}

type BookingService interface {
	BookSlot(slotID, clientID int) (*entities.AppointmentResponse, error)
	ListMyAppointments(clientID int) ([]entities.AppointmentResponse, error)
}

type bookingService struct {
	slots        repository.SlotRepository
	appointments repository.AppointmentRepository
	users        repository.UserRepository
	notifier     Notifier
}

func NewBookingService(
	slots repository.SlotRepository,
	appointments repository.AppointmentRepository,
	users repository.UserRepository,
	notifier Notifier,
) BookingService {
	return &bookingService{
		slots:        slots,
		appointments: appointments,
		users:        users,
		notifier:     notifier,
	}
}

func (s *bookingService) BookSlot(slotID, clientID int) (*entities.AppointmentResponse, error) {
	slot, err := s.slots.GetByID(slotID)
	if err != nil {
		return nil, fmt.Errorf("error loading slot %d: %w", slotID, err)
	}
	if slot == nil {
		return nil, apperrors.NotFound("slot not found")
	}
	if slot.IsBooked {
		return nil, apperrors.SlotAlreadyBooked("slot is already booked")
	}

	// The store flips is_booked and inserts the appointment in one
	// conditional transaction, so of N concurrent bookings exactly one
	// commits; the rest land here with ErrSlotTaken.
	code := uuid.New().String()
	appointment, err := s.appointments.Book(slotID, clientID, code)
	if err != nil {
		if errors.Is(err, repository.ErrSlotTaken) {
			return nil, apperrors.SlotAlreadyBooked("slot is already booked")
		}
		return nil, fmt.Errorf("error booking slot %d: %w", slotID, err)
	}

	response := entities.AppointmentResponse{
		ID:        appointment.ID,
		Code:      appointment.Code,
		SlotID:    slot.ID,
		Date:      slot.Day.Format(utils.DayLayout),
		StartTime: slot.StartTime.Format(utils.TimeLayout),
		EndTime:   slot.EndTime.Format(utils.TimeLayout),
		CreatedAt: appointment.CreatedAt,
	}

	log.Printf("appointment %s created: slot %d booked by client %d", appointment.Code, slotID, clientID)
	s.notify(slot, clientID, &response)

	return &response, nil
}

func (s *bookingService) ListMyAppointments(clientID int) ([]entities.AppointmentResponse, error) {
	appointments, err := s.appointments.ListByClient(clientID)
	if err != nil {
		return nil, fmt.Errorf("error listing appointments for client %d: %w", clientID, err)
	}
	return appointments, nil
}

func (s *bookingService) notify(slot *db.AvailabilitySlot, clientID int, appointment *entities.AppointmentResponse) {
	if s.notifier == nil {
		return
	}
	client, err := s.users.GetByID(clientID)
	if err != nil || client == nil {
		log.Printf("skipping booking notification, client %d not loaded: %v", clientID, err)
		return
	}
	nutritionist, err := s.users.GetByID(slot.NutritionistID)
	if err != nil || nutritionist == nil {
		log.Printf("skipping booking notification, nutritionist %d not loaded: %v", slot.NutritionistID, err)
		return
	}
	appointment.NutritionistName = nutritionist.Name
	s.notifier.NotifyBookingConfirmed(client, nutritionist, *appointment)
}
