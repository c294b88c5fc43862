package service

import (
	"fmt"
	"log"
	"time"

	"nutriagenda/internal/repository"
)

type JobService struct {
	Repo   *repository.JobRepository
	Sender *SenderService
}

func NewJobService(repo *repository.JobRepository, sender *SenderService) *JobService {
	return &JobService{Repo: repo, Sender: sender}
}

// PurgeExpiredSlots removes availability that ended in the past without
// ever being booked. Booked slots stay, their appointments reference them.
func (s *JobService) PurgeExpiredSlots() error {
	n, err := s.Repo.DeleteUnbookedSlotsEndedBefore(time.Now().UTC())
	if err != nil {
		return fmt.Errorf("cron job: failed to purge expired slots: %w", err)
	}
	if n > 0 {
		log.Printf("Cron Job: purged %d expired unbooked slots", n)
	}
	return nil
}

// SendUpcomingReminders notifies clients of appointments starting
// within the next 24 hours, at most once per appointment.
func (s *JobService) SendUpcomingReminders() error {
	now := time.Now().UTC()
	reminders, err := s.Repo.AppointmentsNeedingReminder(now, now.Add(24*time.Hour))
	if err != nil {
		return fmt.Errorf("cron job: failed to load appointments needing reminder: %w", err)
	}
	if len(reminders) == 0 {
		return nil
	}

	log.Printf("Cron Job: sending %d appointment reminders", len(reminders))

	ids := make([]int, 0, len(reminders))
	for _, reminder := range reminders {
		s.Sender.SendAppointmentReminder(reminder)
		ids = append(ids, reminder.AppointmentID)
	}
	if err := s.Repo.MarkRemindersSent(ids); err != nil {
		return fmt.Errorf("cron job: failed to mark reminders sent: %w", err)
	}
	return nil
}
