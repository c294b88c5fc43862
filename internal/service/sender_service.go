package service

import (
	"fmt"
	"log"

	"nutriagenda/internal/db"
	"nutriagenda/internal/entities"
)

// SenderService formats and dispatches booking emails and SMS. Sends
// run in goroutines; a delivery failure is logged, never returned.
type SenderService struct{}

func NewSenderService() *SenderService {
	return &SenderService{}
}

func (s *SenderService) NotifyBookingConfirmed(client *db.User, nutritionist *db.User, appointment entities.AppointmentResponse) {
	subject := fmt.Sprintf("Your appointment is confirmed - Code: %s", appointment.Code)
	body := fmt.Sprintf(
		"Hello %s,\n\nYour appointment with %s is confirmed.\n\n"+
			"Appointment code: %s\n"+
			"Date: %s\n"+
			"Time: %s - %s (UTC)\n\n"+
			"Thank you for using NutriAgenda.",
		client.Name, nutritionist.Name,
		appointment.Code, appointment.Date, appointment.StartTime, appointment.EndTime,
	)

	go func(toEmail, toName string) {
		if err := SendEmailWithSendGrid(toEmail, toName, subject, body, body); err != nil {
			log.Printf("booking %s confirmed, but confirmation email to %s failed: %v", appointment.Code, toEmail, err)
		}
	}(client.Email, client.Name)

	if client.Phone == "" {
		return
	}
	sms := fmt.Sprintf("NutriAgenda: appointment %s confirmed with %s on %s at %s. Details in your email.",
		appointment.Code, nutritionist.Name, appointment.Date, appointment.StartTime)
	go func(toPhone string) {
		if err := SendSMS(toPhone, sms); err != nil {
			log.Printf("booking %s confirmed, but confirmation SMS to %s failed: %v", appointment.Code, toPhone, err)
		}
	}(client.Phone)
}

// SendAppointmentReminder notifies a client about an upcoming
// appointment. Called synchronously from the reminder job, which owns
// its own scheduling.
func (s *SenderService) SendAppointmentReminder(reminder entities.AppointmentReminder) {
	when := reminder.StartTime.UTC().Format("02 Jan 2006 15:04 MST")
	subject := fmt.Sprintf("Reminder: appointment %s", reminder.Code)
	body := fmt.Sprintf(
		"Hello %s,\n\nThis is a reminder of your appointment with %s.\n\n"+
			"Appointment code: %s\n"+
			"Starts: %s\n\n"+
			"Thank you for using NutriAgenda.",
		reminder.ClientName, reminder.NutritionistName, reminder.Code, when,
	)

	if err := SendEmailWithSendGrid(reminder.ClientEmail, reminder.ClientName, subject, body, body); err != nil {
		log.Printf("reminder email for appointment %s failed: %v", reminder.Code, err)
	}
	if reminder.ClientPhone != "" {
		sms := fmt.Sprintf("NutriAgenda: reminder, appointment %s with %s starts %s.",
			reminder.Code, reminder.NutritionistName, when)
		if err := SendSMS(reminder.ClientPhone, sms); err != nil {
			log.Printf("reminder SMS for appointment %s failed: %v", reminder.Code, err)
		}
	}
}
