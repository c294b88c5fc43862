package entities

import "time"

type BookAppointmentRequest struct {
	AvailabilityID int `json:"availability_id"`
}

type AppointmentResponse struct {
	ID               int       `json:"id"`
	Code             string    `json:"code"`
	SlotID           int       `json:"slot_id"`
	NutritionistName string    `json:"nutritionist_name,omitempty"`
	Date             string    `json:"date"`
	StartTime        string    `json:"start_time"`
	EndTime          string    `json:"end_time"`
	CreatedAt        time.Time `json:"created_at"`
}

// AppointmentReminder carries what the reminder job needs to notify a
// client about an upcoming appointment.
type AppointmentReminder struct {
	AppointmentID    int
	Code             string
	ClientName       string
	ClientEmail      string
	ClientPhone      string
	NutritionistName string
	StartTime        time.Time
	EndTime          time.Time
}
