package db

import "time"

type User struct {
	ID           int
	Email        string
	Name         string
	Phone        string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
}

// AvailabilitySlot is one bookable time window owned by a nutritionist.
// Day, StartTime, EndTime and NutritionistID are immutable after
// creation; only IsBooked changes, exactly once, when a booking lands.
type AvailabilitySlot struct {
	ID             int
	NutritionistID int
	Day            time.Time
	StartTime      time.Time
	EndTime        time.Time
	IsBooked       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type Appointment struct {
	ID             int
	Code           string
	SlotID         int
	ClientID       int
	ReminderSentAt *time.Time
	CreatedAt      time.Time
}
