package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"nutriagenda/internal/db"
	"nutriagenda/internal/entities"
	"nutriagenda/internal/utils"
)

// ErrSlotTaken is returned when the conditional booking update matches
// zero rows: the slot was booked by a concurrent caller (or deleted).
var ErrSlotTaken = errors.New("slot is no longer open")

type AppointmentRepository interface {
	// Book flips the slot to booked and inserts the appointment in one
	// transaction. The update only matches an unbooked slot, so two
	// concurrent bookings of the same slot cannot both commit.
	Book(slotID, clientID int, code string) (*db.Appointment, error)
	ListByClient(clientID int) ([]entities.AppointmentResponse, error)
}

type appointmentRepository struct {
	db *sql.DB
}

func NewAppointmentRepository(database *sql.DB) AppointmentRepository {
	return &appointmentRepository{db: database}
}

func (r *appointmentRepository) Book(slotID, clientID int, code string) (*db.Appointment, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("error starting booking transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(`
		UPDATE availability_slots
		SET is_booked = true, updated_at = NOW()
		WHERE id = $1 AND is_booked = false`,
		slotID,
	)
	if err != nil {
		return nil, fmt.Errorf("error marking slot %d booked: %w", slotID, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrSlotTaken
	}

	appointment := &db.Appointment{
		Code:     code,
		SlotID:   slotID,
		ClientID: clientID,
	}
	err = tx.QueryRow(`
		INSERT INTO appointments (code, slot_id, client_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`,
		code, slotID, clientID,
	).Scan(&appointment.ID, &appointment.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("error inserting appointment for slot %d: %w", slotID, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("error committing booking: %w", err)
	}
	return appointment, nil
}

func (r *appointmentRepository) ListByClient(clientID int) ([]entities.AppointmentResponse, error) {
	rows, err := r.db.Query(`
		SELECT a.id, a.code, a.slot_id, u.name, s.day, s.start_time, s.end_time, a.created_at
		FROM appointments a
		JOIN availability_slots s ON s.id = a.slot_id
		JOIN users u ON u.id = s.nutritionist_id
		WHERE a.client_id = $1
		ORDER BY s.start_time ASC`,
		clientID,
	)
	if err != nil {
		return nil, fmt.Errorf("error querying client appointments: %w", err)
	}
	defer rows.Close()

	var appointments []entities.AppointmentResponse
	for rows.Next() {
		var (
			resp            entities.AppointmentResponse
			day, start, end time.Time
		)
		if err := rows.Scan(&resp.ID, &resp.Code, &resp.SlotID, &resp.NutritionistName, &day, &start, &end, &resp.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning appointment row: %w", err)
		}
		resp.Date = day.Format(utils.DayLayout)
		resp.StartTime = start.Format(utils.TimeLayout)
		resp.EndTime = end.Format(utils.TimeLayout)
		appointments = append(appointments, resp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating appointment rows: %w", err)
	}
	return appointments, nil
}
