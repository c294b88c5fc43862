package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"nutriagenda/internal/entities"
)

type JobRepository struct {
	DB *sql.DB
}

func NewJobRepository(database *sql.DB) *JobRepository {
	return &JobRepository{DB: database}
}

// DeleteUnbookedSlotsEndedBefore removes availability that expired
// without ever being booked. Booked slots are never touched.
func (r *JobRepository) DeleteUnbookedSlotsEndedBefore(t time.Time) (int64, error) {
	result, err := r.DB.Exec(
		`DELETE FROM availability_slots WHERE is_booked = false AND end_time < $1`, t,
	)
	if err != nil {
		return 0, fmt.Errorf("error deleting expired unbooked slots: %w", err)
	}
	return result.RowsAffected()
}

// AppointmentsNeedingReminder returns appointments starting inside
// [from, to) whose reminder has not been sent yet.
func (r *JobRepository) AppointmentsNeedingReminder(from, to time.Time) ([]entities.AppointmentReminder, error) {
	rows, err := r.DB.Query(`
		SELECT a.id, a.code, c.name, c.email, c.phone, n.name, s.start_time, s.end_time
		FROM appointments a
		JOIN availability_slots s ON s.id = a.slot_id
		JOIN users c ON c.id = a.client_id
		JOIN users n ON n.id = s.nutritionist_id
		WHERE a.reminder_sent_at IS NULL
		  AND s.start_time >= $1 AND s.start_time < $2
		ORDER BY s.start_time ASC`,
		from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("error querying appointments needing reminder: %w", err)
	}
	defer rows.Close()

	var reminders []entities.AppointmentReminder
	for rows.Next() {
		var rem entities.AppointmentReminder
		if err := rows.Scan(
			&rem.AppointmentID, &rem.Code, &rem.ClientName, &rem.ClientEmail,
			&rem.ClientPhone, &rem.NutritionistName, &rem.StartTime, &rem.EndTime,
		); err != nil {
			return nil, fmt.Errorf("error scanning reminder row: %w", err)
		}
		reminders = append(reminders, rem)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating reminder rows: %w", err)
	}
	return reminders, nil
}

func (r *JobRepository) MarkRemindersSent(ids []int) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.DB.Exec(
		`UPDATE appointments SET reminder_sent_at = NOW() WHERE id = ANY($1)`,
		pq.Array(ids),
	)
	if err != nil {
		return fmt.Errorf("error marking reminders sent: %w", err)
	}
	return nil
}
