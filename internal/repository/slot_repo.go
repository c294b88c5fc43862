package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"nutriagenda/internal/db"
	"nutriagenda/internal/utils"
)

// ErrSlotConflict is returned when an insert loses the race against a
// concurrent overlapping insert and the exclusion constraint fires.
var ErrSlotConflict = errors.New("slot overlaps an existing one")

type SlotRepository interface {
	Create(slot *db.AvailabilitySlot) error
	GetByID(id int) (*db.AvailabilitySlot, error)
	FindOverlapping(nutritionistID int, day, start, end time.Time) ([]db.AvailabilitySlot, error)
	ListAvailable(nutritionistID int, day time.Time) ([]db.AvailabilitySlot, error)
	ListByNutritionist(nutritionistID int) ([]db.AvailabilitySlot, error)
	DeleteUnbooked(id int) (bool, error)
}

type slotRepository struct {
	db *sql.DB
}

func NewSlotRepository(database *sql.DB) SlotRepository {
	return &slotRepository{db: database}
}

func (r *slotRepository) Create(slot *db.AvailabilitySlot) error {
	query := `
		INSERT INTO availability_slots (nutritionist_id, day, start_time, end_time, is_booked)
		VALUES ($1, $2, $3, $4, false)
		RETURNING id, created_at, updated_at`
	err := r.db.QueryRow(query,
		slot.NutritionistID, slot.Day.Format(utils.DayLayout), slot.StartTime, slot.EndTime,
	).Scan(&slot.ID, &slot.CreatedAt, &slot.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		// 23P01 = exclusion_violation: a concurrent insert won the window
		if errors.As(err, &pqErr) && pqErr.Code == "23P01" {
			return ErrSlotConflict
		}
		return fmt.Errorf("error inserting availability slot: %w", err)
	}
	return nil
}

func (r *slotRepository) GetByID(id int) (*db.AvailabilitySlot, error) {
	var slot db.AvailabilitySlot
	err := r.db.QueryRow(`
		SELECT id, nutritionist_id, day, start_time, end_time, is_booked, created_at, updated_at
		FROM availability_slots WHERE id = $1`, id,
	).Scan(
		&slot.ID, &slot.NutritionistID, &slot.Day, &slot.StartTime, &slot.EndTime,
		&slot.IsBooked, &slot.CreatedAt, &slot.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error querying slot %d: %w", id, err)
	}
	return &slot, nil
}

// FindOverlapping returns active slots of the nutritionist on the given
// day whose half-open interval intersects [start, end).
func (r *slotRepository) FindOverlapping(nutritionistID int, day, start, end time.Time) ([]db.AvailabilitySlot, error) {
	rows, err := r.db.Query(`
		SELECT id, nutritionist_id, day, start_time, end_time, is_booked, created_at, updated_at
		FROM availability_slots
		WHERE nutritionist_id = $1
		  AND day = $2
		  AND start_time < $4
		  AND end_time > $3`,
		nutritionistID, day.Format(utils.DayLayout), start, end,
	)
	if err != nil {
		return nil, fmt.Errorf("error querying overlapping slots: %w", err)
	}
	defer rows.Close()
	return scanSlots(rows)
}

func (r *slotRepository) ListAvailable(nutritionistID int, day time.Time) ([]db.AvailabilitySlot, error) {
	rows, err := r.db.Query(`
		SELECT id, nutritionist_id, day, start_time, end_time, is_booked, created_at, updated_at
		FROM availability_slots
		WHERE nutritionist_id = $1 AND day = $2 AND is_booked = false`,
		nutritionistID, day.Format(utils.DayLayout),
	)
	if err != nil {
		return nil, fmt.Errorf("error querying available slots: %w", err)
	}
	defer rows.Close()
	return scanSlots(rows)
}

func (r *slotRepository) ListByNutritionist(nutritionistID int) ([]db.AvailabilitySlot, error) {
	rows, err := r.db.Query(`
		SELECT id, nutritionist_id, day, start_time, end_time, is_booked, created_at, updated_at
		FROM availability_slots
		WHERE nutritionist_id = $1
		ORDER BY day ASC, start_time ASC`,
		nutritionistID,
	)
	if err != nil {
		return nil, fmt.Errorf("error querying nutritionist slots: %w", err)
	}
	defer rows.Close()
	return scanSlots(rows)
}

// DeleteUnbooked deletes the slot only if it is still unbooked; the
// precondition is re-checked atomically with the delete itself.
func (r *slotRepository) DeleteUnbooked(id int) (bool, error) {
	result, err := r.db.Exec(
		`DELETE FROM availability_slots WHERE id = $1 AND is_booked = false`, id,
	)
	if err != nil {
		return false, fmt.Errorf("error deleting slot %d: %w", id, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func scanSlots(rows *sql.Rows) ([]db.AvailabilitySlot, error) {
	var slots []db.AvailabilitySlot
	for rows.Next() {
		var slot db.AvailabilitySlot
		if err := rows.Scan(
			&slot.ID, &slot.NutritionistID, &slot.Day, &slot.StartTime, &slot.EndTime,
			&slot.IsBooked, &slot.CreatedAt, &slot.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning slot row: %w", err)
		}
		slots = append(slots, slot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating slot rows: %w", err)
	}
	return slots, nil
}
