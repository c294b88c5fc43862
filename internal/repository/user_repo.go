package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"nutriagenda/internal/db"
)

// ErrEmailTaken is returned when the unique constraint on users.email fires.
var ErrEmailTaken = errors.New("email already registered")

type UserRepository interface {
	Create(user *db.User) error
	GetByEmail(email string) (*db.User, error)
	GetByID(id int) (*db.User, error)
}

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(database *sql.DB) UserRepository {
	return &userRepository{db: database}
}

func (r *userRepository) Create(user *db.User) error {
	err := r.db.QueryRow(`
		INSERT INTO users (email, name, phone, password_hash, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`,
		user.Email, user.Name, user.Phone, user.PasswordHash, user.Role,
	).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		// 23505 = unique_violation on users.email
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrEmailTaken
		}
		return fmt.Errorf("error inserting user: %w", err)
	}
	return nil
}

func (r *userRepository) GetByEmail(email string) (*db.User, error) {
	var user db.User
	err := r.db.QueryRow(`
		SELECT id, email, name, phone, password_hash, role, created_at
		FROM users WHERE email = $1`, email,
	).Scan(&user.ID, &user.Email, &user.Name, &user.Phone, &user.PasswordHash, &user.Role, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error querying user by email: %w", err)
	}
	return &user, nil
}

func (r *userRepository) GetByID(id int) (*db.User, error) {
	var user db.User
	err := r.db.QueryRow(`
		SELECT id, email, name, phone, password_hash, role, created_at
		FROM users WHERE id = $1`, id,
	).Scan(&user.ID, &user.Email, &user.Name, &user.Phone, &user.PasswordHash, &user.Role, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error querying user %d: %w", id, err)
	}
	return &user, nil
}
