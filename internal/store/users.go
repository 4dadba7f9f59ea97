package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"shop-service/internal/fault"
	"shop-service/internal/models"
)

// UsernameOrEmailTaken reports whether another user already holds the given
// username or email. Runs inside the create transaction.
func (s *Store) UsernameOrEmailTaken(ctx context.Context, tx *sqlx.Tx, username, email string) (bool, error) {
	var taken bool
	err := tx.GetContext(ctx, &taken,
		"SELECT EXISTS(SELECT 1 FROM users WHERE username = $1 OR email = $2)",
		username, email)
	return taken, err
}

// InsertUser inserts a user and scans the generated columns back.
func (s *Store) InsertUser(ctx context.Context, tx *sqlx.Tx, user *models.User) error {
	query := `
		INSERT INTO users (username, email, hashed_password, firstname, last_name, birthday, uuid)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, is_active, created_at`

	err := tx.QueryRowxContext(ctx, query,
		user.Username, user.Email, user.HashedPassword,
		user.Firstname, user.LastName, user.Birthday, user.UUID,
	).Scan(&user.ID, &user.IsActive, &user.CreatedAt)
	if err != nil {
		return conflictOnUnique(err, "user", "username or email already exists")
	}
	return nil
}

// GetUserByID retrieves a user by ID
func (s *Store) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	err := s.db.GetContext(ctx, &user, "SELECT * FROM users WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fault.NotFound("user", id)
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserForUpdate loads a user inside tx with a row lock, so a partial
// update merges against the current state.
func (s *Store) GetUserForUpdate(ctx context.Context, tx *sqlx.Tx, id int64) (*models.User, error) {
	var user models.User
	err := tx.GetContext(ctx, &user, "SELECT * FROM users WHERE id = $1 FOR UPDATE", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fault.NotFound("user", id)
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ListUsers retrieves a page of users in storage order.
func (s *Store) ListUsers(ctx context.Context, skip, limit int) ([]models.User, error) {
	users := []models.User{}
	err := s.db.SelectContext(ctx, &users,
		"SELECT * FROM users ORDER BY id OFFSET $1 LIMIT $2", skip, limit)
	return users, err
}

// UpdateUser writes the mutable user fields back.
func (s *Store) UpdateUser(ctx context.Context, tx *sqlx.Tx, user *models.User) error {
	_, err := tx.ExecContext(ctx,
		"UPDATE users SET email = $1, firstname = $2, last_name = $3, birthday = $4 WHERE id = $5",
		user.Email, user.Firstname, user.LastName, user.Birthday, user.ID)
	if err != nil {
		return conflictOnUnique(err, "user", "email already exists")
	}
	return nil
}

// UserRowExists reports whether a user row exists, for FK pre-checks.
func (s *Store) UserRowExists(ctx context.Context, tx *sqlx.Tx, id int64) (bool, error) {
	var exists bool
	err := tx.GetContext(ctx, &exists,
		"SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)", id)
	return exists, err
}
