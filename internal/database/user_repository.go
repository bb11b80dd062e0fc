package database

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/wheelorent/car-rental-backend/internal/models"
)

// UserRepository handles database operations for the users table
type UserRepository struct {
	db DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, name, email, password_hash, role, is_admin, image,
	   created_at, updated_at`

// Create inserts a new user with the role "user".
func (r *UserRepository) Create(user *models.User) error {
	query := `
		INSERT INTO users (id, name, email, password_hash, role, is_admin, image)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.Role == "" {
		user.Role = models.RoleUser
	}

	err := r.db.QueryRow(
		query,
		user.ID, user.Name, strings.ToLower(user.Email), user.PasswordHash,
		user.Role, user.IsAdmin, user.Image,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return models.ErrEmailTaken
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(userID uuid.UUID) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	var user models.User
	err := r.db.Get(&user, query, userID)
	if err == sql.ErrNoRows {
		return nil, models.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// GetByEmail retrieves a user by email (case-insensitive).
func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	var user models.User
	err := r.db.Get(&user, query, strings.ToLower(email))
	if err == sql.ErrNoRows {
		return nil, models.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return &user, nil
}

// UpdateRole changes the marketplace role of a user.
func (r *UserRepository) UpdateRole(userID uuid.UUID, role models.UserRole) error {
	return r.exec(`UPDATE users SET role = $2, updated_at = NOW() WHERE id = $1`, userID, role)
}

// UpdateName changes the display name of a user.
func (r *UserRepository) UpdateName(userID uuid.UUID, name string) error {
	return r.exec(`UPDATE users SET name = $2, updated_at = NOW() WHERE id = $1`, userID, name)
}

// UpdateImage changes the profile image reference of a user.
func (r *UserRepository) UpdateImage(userID uuid.UUID, image string) error {
	return r.exec(`UPDATE users SET image = $2, updated_at = NOW() WHERE id = $1`, userID, image)
}

// SetAdmin grants or revokes the admin flag.
func (r *UserRepository) SetAdmin(userID uuid.UUID, isAdmin bool) error {
	return r.exec(`UPDATE users SET is_admin = $2, updated_at = NOW() WHERE id = $1`, userID, isAdmin)
}

// Delete removes a user row.
func (r *UserRepository) Delete(userID uuid.UUID) error {
	return r.exec(`DELETE FROM users WHERE id = $1`, userID)
}

// ListNonAdmins retrieves all non-admin users.
func (r *UserRepository) ListNonAdmins() ([]models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE is_admin = FALSE ORDER BY created_at DESC`

	var users []models.User
	if err := r.db.Select(&users, query); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// ListByRole retrieves all users with the given marketplace role.
func (r *UserRepository) ListByRole(role models.UserRole) ([]models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE role = $1 ORDER BY created_at DESC`

	var users []models.User
	if err := r.db.Select(&users, query, role); err != nil {
		return nil, fmt.Errorf("failed to list users by role: %w", err)
	}
	return users, nil
}

// CountNonAdmins returns the number of non-admin users.
func (r *UserRepository) CountNonAdmins() (int, error) {
	var count int
	if err := r.db.Get(&count, `SELECT COUNT(*) FROM users WHERE is_admin = FALSE`); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}

// CountByRole returns the number of users with the given role.
func (r *UserRepository) CountByRole(role models.UserRole) (int, error) {
	var count int
	if err := r.db.Get(&count, `SELECT COUNT(*) FROM users WHERE role = $1`, role); err != nil {
		return 0, fmt.Errorf("failed to count users by role: %w", err)
	}
	return count, nil
}

func (r *UserRepository) exec(query string, userID uuid.UUID, args ...interface{}) error {
	result, err := r.db.Exec(query, append([]interface{}{userID}, args...)...)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if rows == 0 {
		return models.ErrUserNotFound
	}
	return nil
}
