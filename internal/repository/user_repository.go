package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/academy-api/internal/models"
)

// ErrUsernameTaken is returned by Create when the username already exists.
var ErrUsernameTaken = errors.New("username already exists")

const userColumns = `id, username, password_hash, role, display_name, teacher_id, created_at, updated_at`

// UserRepository provides database access for login principals.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByUsername returns a user by username.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1 LIMIT 1`
	var user models.User
	if err := executor(ctx, r.db).GetContext(ctx, &user, query, username); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find user by username: %w", err)
	}
	return &user, nil
}

// FindByID returns a user by identifier.
func (r *UserRepository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 LIMIT 1`
	var user models.User
	if err := executor(ctx, r.db).GetContext(ctx, &user, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return &user, nil
}

// FindByTeacherID returns the login account linked to a teacher record.
func (r *UserRepository) FindByTeacherID(ctx context.Context, teacherID int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE teacher_id = $1 LIMIT 1`
	var user models.User
	if err := executor(ctx, r.db).GetContext(ctx, &user, query, teacherID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find user by teacher id: %w", err)
	}
	return &user, nil
}

// Create inserts a user unless the username exists, in which case ErrUsernameTaken is returned.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	const query = `INSERT INTO users (username, password_hash, role, display_name, teacher_id, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
ON CONFLICT (username) DO NOTHING
RETURNING id, created_at, updated_at`
	row := executor(ctx, r.db).QueryRowxContext(ctx, query, user.Username, user.PasswordHash, user.Role, user.DisplayName, user.TeacherID)
	if err := row.Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrUsernameTaken
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// UpdatePassword updates the stored password hash.
func (r *UserRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	const query = `UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1`
	if _, err := executor(ctx, r.db).ExecContext(ctx, query, id, passwordHash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

// LinkTeacher binds a user to a teacher record.
func (r *UserRepository) LinkTeacher(ctx context.Context, id, teacherID int64) error {
	const query = `UPDATE users SET teacher_id = $2, updated_at = NOW() WHERE id = $1`
	if _, err := executor(ctx, r.db).ExecContext(ctx, query, id, teacherID); err != nil {
		return fmt.Errorf("link teacher: %w", err)
	}
	return nil
}

// SyncTeacherAccount copies a teacher's login id and name onto its linked user.
// A non-empty passwordHash also replaces the stored hash.
func (r *UserRepository) SyncTeacherAccount(ctx context.Context, teacherID int64, username, displayName, passwordHash string) error {
	const query = `UPDATE users SET username = $2, display_name = $3,
	password_hash = CASE WHEN $4::text = '' THEN password_hash ELSE $4::text END,
	updated_at = NOW()
WHERE teacher_id = $1`
	if _, err := executor(ctx, r.db).ExecContext(ctx, query, teacherID, username, displayName, passwordHash); err != nil {
		return fmt.Errorf("sync teacher account: %w", err)
	}
	return nil
}
