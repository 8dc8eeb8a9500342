package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/academy-api/internal/models"
)

var userRowColumns = []string{"id", "username", "password_hash", "role", "display_name", "teacher_id", "created_at", "updated_at"}

func TestUserRepositoryFindByUsername(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE username = $1 LIMIT 1`)).
		WithArgs("T001").
		WillReturnRows(sqlmock.NewRows(userRowColumns).AddRow(int64(3), "T001", "hash", "teacher", "Kim", int64(9), now, now))

	user, err := repo.FindByUsername(context.Background(), "T001")
	require.NoError(t, err)
	assert.Equal(t, int64(3), user.ID)
	assert.Equal(t, models.RoleTeacher, user.Role)
	require.NotNil(t, user.TeacherID)
	assert.Equal(t, int64(9), *user.TeacherID)
}

func TestUserRepositoryFindByUsernameNotFound(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE username = $1`)).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByUsername(context.Background(), "ghost")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestUserRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	teacherID := int64(9)
	user := &models.User{Username: "T001", PasswordHash: "hash", Role: models.RoleTeacher, DisplayName: "Kim", TeacherID: &teacherID}
	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users (username, password_hash, role, display_name, teacher_id, created_at, updated_at)`)).
		WithArgs("T001", "hash", models.RoleTeacher, "Kim", &teacherID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(11), now, now))

	require.NoError(t, repo.Create(context.Background(), user))
	assert.Equal(t, int64(11), user.ID)
}

func TestUserRepositoryCreateConflict(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`ON CONFLICT (username) DO NOTHING`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}))

	err := repo.Create(context.Background(), &models.User{Username: "T001", Role: models.RoleTeacher})
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestUserRepositoryUpdatePassword(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1`)).
		WithArgs(int64(3), "new-hash").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdatePassword(context.Background(), 3, "new-hash"))
}

func TestUserRepositorySyncTeacherAccount(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE users SET username = $2, display_name = $3`)).
		WithArgs(int64(9), "T002", "Lee", "").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.SyncTeacherAccount(context.Background(), 9, "T002", "Lee", ""))
}
