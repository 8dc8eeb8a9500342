package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/academy-api/internal/models"
)

func TestStudentRepositorySummariesByClassIDs(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, name, class_id FROM students WHERE class_id = ANY($1)`)).
		WithArgs(pq.Array([]int64{1, 2})).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "class_id"}).
			AddRow(int64(10), "Ann", int64(1)).
			AddRow(int64(11), "Bob", int64(1)).
			AddRow(int64(12), "Cy", int64(2)))

	grouped, err := repo.SummariesByClassIDs(context.Background(), []int64{1, 2})
	require.NoError(t, err)
	assert.Len(t, grouped[1], 2)
	assert.Equal(t, "Cy", grouped[2][0].Name)
}

func TestStudentRepositoryAttachToClass(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE students SET class_id = $2, updated_at = NOW() WHERE id = $1`)).
		WithArgs(int64(10), int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE students SET class_id = $2, updated_at = NOW() WHERE id = $1`)).
		WithArgs(int64(999), int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := repo.AttachToClass(context.Background(), 10, 4)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.AttachToClass(context.Background(), 999, 4)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStudentRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	student := &models.Student{Name: "Ann", Email: "ann@example.com", BirthDate: models.NewDate(2012, time.May, 4), Gender: "F"}
	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO students (class_id, name, email, birth_date, gender, created_at, updated_at)`)).
		WithArgs(nil, "Ann", "ann@example.com", "2012-05-04", "F").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(10), now, now))

	require.NoError(t, repo.Create(context.Background(), student))
	assert.Equal(t, int64(10), student.ID)
}

func TestStudentRepositoryFindByIDsScansDates(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`FROM students WHERE id = ANY($1)`)).
		WithArgs(pq.Array([]int64{10, 99})).
		WillReturnRows(sqlmock.NewRows([]string{"id", "class_id", "name", "email", "birth_date", "gender", "created_at", "updated_at"}).
			AddRow(int64(10), nil, "Ann", "ann@example.com", time.Date(2012, 5, 4, 0, 0, 0, 0, time.UTC), "F", now, now))

	students, err := repo.FindByIDs(context.Background(), []int64{10, 99})
	require.NoError(t, err)
	require.Contains(t, students, int64(10))
	assert.NotContains(t, students, int64(99))
	assert.Equal(t, "2012-05-04", students[10].BirthDate.String())
}
