package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/academy-api/internal/dto"
	"github.com/noah-isme/academy-api/internal/models"
	appErrors "github.com/noah-isme/academy-api/pkg/errors"
)

type classFixture struct {
	svc      *ClassService
	classes  *fakeClassRepo
	teachers *fakeTeacherRepo
	students *fakeStudentRepo
	todos    *fakeTodoRepo
	tx       *fakeTx
}

func newClassFixture() *classFixture {
	days := "Mon,Wed"
	f := &classFixture{
		classes: newFakeClassRepo(&models.Class{ID: 1, ClassName: "Math", TeacherID: int64Ptr(10), ClassTime: &days}),
		teachers: newFakeTeacherRepo(
			&models.Teacher{ID: 10, TeacherID: "T010", Name: "Ana"},
			&models.Teacher{ID: 11, TeacherID: "T011", Name: "Budi"},
		),
		students: newFakeStudentRepo(
			&models.Student{ID: 100, Name: "Citra", ClassID: int64Ptr(1)},
			&models.Student{ID: 101, Name: "Dewi", ClassID: int64Ptr(1)},
			&models.Student{ID: 102, Name: "Eko"},
		),
		todos: newFakeTodoRepo(
			models.Todo{ID: 5, ClassID: 1, Title: "Quiz", Task: "Chapter 1", Date: models.NewDate(2024, 3, 4)},
			models.Todo{ID: 7, ClassID: 1, Title: "Essay", Task: "Draft", Date: models.NewDate(2024, 3, 11)},
		),
		tx: &fakeTx{},
	}
	f.svc = NewClassService(f.classes, f.teachers, f.students, f.todos, f.tx, validator.New(), zap.NewNop())
	return f
}

func datePtr(y int, m time.Month, d int) *models.Date {
	date := models.NewDate(y, m, d)
	return &date
}

func TestClassServiceGetProjectsAggregate(t *testing.T) {
	f := newClassFixture()

	view, err := f.svc.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), view.ClassID)
	assert.Equal(t, "Math", view.ClassName)
	require.NotNil(t, view.Teacher)
	assert.Equal(t, "T010", view.Teacher.TeacherID)
	assert.Equal(t, []string{"Mon", "Wed"}, view.DaysOfWeek)
	require.Len(t, view.Students, 2)
	assert.Equal(t, "Citra", view.Students[0].Name)
	require.Len(t, view.Todos, 2)

	_, err = f.svc.Get(context.Background(), 99)
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
}

func TestClassServiceCreate(t *testing.T) {
	f := newClassFixture()

	created, err := f.svc.Create(context.Background(), dto.ClassPayload{
		ClassName:  strPtr("Physics"),
		Classroom:  strPtr("R2"),
		Teacher:    &dto.TeacherRef{TeacherID: strPtr("T011")},
		DaysOfWeek: &[]string{"Tue", "Thu"},
		Students:   &[]dto.StudentRef{{ID: 102}, {ID: 999}},
		Todos:      &[]dto.TodoInput{{Title: strPtr("Lab"), Task: strPtr("Pendulum"), Date: datePtr(2024, 4, 2)}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Class added successfully", created.Message)
	assert.Equal(t, 1, f.tx.calls)

	view, err := f.svc.Get(context.Background(), created.ClassID)
	require.NoError(t, err)
	require.NotNil(t, view.Teacher)
	assert.Equal(t, int64(11), view.Teacher.ID)
	assert.Equal(t, []string{"Tue", "Thu"}, view.DaysOfWeek)
	require.Len(t, view.Students, 1)
	assert.Equal(t, int64(102), view.Students[0].ID)
	require.Len(t, view.Todos, 1)
	assert.Equal(t, "Lab", view.Todos[0].Title)
	assert.Equal(t, "R2", *view.Classroom)
}

func TestClassServiceCreateWithoutOptionalKeys(t *testing.T) {
	f := newClassFixture()

	created, err := f.svc.Create(context.Background(), dto.ClassPayload{ClassName: strPtr("Art"), Teacher: &dto.TeacherRef{}})
	require.NoError(t, err)

	view, err := f.svc.Get(context.Background(), created.ClassID)
	require.NoError(t, err)
	assert.Nil(t, view.Teacher)
	assert.Equal(t, []string{}, view.DaysOfWeek)
	assert.Empty(t, view.Students)
	assert.NotNil(t, view.Todos)
}

func TestClassServiceCreateZeroTeacherIDFallsBackToTeacherID(t *testing.T) {
	f := newClassFixture()

	created, err := f.svc.Create(context.Background(), dto.ClassPayload{
		ClassName: strPtr("Chem"),
		Teacher:   &dto.TeacherRef{ID: int64Ptr(0), TeacherID: strPtr("T011")},
	})
	require.NoError(t, err)

	view, err := f.svc.Get(context.Background(), created.ClassID)
	require.NoError(t, err)
	require.NotNil(t, view.Teacher)
	assert.Equal(t, int64(11), view.Teacher.ID)

	created, err = f.svc.Create(context.Background(), dto.ClassPayload{
		ClassName: strPtr("Geo"),
		Teacher:   &dto.TeacherRef{ID: int64Ptr(0)},
	})
	require.NoError(t, err)
	view, err = f.svc.Get(context.Background(), created.ClassID)
	require.NoError(t, err)
	assert.Nil(t, view.Teacher)
}

func TestClassServiceCreateValidation(t *testing.T) {
	f := newClassFixture()

	_, err := f.svc.Create(context.Background(), dto.ClassPayload{})
	require.Error(t, err)
	assert.Contains(t, appErrors.FromError(err).Fields, "className")

	_, err = f.svc.Create(context.Background(), dto.ClassPayload{ClassName: strPtr("Bio"), Teacher: &dto.TeacherRef{ID: int64Ptr(404)}})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Contains(t, appErr.Fields, "teacher")

	_, err = f.svc.Create(context.Background(), dto.ClassPayload{ClassName: strPtr("Bio"), Todos: &[]dto.TodoInput{{Title: strPtr("No date")}}})
	require.Error(t, err)
	assert.Contains(t, appErrors.FromError(err).Fields, "todos[0].date")
}

func TestClassServiceUpdateDiffMergesTodos(t *testing.T) {
	f := newClassFixture()

	view, err := f.svc.Update(context.Background(), 1, dto.ClassPayload{
		Todos: &[]dto.TodoInput{
			{ID: int64Ptr(5), Title: strPtr("X")},
			{Title: strPtr("Y"), Task: strPtr("new"), Date: datePtr(2024, 3, 20)},
		},
	})
	require.NoError(t, err)

	require.Len(t, view.Todos, 2)
	assert.Equal(t, int64(5), view.Todos[0].ID)
	assert.Equal(t, "X", view.Todos[0].Title)
	assert.Equal(t, "Chapter 1", view.Todos[0].Task)
	assert.Equal(t, "2024-03-04", view.Todos[0].Date.String())
	assert.Equal(t, "Y", view.Todos[1].Title)
	assert.Equal(t, []int64{7}, f.todos.deleted)
}

func TestClassServiceUpdateUnknownTodoIDCreates(t *testing.T) {
	f := newClassFixture()

	view, err := f.svc.Update(context.Background(), 1, dto.ClassPayload{
		Todos: &[]dto.TodoInput{{ID: int64Ptr(999), Title: strPtr("Fresh"), Date: datePtr(2024, 5, 1)}},
	})
	require.NoError(t, err)
	require.Len(t, view.Todos, 1)
	assert.Equal(t, "Fresh", view.Todos[0].Title)
	assert.NotEqual(t, int64(999), view.Todos[0].ID)
	assert.ElementsMatch(t, []int64{5, 7}, f.todos.deleted)
}

func TestClassServiceUpdateRoster(t *testing.T) {
	f := newClassFixture()
	ctx := context.Background()

	view, err := f.svc.Update(ctx, 1, dto.ClassPayload{ClassName: strPtr("Algebra")})
	require.NoError(t, err)
	assert.Equal(t, "Algebra", view.ClassName)
	assert.Len(t, view.Students, 2, "absent students key keeps the roster")
	assert.Len(t, view.Todos, 2, "absent todos key keeps the todos")
	assert.Equal(t, "T010", view.Teacher.TeacherID)

	view, err = f.svc.Update(ctx, 1, dto.ClassPayload{Students: &[]dto.StudentRef{{ID: 101}, {ID: 102}, {ID: 555}}})
	require.NoError(t, err)
	require.Len(t, view.Students, 2)
	assert.Equal(t, int64(101), view.Students[0].ID)
	assert.Equal(t, int64(102), view.Students[1].ID)
	assert.Nil(t, f.students.students[100].ClassID)

	view, err = f.svc.Update(ctx, 1, dto.ClassPayload{Students: &[]dto.StudentRef{}})
	require.NoError(t, err)
	assert.Empty(t, view.Students)
}

func TestClassServiceUpdateTeacherAndDays(t *testing.T) {
	f := newClassFixture()
	ctx := context.Background()

	view, err := f.svc.Update(ctx, 1, dto.ClassPayload{Teacher: &dto.TeacherRef{ID: int64Ptr(11)}, DaysOfWeek: &[]string{}})
	require.NoError(t, err)
	assert.Equal(t, int64(11), view.Teacher.ID)
	assert.Equal(t, []string{}, view.DaysOfWeek)

	_, err = f.svc.Update(ctx, 1, dto.ClassPayload{Teacher: &dto.TeacherRef{TeacherID: strPtr("missing")}})
	assert.Contains(t, appErrors.FromError(err).Fields, "teacher")

	_, err = f.svc.Update(ctx, 42, dto.ClassPayload{ClassName: strPtr("Ghost")})
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))

	_, err = f.svc.Update(ctx, 1, dto.ClassPayload{ClassName: strPtr("  ")})
	assert.Contains(t, appErrors.FromError(err).Fields, "className")
}

func TestClassServiceListAndDelete(t *testing.T) {
	f := newClassFixture()
	ctx := context.Background()

	_, err := f.svc.Create(ctx, dto.ClassPayload{ClassName: strPtr("History")})
	require.NoError(t, err)

	list, err := f.svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, list.TotalCounts)
	assert.Len(t, list.Classes, 2)

	owned, err := f.svc.ListByTeacher(ctx, 10)
	require.NoError(t, err)
	require.Len(t, owned, 1)
	assert.Equal(t, "Math", owned[0].ClassName)

	require.NoError(t, f.svc.Delete(ctx, 1))
	assert.True(t, appErrors.Is(f.svc.Delete(ctx, 1), appErrors.ErrNotFound))

	rooms, err := f.svc.Classrooms(ctx)
	require.NoError(t, err)
	assert.Len(t, rooms, 1)
}
