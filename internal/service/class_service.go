package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/academy-api/internal/dto"
	"github.com/noah-isme/academy-api/internal/models"
	appErrors "github.com/noah-isme/academy-api/pkg/errors"
)

type classRepository interface {
	List(ctx context.Context) ([]*models.Class, error)
	ListByTeacher(ctx context.Context, teacherID int64) ([]*models.Class, error)
	FindByID(ctx context.Context, id int64) (*models.Class, error)
	Create(ctx context.Context, class *models.Class) error
	Update(ctx context.Context, class *models.Class) error
	Delete(ctx context.Context, id int64) error
}

type classTeacherRepository interface {
	FindByID(ctx context.Context, id int64) (*models.Teacher, error)
	FindByTeacherID(ctx context.Context, teacherID string) (*models.Teacher, error)
	FindByIDs(ctx context.Context, ids []int64) (map[int64]*models.Teacher, error)
}

type classStudentRepository interface {
	SummariesByClassIDs(ctx context.Context, classIDs []int64) (map[int64][]models.StudentSummary, error)
	DetachAllFromClass(ctx context.Context, classID int64) error
	AttachToClass(ctx context.Context, studentID, classID int64) (bool, error)
}

type classTodoRepository interface {
	ListByClass(ctx context.Context, classID int64) ([]models.Todo, error)
	ListByClassIDs(ctx context.Context, classIDs []int64) (map[int64][]models.Todo, error)
	Create(ctx context.Context, todo *models.Todo) error
	Update(ctx context.Context, todo *models.Todo) error
	DeleteByIDs(ctx context.Context, classID int64, ids []int64) error
}

// ClassService reconciles class aggregates (teacher link, roster, todos) and projects them for reads.
type ClassService struct {
	classes   classRepository
	teachers  classTeacherRepository
	students  classStudentRepository
	todos     classTodoRepository
	tx        txManager
	validator *validator.Validate
	logger    *zap.Logger
}

// NewClassService constructs a ClassService.
func NewClassService(classes classRepository, teachers classTeacherRepository, students classStudentRepository, todos classTodoRepository, tx txManager, validate *validator.Validate, logger *zap.Logger) *ClassService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ClassService{
		classes:   classes,
		teachers:  teachers,
		students:  students,
		todos:     todos,
		tx:        tx,
		validator: validate,
		logger:    logger,
	}
}

// List returns every class projection with the total count.
func (s *ClassService) List(ctx context.Context) (*models.ClassList, error) {
	views, err := s.Classrooms(ctx)
	if err != nil {
		return nil, err
	}
	return &models.ClassList{TotalCounts: len(views), Classes: views}, nil
}

// Classrooms returns the nested projection of all classes.
func (s *ClassService) Classrooms(ctx context.Context) ([]models.ClassView, error) {
	classes, err := s.classes.List(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list classes")
	}
	return s.project(ctx, classes)
}

// ListByTeacher returns projections of the classes a teacher owns.
func (s *ClassService) ListByTeacher(ctx context.Context, teacherID int64) ([]models.ClassView, error) {
	classes, err := s.classes.ListByTeacher(ctx, teacherID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list classes")
	}
	return s.project(ctx, classes)
}

// Get returns one class projection.
func (s *ClassService) Get(ctx context.Context, id int64) (*models.ClassView, error) {
	class, err := s.findClass(ctx, id)
	if err != nil {
		return nil, err
	}
	views, err := s.project(ctx, []*models.Class{class})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// Create persists a class together with its teacher link, roster and todos in one transaction.
func (s *ClassService) Create(ctx context.Context, payload dto.ClassPayload) (*models.ClassCreated, error) {
	if payload.ClassName == nil || strings.TrimSpace(*payload.ClassName) == "" {
		return nil, appErrors.Field("className", "This field is required.")
	}
	if err := s.validator.Struct(payload); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid class payload")
	}

	class := &models.Class{
		ClassName: strings.TrimSpace(*payload.ClassName),
		Classroom: payload.Classroom,
	}
	if payload.DaysOfWeek != nil {
		days := models.JoinDays(*payload.DaysOfWeek)
		class.ClassTime = &days
	}

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		teacher, err := s.resolveTeacher(ctx, payload.Teacher)
		if err != nil {
			return err
		}
		if teacher != nil {
			class.TeacherID = &teacher.ID
		}
		if err := s.classes.Create(ctx, class); err != nil {
			return err
		}
		if payload.Students != nil {
			if err := s.attachStudents(ctx, class.ID, *payload.Students); err != nil {
				return err
			}
		}
		if payload.Todos != nil {
			for i, input := range *payload.Todos {
				if err := s.createTodo(ctx, class.ID, i, input); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, s.writeError(err, "failed to create class")
	}

	s.logger.Info("class created", zap.Int64("class_id", class.ID))
	return &models.ClassCreated{Message: "Class added successfully", ClassID: class.ID}, nil
}

// Update merges the payload into an existing class. Absent keys leave the stored state untouched.
func (s *ClassService) Update(ctx context.Context, id int64, payload dto.ClassPayload) (*models.ClassView, error) {
	if payload.ClassName != nil && strings.TrimSpace(*payload.ClassName) == "" {
		return nil, appErrors.Field("className", "This field may not be blank.")
	}
	if err := s.validator.Struct(payload); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid class payload")
	}

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		class, err := s.findClass(ctx, id)
		if err != nil {
			return err
		}

		teacher, err := s.resolveTeacher(ctx, payload.Teacher)
		if err != nil {
			return err
		}
		if teacher != nil {
			class.TeacherID = &teacher.ID
		}
		if payload.DaysOfWeek != nil {
			days := models.JoinDays(*payload.DaysOfWeek)
			class.ClassTime = &days
		}
		if payload.ClassName != nil {
			class.ClassName = strings.TrimSpace(*payload.ClassName)
		}
		if payload.Classroom != nil {
			class.Classroom = payload.Classroom
		}
		if err := s.classes.Update(ctx, class); err != nil {
			return err
		}

		if payload.Students != nil {
			if err := s.students.DetachAllFromClass(ctx, class.ID); err != nil {
				return err
			}
			if err := s.attachStudents(ctx, class.ID, *payload.Students); err != nil {
				return err
			}
		}
		if payload.Todos != nil {
			if err := s.reconcileTodos(ctx, class.ID, *payload.Todos); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, s.writeError(err, "failed to update class")
	}

	return s.Get(ctx, id)
}

// Delete removes a class; its todos cascade and its students are detached.
func (s *ClassService) Delete(ctx context.Context, id int64) error {
	if err := s.classes.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return appErrors.Internal(err, "failed to delete class")
	}
	return nil
}

func (s *ClassService) findClass(ctx context.Context, id int64) (*models.Class, error) {
	class, err := s.classes.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Internal(err, "failed to load class")
	}
	return class, nil
}

// resolveTeacher looks a reference up by primary key first, then by external teacher id.
// A missing or empty reference resolves to nil; an unknown one is a validation error.
func (s *ClassService) resolveTeacher(ctx context.Context, ref *dto.TeacherRef) (*models.Teacher, error) {
	if ref == nil || ref.IsEmpty() {
		return nil, nil
	}

	var (
		teacher *models.Teacher
		err     error
	)
	if ref.HasID() {
		teacher, err = s.teachers.FindByID(ctx, *ref.ID)
	} else {
		teacher, err = s.teachers.FindByTeacherID(ctx, *ref.TeacherID)
	}
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Field("teacher", "Invalid teacher reference.")
		}
		return nil, err
	}
	return teacher, nil
}

// attachStudents re-parents each listed student, skipping ids that do not resolve.
func (s *ClassService) attachStudents(ctx context.Context, classID int64, refs []dto.StudentRef) error {
	for _, ref := range refs {
		ok, err := s.students.AttachToClass(ctx, ref.ID, classID)
		if err != nil {
			return err
		}
		if !ok {
			s.logger.Debug("skipping unknown student", zap.Int64("class_id", classID), zap.Int64("student_id", ref.ID))
		}
	}
	return nil
}

// reconcileTodos diff-merges the submitted list against the stored todos by id:
// echoed ids are updated in place, others are created, and unmentioned todos are deleted.
func (s *ClassService) reconcileTodos(ctx context.Context, classID int64, inputs []dto.TodoInput) error {
	existing, err := s.todos.ListByClass(ctx, classID)
	if err != nil {
		return err
	}
	remaining := make(map[int64]models.Todo, len(existing))
	for _, todo := range existing {
		remaining[todo.ID] = todo
	}

	for i, input := range inputs {
		if input.ID != nil {
			if current, ok := remaining[*input.ID]; ok {
				delete(remaining, *input.ID)
				applyTodoInput(&current, input)
				if err := s.todos.Update(ctx, &current); err != nil {
					return err
				}
				continue
			}
		}
		if err := s.createTodo(ctx, classID, i, input); err != nil {
			return err
		}
	}

	if len(remaining) == 0 {
		return nil
	}
	stale := make([]int64, 0, len(remaining))
	for id := range remaining {
		stale = append(stale, id)
	}
	sort.Slice(stale, func(i, j int) bool { return stale[i] < stale[j] })
	return s.todos.DeleteByIDs(ctx, classID, stale)
}

func (s *ClassService) createTodo(ctx context.Context, classID int64, index int, input dto.TodoInput) error {
	if input.Date == nil || input.Date.IsZero() {
		return appErrors.Field(fmt.Sprintf("todos[%d].date", index), "This field is required.")
	}
	todo := &models.Todo{ClassID: classID}
	applyTodoInput(todo, input)
	return s.todos.Create(ctx, todo)
}

func applyTodoInput(todo *models.Todo, input dto.TodoInput) {
	if input.Title != nil {
		todo.Title = *input.Title
	}
	if input.Task != nil {
		todo.Task = *input.Task
	}
	if input.Date != nil && !input.Date.IsZero() {
		todo.Date = *input.Date
	}
}

// writeError keeps typed errors raised inside a transaction and wraps anything else as internal.
func (s *ClassService) writeError(err error, message string) error {
	var appErr *appErrors.Error
	if errors.As(err, &appErr) {
		return appErr
	}
	s.logger.Error(message, zap.Error(err))
	return appErrors.Internal(err, message)
}
