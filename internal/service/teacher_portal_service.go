package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/noah-isme/academy-api/internal/models"
	appErrors "github.com/noah-isme/academy-api/pkg/errors"
)

type portalUserRepository interface {
	FindByID(ctx context.Context, id int64) (*models.User, error)
}

type portalTeacherRepository interface {
	FindByID(ctx context.Context, id int64) (*models.Teacher, error)
	FindByTeacherID(ctx context.Context, teacherID string) (*models.Teacher, error)
}

type portalClassRepository interface {
	FindByID(ctx context.Context, id int64) (*models.Class, error)
}

type portalStudentRepository interface {
	ListByClass(ctx context.Context, classID int64) ([]*models.Student, error)
}

type portalTodoRepository interface {
	List(ctx context.Context, filter models.TodoFilter) ([]models.Todo, error)
}

type portalClassProjector interface {
	ListByTeacher(ctx context.Context, teacherID int64) ([]models.ClassView, error)
}

// TeacherPortalService serves read views scoped to the authenticated teacher.
type TeacherPortalService struct {
	users     portalUserRepository
	teachers  portalTeacherRepository
	classes   portalClassRepository
	students  portalStudentRepository
	todos     portalTodoRepository
	projector portalClassProjector
	logger    *zap.Logger
}

// NewTeacherPortalService constructs a TeacherPortalService.
func NewTeacherPortalService(users portalUserRepository, teachers portalTeacherRepository, classes portalClassRepository, students portalStudentRepository, todos portalTodoRepository, projector portalClassProjector, logger *zap.Logger) *TeacherPortalService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TeacherPortalService{
		users:     users,
		teachers:  teachers,
		classes:   classes,
		students:  students,
		todos:     todos,
		projector: projector,
		logger:    logger,
	}
}

// Me resolves the teacher profile of the authenticated user.
func (s *TeacherPortalService) Me(ctx context.Context, userID int64) (*models.Teacher, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrUnauthorized, "user not found")
		}
		return nil, appErrors.Internal(err, "failed to load user")
	}

	var teacher *models.Teacher
	if user.TeacherID != nil {
		teacher, err = s.teachers.FindByID(ctx, *user.TeacherID)
	} else {
		teacher, err = s.teachers.FindByTeacherID(ctx, user.Username)
	}
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher profile not found")
		}
		return nil, appErrors.Internal(err, "failed to load teacher profile")
	}
	return teacher, nil
}

// Classes returns the caller's classes as nested projections.
func (s *TeacherPortalService) Classes(ctx context.Context, userID int64) ([]models.ClassView, error) {
	teacher, err := s.Me(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.projector.ListByTeacher(ctx, teacher.ID)
}

// ClassTodos lists todos of an owned class, optionally narrowed by year and month.
func (s *TeacherPortalService) ClassTodos(ctx context.Context, userID, classID int64, year, month *int) (*models.TodoList, error) {
	if month != nil && (*month < 1 || *month > 12) {
		return nil, appErrors.Field("month", "Month must be between 1 and 12.")
	}
	if year != nil && *year < 1 {
		return nil, appErrors.Field("year", "Year must be positive.")
	}
	class, err := s.ownedClass(ctx, userID, classID)
	if err != nil {
		return nil, err
	}

	todos, err := s.todos.List(ctx, models.TodoFilter{ClassID: class.ID, Year: year, Month: month})
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list todos")
	}
	if todos == nil {
		todos = []models.Todo{}
	}
	return &models.TodoList{Todos: todos}, nil
}

// ClassStudents returns the roster of an owned class.
func (s *TeacherPortalService) ClassStudents(ctx context.Context, userID, classID int64) (*models.Roster, error) {
	class, err := s.ownedClass(ctx, userID, classID)
	if err != nil {
		return nil, err
	}
	students, err := s.students.ListByClass(ctx, class.ID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list students")
	}
	if students == nil {
		students = []*models.Student{}
	}
	return &models.Roster{Students: students}, nil
}

// ownedClass hides classes of other teachers behind NOT_FOUND.
func (s *TeacherPortalService) ownedClass(ctx context.Context, userID, classID int64) (*models.Class, error) {
	teacher, err := s.Me(ctx, userID)
	if err != nil {
		return nil, err
	}
	class, err := s.classes.FindByID(ctx, classID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Internal(err, "failed to load class")
	}
	if class.TeacherID == nil || *class.TeacherID != teacher.ID {
		s.logger.Debug("class not owned by caller", zap.Int64("class_id", classID), zap.Int64("teacher_id", teacher.ID))
		return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
	}
	return class, nil
}
