package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/academy-api/internal/models"
	appErrors "github.com/noah-isme/academy-api/pkg/errors"
)

type studentRepository interface {
	List(ctx context.Context) ([]*models.Student, error)
	FindByID(ctx context.Context, id int64) (*models.Student, error)
	Create(ctx context.Context, student *models.Student) error
	Update(ctx context.Context, student *models.Student) error
	Delete(ctx context.Context, id int64) error
}

type studentClassLookup interface {
	FindByID(ctx context.Context, id int64) (*models.Class, error)
}

// StudentService handles admin student management.
type StudentService struct {
	repo      studentRepository
	classes   studentClassLookup
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStudentService creates a new student service.
func NewStudentService(repo studentRepository, classes studentClassLookup, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{repo: repo, classes: classes, validator: validate, logger: logger}
}

// List returns all students.
func (s *StudentService) List(ctx context.Context) (*models.StudentList, error) {
	students, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list students")
	}
	if students == nil {
		students = []*models.Student{}
	}
	return &models.StudentList{TotalCounts: len(students), Students: students}, nil
}

// Get returns a student by id.
func (s *StudentService) Get(ctx context.Context, id int64) (*models.Student, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Internal(err, "failed to get student")
	}
	return student, nil
}

// Create registers a student, optionally attached to a class.
func (s *StudentService) Create(ctx context.Context, req models.CreateStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	classID, err := s.resolveClass(ctx, req.ClassRef())
	if err != nil {
		return nil, err
	}

	student := &models.Student{
		ClassID:   classID,
		Name:      strings.TrimSpace(req.Name),
		Email:     strings.TrimSpace(req.Email),
		BirthDate: *req.BirthDate,
		Gender:    req.Gender,
	}
	if err := s.repo.Create(ctx, student); err != nil {
		return nil, appErrors.Internal(err, "failed to create student")
	}
	s.logger.Info("student created", zap.Int64("student_id", student.ID))
	return student, nil
}

// Update merges supplied fields. A null or blank class reference detaches the student.
func (s *StudentService) Update(ctx context.Context, id int64, req models.UpdateStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	student, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if ref := req.ClassRef(); ref.Set {
		classID, err := s.resolveClass(ctx, ref)
		if err != nil {
			return nil, err
		}
		student.ClassID = classID
	}
	if req.Name != nil {
		student.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		student.Email = strings.TrimSpace(*req.Email)
	}
	if req.BirthDate != nil && !req.BirthDate.IsZero() {
		student.BirthDate = *req.BirthDate
	}
	if req.Gender != nil {
		student.Gender = *req.Gender
	}

	if err := s.repo.Update(ctx, student); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Internal(err, "failed to update student")
	}
	return student, nil
}

// Delete removes a student and their reports.
func (s *StudentService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return appErrors.Internal(err, "failed to delete student")
	}
	return nil
}

func (s *StudentService) resolveClass(ctx context.Context, ref models.NullableID) (*int64, error) {
	if !ref.Set {
		return nil, nil
	}
	if ref.Invalid {
		return nil, appErrors.Field("classId", "Invalid Class ID")
	}
	if !ref.Valid {
		return nil, nil
	}
	class, err := s.classes.FindByID(ctx, ref.Value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Field("classId", "Invalid Class ID")
		}
		return nil, appErrors.Internal(err, "failed to load class")
	}
	return &class.ID, nil
}
