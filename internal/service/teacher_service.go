package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/academy-api/internal/models"
	"github.com/noah-isme/academy-api/internal/repository"
	appErrors "github.com/noah-isme/academy-api/pkg/errors"
)

type teacherRepository interface {
	List(ctx context.Context) ([]*models.Teacher, error)
	FindByID(ctx context.Context, id int64) (*models.Teacher, error)
	Create(ctx context.Context, teacher *models.Teacher) error
	Update(ctx context.Context, teacher *models.Teacher) error
	Delete(ctx context.Context, id int64) error
}

type teacherAccountRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByTeacherID(ctx context.Context, teacherID int64) (*models.User, error)
	SyncTeacherAccount(ctx context.Context, teacherID int64, username, displayName, passwordHash string) error
}

// TeacherService manages teacher records and their login accounts.
type TeacherService struct {
	repo       teacherRepository
	accounts   teacherAccountRepository
	tx         txManager
	validator  *validator.Validate
	logger     *zap.Logger
	bcryptCost int
}

// NewTeacherService constructs a TeacherService.
func NewTeacherService(repo teacherRepository, accounts teacherAccountRepository, tx txManager, validate *validator.Validate, logger *zap.Logger, bcryptCost int) *TeacherService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if bcryptCost <= 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &TeacherService{
		repo:       repo,
		accounts:   accounts,
		tx:         tx,
		validator:  validate,
		logger:     logger,
		bcryptCost: bcryptCost,
	}
}

// List returns all teachers.
func (s *TeacherService) List(ctx context.Context) (*models.TeacherList, error) {
	teachers, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list teachers")
	}
	if teachers == nil {
		teachers = []*models.Teacher{}
	}
	return &models.TeacherList{TotalCounts: len(teachers), Teachers: teachers}, nil
}

// Get returns a teacher by primary key.
func (s *TeacherService) Get(ctx context.Context, id int64) (*models.Teacher, error) {
	teacher, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return nil, appErrors.Internal(err, "failed to get teacher")
	}
	return teacher, nil
}

// Create registers a teacher and provisions the linked login account.
func (s *TeacherService) Create(ctx context.Context, req models.CreateTeacherRequest) (*models.Teacher, error) {
	if strings.TrimSpace(req.Passwd) == "" {
		return nil, appErrors.Field("passwd", "Password is required for new teacher.")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid teacher payload")
	}

	hash, err := s.hash(req.Passwd)
	if err != nil {
		return nil, err
	}
	teacher := &models.Teacher{
		TeacherID: strings.TrimSpace(req.TeacherID),
		Passwd:    hash,
		Name:      strings.TrimSpace(req.Name),
		Age:       req.Age,
		Position:  req.Position,
		Sex:       req.Sex,
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, teacher); err != nil {
			return err
		}
		return s.createAccount(ctx, teacher, hash)
	})
	if err != nil {
		return nil, s.writeError(err, "failed to create teacher")
	}

	s.logger.Info("teacher created", zap.Int64("teacher_id", teacher.ID))
	return teacher, nil
}

// Update merges supplied fields. A non-blank passwd rehashes both the record and the login account.
func (s *TeacherService) Update(ctx context.Context, id int64, req models.UpdateTeacherRequest) (*models.Teacher, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid teacher payload")
	}
	teacher, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.TeacherID != nil {
		teacher.TeacherID = strings.TrimSpace(*req.TeacherID)
	}
	if req.Name != nil {
		teacher.Name = strings.TrimSpace(*req.Name)
	}
	if req.Age != nil {
		teacher.Age = *req.Age
	}
	if req.Position != nil {
		teacher.Position = *req.Position
	}
	if req.Sex != nil {
		teacher.Sex = *req.Sex
	}

	var hash string
	if req.Passwd != nil && strings.TrimSpace(*req.Passwd) != "" {
		if hash, err = s.hash(*req.Passwd); err != nil {
			return nil, err
		}
		teacher.Passwd = hash
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.repo.Update(ctx, teacher); err != nil {
			return err
		}
		if _, err := s.accounts.FindByTeacherID(ctx, teacher.ID); err != nil {
			if !errors.Is(err, sql.ErrNoRows) {
				return err
			}
			if hash == "" {
				return nil
			}
			return s.createAccount(ctx, teacher, hash)
		}
		return s.accounts.SyncTeacherAccount(ctx, teacher.ID, teacher.TeacherID, teacher.Name, hash)
	})
	if err != nil {
		return nil, s.writeError(err, "failed to update teacher")
	}
	return teacher, nil
}

// Delete removes a teacher. Their classes and login account are unlinked, not removed.
func (s *TeacherService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return appErrors.Internal(err, "failed to delete teacher")
	}
	return nil
}

func (s *TeacherService) createAccount(ctx context.Context, teacher *models.Teacher, hash string) error {
	teacherID := teacher.ID
	user := &models.User{
		Username:     teacher.TeacherID,
		PasswordHash: hash,
		Role:         models.RoleTeacher,
		DisplayName:  teacher.Name,
		TeacherID:    &teacherID,
	}
	if err := s.accounts.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrUsernameTaken) {
			return appErrors.Clone(appErrors.ErrConflict, "an account with this teacherId already exists")
		}
		return err
	}
	return nil
}

func (s *TeacherService) hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", appErrors.Internal(err, "failed to hash password")
	}
	return string(hashed), nil
}

func (s *TeacherService) writeError(err error, message string) error {
	var appErr *appErrors.Error
	if errors.As(err, &appErr) {
		return appErr
	}
	if errors.Is(err, repository.ErrDuplicate) {
		return appErrors.Clone(appErrors.ErrConflict, "teacher with this teacherId already exists")
	}
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
	}
	s.logger.Error(message, zap.Error(err))
	return appErrors.Internal(err, message)
}
