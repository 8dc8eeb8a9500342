package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/academy-api/internal/models"
	appErrors "github.com/noah-isme/academy-api/pkg/errors"
	"github.com/noah-isme/academy-api/pkg/export"
)

type fixtureRepository interface {
	List(ctx context.Context, limit, offset int) ([]*models.Fixture, int, error)
	All(ctx context.Context) ([]*models.Fixture, error)
	FindByID(ctx context.Context, id int64) (*models.Fixture, error)
	Create(ctx context.Context, fixture *models.Fixture) error
	Update(ctx context.Context, fixture *models.Fixture) error
	Delete(ctx context.Context, id int64) error
}

// ExportFile is a rendered inventory export.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// FixtureService manages the inventory.
type FixtureService struct {
	repo      fixtureRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewFixtureService constructs a FixtureService.
func NewFixtureService(repo fixtureRepository, validate *validator.Validate, logger *zap.Logger) *FixtureService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FixtureService{repo: repo, validator: validate, logger: logger}
}

// List returns one page of fixtures.
func (s *FixtureService) List(ctx context.Context, query models.PageQuery) (*models.FixturePage, error) {
	query = query.Normalize()
	fixtures, total, err := s.repo.List(ctx, query.Size, query.Offset())
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list fixtures")
	}
	if fixtures == nil {
		fixtures = []*models.Fixture{}
	}
	return &models.FixturePage{Data: fixtures, TotalPage: models.TotalPages(total, query.Size)}, nil
}

// All returns every fixture without pagination.
func (s *FixtureService) All(ctx context.Context) ([]*models.Fixture, error) {
	fixtures, err := s.repo.All(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list fixtures")
	}
	if fixtures == nil {
		fixtures = []*models.Fixture{}
	}
	return fixtures, nil
}

// Get returns a fixture by id.
func (s *FixtureService) Get(ctx context.Context, id int64) (*models.Fixture, error) {
	fixture, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "fixture not found")
		}
		return nil, appErrors.Internal(err, "failed to get fixture")
	}
	return fixture, nil
}

// Create registers a fixture.
func (s *FixtureService) Create(ctx context.Context, req models.CreateFixtureRequest) (*models.Fixture, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid fixture payload")
	}
	fixture := &models.Fixture{Name: strings.TrimSpace(req.Name), Price: req.Price, Count: req.Count}
	if err := s.repo.Create(ctx, fixture); err != nil {
		return nil, appErrors.Internal(err, "failed to create fixture")
	}
	return fixture, nil
}

// Update merges supplied fields into a fixture.
func (s *FixtureService) Update(ctx context.Context, id int64, req models.UpdateFixtureRequest) (*models.Fixture, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid fixture payload")
	}
	fixture, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		fixture.Name = strings.TrimSpace(*req.Name)
	}
	if req.Price != nil {
		fixture.Price = *req.Price
	}
	if req.Count != nil {
		fixture.Count = *req.Count
	}
	if err := s.repo.Update(ctx, fixture); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "fixture not found")
		}
		return nil, appErrors.Internal(err, "failed to update fixture")
	}
	return fixture, nil
}

// Delete removes a fixture.
func (s *FixtureService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "fixture not found")
		}
		return appErrors.Internal(err, "failed to delete fixture")
	}
	return nil
}

// Export renders the full inventory as CSV or PDF.
func (s *FixtureService) Export(ctx context.Context, rawFormat string) (*ExportFile, error) {
	format, err := export.ParseFormat(rawFormat)
	if err != nil {
		return nil, appErrors.Field("format", err.Error())
	}
	fixtures, err := s.All(ctx)
	if err != nil {
		return nil, err
	}

	table := export.Table{
		Title: "Fixtures",
		Columns: []export.Column{
			{Title: "ID", Weight: 0.5, Align: "R"},
			{Title: "Name", Weight: 3},
			{Title: "Price", Weight: 1, Align: "R"},
			{Title: "Count", Weight: 1, Align: "R"},
		},
		Rows: make([][]string, 0, len(fixtures)),
	}
	for _, fixture := range fixtures {
		table.Rows = append(table.Rows, []string{
			strconv.FormatInt(fixture.ID, 10),
			fixture.Name,
			strconv.Itoa(fixture.Price),
			strconv.Itoa(fixture.Count),
		})
	}

	data, err := export.Render(format, table)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to render fixtures export")
	}
	s.logger.Debug("fixtures exported", zap.String("format", string(format)), zap.Int("rows", len(fixtures)))
	return &ExportFile{
		Filename:    fmt.Sprintf("fixtures.%s", format),
		ContentType: format.ContentType(),
		Data:        data,
	}, nil
}
