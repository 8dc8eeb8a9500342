package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/academy-api/internal/models"
)

// FixtureRepository persists inventory items.
type FixtureRepository struct {
	db *sqlx.DB
}

// NewFixtureRepository constructs a FixtureRepository.
func NewFixtureRepository(db *sqlx.DB) *FixtureRepository {
	return &FixtureRepository{db: db}
}

// List returns one page of fixtures plus the total row count.
func (r *FixtureRepository) List(ctx context.Context, limit, offset int) ([]*models.Fixture, int, error) {
	exec := executor(ctx, r.db)

	var total int
	if err := exec.GetContext(ctx, &total, `SELECT COUNT(*) FROM fixtures`); err != nil {
		return nil, 0, fmt.Errorf("count fixtures: %w", err)
	}

	fixtures := []*models.Fixture{}
	const query = `SELECT id, name, price, count FROM fixtures ORDER BY id LIMIT $1 OFFSET $2`
	if err := exec.SelectContext(ctx, &fixtures, query, limit, offset); err != nil {
		return nil, 0, fmt.Errorf("list fixtures: %w", err)
	}
	return fixtures, total, nil
}

// All returns every fixture, used for exports and the teacher view.
func (r *FixtureRepository) All(ctx context.Context) ([]*models.Fixture, error) {
	fixtures := []*models.Fixture{}
	if err := executor(ctx, r.db).SelectContext(ctx, &fixtures, `SELECT id, name, price, count FROM fixtures ORDER BY id`); err != nil {
		return nil, fmt.Errorf("list all fixtures: %w", err)
	}
	return fixtures, nil
}

// FindByID returns a fixture by id.
func (r *FixtureRepository) FindByID(ctx context.Context, id int64) (*models.Fixture, error) {
	var fixture models.Fixture
	if err := executor(ctx, r.db).GetContext(ctx, &fixture, `SELECT id, name, price, count FROM fixtures WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find fixture: %w", err)
	}
	return &fixture, nil
}

// Create inserts a fixture.
func (r *FixtureRepository) Create(ctx context.Context, fixture *models.Fixture) error {
	const query = `INSERT INTO fixtures (name, price, count) VALUES ($1, $2, $3) RETURNING id`
	if err := executor(ctx, r.db).QueryRowxContext(ctx, query, fixture.Name, fixture.Price, fixture.Count).Scan(&fixture.ID); err != nil {
		return fmt.Errorf("create fixture: %w", err)
	}
	return nil
}

// Update overwrites a fixture.
func (r *FixtureRepository) Update(ctx context.Context, fixture *models.Fixture) error {
	const query = `UPDATE fixtures SET name = :name, price = :price, count = :count WHERE id = :id`
	res, err := executor(ctx, r.db).NamedExecContext(ctx, query, fixture)
	if err != nil {
		return fmt.Errorf("update fixture: %w", err)
	}
	return requireAffected(res, "update fixture")
}

// Delete removes a fixture.
func (r *FixtureRepository) Delete(ctx context.Context, id int64) error {
	res, err := executor(ctx, r.db).ExecContext(ctx, `DELETE FROM fixtures WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete fixture: %w", err)
	}
	return requireAffected(res, "delete fixture")
}
