package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/academy-api/internal/models"
)

const classColumns = `id, class_name, teacher_id, class_time, classroom, created_at, updated_at`

// ClassRepository handles persistence for classes.
type ClassRepository struct {
	db *sqlx.DB
}

// NewClassRepository constructs a ClassRepository.
func NewClassRepository(db *sqlx.DB) *ClassRepository {
	return &ClassRepository{db: db}
}

// List returns every class ordered by id.
func (r *ClassRepository) List(ctx context.Context) ([]*models.Class, error) {
	query := `SELECT ` + classColumns + ` FROM classes ORDER BY id`
	classes := []*models.Class{}
	if err := executor(ctx, r.db).SelectContext(ctx, &classes, query); err != nil {
		return nil, fmt.Errorf("list classes: %w", err)
	}
	return classes, nil
}

// ListByTeacher returns the classes taught by a teacher.
func (r *ClassRepository) ListByTeacher(ctx context.Context, teacherID int64) ([]*models.Class, error) {
	query := `SELECT ` + classColumns + ` FROM classes WHERE teacher_id = $1 ORDER BY id`
	classes := []*models.Class{}
	if err := executor(ctx, r.db).SelectContext(ctx, &classes, query, teacherID); err != nil {
		return nil, fmt.Errorf("list classes by teacher: %w", err)
	}
	return classes, nil
}

// FindByID returns a class by id.
func (r *ClassRepository) FindByID(ctx context.Context, id int64) (*models.Class, error) {
	query := `SELECT ` + classColumns + ` FROM classes WHERE id = $1`
	var class models.Class
	if err := executor(ctx, r.db).GetContext(ctx, &class, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find class: %w", err)
	}
	return &class, nil
}

// Create inserts a class and fills its generated id.
func (r *ClassRepository) Create(ctx context.Context, class *models.Class) error {
	const query = `INSERT INTO classes (class_name, teacher_id, class_time, classroom, created_at, updated_at)
VALUES ($1, $2, $3, $4, NOW(), NOW())
RETURNING id, created_at, updated_at`
	row := executor(ctx, r.db).QueryRowxContext(ctx, query, class.ClassName, class.TeacherID, class.ClassTime, class.Classroom)
	if err := row.Scan(&class.ID, &class.CreatedAt, &class.UpdatedAt); err != nil {
		return fmt.Errorf("create class: %w", err)
	}
	return nil
}

// Update overwrites the scalar columns and teacher link of a class.
func (r *ClassRepository) Update(ctx context.Context, class *models.Class) error {
	const query = `UPDATE classes SET class_name = :class_name, teacher_id = :teacher_id, class_time = :class_time,
	classroom = :classroom, updated_at = NOW()
WHERE id = :id`
	res, err := executor(ctx, r.db).NamedExecContext(ctx, query, class)
	if err != nil {
		return fmt.Errorf("update class: %w", err)
	}
	return requireAffected(res, "update class")
}

// Delete removes a class. Todos cascade; students are detached by the foreign key.
func (r *ClassRepository) Delete(ctx context.Context, id int64) error {
	res, err := executor(ctx, r.db).ExecContext(ctx, `DELETE FROM classes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete class: %w", err)
	}
	return requireAffected(res, "delete class")
}
