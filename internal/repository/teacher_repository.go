package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/academy-api/internal/models"
)

const teacherColumns = `id, teacher_id, passwd, teacher_name, age, position, sex, created_at, updated_at`

// TeacherRepository manages persistence for teachers.
type TeacherRepository struct {
	db *sqlx.DB
}

// NewTeacherRepository constructs a TeacherRepository.
func NewTeacherRepository(db *sqlx.DB) *TeacherRepository {
	return &TeacherRepository{db: db}
}

// List returns every teacher ordered by id.
func (r *TeacherRepository) List(ctx context.Context) ([]*models.Teacher, error) {
	query := `SELECT ` + teacherColumns + ` FROM teachers ORDER BY id`
	teachers := []*models.Teacher{}
	if err := executor(ctx, r.db).SelectContext(ctx, &teachers, query); err != nil {
		return nil, fmt.Errorf("list teachers: %w", err)
	}
	return teachers, nil
}

// FindByID returns a teacher by primary key.
func (r *TeacherRepository) FindByID(ctx context.Context, id int64) (*models.Teacher, error) {
	query := `SELECT ` + teacherColumns + ` FROM teachers WHERE id = $1`
	var teacher models.Teacher
	if err := executor(ctx, r.db).GetContext(ctx, &teacher, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find teacher: %w", err)
	}
	return &teacher, nil
}

// FindByTeacherID returns a teacher by its external login id.
func (r *TeacherRepository) FindByTeacherID(ctx context.Context, teacherID string) (*models.Teacher, error) {
	query := `SELECT ` + teacherColumns + ` FROM teachers WHERE teacher_id = $1`
	var teacher models.Teacher
	if err := executor(ctx, r.db).GetContext(ctx, &teacher, query, teacherID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find teacher by teacher id: %w", err)
	}
	return &teacher, nil
}

// FindByIDs batch loads teachers keyed by primary key.
func (r *TeacherRepository) FindByIDs(ctx context.Context, ids []int64) (map[int64]*models.Teacher, error) {
	result := make(map[int64]*models.Teacher, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	query := `SELECT ` + teacherColumns + ` FROM teachers WHERE id = ANY($1)`
	var teachers []*models.Teacher
	if err := executor(ctx, r.db).SelectContext(ctx, &teachers, query, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("find teachers by ids: %w", err)
	}
	for _, t := range teachers {
		result[t.ID] = t
	}
	return result, nil
}

// Create inserts a teacher.
func (r *TeacherRepository) Create(ctx context.Context, teacher *models.Teacher) error {
	const query = `INSERT INTO teachers (teacher_id, passwd, teacher_name, age, position, sex, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
RETURNING id, created_at, updated_at`
	row := executor(ctx, r.db).QueryRowxContext(ctx, query, teacher.TeacherID, teacher.Passwd, teacher.Name, teacher.Age, teacher.Position, teacher.Sex)
	if err := row.Scan(&teacher.ID, &teacher.CreatedAt, &teacher.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("create teacher: %w", err)
	}
	return nil
}

// Update overwrites every mutable column.
func (r *TeacherRepository) Update(ctx context.Context, teacher *models.Teacher) error {
	const query = `UPDATE teachers SET teacher_id = :teacher_id, passwd = :passwd, teacher_name = :teacher_name,
	age = :age, position = :position, sex = :sex, updated_at = NOW()
WHERE id = :id`
	res, err := executor(ctx, r.db).NamedExecContext(ctx, query, teacher)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("update teacher: %w", err)
	}
	return requireAffected(res, "update teacher")
}

// Delete removes a teacher. Classes keep existing with their teacher link cleared.
func (r *TeacherRepository) Delete(ctx context.Context, id int64) error {
	res, err := executor(ctx, r.db).ExecContext(ctx, `DELETE FROM teachers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete teacher: %w", err)
	}
	return requireAffected(res, "delete teacher")
}
