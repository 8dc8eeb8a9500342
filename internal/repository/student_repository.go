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

const studentColumns = `id, class_id, name, email, birth_date, gender, created_at, updated_at`

// StudentRepository provides data access for students and class rosters.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// List returns every student ordered by id.
func (r *StudentRepository) List(ctx context.Context) ([]*models.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students ORDER BY id`
	students := []*models.Student{}
	if err := executor(ctx, r.db).SelectContext(ctx, &students, query); err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return students, nil
}

// ListByClass returns the roster of one class.
func (r *StudentRepository) ListByClass(ctx context.Context, classID int64) ([]*models.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE class_id = $1 ORDER BY id`
	students := []*models.Student{}
	if err := executor(ctx, r.db).SelectContext(ctx, &students, query, classID); err != nil {
		return nil, fmt.Errorf("list students by class: %w", err)
	}
	return students, nil
}

// SummariesByClassIDs batch loads roster summaries grouped by class id.
func (r *StudentRepository) SummariesByClassIDs(ctx context.Context, classIDs []int64) (map[int64][]models.StudentSummary, error) {
	result := make(map[int64][]models.StudentSummary, len(classIDs))
	if len(classIDs) == 0 {
		return result, nil
	}
	const query = `SELECT id, name, class_id FROM students WHERE class_id = ANY($1) ORDER BY id`
	var rows []models.StudentSummary
	if err := executor(ctx, r.db).SelectContext(ctx, &rows, query, pq.Array(classIDs)); err != nil {
		return nil, fmt.Errorf("list student summaries: %w", err)
	}
	for _, row := range rows {
		result[row.ClassID] = append(result[row.ClassID], row)
	}
	return result, nil
}

// FindByID returns a student by id.
func (r *StudentRepository) FindByID(ctx context.Context, id int64) (*models.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE id = $1`
	var student models.Student
	if err := executor(ctx, r.db).GetContext(ctx, &student, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find student: %w", err)
	}
	return &student, nil
}

// FindByIDs batch loads students keyed by id. Unknown ids are absent from the map.
func (r *StudentRepository) FindByIDs(ctx context.Context, ids []int64) (map[int64]*models.Student, error) {
	result := make(map[int64]*models.Student, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	query := `SELECT ` + studentColumns + ` FROM students WHERE id = ANY($1)`
	var students []*models.Student
	if err := executor(ctx, r.db).SelectContext(ctx, &students, query, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("find students by ids: %w", err)
	}
	for _, s := range students {
		result[s.ID] = s
	}
	return result, nil
}

// Create inserts a student.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	const query = `INSERT INTO students (class_id, name, email, birth_date, gender, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
RETURNING id, created_at, updated_at`
	row := executor(ctx, r.db).QueryRowxContext(ctx, query, student.ClassID, student.Name, student.Email, student.BirthDate, student.Gender)
	if err := row.Scan(&student.ID, &student.CreatedAt, &student.UpdatedAt); err != nil {
		return fmt.Errorf("create student: %w", err)
	}
	return nil
}

// Update overwrites the mutable columns of a student.
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	const query = `UPDATE students SET class_id = :class_id, name = :name, email = :email, birth_date = :birth_date,
	gender = :gender, updated_at = NOW()
WHERE id = :id`
	res, err := executor(ctx, r.db).NamedExecContext(ctx, query, student)
	if err != nil {
		return fmt.Errorf("update student: %w", err)
	}
	return requireAffected(res, "update student")
}

// Delete removes a student and, by cascade, its reports.
func (r *StudentRepository) Delete(ctx context.Context, id int64) error {
	res, err := executor(ctx, r.db).ExecContext(ctx, `DELETE FROM students WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	return requireAffected(res, "delete student")
}

// DetachAllFromClass clears the class reference of every student in the roster.
func (r *StudentRepository) DetachAllFromClass(ctx context.Context, classID int64) error {
	const query = `UPDATE students SET class_id = NULL, updated_at = NOW() WHERE class_id = $1`
	if _, err := executor(ctx, r.db).ExecContext(ctx, query, classID); err != nil {
		return fmt.Errorf("detach students: %w", err)
	}
	return nil
}

// AttachToClass re-parents one student. It reports false when the student does not exist.
func (r *StudentRepository) AttachToClass(ctx context.Context, studentID, classID int64) (bool, error) {
	const query = `UPDATE students SET class_id = $2, updated_at = NOW() WHERE id = $1`
	res, err := executor(ctx, r.db).ExecContext(ctx, query, studentID, classID)
	if err != nil {
		return false, fmt.Errorf("attach student: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("attach student rows affected: %w", err)
	}
	return n > 0, nil
}
