package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/academy-api/internal/models"
)

// ReportRepository appends and reads parent reports.
type ReportRepository struct {
	db *sqlx.DB
}

// NewReportRepository constructs a ReportRepository.
func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// Create inserts one report.
func (r *ReportRepository) Create(ctx context.Context, report *models.Report) error {
	const query = `INSERT INTO reports (student_id, common_subject, common_content, personal_message, created_at)
VALUES ($1, $2, $3, $4, NOW())
RETURNING id, created_at`
	row := executor(ctx, r.db).QueryRowxContext(ctx, query, report.StudentID, report.CommonSubject, report.CommonContent, report.PersonalMessage)
	if err := row.Scan(&report.ID, &report.CreatedAt); err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	return nil
}

// ListByStudent returns a student's reports, newest first.
func (r *ReportRepository) ListByStudent(ctx context.Context, studentID int64) ([]models.Report, error) {
	const query = `SELECT id, student_id, common_subject, common_content, personal_message, created_at
FROM reports WHERE student_id = $1 ORDER BY created_at DESC, id DESC`
	reports := []models.Report{}
	if err := executor(ctx, r.db).SelectContext(ctx, &reports, query, studentID); err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	return reports, nil
}
