package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/noah-isme/academy-api/internal/dto"
	"github.com/noah-isme/academy-api/internal/models"
	appErrors "github.com/noah-isme/academy-api/pkg/errors"
)

type reportRepository interface {
	Create(ctx context.Context, report *models.Report) error
	ListByStudent(ctx context.Context, studentID int64) ([]models.Report, error)
}

type reportStudentRepository interface {
	FindByID(ctx context.Context, id int64) (*models.Student, error)
	FindByIDs(ctx context.Context, ids []int64) (map[int64]*models.Student, error)
}

// ReportService writes report batches for parents.
type ReportService struct {
	reports  reportRepository
	students reportStudentRepository
	tx       txManager
	metrics  *MetricsService
	logger   *zap.Logger
}

// NewReportService constructs a ReportService.
func NewReportService(reports reportRepository, students reportStudentRepository, tx txManager, metrics *MetricsService, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{reports: reports, students: students, tx: tx, metrics: metrics, logger: logger}
}

// Dispatch writes one report per resolvable recipient in a single transaction.
// Recipients whose student cannot be resolved are skipped.
func (s *ReportService) Dispatch(ctx context.Context, req dto.DispatchReportRequest) (*dto.DispatchReportResponse, error) {
	ids := make([]int64, 0, len(req.Recipients))
	for _, recipient := range req.Recipients {
		if recipient.StudentID.Valid {
			ids = append(ids, recipient.StudentID.Value)
		}
	}

	sent := 0
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		students := map[int64]*models.Student{}
		if len(ids) > 0 {
			loaded, err := s.students.FindByIDs(ctx, ids)
			if err != nil {
				return err
			}
			students = loaded
		}

		for _, recipient := range req.Recipients {
			if !recipient.StudentID.Valid {
				s.logger.Debug("skipping recipient without student id")
				continue
			}
			if _, ok := students[recipient.StudentID.Value]; !ok {
				s.logger.Debug("skipping unknown student", zap.Int64("student_id", recipient.StudentID.Value))
				continue
			}
			report := &models.Report{
				StudentID:       recipient.StudentID.Value,
				CommonSubject:   req.Common.Subject,
				CommonContent:   req.Common.Content,
				PersonalMessage: recipient.PersonalMessage,
			}
			if err := s.reports.Create(ctx, report); err != nil {
				return err
			}
			sent++
		}
		return nil
	})
	if err != nil {
		s.logger.Error("report dispatch failed", zap.Error(err))
		return nil, appErrors.Internal(err, "failed to dispatch reports")
	}

	s.metrics.RecordReports(sent)
	s.logger.Info("reports dispatched", zap.Int("sent", sent), zap.Int("recipients", len(req.Recipients)))
	return &dto.DispatchReportResponse{
		Status:         "success",
		SentCommon:     req.Common.HasContent(),
		SentIndividual: sent,
	}, nil
}

// ListByStudent returns a student's reports, newest first, with the student nested.
func (s *ReportService) ListByStudent(ctx context.Context, studentID int64) (*models.ReportList, error) {
	student, err := s.students.FindByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Internal(err, "failed to load student")
	}
	reports, err := s.reports.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list reports")
	}

	views := make([]models.ReportView, 0, len(reports))
	for _, report := range reports {
		views = append(views, models.ReportView{Report: report, Student: student})
	}
	return &models.ReportList{Reports: views}, nil
}
