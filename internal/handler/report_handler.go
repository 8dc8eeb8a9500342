package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/academy-api/internal/dto"
	"github.com/noah-isme/academy-api/internal/models"
	"github.com/noah-isme/academy-api/pkg/response"
)

type reportService interface {
	Dispatch(ctx context.Context, req dto.DispatchReportRequest) (*dto.DispatchReportResponse, error)
	ListByStudent(ctx context.Context, studentID int64) (*models.ReportList, error)
}

// ReportHandler exposes parent report endpoints.
type ReportHandler struct {
	service reportService
}

// NewReportHandler constructs a report handler.
func NewReportHandler(svc reportService) *ReportHandler {
	return &ReportHandler{service: svc}
}

// Dispatch godoc
// @Summary Send reports to parents
// @Description Writes one report per resolvable student; unknown students are skipped.
// @Tags Teacher
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.DispatchReportRequest true "Report batch"
// @Success 200 {object} dto.DispatchReportResponse
// @Failure 400 {object} response.ErrorEnvelope
// @Router /teacher/reports [post]
func (h *ReportHandler) Dispatch(c *gin.Context) {
	var req dto.DispatchReportRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.service.Dispatch(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res)
}

// ListByStudent godoc
// @Summary Reports of a student
// @Tags Teacher
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Success 200 {object} models.ReportList
// @Failure 404 {object} response.ErrorEnvelope
// @Router /teacher/students/{id}/reports [get]
func (h *ReportHandler) ListByStudent(c *gin.Context) {
	studentID, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	reports, err := h.service.ListByStudent(c.Request.Context(), studentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, reports)
}
