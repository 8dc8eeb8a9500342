package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/academy-api/internal/models"
	"github.com/noah-isme/academy-api/internal/service"
	appErrors "github.com/noah-isme/academy-api/pkg/errors"
	"github.com/noah-isme/academy-api/pkg/response"
)

type fixtureService interface {
	List(ctx context.Context, query models.PageQuery) (*models.FixturePage, error)
	All(ctx context.Context) ([]*models.Fixture, error)
	Get(ctx context.Context, id int64) (*models.Fixture, error)
	Create(ctx context.Context, req models.CreateFixtureRequest) (*models.Fixture, error)
	Update(ctx context.Context, id int64, req models.UpdateFixtureRequest) (*models.Fixture, error)
	Delete(ctx context.Context, id int64) error
	Export(ctx context.Context, format string) (*service.ExportFile, error)
}

// FixtureHandler exposes inventory endpoints.
type FixtureHandler struct {
	service fixtureService
}

// NewFixtureHandler constructs a fixture handler.
func NewFixtureHandler(svc fixtureService) *FixtureHandler {
	return &FixtureHandler{service: svc}
}

// List godoc
// @Summary List fixtures
// @Tags Fixtures
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page (1-indexed)"
// @Param size query int false "Page size"
// @Success 200 {object} models.FixturePage
// @Router /admin/fixtures [get]
func (h *FixtureHandler) List(c *gin.Context) {
	var query models.PageQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		query = models.PageQuery{}
	}
	page, err := h.service.List(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, page)
}

// All godoc
// @Summary List every fixture
// @Tags Teacher
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Fixture
// @Router /teacher/fixtures [get]
func (h *FixtureHandler) All(c *gin.Context) {
	fixtures, err := h.service.All(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, fixtures)
}

// Get godoc
// @Summary Get fixture
// @Tags Fixtures
// @Produce json
// @Security BearerAuth
// @Param id path int true "Fixture ID"
// @Success 200 {object} models.Fixture
// @Failure 404 {object} response.ErrorEnvelope
// @Router /admin/fixtures/{id} [get]
func (h *FixtureHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	fixture, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, fixture)
}

// Create godoc
// @Summary Create fixture
// @Tags Fixtures
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.CreateFixtureRequest true "Fixture payload"
// @Success 201 {object} models.Fixture
// @Failure 400 {object} response.ErrorEnvelope
// @Router /admin/fixtures [post]
func (h *FixtureHandler) Create(c *gin.Context) {
	var req models.CreateFixtureRequest
	if !bindJSON(c, &req) {
		return
	}
	fixture, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, fixture)
}

// Update godoc
// @Summary Update fixture
// @Tags Fixtures
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Fixture ID"
// @Param payload body models.UpdateFixtureRequest true "Fixture payload"
// @Success 200 {object} models.Fixture
// @Failure 400 {object} response.ErrorEnvelope
// @Failure 404 {object} response.ErrorEnvelope
// @Router /admin/fixtures/{id} [put]
func (h *FixtureHandler) Update(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req models.UpdateFixtureRequest
	if !bindJSON(c, &req) {
		return
	}
	fixture, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, fixture)
}

// Delete godoc
// @Summary Delete fixture
// @Tags Fixtures
// @Security BearerAuth
// @Param id path int true "Fixture ID"
// @Success 204
// @Failure 404 {object} response.ErrorEnvelope
// @Router /admin/fixtures/{id} [delete]
func (h *FixtureHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Export godoc
// @Summary Export fixtures
// @Tags Fixtures
// @Produce text/csv
// @Produce application/pdf
// @Security BearerAuth
// @Param format query string false "csv or pdf" Enums(csv, pdf)
// @Success 200 {file} file
// @Failure 400 {object} response.ErrorEnvelope
// @Router /admin/fixtures/export [get]
func (h *FixtureHandler) Export(c *gin.Context) {
	file, err := h.service.Export(c.Request.Context(), c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if file == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	c.Data(http.StatusOK, file.ContentType, file.Data)
}
