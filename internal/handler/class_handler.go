package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/academy-api/internal/dto"
	"github.com/noah-isme/academy-api/internal/models"
	"github.com/noah-isme/academy-api/pkg/response"
)

type classService interface {
	List(ctx context.Context) (*models.ClassList, error)
	Classrooms(ctx context.Context) ([]models.ClassView, error)
	Get(ctx context.Context, id int64) (*models.ClassView, error)
	Create(ctx context.Context, payload dto.ClassPayload) (*models.ClassCreated, error)
	Update(ctx context.Context, id int64, payload dto.ClassPayload) (*models.ClassView, error)
	Delete(ctx context.Context, id int64) error
}

// ClassHandler exposes class aggregate endpoints.
type ClassHandler struct {
	service classService
}

// NewClassHandler constructs a class handler.
func NewClassHandler(svc classService) *ClassHandler {
	return &ClassHandler{service: svc}
}

// List godoc
// @Summary List classes
// @Tags Classes
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.ClassList
// @Router /admin/classes [get]
func (h *ClassHandler) List(c *gin.Context) {
	classes, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, classes)
}

// Classrooms godoc
// @Summary Nested projections of every class
// @Tags Classes
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.ClassView
// @Router /admin/classrooms [get]
func (h *ClassHandler) Classrooms(c *gin.Context) {
	views, err := h.service.Classrooms(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, views)
}

// Get godoc
// @Summary Get class detail
// @Tags Classes
// @Produce json
// @Security BearerAuth
// @Param id path int true "Class ID"
// @Success 200 {object} models.ClassView
// @Failure 404 {object} response.ErrorEnvelope
// @Router /admin/classes/{id} [get]
func (h *ClassHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	view, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view)
}

// Create godoc
// @Summary Create class with teacher, roster and todos
// @Tags Classes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.ClassPayload true "Class payload"
// @Success 201 {object} models.ClassCreated
// @Failure 400 {object} response.ErrorEnvelope
// @Router /admin/classes [post]
func (h *ClassHandler) Create(c *gin.Context) {
	var payload dto.ClassPayload
	if !bindJSON(c, &payload) {
		return
	}
	created, err := h.service.Create(c.Request.Context(), payload)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, created)
}

// Update godoc
// @Summary Update class
// @Description Absent keys are left untouched; todos are diff-merged by id.
// @Tags Classes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Class ID"
// @Param payload body dto.ClassPayload true "Class payload"
// @Success 200 {object} models.ClassView
// @Failure 400 {object} response.ErrorEnvelope
// @Failure 404 {object} response.ErrorEnvelope
// @Router /admin/classes/{id} [put]
func (h *ClassHandler) Update(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var payload dto.ClassPayload
	if !bindJSON(c, &payload) {
		return
	}
	view, err := h.service.Update(c.Request.Context(), id, payload)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view)
}

// Delete godoc
// @Summary Delete class
// @Tags Classes
// @Security BearerAuth
// @Param id path int true "Class ID"
// @Success 204
// @Failure 404 {object} response.ErrorEnvelope
// @Router /admin/classes/{id} [delete]
func (h *ClassHandler) Delete(c *gin.Context) {
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
