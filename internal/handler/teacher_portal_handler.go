package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/academy-api/internal/models"
	appErrors "github.com/noah-isme/academy-api/pkg/errors"
	"github.com/noah-isme/academy-api/pkg/response"
)

type teacherPortalService interface {
	Me(ctx context.Context, userID int64) (*models.Teacher, error)
	Classes(ctx context.Context, userID int64) ([]models.ClassView, error)
	ClassTodos(ctx context.Context, userID, classID int64, year, month *int) (*models.TodoList, error)
	ClassStudents(ctx context.Context, userID, classID int64) (*models.Roster, error)
}

// TeacherPortalHandler serves the authenticated teacher's own views.
type TeacherPortalHandler struct {
	service teacherPortalService
}

// NewTeacherPortalHandler constructs a teacher portal handler.
func NewTeacherPortalHandler(svc teacherPortalService) *TeacherPortalHandler {
	return &TeacherPortalHandler{service: svc}
}

// Me godoc
// @Summary Current teacher profile
// @Tags Teacher
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Teacher
// @Failure 404 {object} response.ErrorEnvelope
// @Router /teacher/me [get]
func (h *TeacherPortalHandler) Me(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	teacher, err := h.service.Me(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, teacher)
}

// Classes godoc
// @Summary Classes taught by the current teacher
// @Tags Teacher
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.ClassView
// @Router /teacher/classes [get]
func (h *TeacherPortalHandler) Classes(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	views, err := h.service.Classes(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, views)
}

// ClassTodos godoc
// @Summary Todos of an owned class
// @Tags Teacher
// @Produce json
// @Security BearerAuth
// @Param id path int true "Class ID"
// @Param year query int false "Year"
// @Param month query int false "Month (1-12)"
// @Success 200 {object} models.TodoList
// @Failure 400 {object} response.ErrorEnvelope
// @Failure 404 {object} response.ErrorEnvelope
// @Router /teacher/classes/{id} [get]
func (h *TeacherPortalHandler) ClassTodos(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	classID, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	year, err := optionalIntQuery(c, "year")
	if err != nil {
		response.Error(c, err)
		return
	}
	month, err := optionalIntQuery(c, "month")
	if err != nil {
		response.Error(c, err)
		return
	}

	todos, err := h.service.ClassTodos(c.Request.Context(), claims.UserID, classID, year, month)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, todos)
}

// ClassStudents godoc
// @Summary Roster of an owned class
// @Tags Teacher
// @Produce json
// @Security BearerAuth
// @Param id path int true "Class ID"
// @Success 200 {object} models.Roster
// @Failure 404 {object} response.ErrorEnvelope
// @Router /teacher/classes/{id}/students [get]
func (h *TeacherPortalHandler) ClassStudents(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	classID, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	roster, err := h.service.ClassStudents(c.Request.Context(), claims.UserID, classID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, roster)
}
