package service

import (
	"context"

	"github.com/noah-isme/academy-api/internal/models"
	appErrors "github.com/noah-isme/academy-api/pkg/errors"
)

// project builds nested class views with one batched query per relation.
func (s *ClassService) project(ctx context.Context, classes []*models.Class) ([]models.ClassView, error) {
	views := make([]models.ClassView, 0, len(classes))
	if len(classes) == 0 {
		return views, nil
	}

	classIDs := make([]int64, 0, len(classes))
	teacherIDs := make([]int64, 0, len(classes))
	seenTeacher := make(map[int64]struct{}, len(classes))
	for _, class := range classes {
		classIDs = append(classIDs, class.ID)
		if class.TeacherID == nil {
			continue
		}
		if _, ok := seenTeacher[*class.TeacherID]; ok {
			continue
		}
		seenTeacher[*class.TeacherID] = struct{}{}
		teacherIDs = append(teacherIDs, *class.TeacherID)
	}

	teachers := map[int64]*models.Teacher{}
	if len(teacherIDs) > 0 {
		loaded, err := s.teachers.FindByIDs(ctx, teacherIDs)
		if err != nil {
			return nil, appErrors.Internal(err, "failed to load class teachers")
		}
		teachers = loaded
	}
	students, err := s.students.SummariesByClassIDs(ctx, classIDs)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load class students")
	}
	todos, err := s.todos.ListByClassIDs(ctx, classIDs)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load class todos")
	}

	for _, class := range classes {
		view := models.ClassView{
			ClassID:    class.ID,
			ClassName:  class.ClassName,
			DaysOfWeek: class.DaysOfWeek(),
			Students:   students[class.ID],
			Todos:      todos[class.ID],
			Classroom:  class.Classroom,
		}
		if class.TeacherID != nil {
			view.Teacher = teachers[*class.TeacherID]
		}
		if view.Students == nil {
			view.Students = []models.StudentSummary{}
		}
		if view.Todos == nil {
			view.Todos = []models.Todo{}
		}
		views = append(views, view)
	}
	return views, nil
}
