package dto

import "github.com/noah-isme/academy-api/internal/models"

// TeacherRef points at a teacher by primary key or by external teacher id.
type TeacherRef struct {
	ID        *int64  `json:"id"`
	TeacherID *string `json:"teacherId"`
}

// HasID reports whether a usable primary key was supplied. Zero counts as absent.
func (r TeacherRef) HasID() bool {
	return r.ID != nil && *r.ID > 0
}

// IsEmpty reports whether neither identifier was supplied.
func (r TeacherRef) IsEmpty() bool {
	return !r.HasID() && (r.TeacherID == nil || *r.TeacherID == "")
}

// StudentRef attaches an existing student to a class.
type StudentRef struct {
	ID int64 `json:"id"`
}

// TodoInput is one entry of a class todo list. An id that matches an existing
// todo of the class updates it in place; anything else creates a new todo.
type TodoInput struct {
	ID    *int64       `json:"id"`
	Title *string      `json:"title" validate:"omitempty,max=200"`
	Task  *string      `json:"task"`
	Date  *models.Date `json:"date"`
}

// ClassPayload is the nested create/update body of a class aggregate.
// Nil pointers mean the key was absent; an empty slice is an explicit clear.
type ClassPayload struct {
	ClassName  *string       `json:"className" validate:"omitempty,min=1,max=100"`
	Classroom  *string       `json:"classroom" validate:"omitempty,max=50"`
	Teacher    *TeacherRef   `json:"teacher"`
	DaysOfWeek *[]string     `json:"daysOfWeek"`
	Students   *[]StudentRef `json:"students"`
	Todos      *[]TodoInput  `json:"todos" validate:"omitempty,dive"`
}
