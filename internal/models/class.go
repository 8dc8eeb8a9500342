package models

import (
	"strings"
	"time"
)

// DaysSeparator joins meeting days in the class_time column.
const DaysSeparator = ","

// Class is a course group with an optional teacher.
type Class struct {
	ID        int64     `db:"id" json:"id"`
	ClassName string    `db:"class_name" json:"className"`
	TeacherID *int64    `db:"teacher_id" json:"-"`
	ClassTime *string   `db:"class_time" json:"-"`
	Classroom *string   `db:"classroom" json:"classroom"`
	CreatedAt time.Time `db:"created_at" json:"-"`
	UpdatedAt time.Time `db:"updated_at" json:"-"`
}

// DaysOfWeek splits the stored meeting days. No stored value yields an empty list.
func (c Class) DaysOfWeek() []string {
	if c.ClassTime == nil || *c.ClassTime == "" {
		return []string{}
	}
	return strings.Split(*c.ClassTime, DaysSeparator)
}

// JoinDays renders meeting days for storage.
func JoinDays(days []string) string {
	return strings.Join(days, DaysSeparator)
}

// StudentSummary is the roster entry nested in a class projection.
type StudentSummary struct {
	ID      int64  `db:"id" json:"id"`
	Name    string `db:"name" json:"name"`
	ClassID int64  `db:"class_id" json:"-"`
}

// ClassView is the nested read projection of a class aggregate.
type ClassView struct {
	ClassID    int64            `json:"classId"`
	ClassName  string           `json:"className"`
	Teacher    *Teacher         `json:"teacher"`
	DaysOfWeek []string         `json:"daysOfWeek"`
	Students   []StudentSummary `json:"students"`
	Todos      []Todo           `json:"todos"`
	Classroom  *string          `json:"classroom"`
}

// ClassList is the admin list envelope.
type ClassList struct {
	TotalCounts int         `json:"total_counts"`
	Classes     []ClassView `json:"classes"`
}

// ClassCreated acknowledges a new class.
type ClassCreated struct {
	Message string `json:"message"`
	ClassID int64  `json:"classId"`
}
