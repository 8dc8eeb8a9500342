package models

import "time"

// Teacher is a staff record. It may exist without a login account.
type Teacher struct {
	ID        int64     `db:"id" json:"id"`
	TeacherID string    `db:"teacher_id" json:"teacherId"`
	Passwd    string    `db:"passwd" json:"-"`
	Name      string    `db:"teacher_name" json:"name"`
	Age       int       `db:"age" json:"age"`
	Position  string    `db:"position" json:"position"`
	Sex       string    `db:"sex" json:"sex"`
	CreatedAt time.Time `db:"created_at" json:"-"`
	UpdatedAt time.Time `db:"updated_at" json:"-"`
}

// CreateTeacherRequest is the admin payload for registering a teacher.
type CreateTeacherRequest struct {
	TeacherID string `json:"teacherId" validate:"required,max=50"`
	Passwd    string `json:"passwd"`
	Name      string `json:"name" validate:"required,max=100"`
	Age       int    `json:"age" validate:"gte=0"`
	Position  string `json:"position" validate:"max=100"`
	Sex       string `json:"sex" validate:"max=10"`
}

// UpdateTeacherRequest merges supplied fields. A blank passwd keeps the current one.
type UpdateTeacherRequest struct {
	TeacherID *string `json:"teacherId" validate:"omitempty,min=1,max=50"`
	Passwd    *string `json:"passwd"`
	Name      *string `json:"name" validate:"omitempty,min=1,max=100"`
	Age       *int    `json:"age" validate:"omitempty,gte=0"`
	Position  *string `json:"position" validate:"omitempty,max=100"`
	Sex       *string `json:"sex" validate:"omitempty,max=10"`
}

// TeacherList is the admin list envelope.
type TeacherList struct {
	TotalCounts int        `json:"total_counts"`
	Teachers    []*Teacher `json:"teachers"`
}
