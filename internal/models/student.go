package models

import "time"

// Student is a learner, optionally attached to one class.
type Student struct {
	ID        int64     `db:"id" json:"id"`
	ClassID   *int64    `db:"class_id" json:"class_id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	BirthDate Date      `db:"birth_date" json:"birth_date"`
	Gender    string    `db:"gender" json:"gender"`
	CreatedAt time.Time `db:"created_at" json:"-"`
	UpdatedAt time.Time `db:"updated_at" json:"-"`
}

// CreateStudentRequest accepts the class link as classId or class_id.
type CreateStudentRequest struct {
	Name       string     `json:"name" validate:"required,max=100"`
	Email      string     `json:"email" validate:"required,email,max=254"`
	BirthDate  *Date      `json:"birth_date" validate:"required"`
	Gender     string     `json:"gender" validate:"required,max=10"`
	ClassID    NullableID `json:"classId"`
	ClassIDAlt NullableID `json:"class_id"`
}

// ClassRef picks whichever class key was supplied, preferring classId.
func (r CreateStudentRequest) ClassRef() NullableID {
	return pickClassRef(r.ClassID, r.ClassIDAlt)
}

// UpdateStudentRequest merges supplied fields. A null or blank class id detaches.
type UpdateStudentRequest struct {
	Name       *string    `json:"name" validate:"omitempty,min=1,max=100"`
	Email      *string    `json:"email" validate:"omitempty,email,max=254"`
	BirthDate  *Date      `json:"birth_date"`
	Gender     *string    `json:"gender" validate:"omitempty,max=10"`
	ClassID    NullableID `json:"classId"`
	ClassIDAlt NullableID `json:"class_id"`
}

// ClassRef picks whichever class key was supplied, preferring classId.
func (r UpdateStudentRequest) ClassRef() NullableID {
	return pickClassRef(r.ClassID, r.ClassIDAlt)
}

func pickClassRef(primary, alt NullableID) NullableID {
	if primary.Set {
		return primary
	}
	return alt
}

// StudentList is the admin list envelope.
type StudentList struct {
	TotalCounts int        `json:"total_counts"`
	Students    []*Student `json:"students"`
}

// Roster wraps the students of one class.
type Roster struct {
	Students []*Student `json:"students"`
}
