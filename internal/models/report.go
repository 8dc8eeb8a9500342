package models

import "time"

// Report is an append-only message to a student's parents.
type Report struct {
	ID              int64     `db:"id" json:"id"`
	StudentID       int64     `db:"student_id" json:"-"`
	CommonSubject   *string   `db:"common_subject" json:"common_subject"`
	CommonContent   *string   `db:"common_content" json:"common_content"`
	PersonalMessage *string   `db:"personal_message" json:"personal_message"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

// ReportView nests the student the report belongs to.
type ReportView struct {
	Report
	Student *Student `json:"student"`
}

// ReportList wraps reports of one student.
type ReportList struct {
	Reports []ReportView `json:"reports"`
}
