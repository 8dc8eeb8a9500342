package dto

import "github.com/noah-isme/academy-api/internal/models"

// ReportCommon is the shared part of a report batch.
type ReportCommon struct {
	Subject *string `json:"subject"`
	Content *string `json:"content"`
}

// HasContent reports whether subject or content is non-empty.
func (c ReportCommon) HasContent() bool {
	return (c.Subject != nil && *c.Subject != "") || (c.Content != nil && *c.Content != "")
}

// ReportRecipient is one student of a report batch.
type ReportRecipient struct {
	StudentID       models.NullableID `json:"studentId"`
	PersonalMessage *string           `json:"personalMessage"`
}

// DispatchReportRequest captures POST /teacher/reports.
type DispatchReportRequest struct {
	Common     ReportCommon      `json:"common"`
	Recipients []ReportRecipient `json:"recipients"`
}

// DispatchReportResponse summarises what was written.
type DispatchReportResponse struct {
	Status         string `json:"status"`
	SentCommon     bool   `json:"sentCommon"`
	SentIndividual int    `json:"sentIndividual"`
}
