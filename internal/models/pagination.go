package models

const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// PageQuery captures 1-indexed page/size query parameters.
type PageQuery struct {
	Page int `form:"page"`
	Size int `form:"size"`
}

// Normalize applies defaults and bounds.
func (q PageQuery) Normalize() PageQuery {
	if q.Page < 1 {
		q.Page = DefaultPage
	}
	if q.Size < 1 {
		q.Size = DefaultPageSize
	}
	if q.Size > MaxPageSize {
		q.Size = MaxPageSize
	}
	return q
}

// Offset returns the number of rows to skip.
func (q PageQuery) Offset() int {
	return (q.Page - 1) * q.Size
}

// TotalPages is ceil(total/size).
func TotalPages(total, size int) int {
	if size <= 0 {
		return 0
	}
	return (total + size - 1) / size
}
