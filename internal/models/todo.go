package models

// Todo is a dated task attached to a class.
type Todo struct {
	ID      int64  `db:"id" json:"id"`
	ClassID int64  `db:"class_id" json:"-"`
	Title   string `db:"todo_title" json:"title"`
	Task    string `db:"description" json:"task"`
	Date    Date   `db:"date" json:"date"`
}

// TodoFilter narrows todos of one class by year and/or month.
type TodoFilter struct {
	ClassID int64
	Year    *int
	Month   *int
}

// TodoList wraps todos for the teacher portal.
type TodoList struct {
	Todos []Todo `json:"todos"`
}
