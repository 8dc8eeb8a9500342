package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/academy-api/internal/models"
)

const todoColumns = `id, class_id, todo_title, description, date`

// TodoRepository persists class todos.
type TodoRepository struct {
	db *sqlx.DB
}

// NewTodoRepository constructs a TodoRepository.
func NewTodoRepository(db *sqlx.DB) *TodoRepository {
	return &TodoRepository{db: db}
}

// ListByClass returns every todo of a class.
func (r *TodoRepository) ListByClass(ctx context.Context, classID int64) ([]models.Todo, error) {
	return r.List(ctx, models.TodoFilter{ClassID: classID})
}

// List returns the todos of a class narrowed by the optional year and month.
func (r *TodoRepository) List(ctx context.Context, filter models.TodoFilter) ([]models.Todo, error) {
	query := strings.Builder{}
	query.WriteString(`SELECT ` + todoColumns + ` FROM todos WHERE class_id = $1`)
	args := []interface{}{filter.ClassID}
	if filter.Year != nil {
		args = append(args, *filter.Year)
		fmt.Fprintf(&query, " AND EXTRACT(YEAR FROM date) = $%d", len(args))
	}
	if filter.Month != nil {
		args = append(args, *filter.Month)
		fmt.Fprintf(&query, " AND EXTRACT(MONTH FROM date) = $%d", len(args))
	}
	query.WriteString(" ORDER BY date, id")

	todos := []models.Todo{}
	if err := executor(ctx, r.db).SelectContext(ctx, &todos, query.String(), args...); err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	return todos, nil
}

// ListByClassIDs batch loads todos grouped by class id.
func (r *TodoRepository) ListByClassIDs(ctx context.Context, classIDs []int64) (map[int64][]models.Todo, error) {
	result := make(map[int64][]models.Todo, len(classIDs))
	if len(classIDs) == 0 {
		return result, nil
	}
	query := `SELECT ` + todoColumns + ` FROM todos WHERE class_id = ANY($1) ORDER BY date, id`
	var todos []models.Todo
	if err := executor(ctx, r.db).SelectContext(ctx, &todos, query, pq.Array(classIDs)); err != nil {
		return nil, fmt.Errorf("list todos by classes: %w", err)
	}
	for _, todo := range todos {
		result[todo.ClassID] = append(result[todo.ClassID], todo)
	}
	return result, nil
}

// Create inserts a todo.
func (r *TodoRepository) Create(ctx context.Context, todo *models.Todo) error {
	const query = `INSERT INTO todos (class_id, todo_title, description, date) VALUES ($1, $2, $3, $4) RETURNING id`
	if err := executor(ctx, r.db).QueryRowxContext(ctx, query, todo.ClassID, todo.Title, todo.Task, todo.Date).Scan(&todo.ID); err != nil {
		return fmt.Errorf("create todo: %w", err)
	}
	return nil
}

// Update overwrites a todo in place.
func (r *TodoRepository) Update(ctx context.Context, todo *models.Todo) error {
	const query = `UPDATE todos SET todo_title = :todo_title, description = :description, date = :date
WHERE id = :id AND class_id = :class_id`
	res, err := executor(ctx, r.db).NamedExecContext(ctx, query, todo)
	if err != nil {
		return fmt.Errorf("update todo: %w", err)
	}
	return requireAffected(res, "update todo")
}

// DeleteByIDs removes the listed todos of a class.
func (r *TodoRepository) DeleteByIDs(ctx context.Context, classID int64, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	const query = `DELETE FROM todos WHERE class_id = $1 AND id = ANY($2)`
	if _, err := executor(ctx, r.db).ExecContext(ctx, query, classID, pq.Array(ids)); err != nil {
		return fmt.Errorf("delete todos: %w", err)
	}
	return nil
}
