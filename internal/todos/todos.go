// Package todos keeps the dashboard task list.
package todos

import (
	"context"
	"strings"
	"time"

	"lawfirm-cms/internal/apperr"
	"lawfirm-cms/internal/audit"
	"lawfirm-cms/pkg/utils"
)

type Todo struct {
	ID   int64  `json:"id"`
	Task string `json:"task"`
	Date string `json:"date"`
	Time string `json:"time"`
}

var ErrNotFound = apperr.NotFound("Todo not found")

type Recorder interface {
	Record(ctx context.Context, username, action, details string)
}

type Service struct {
	db    *utils.DB
	audit Recorder
}

func NewService(db *utils.DB, rec Recorder) *Service {
	return &Service{db: db, audit: rec}
}

func (s *Service) List(ctx context.Context) ([]Todo, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, task, due_date, due_time FROM todos ORDER BY due_date, due_time, id`)
	if err != nil {
		return nil, apperr.Persistence("todo list", err)
	}
	defer rows.Close()

	out := []Todo{}
	for rows.Next() {
		var t Todo
		if err := rows.Scan(&t.ID, &t.Task, &t.Date, &t.Time); err != nil {
			return nil, apperr.Persistence("todo scan", err)
		}
		out = append(out, t)
	}
	return out, apperr.Persistence("todo rows", rows.Err())
}

func (s *Service) Create(ctx context.Context, actor string, t Todo) error {
	t.Task = strings.TrimSpace(t.Task)
	if t.Task == "" {
		return apperr.Validation("Task is required")
	}
	if t.Date != "" {
		if _, err := time.Parse("2006-01-02", t.Date); err != nil {
			return apperr.Validation("Date must be YYYY-MM-DD")
		}
	}
	if t.Time != "" {
		if _, err := time.Parse("15:04", t.Time); err != nil {
			if _, err := time.Parse("15:04:05", t.Time); err != nil {
				return apperr.Validation("Time must be HH:MM")
			}
		}
	}

	_, err := s.db.ExecContext(ctx, s.db.Rebind(`INSERT INTO todos (task, due_date, due_time) VALUES (?, ?, ?)`), t.Task, t.Date, t.Time)
	if err != nil {
		return apperr.Persistence("todo create", err)
	}
	s.audit.Record(ctx, actor, audit.ActionAddTodo, t.Task)
	return nil
}

func (s *Service) Delete(ctx context.Context, actor string, id int64) error {
	if id <= 0 {
		return apperr.Validation("Todo id is required")
	}
	res, err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM todos WHERE id = ?`), id)
	if err != nil {
		return apperr.Persistence("todo delete", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	s.audit.Record(ctx, actor, audit.ActionDeleteTodo, "Deleted todo")
	return nil
}
