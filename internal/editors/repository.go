package editors

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"lawfirm-cms/internal/apperr"
	"lawfirm-cms/pkg/utils"
)

var (
	ErrNotFound      = apperr.NotFound("Editor not found")
	ErrUsernameTaken = apperr.Validation("Username already exists")
)

type Repository interface {
	Create(ctx context.Context, e *Editor) error
	List(ctx context.Context) ([]Editor, error)
	Delete(ctx context.Context, id int64) error
	FindByUsername(ctx context.Context, username string) (Editor, error)
	UpdatePassword(ctx context.Context, id int64, hash string) error
}

type SQLRepo struct {
	db *utils.DB
}

func NewSQLRepo(db *utils.DB) *SQLRepo { return &SQLRepo{db: db} }

func (r *SQLRepo) Create(ctx context.Context, e *Editor) error {
	perms, err := json.Marshal(e.Permissions)
	if err != nil {
		return err
	}
	q := `INSERT INTO editors (username, password_hash, permissions, created_at) VALUES (?, ?, ?, ?)`
	args := []any{e.Username, e.PasswordHash, string(perms), e.CreatedAt}

	if r.db.Dialect == utils.DialectPostgres {
		err = r.db.QueryRowContext(ctx, r.db.Rebind(q+" RETURNING id"), args...).Scan(&e.ID)
	} else {
		var res sql.Result
		res, err = r.db.ExecContext(ctx, q, args...)
		if err == nil {
			e.ID, err = res.LastInsertId()
		}
	}
	if utils.IsUniqueViolation(err) {
		return ErrUsernameTaken
	}
	return apperr.Persistence("editor create", err)
}

func (r *SQLRepo) List(ctx context.Context) ([]Editor, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, username, password_hash, permissions, created_at FROM editors ORDER BY id`)
	if err != nil {
		return nil, apperr.Persistence("editor list", err)
	}
	defer rows.Close()

	var out []Editor
	for rows.Next() {
		e, err := scanEditor(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, apperr.Persistence("editor rows", rows.Err())
}

func (r *SQLRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM editors WHERE id = ?`), id)
	if err != nil {
		return apperr.Persistence("editor delete", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLRepo) FindByUsername(ctx context.Context, username string) (Editor, error) {
	row := r.db.QueryRowContext(ctx, r.db.Rebind(
		`SELECT id, username, password_hash, permissions, created_at FROM editors WHERE username = ?`), username)
	e, err := scanEditor(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Editor{}, ErrNotFound
	}
	return e, err
}

func (r *SQLRepo) UpdatePassword(ctx context.Context, id int64, hash string) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`UPDATE editors SET password_hash = ? WHERE id = ?`), hash, id)
	return apperr.Persistence("editor update password", err)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEditor(s scanner) (Editor, error) {
	var (
		e     Editor
		perms string
	)
	if err := s.Scan(&e.ID, &e.Username, &e.PasswordHash, &perms, &e.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Editor{}, err
		}
		return Editor{}, apperr.Persistence("editor scan", err)
	}
	if perms != "" {
		if err := json.Unmarshal([]byte(perms), &e.Permissions); err != nil {
			return Editor{}, apperr.Persistence("editor permissions decode", err)
		}
	}
	if e.Permissions == nil {
		e.Permissions = []string{}
	}
	return e, nil
}
