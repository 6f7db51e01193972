// Package lawyers stores the firm's lawyer directory.
package lawyers

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"lawfirm-cms/internal/apperr"
	"lawfirm-cms/internal/audit"
	"lawfirm-cms/pkg/utils"
)

type Lawyer struct {
	ID      int64  `json:"id"`
	NIC     string `json:"nic"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Contact string `json:"contact"`
	Note    string `json:"note"`
}

var (
	ErrNotFound  = apperr.NotFound("Lawyer not found")
	ErrDuplicate = apperr.Validation("A lawyer with this NIC already exists")
)

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

func (s *Service) Create(ctx context.Context, actor string, l Lawyer) error {
	l.NIC = strings.TrimSpace(l.NIC)
	l.Name = strings.TrimSpace(l.Name)
	if l.NIC == "" || l.Name == "" {
		return apperr.Validation("Name and NIC are required")
	}

	_, err := s.db.ExecContext(ctx, s.db.Rebind(
		`INSERT INTO lawyers (nic, name, email, contact, note) VALUES (?, ?, ?, ?, ?)`),
		l.NIC, l.Name, strings.TrimSpace(l.Email), strings.TrimSpace(l.Contact), l.Note)
	if utils.IsUniqueViolation(err) {
		return ErrDuplicate
	}
	if err != nil {
		return apperr.Persistence("lawyer create", err)
	}

	s.audit.Record(ctx, actor, audit.ActionAddLawyer, fmt.Sprintf("Added lawyer %s (%s)", l.Name, l.NIC))
	return nil
}

func (s *Service) Delete(ctx context.Context, actor, nic string) error {
	nic = strings.TrimSpace(nic)
	if nic == "" {
		return apperr.Validation("NIC is required")
	}
	res, err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM lawyers WHERE nic = ?`), nic)
	if err != nil {
		return apperr.Persistence("lawyer delete", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}

	s.audit.Record(ctx, actor, audit.ActionDeleteLawyer, "Deleted lawyer "+nic)
	return nil
}

// List returns a page of lawyers whose NIC or name contains search.
func (s *Service) List(ctx context.Context, search string, page utils.PageRequest) ([]Lawyer, utils.Pagination, error) {
	where := ""
	var args []any
	if search = strings.TrimSpace(search); search != "" {
		where = ` WHERE nic LIKE ? OR name LIKE ?`
		like := "%" + search + "%"
		args = append(args, like, like)
	}

	var total int
	if err := s.db.QueryRowContext(ctx, s.db.Rebind(`SELECT COUNT(*) FROM lawyers`+where), args...).Scan(&total); err != nil {
		return nil, utils.Pagination{}, apperr.Persistence("lawyer count", err)
	}

	rows, err := s.db.QueryContext(ctx, s.db.Rebind(
		`SELECT id, nic, name, email, contact, note FROM lawyers`+where+` ORDER BY name LIMIT ? OFFSET ?`),
		append(args, page.Limit, page.Offset())...)
	if err != nil {
		return nil, utils.Pagination{}, apperr.Persistence("lawyer list", err)
	}
	defer rows.Close()

	out := []Lawyer{}
	for rows.Next() {
		var l Lawyer
		if err := rows.Scan(&l.ID, &l.NIC, &l.Name, &l.Email, &l.Contact, &l.Note); err != nil {
			return nil, utils.Pagination{}, apperr.Persistence("lawyer scan", err)
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, utils.Pagination{}, apperr.Persistence("lawyer rows", err)
	}
	return out, utils.NewPagination(page, total), nil
}

// FindByName resolves the lawyer an assignment refers to.
func (s *Service) FindByName(ctx context.Context, name string) (Lawyer, error) {
	var l Lawyer
	err := s.db.QueryRowContext(ctx, s.db.Rebind(
		`SELECT id, nic, name, email, contact, note FROM lawyers WHERE name = ? ORDER BY id LIMIT 1`), name).
		Scan(&l.ID, &l.NIC, &l.Name, &l.Email, &l.Contact, &l.Note)
	if errors.Is(err, sql.ErrNoRows) {
		return Lawyer{}, ErrNotFound
	}
	if err != nil {
		return Lawyer{}, apperr.Persistence("lawyer find", err)
	}
	return l, nil
}

func (s *Service) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM lawyers`).Scan(&n); err != nil {
		return 0, apperr.Persistence("lawyer count", err)
	}
	return n, nil
}
