// Package cases stores client matters and drives their status.
package cases

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"lawfirm-cms/internal/apperr"
	"lawfirm-cms/internal/audit"
	"lawfirm-cms/pkg/utils"
)

var (
	ErrNotFound  = apperr.NotFound("Case not found")
	ErrDuplicate = apperr.Validation("A case with this NIC already exists")
)

type Recorder interface {
	Record(ctx context.Context, username, action, details string)
}

type Service struct {
	db    *utils.DB
	audit Recorder
	clock func() time.Time
}

func NewService(db *utils.DB, rec Recorder) *Service {
	return &Service{db: db, audit: rec, clock: time.Now}
}

const caseColumns = `c.case_number, c.client_name, c.email, c.contact, c.address, c.lawyer1, c.lawyer2, c.lawyer3,
	c.note, c.last_date, c.next_date, c.case_type, c.status, c.created_at`

func (s *Service) Create(ctx context.Context, actor string, c Case) (Case, error) {
	c.CaseNumber = strings.TrimSpace(c.CaseNumber)
	c.ClientName = strings.TrimSpace(c.ClientName)
	c.Lawyer1 = strings.TrimSpace(c.Lawyer1)
	if c.CaseNumber == "" || c.ClientName == "" || c.Lawyer1 == "" {
		return Case{}, apperr.Validation("NIC, name and lawyer1 are required")
	}
	for _, d := range []string{c.LastDate, c.NextDate} {
		if d == "" {
			continue
		}
		if _, err := time.Parse(dateLayout, d); err != nil {
			return Case{}, apperr.Validation("Dates must be YYYY-MM-DD")
		}
	}
	c.Status = InitialStatus
	c.CreatedAt = s.clock().UTC()

	_, err := s.db.ExecContext(ctx, s.db.Rebind(`INSERT INTO cases
		(case_number, client_name, email, contact, address, lawyer1, lawyer2, lawyer3, note, last_date, next_date, case_type, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		c.CaseNumber, c.ClientName, c.Email, c.Contact, c.Address, c.Lawyer1, c.Lawyer2, c.Lawyer3,
		c.Note, c.LastDate, c.NextDate, strings.TrimSpace(c.CaseType), string(c.Status), c.CreatedAt)
	if utils.IsUniqueViolation(err) {
		return Case{}, ErrDuplicate
	}
	if err != nil {
		return Case{}, apperr.Persistence("case create", err)
	}

	s.audit.Record(ctx, actor, audit.ActionAddCase, fmt.Sprintf("Added case %s for %s", c.CaseNumber, c.ClientName))
	return c, nil
}

func (s *Service) Get(ctx context.Context, caseNumber string) (Case, error) {
	row := s.db.QueryRowContext(ctx, s.db.Rebind(`SELECT `+caseColumns+` FROM cases c WHERE c.case_number = ?`), caseNumber)
	c, err := scanCase(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Case{}, ErrNotFound
	}
	if err != nil {
		return Case{}, apperr.Persistence("case get", err)
	}
	return c, nil
}

// List returns a page of cases matching search on NIC or client name,
// ordered by next court date.
func (s *Service) List(ctx context.Context, search string, page utils.PageRequest) ([]Case, utils.Pagination, error) {
	where := ""
	var args []any
	if search = strings.TrimSpace(search); search != "" {
		where = ` WHERE c.case_number LIKE ? OR c.client_name LIKE ?`
		like := "%" + search + "%"
		args = append(args, like, like)
	}

	var total int
	if err := s.db.QueryRowContext(ctx, s.db.Rebind(`SELECT COUNT(*) FROM cases c`+where), args...).Scan(&total); err != nil {
		return nil, utils.Pagination{}, apperr.Persistence("case count", err)
	}

	rows, err := s.db.QueryContext(ctx, s.db.Rebind(
		`SELECT `+caseColumns+` FROM cases c`+where+` ORDER BY c.next_date, c.case_number LIMIT ? OFFSET ?`),
		append(args, page.Limit, page.Offset())...)
	if err != nil {
		return nil, utils.Pagination{}, apperr.Persistence("case list", err)
	}
	out, err := collect(rows, false)
	if err != nil {
		return nil, utils.Pagination{}, err
	}
	return out, utils.NewPagination(page, total), nil
}

// ListAll returns every case ordered by next court date.
func (s *Service) ListAll(ctx context.Context) ([]Case, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+caseColumns+` FROM cases c ORDER BY c.next_date, c.case_number`)
	if err != nil {
		return nil, apperr.Persistence("case list all", err)
	}
	return collect(rows, false)
}

// ListWithAssignments returns every case with its current assignment, if any.
func (s *Service) ListWithAssignments(ctx context.Context) ([]Case, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+caseColumns+`, a.lawyer_name FROM cases c
		LEFT JOIN case_assignments a ON a.case_number = c.case_number
		ORDER BY c.next_date, c.case_number`)
	if err != nil {
		return nil, apperr.Persistence("case list assignments", err)
	}
	return collect(rows, true)
}

// Delete removes the case and its assignment together.
func (s *Service) Delete(ctx context.Context, actor, caseNumber string) error {
	caseNumber = strings.TrimSpace(caseNumber)
	if caseNumber == "" {
		return apperr.Validation("NIC is required")
	}

	err := utils.WithTx(ctx, s.db.DB, nil, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, s.db.Rebind(`DELETE FROM case_assignments WHERE case_number = ?`), caseNumber); err != nil {
			return apperr.Persistence("assignment delete", err)
		}
		res, err := tx.ExecContext(ctx, s.db.Rebind(`DELETE FROM cases WHERE case_number = ?`), caseNumber)
		if err != nil {
			return apperr.Persistence("case delete", err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.audit.Record(ctx, actor, audit.ActionDeleteCase, "Deleted case "+caseNumber)
	return nil
}

// UpdateStatus moves a case to next and records the transition.
func (s *Service) UpdateStatus(ctx context.Context, actor, caseNumber, next string) error {
	st, err := ParseStatus(next)
	if err != nil {
		return err
	}
	cur, err := s.Get(ctx, caseNumber)
	if err != nil {
		return err
	}
	if !cur.Status.CanTransition(st) {
		return ErrInvalidStatus
	}

	// MySQL reports zero affected rows for an unchanged status. Get above
	// already proved the row exists.
	if _, err := s.db.ExecContext(ctx, s.db.Rebind(`UPDATE cases SET status = ? WHERE case_number = ?`), string(st), caseNumber); err != nil {
		return apperr.Persistence("case status update", err)
	}

	s.audit.Record(ctx, actor, audit.ActionUpdateStatus,
		fmt.Sprintf("Changed status of case %s from %s to %s", caseNumber, cur.Status, st))
	return nil
}

func (s *Service) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM cases`).Scan(&n); err != nil {
		return 0, apperr.Persistence("case count", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCase(s scanner, extra ...any) (Case, error) {
	var (
		c      Case
		status string
	)
	dest := []any{&c.CaseNumber, &c.ClientName, &c.Email, &c.Contact, &c.Address, &c.Lawyer1, &c.Lawyer2, &c.Lawyer3,
		&c.Note, &c.LastDate, &c.NextDate, &c.CaseType, &status, &c.CreatedAt}
	if err := s.Scan(append(dest, extra...)...); err != nil {
		return Case{}, err
	}
	c.Status = Status(status)
	return c, nil
}

func collect(rows *sql.Rows, withAssignment bool) ([]Case, error) {
	defer rows.Close()

	out := []Case{}
	for rows.Next() {
		var (
			c        Case
			err      error
			assigned sql.NullString
		)
		if withAssignment {
			c, err = scanCase(rows, &assigned)
		} else {
			c, err = scanCase(rows)
		}
		if err != nil {
			return nil, apperr.Persistence("case scan", err)
		}
		if assigned.Valid {
			name := assigned.String
			c.AssignedLawyer = &name
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Persistence("case rows", err)
	}
	return out, nil
}
