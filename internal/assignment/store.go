package assignment

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"lawfirm-cms/internal/apperr"
	"lawfirm-cms/pkg/utils"
)

// Assignment is the single active lawyer binding for a case.
type Assignment struct {
	CaseNumber string    `json:"case_number"`
	LawyerName string    `json:"lawyer_name"`
	AssignedAt time.Time `json:"assigned_at"`
}

type Store interface {
	// Upsert replaces any prior assignment for the case. Last write wins.
	Upsert(ctx context.Context, a Assignment) error
	Get(ctx context.Context, caseNumber string) (Assignment, error)
}

var ErrNotFound = apperr.NotFound("Assignment not found")

type SQLStore struct {
	db *utils.DB
}

func NewSQLStore(db *utils.DB) *SQLStore { return &SQLStore{db: db} }

func (s *SQLStore) upsertQuery() string {
	if s.db.Dialect == utils.DialectMySQL {
		return `INSERT INTO case_assignments (case_number, lawyer_name, assigned_at) VALUES (?, ?, ?)
			ON DUPLICATE KEY UPDATE lawyer_name = VALUES(lawyer_name), assigned_at = VALUES(assigned_at)`
	}
	return s.db.Rebind(`INSERT INTO case_assignments (case_number, lawyer_name, assigned_at) VALUES (?, ?, ?)
			ON CONFLICT (case_number) DO UPDATE SET lawyer_name = excluded.lawyer_name, assigned_at = excluded.assigned_at`)
}

func (s *SQLStore) Upsert(ctx context.Context, a Assignment) error {
	_, err := s.db.ExecContext(ctx, s.upsertQuery(), a.CaseNumber, a.LawyerName, a.AssignedAt)
	return apperr.Persistence("assignment upsert", err)
}

func (s *SQLStore) Get(ctx context.Context, caseNumber string) (Assignment, error) {
	var a Assignment
	err := s.db.QueryRowContext(ctx, s.db.Rebind(
		`SELECT case_number, lawyer_name, assigned_at FROM case_assignments WHERE case_number = ?`), caseNumber).
		Scan(&a.CaseNumber, &a.LawyerName, &a.AssignedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Assignment{}, ErrNotFound
	}
	if err != nil {
		return Assignment{}, apperr.Persistence("assignment get", err)
	}
	return a, nil
}
