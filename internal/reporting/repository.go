package reporting

import (
	"context"

	"lawfirm-cms/internal/apperr"
	"lawfirm-cms/pkg/utils"
)

// Repository abstracts the aggregate queries reporting needs.
// Implementations only read.
type Repository interface {
	Counts(ctx context.Context) (DashboardCounts, error)
	// CaseTypes returns raw case_type values with their counts.
	CaseTypes(ctx context.Context) ([]TypeCount, error)
}

type SQLRepo struct {
	db *utils.DB
}

func NewSQLRepo(db *utils.DB) *SQLRepo { return &SQLRepo{db: db} }

func (r *SQLRepo) Counts(ctx context.Context) (DashboardCounts, error) {
	var c DashboardCounts
	err := r.db.QueryRowContext(ctx, `SELECT
		(SELECT COUNT(DISTINCT client_name) FROM cases),
		(SELECT COUNT(*) FROM lawyers),
		(SELECT COUNT(*) FROM cases),
		(SELECT COUNT(*) FROM cases WHERE status = 'ongoing'),
		(SELECT COUNT(*) FROM cases WHERE status = 'concluded')`).
		Scan(&c.TotalClients, &c.TotalLawyers, &c.TotalCases, &c.OngoingCases, &c.ConcludedCases)
	if err != nil {
		return DashboardCounts{}, apperr.Persistence("dashboard counts", err)
	}
	return c, nil
}

func (r *SQLRepo) CaseTypes(ctx context.Context) ([]TypeCount, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT case_type, COUNT(*) FROM cases GROUP BY case_type ORDER BY case_type`)
	if err != nil {
		return nil, apperr.Persistence("case type stats", err)
	}
	defer rows.Close()

	var out []TypeCount
	for rows.Next() {
		var t TypeCount
		if err := rows.Scan(&t.Name, &t.Value); err != nil {
			return nil, apperr.Persistence("case type scan", err)
		}
		out = append(out, t)
	}
	return out, apperr.Persistence("case type rows", rows.Err())
}
