package audit

import (
	"context"

	"lawfirm-cms/internal/apperr"
	"lawfirm-cms/pkg/utils"
)

// SQLRepo stores entries in activity_log and login_history.
type SQLRepo struct {
	db *utils.DB
}

func NewSQLRepo(db *utils.DB) *SQLRepo { return &SQLRepo{db: db} }

func (r *SQLRepo) Append(ctx context.Context, e Entry) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(
		`INSERT INTO activity_log (username, action, details, created_at) VALUES (?, ?, ?, ?)`),
		e.Username, e.Action, e.Details, e.Timestamp)
	return apperr.Persistence("audit append", err)
}

func (r *SQLRepo) List(ctx context.Context, limit int) ([]Entry, error) {
	rows, err := r.db.QueryContext(ctx, r.db.Rebind(
		`SELECT id, username, action, details, created_at FROM activity_log
		 ORDER BY created_at DESC, id DESC LIMIT ?`), limit)
	if err != nil {
		return nil, apperr.Persistence("audit list", err)
	}
	defer rows.Close()

	out := make([]Entry, 0, limit)
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Username, &e.Action, &e.Details, &e.Timestamp); err != nil {
			return nil, apperr.Persistence("audit scan", err)
		}
		out = append(out, e)
	}
	return out, apperr.Persistence("audit rows", rows.Err())
}

func (r *SQLRepo) AppendLogin(ctx context.Context, e LoginEntry) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(
		`INSERT INTO login_history (username, created_at, ip_address, device_type) VALUES (?, ?, ?, ?)`),
		e.Username, e.Timestamp, e.IPAddress, e.Device)
	return apperr.Persistence("login history append", err)
}

func (r *SQLRepo) RecentLogins(ctx context.Context, username string, limit int) ([]LoginEntry, error) {
	rows, err := r.db.QueryContext(ctx, r.db.Rebind(
		`SELECT id, username, created_at, ip_address, device_type FROM login_history
		 WHERE username = ? ORDER BY created_at DESC, id DESC LIMIT ?`), username, limit)
	if err != nil {
		return nil, apperr.Persistence("login history list", err)
	}
	defer rows.Close()

	var out []LoginEntry
	for rows.Next() {
		var e LoginEntry
		if err := rows.Scan(&e.ID, &e.Username, &e.Timestamp, &e.IPAddress, &e.Device); err != nil {
			return nil, apperr.Persistence("login history scan", err)
		}
		out = append(out, e)
	}
	return out, apperr.Persistence("login history rows", rows.Err())
}
