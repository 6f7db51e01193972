package audit

import (
	"context"
	"errors"
	"testing"
	"time"

	"lawfirm-cms/internal/apperr"
	"lawfirm-cms/pkg/utils"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func newSQLRepo(t *testing.T, d utils.Dialect) (*SQLRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewSQLRepo(utils.NewDB(db, d)), mock
}

func TestSQLRepo_ListOrdersNewestFirst(t *testing.T) {
	repo, mock := newSQLRepo(t, utils.DialectPostgres)
	now := time.Unix(1700000000, 0).UTC()

	rows := sqlmock.NewRows([]string{"id", "username", "action", "details", "created_at"}).
		AddRow(2, "admin", "Login", "", now).
		AddRow(1, "admin", "Logout", "", now.Add(-time.Minute))
	mock.ExpectQuery(`(?s)SELECT id, username, action, details, created_at FROM activity_log\s+ORDER BY created_at DESC, id DESC LIMIT \$1`).
		WithArgs(500).
		WillReturnRows(rows)

	out, err := repo.List(context.Background(), 500)
	require.NoError(t, err)
	require.Len(t, out, 2)
	require.Equal(t, "Login", out[0].Action)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLRepo_AppendWrapsPersistenceError(t *testing.T) {
	repo, mock := newSQLRepo(t, utils.DialectMySQL)
	mock.ExpectExec(`INSERT INTO activity_log \(username, action, details, created_at\) VALUES \(\?, \?, \?, \?\)`).
		WillReturnError(errors.New("db down"))

	err := repo.Append(context.Background(), Entry{Username: "u", Action: "Login", Timestamp: time.Now()})
	require.Error(t, err)
	require.True(t, errors.Is(err, apperr.ErrPersistence))
}
