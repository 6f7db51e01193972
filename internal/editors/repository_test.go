package editors

import (
	"context"
	"testing"
	"time"

	"lawfirm-cms/pkg/utils"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoWithMock(t *testing.T, d utils.Dialect) (*SQLRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewSQLRepo(utils.NewDB(db, d)), mock
}

func TestSQLRepo_FindByUsernameDecodesPermissions(t *testing.T) {
	repo, mock := newRepoWithMock(t, utils.DialectMySQL)
	now := time.Unix(1700000000, 0).UTC()

	rows := sqlmock.NewRows([]string{"id", "username", "password_hash", "permissions", "created_at"}).
		AddRow(7, "clerk", "$2a$hash", `["dashboard","cases"]`, now)
	mock.ExpectQuery(`SELECT id, username, password_hash, permissions, created_at FROM editors WHERE username = \?`).
		WithArgs("clerk").
		WillReturnRows(rows)

	e, err := repo.FindByUsername(context.Background(), "clerk")
	require.NoError(t, err)
	assert.Equal(t, int64(7), e.ID)
	assert.Equal(t, []string{"dashboard", "cases"}, e.Permissions)
}

func TestSQLRepo_FindByUsernameNotFound(t *testing.T) {
	repo, mock := newRepoWithMock(t, utils.DialectPostgres)
	mock.ExpectQuery(`FROM editors WHERE username = \$1`).
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password_hash", "permissions", "created_at"}))

	_, err := repo.FindByUsername(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLRepo_CreateDuplicateMapsToUsernameTaken(t *testing.T) {
	repo, mock := newRepoWithMock(t, utils.DialectMySQL)
	mock.ExpectExec(`INSERT INTO editors`).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})

	err := repo.Create(context.Background(), &Editor{Username: "clerk", Permissions: []string{}})
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestSQLRepo_CreatePostgresReturnsID(t *testing.T) {
	repo, mock := newRepoWithMock(t, utils.DialectPostgres)
	mock.ExpectQuery(`INSERT INTO editors \(username, password_hash, permissions, created_at\) VALUES \(\$1, \$2, \$3, \$4\) RETURNING id`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))

	e := &Editor{Username: "clerk", Permissions: []string{"cases"}}
	require.NoError(t, repo.Create(context.Background(), e))
	assert.Equal(t, int64(11), e.ID)
}
