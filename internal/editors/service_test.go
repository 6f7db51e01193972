package editors

import (
	"context"
	"errors"
	"strings"
	"testing"

	"lawfirm-cms/internal/apperr"
	"lawfirm-cms/internal/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreate_HashesAndStoresPermissions(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo)

	e, err := svc.Create(context.Background(), CreateInput{
		Username:    "clerk",
		Password:    "s3cret!",
		Permissions: []string{"dashboard", "cases", "cases"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"dashboard", "cases"}, e.Permissions)
	assert.NotEqual(t, "s3cret!", e.PasswordHash)
	assert.NoError(t, auth.VerifyPassword(e.PasswordHash, "s3cret!"))

	got, err := svc.FindByUsername(context.Background(), "clerk")
	require.NoError(t, err)
	assert.Equal(t, e.ID, got.ID)
}

func TestCreate_Validation(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateInput{Username: "", Password: "password"})
	assert.True(t, errors.Is(err, apperr.ErrValidation))

	_, err = svc.Create(ctx, CreateInput{Username: "x", Password: "123"})
	assert.True(t, errors.Is(err, apperr.ErrValidation))

	_, err = svc.Create(ctx, CreateInput{Username: "x", Password: "password", Permissions: []string{"billing"}})
	assert.True(t, errors.Is(err, apperr.ErrValidation))
}

func TestCreate_DuplicateUsername(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateInput{Username: "clerk", Password: "password"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateInput{Username: "clerk", Password: "password"})
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestChangePassword(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	ctx := context.Background()
	_, err := svc.Create(ctx, CreateInput{Username: "clerk", Password: "old-pass"})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.ChangePassword(ctx, "clerk", "wrong", "new-pass"), ErrWrongPassword)
	require.NoError(t, svc.ChangePassword(ctx, "clerk", "old-pass", "new-pass"))

	e, err := svc.FindByUsername(ctx, "clerk")
	require.NoError(t, err)
	assert.NoError(t, auth.VerifyPassword(e.PasswordHash, "new-pass"))
}

func TestDelete(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	ctx := context.Background()
	e, err := svc.Create(ctx, CreateInput{Username: "clerk", Password: "password"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, e.ID))
	assert.ErrorIs(t, svc.Delete(ctx, e.ID), ErrNotFound)
}

func TestPasswordLongerThanBcryptLimitIsValidationError(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	ctx := context.Background()
	long := strings.Repeat("a", 80)

	_, err := svc.Create(ctx, CreateInput{Username: "clerk", Password: long})
	assert.ErrorIs(t, err, ErrPasswordTooLong)
	assert.True(t, errors.Is(err, apperr.ErrValidation))

	_, err = svc.Create(ctx, CreateInput{Username: "clerk", Password: strings.Repeat("a", 72)})
	require.NoError(t, err)

	err = svc.ChangePassword(ctx, "clerk", strings.Repeat("a", 72), long)
	assert.ErrorIs(t, err, ErrPasswordTooLong)
	assert.True(t, errors.Is(err, apperr.ErrValidation))
}

func TestCreate_RejectsReservedUsername(t *testing.T) {
	svc := NewService(NewMemoryRepo()).ReserveUsernames("admin", "")
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateInput{Username: " admin ", Password: "password"})
	assert.ErrorIs(t, err, ErrReservedUsername)

	_, err = svc.Create(ctx, CreateInput{Username: "clerk", Password: "password"})
	assert.NoError(t, err)
}
