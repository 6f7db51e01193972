package todos

import (
	"context"
	"testing"

	"lawfirm-cms/internal/apperr"
	"lawfirm-cms/internal/audit"
	"lawfirm-cms/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTodos(t *testing.T) {
	svc := NewService(testutil.SQLite(t), audit.NewService(audit.NewMemoryRepo(), nil))
	ctx := context.Background()

	require.NoError(t, svc.Create(ctx, "admin", Todo{Task: "file motion", Date: "2026-11-03", Time: "09:30"}))
	require.NoError(t, svc.Create(ctx, "admin", Todo{Task: "call client", Date: "2026-11-01", Time: "14:00"}))
	assert.ErrorIs(t, svc.Create(ctx, "admin", Todo{Task: " "}), apperr.ErrValidation)
	assert.ErrorIs(t, svc.Create(ctx, "admin", Todo{Task: "x", Time: "9am"}), apperr.ErrValidation)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "call client", list[0].Task)

	require.NoError(t, svc.Delete(ctx, "admin", list[0].ID))
	assert.ErrorIs(t, svc.Delete(ctx, "admin", list[0].ID), ErrNotFound)
}
