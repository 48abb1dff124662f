package seed

import (
	"context"
	"testing"

	"bookfair/database/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRun_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	repos := repository.NewMemoryRepositories()

	res, err := Run(ctx, repos, "admin123", zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, Result{Stalls: len(DefaultStalls), Genres: len(DefaultGenres), Admin: true}, res)

	res, err = Run(ctx, repos, "admin123", zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, Result{}, res)

	stall, err := repos.Stalls.GetByID(ctx, "A1")
	require.NoError(t, err)
	assert.Equal(t, 500.0, stall.Price)

	admin, err := repos.Staff.GetByEmail(ctx, "admin@bookfair.lk")
	require.NoError(t, err)
	assert.Equal(t, "admin", admin.Username)
}
