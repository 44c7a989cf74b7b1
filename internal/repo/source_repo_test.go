package repo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedInsertsKnownSourcesOnce(t *testing.T) {
	db := setupDB(t)
	r := NewSourceRepo(db)
	ctx := context.Background()

	require.NoError(t, r.Seed(ctx))
	require.NoError(t, r.Seed(ctx))

	sources, err := r.Active(ctx)
	require.NoError(t, err)
	require.Len(t, sources, 3)
	assert.Equal(t, "newsapi", sources[0].APIName)
	assert.Equal(t, "guardian", sources[1].APIName)
	assert.Equal(t, "nytimes", sources[2].APIName)
}

func TestSeedKeepsOperatorToggles(t *testing.T) {
	db := setupDB(t)
	r := NewSourceRepo(db)
	ctx := context.Background()

	require.NoError(t, r.Seed(ctx))

	source, err := r.FindByAPIName(ctx, "guardian")
	require.NoError(t, err)
	require.NoError(t, db.Model(source).Update("is_active", false).Error)

	require.NoError(t, r.Seed(ctx))

	source, err = r.FindByAPIName(ctx, "guardian")
	require.NoError(t, err)
	assert.False(t, source.IsActive)
}

func TestFindByAPINameMissing(t *testing.T) {
	db := setupDB(t)
	r := NewSourceRepo(db)

	_, err := r.FindByAPIName(context.Background(), "unknown")
	assert.ErrorIs(t, err, ErrSourceNotFound)
}
