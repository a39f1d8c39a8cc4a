package db_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/traderkit/schwabauth/db"
)

func setupTestDB(t *testing.T) {
	t.Helper()
	temp := t.TempDir()
	db.Path = filepath.Join(temp, "schwabauth.db")
	require.NoError(t, db.InitDB())
	t.Cleanup(func() { _ = db.CloseDB() })
}

func TestTokenRepositoryUpsertAndGet(t *testing.T) {
	setupTestDB(t)

	repo := db.NewTokenRepository(db.GetDB())
	ctx := context.Background()

	// Empty database yields no record, not an error.
	got, err := repo.Get(ctx)
	require.NoError(t, err)
	require.Nil(t, got)

	require.NoError(t, repo.Upsert(ctx, &db.Token{
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
		ObtainedAt:   "2026-08-23T10:00:00Z",
	}))

	got, err = repo.Get(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, "access-1", got.AccessToken)
	require.Equal(t, "refresh-1", got.RefreshToken)
}

func TestTokenRepositoryKeepsSingleRow(t *testing.T) {
	setupTestDB(t)

	repo := db.NewTokenRepository(db.GetDB())
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, &db.Token{AccessToken: "first", RefreshToken: "r1"}))
	require.NoError(t, repo.Upsert(ctx, &db.Token{AccessToken: "second", RefreshToken: "r2"}))

	var count int64
	require.NoError(t, db.GetDB().Model(&db.Token{}).Count(&count).Error)
	require.Equal(t, int64(1), count, "repeated upserts must keep a single token row")

	got, err := repo.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, "second", got.AccessToken)
	require.Equal(t, "r2", got.RefreshToken)
}

func TestCredentialsRepositoryUpsertAndGet(t *testing.T) {
	setupTestDB(t)

	repo := db.NewCredentialsRepository(db.GetDB())
	ctx := context.Background()

	got, err := repo.Get(ctx)
	require.NoError(t, err)
	require.Nil(t, got)

	require.NoError(t, repo.Upsert(ctx, &db.Credentials{AppKey: "KEY", AppSecret: "SECRET"}))

	got, err = repo.Get(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, "KEY", got.AppKey)
	require.Equal(t, "SECRET", got.AppSecret)

	// Upserting the same key updates the secret in place.
	require.NoError(t, repo.Upsert(ctx, &db.Credentials{AppKey: "KEY", AppSecret: "ROTATED"}))
	got, err = repo.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, "ROTATED", got.AppSecret)
}
