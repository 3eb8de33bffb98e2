package sqlite

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *Database {
	t.Helper()

	db, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return db
}

func TestChannelRepositoryOverwritesOnReset(t *testing.T) {
	repo := NewChannelRepository(newTestDB(t))

	channel, err := repo.Get(42)
	require.NoError(t, err)
	assert.Empty(t, channel)

	require.NoError(t, repo.Set(42, "@first"))
	require.NoError(t, repo.Set(42, "@second"))

	channel, err = repo.Get(42)
	require.NoError(t, err)
	assert.Equal(t, "@second", channel)
}

func TestChannelRepositoryIsPerUser(t *testing.T) {
	repo := NewChannelRepository(newTestDB(t))

	require.NoError(t, repo.Set(1, "@one"))

	channel, err := repo.Get(2)
	require.NoError(t, err)
	assert.Empty(t, channel)
}

func TestContactRepositoryPreservesOrder(t *testing.T) {
	repo := NewContactRepository(newTestDB(t))

	phones := []string{"+15551234567", "+15550000001", "+15559999999"}
	require.NoError(t, repo.Replace(7, phones))

	got, err := repo.Get(7)
	require.NoError(t, err)
	assert.Equal(t, phones, got)
}

func TestContactRepositoryReplaceDropsOldList(t *testing.T) {
	repo := NewContactRepository(newTestDB(t))

	require.NoError(t, repo.Replace(7, []string{"+15551111111", "+15552222222"}))
	require.NoError(t, repo.Replace(7, []string{"+15553333333"}))

	got, err := repo.Get(7)
	require.NoError(t, err)
	assert.Equal(t, []string{"+15553333333"}, got)
}

func TestContactRepositoryEmptyForUnknownUser(t *testing.T) {
	repo := NewContactRepository(newTestDB(t))

	got, err := repo.Get(999)
	require.NoError(t, err)
	assert.Empty(t, got)
}
