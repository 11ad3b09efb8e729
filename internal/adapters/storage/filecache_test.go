package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alejandrodnm/polywhale/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) *FileCache {
	t.Helper()
	fc, err := NewFileCache(t.TempDir())
	require.NoError(t, err)
	return fc
}

func TestFileCache_PositionsRoundTrip(t *testing.T) {
	fc := newTestCache(t)

	positions := []domain.ClosedPosition{
		{Slug: "btc-100k", RealizedPnL: 42.5, AvgPrice: 0.9, Timestamp: time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)},
		{Slug: "eth-flip", RealizedPnL: -10, AvgPrice: 0.4},
	}
	require.NoError(t, fc.PutPositions("0xWhale", positions))

	got, hit, err := fc.GetPositions("0xWhale")
	require.NoError(t, err)
	require.True(t, hit)
	require.Len(t, got, 2)

	// El orden de guardado se preserva verbatim (precio desc, no cronológico).
	assert.Equal(t, "btc-100k", got[0].Slug)
	assert.Equal(t, "eth-flip", got[1].Slug)
	assert.InDelta(t, 42.5, got[0].RealizedPnL, 0.001)
}

func TestFileCache_PositionsMiss(t *testing.T) {
	fc := newTestCache(t)

	got, hit, err := fc.GetPositions("0xnobody")
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Nil(t, got)
}

func TestFileCache_WalletCaseInsensitive(t *testing.T) {
	fc := newTestCache(t)

	require.NoError(t, fc.PutPositions("0xABCdef", []domain.ClosedPosition{{Slug: "a"}}))

	_, hit, err := fc.GetPositions("0xabcDEF")
	require.NoError(t, err)
	assert.True(t, hit)
}

func TestFileCache_CorruptPositionsFailsLoudly(t *testing.T) {
	dir := t.TempDir()
	fc, err := NewFileCache(dir)
	require.NoError(t, err)

	path := filepath.Join(dir, "positions_0xbad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, hit, err := fc.GetPositions("0xbad")
	// Corrupción nunca se trata como miss silencioso.
	require.Error(t, err)
	assert.False(t, hit)
}

func TestFileCache_EmptyPositionsIsAHit(t *testing.T) {
	fc := newTestCache(t)

	require.NoError(t, fc.PutPositions("0xempty", nil))

	got, hit, err := fc.GetPositions("0xempty")
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Empty(t, got)
}

func TestFileCache_IndexRoundTrip(t *testing.T) {
	fc := newTestCache(t)

	idx := domain.SlugIndex{
		domain.CategoryCrypto:   {"btc-100k", "eth-flip"},
		domain.CategoryPolitics: {"election-2028"},
	}
	require.NoError(t, fc.SaveIndex(idx))

	got, err := fc.LoadIndex()
	require.NoError(t, err)
	assert.Equal(t, idx, got)
}

func TestFileCache_IndexMissingIsEmpty(t *testing.T) {
	fc := newTestCache(t)

	got, err := fc.LoadIndex()
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NotNil(t, got)
}

func TestFileCache_CorruptIndexFailsLoudly(t *testing.T) {
	dir := t.TempDir()
	fc, err := NewFileCache(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "slug_index.json"), []byte("[broken"), 0o644))

	_, err = fc.LoadIndex()
	require.Error(t, err)
}

func TestFileCache_SnapshotRoundTrip(t *testing.T) {
	fc := newTestCache(t)

	entries := []domain.LeaderboardEntry{
		{Rank: 1, Address: "0xaaa", Name: "whale_one", Volume: 120000, PnL: 9500},
		{Rank: 2, Address: "0xbbb", Name: "anon", Volume: 80000, PnL: -1200},
	}
	require.NoError(t, fc.PutSnapshot(domain.CategoryCrypto, domain.PeriodWeek, entries))

	got, hit, err := fc.GetSnapshot(domain.CategoryCrypto, domain.PeriodWeek)
	require.NoError(t, err)
	require.True(t, hit)
	assert.Equal(t, entries, got)

	// Otro (categoría, período) no colisiona.
	_, hit, err = fc.GetSnapshot(domain.CategoryCrypto, domain.PeriodDay)
	require.NoError(t, err)
	assert.False(t, hit)
}
