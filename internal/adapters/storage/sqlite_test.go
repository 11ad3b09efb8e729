package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/alejandrodnm/polywhale/internal/domain"
	"github.com/alejandrodnm/polywhale/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()
	s, err := NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func makeRun(id string, ranAt time.Time) ports.RunRecord {
	return ports.RunRecord{
		ID:                 id,
		RanAt:              ranAt,
		InitialBalance:     1000,
		PositionPercentage: 0.02,
		Results: []domain.BacktestResult{
			{
				Wallet:           "0xwhale",
				Category:         domain.CategoryCrypto,
				InitialBalance:   1000,
				FinalBalance:     1020.4,
				AbsolutePnL:      250.5,
				History:          []float64{1000, 1020, 1020.4},
				MatchedPositions: 2,
				TotalPositions:   5,
			},
			{
				Wallet:           "0xwhale",
				Category:         domain.CategoryOverall,
				InitialBalance:   1000,
				FinalBalance:     980,
				AbsolutePnL:      -42,
				History:          []float64{1000, 980},
				MatchedPositions: 1,
				TotalPositions:   5,
			},
		},
	}
}

func TestSQLiteStorage_SaveAndGetRuns(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	ranAt := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	require.NoError(t, s.SaveRun(ctx, makeRun("run-1", ranAt)))

	runs, err := s.GetRuns(ctx, ranAt.Add(-time.Hour), ranAt.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, runs, 1)

	run := runs[0]
	assert.Equal(t, "run-1", run.ID)
	assert.InDelta(t, 1000, run.InitialBalance, 0.001)
	assert.InDelta(t, 0.02, run.PositionPercentage, 0.0001)
	require.Len(t, run.Results, 2)

	// Orden determinista: wallet, categoría
	first := run.Results[0]
	assert.Equal(t, domain.CategoryCrypto, first.Category)
	assert.InDelta(t, 1020.4, first.FinalBalance, 0.001)
	assert.Equal(t, []float64{1000, 1020, 1020.4}, first.History)
	assert.Equal(t, 2, first.MatchedPositions)
	assert.Equal(t, 5, first.TotalPositions)

	second := run.Results[1]
	assert.Equal(t, domain.CategoryOverall, second.Category)
	assert.InDelta(t, -42, second.AbsolutePnL, 0.001)
}

func TestSQLiteStorage_GetRunsEmptyRange(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	ranAt := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	require.NoError(t, s.SaveRun(ctx, makeRun("run-1", ranAt)))

	runs, err := s.GetRuns(ctx, ranAt.Add(time.Hour), ranAt.Add(2*time.Hour))
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestSQLiteStorage_MultipleRunsNewestFirst(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	require.NoError(t, s.SaveRun(ctx, makeRun("run-old", base)))
	require.NoError(t, s.SaveRun(ctx, makeRun("run-new", base.Add(time.Hour))))

	runs, err := s.GetRuns(ctx, base.Add(-time.Hour), base.Add(2*time.Hour))
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-new", runs[0].ID)
	assert.Equal(t, "run-old", runs[1].ID)
}

func TestSQLiteStorage_SaveRunWithoutResults(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	run := makeRun("run-empty", time.Now().UTC())
	run.Results = nil
	require.NoError(t, s.SaveRun(ctx, run))

	runs, err := s.GetRuns(ctx, time.Now().Add(-time.Hour), time.Now().Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Empty(t, runs[0].Results)
}

func TestSQLiteStorage_PrunesOldRunsOnOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	ctx := context.Background()

	s, err := NewSQLiteStorage(path)
	require.NoError(t, err)

	recent := time.Now().UTC().Add(-time.Hour)
	ancient := time.Now().UTC().Add(-120 * 24 * time.Hour)
	require.NoError(t, s.SaveRun(ctx, makeRun("run-recent", recent)))
	require.NoError(t, s.SaveRun(ctx, makeRun("run-ancient", ancient)))
	require.NoError(t, s.Close())

	// Reabrir dispara el prune: el run fuera de retención desaparece.
	s, err = NewSQLiteStorage(path)
	require.NoError(t, err)
	defer s.Close()

	runs, err := s.GetRuns(ctx, ancient.Add(-time.Hour), time.Now().UTC())
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "run-recent", runs[0].ID)
}

func TestSQLiteStorage_DuplicateRunIDFails(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	ranAt := time.Now().UTC()
	require.NoError(t, s.SaveRun(ctx, makeRun("run-dup", ranAt)))
	err := s.SaveRun(ctx, makeRun("run-dup", ranAt))
	assert.Error(t, err)
}
