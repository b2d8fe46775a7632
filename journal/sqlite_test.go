package journal

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLite(t *testing.T) *SQLiteJournal {
	t.Helper()

	path := filepath.Join(t.TempDir(), "journal.db")
	j, err := NewSQLite(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = j.Close() })
	return j
}

func sampleTrade(runID string, id int) TradeRecord {
	entry := time.Date(2024, 3, 4, 7, 20, 0, 0, time.UTC)
	return TradeRecord{
		RunID:        runID,
		TradeID:      id,
		Symbol:       "EURUSDm",
		Direction:    "buy",
		Lots:         0.16,
		EntryPrice:   1.1052,
		ExitPrice:    1.1160,
		EntryTime:    entry,
		ExitTime:     entry.Add(2 * time.Hour),
		Outcome:      172.80,
		BalanceAfter: 10172.80,
		Reason:       "Hit take profit",
		ISOWeek:      10,
	}
}

func TestSQLiteTradeRoundTrip(t *testing.T) {
	t.Parallel()

	j := newTestSQLite(t)

	want := sampleTrade("run-1", 0)
	require.NoError(t, j.RecordTrade(want))
	require.NoError(t, j.RecordTrade(sampleTrade("run-2", 0)))

	got, err := j.ListTradesByRun("run-1")
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Equal(t, want.RunID, got[0].RunID)
	assert.Equal(t, want.Symbol, got[0].Symbol)
	assert.Equal(t, want.Direction, got[0].Direction)
	assert.Equal(t, want.Reason, got[0].Reason)
	assert.Equal(t, want.ISOWeek, got[0].ISOWeek)
	assert.InDelta(t, want.Outcome, got[0].Outcome, 1e-9)
	assert.True(t, want.EntryTime.Equal(got[0].EntryTime))
	assert.True(t, want.ExitTime.Equal(got[0].ExitTime))
}

func TestSQLiteTradeOrdering(t *testing.T) {
	t.Parallel()

	j := newTestSQLite(t)
	for i := 2; i >= 0; i-- {
		require.NoError(t, j.RecordTrade(sampleTrade("run-1", i)))
	}

	got, err := j.ListTradesByRun("run-1")
	require.NoError(t, err)
	require.Len(t, got, 3)
	for i, tr := range got {
		assert.Equal(t, i, tr.TradeID)
	}
}

func TestSQLiteRecordRun(t *testing.T) {
	t.Parallel()

	j := newTestSQLite(t)

	r := RunSummary{
		RunID:           "run-1",
		Created:         time.Now().UTC(),
		Symbol:          "EURUSDm",
		Start:           time.Date(2024, 3, 4, 7, 0, 0, 0, time.UTC),
		End:             time.Date(2024, 3, 8, 21, 0, 0, 0, time.UTC),
		StartingBalance: 10000,
		FinalBalance:    10172.80,
		TotalReturn:     172.80,
		MaxDrawdown:     0,
		TotalTrades:     1,
		Depleted:        false,
	}
	require.NoError(t, j.RecordRun(r))

	// Same primary key rejected.
	assert.Error(t, j.RecordRun(r))
}
