package statestore

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vicholz/airmonitor/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func floatPtr(f float64) *float64 { return &f }

func testSnapshot() domain.Snapshot {
	return domain.Snapshot{
		AirQuality: map[string]domain.PollutantReading{
			domain.PollutantPM25: {AQI: 42, CategoryIndex: 1},
			domain.PollutantO3:   {AQI: 31, CategoryIndex: 1},
		},
		Temperature: floatPtr(68.4),
	}
}

func TestLoad_FirstRun(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "state.json"), clockwork.NewRealClock(), testLogger())

	snap, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, snap.AirQuality)
	assert.Nil(t, snap.Temperature)
	assert.False(t, snap.Complete())
}

func TestLoad_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	store := New(path, clockwork.NewRealClock(), testLogger())
	_, err := store.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse state file")
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	saveTime := time.Date(2024, 8, 14, 16, 30, 0, 0, time.UTC)
	clock := clockwork.NewFakeClockAt(saveTime)
	store := New(path, clock, testLogger())

	require.NoError(t, store.Save(testSnapshot()))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, testSnapshot().AirQuality, loaded.AirQuality)
	require.NotNil(t, loaded.Temperature)
	assert.Equal(t, 68.4, *loaded.Temperature)
	assert.True(t, saveTime.Equal(loaded.Timestamp), "timestamp stamped at save time")
}

func TestSave_StampsTimestampAtWriteTime(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	clock := clockwork.NewFakeClockAt(time.Date(2024, 8, 14, 16, 30, 0, 0, time.UTC))
	store := New(path, clock, testLogger())

	snap := testSnapshot()
	snap.Timestamp = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC) // stale fetch-time value

	require.NoError(t, store.Save(snap))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, 2024, loaded.Timestamp.Year(), "save must overwrite any pre-set timestamp")
}

func TestSave_OverwritesPriorRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	store := New(path, clockwork.NewRealClock(), testLogger())

	require.NoError(t, store.Save(testSnapshot()))

	next := testSnapshot()
	next.AirQuality[domain.PollutantPM25] = domain.PollutantReading{AQI: 160, CategoryIndex: 4}
	require.NoError(t, store.Save(next))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, 4, loaded.AirQuality[domain.PollutantPM25].CategoryIndex)
}

func TestSave_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store := New(filepath.Join(dir, "state.json"), clockwork.NewRealClock(), testLogger())

	require.NoError(t, store.Save(testSnapshot()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "state.json", entries[0].Name())
}

func TestSaveLoad_PreservesAbsentReadings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	store := New(path, clockwork.NewRealClock(), testLogger())

	require.NoError(t, store.Save(domain.Snapshot{}))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, loaded.AirQuality)
	assert.Nil(t, loaded.Temperature)
}
