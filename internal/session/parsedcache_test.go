package session

import (
	"testing"
	"time"

	"github.com/shiftcal/shiftcal/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapshotFixture() *models.Schedule {
	sched := models.NewSchedule()
	sched.Dates = []time.Time{time.Date(time.Now().Year(), time.June, 1, 0, 0, 0, 0, time.UTC)}
	sched.Employees = []string{"Alice Smith"}
	sched.SetShift("Alice Smith", sched.Dates[0], "A")
	return sched
}

func TestParsedCache_RoundTrip(t *testing.T) {
	cache, err := NewParsedCache(t.TempDir())
	require.NoError(t, err)

	assert.False(t, cache.Has("file-1"))
	require.NoError(t, cache.Store("file-1", snapshotFixture()))
	assert.True(t, cache.Has("file-1"))

	loaded, err := cache.Load("file-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice Smith"}, loaded.Employees)
	assert.Equal(t, "A", loaded.ShiftCode("Alice Smith", snapshotFixture().Dates[0]))
}

func TestParsedCache_ScansExistingOnStartup(t *testing.T) {
	dir := t.TempDir()

	first, err := NewParsedCache(dir)
	require.NoError(t, err)
	require.NoError(t, first.Store("file-1", snapshotFixture()))

	// A fresh cache over the same directory sees the old snapshot.
	second, err := NewParsedCache(dir)
	require.NoError(t, err)
	assert.True(t, second.Has("file-1"))

	loaded, err := second.Load("file-1")
	require.NoError(t, err)
	assert.Len(t, loaded.Dates, 1)
}

func TestParsedCache_Delete(t *testing.T) {
	cache, err := NewParsedCache(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, cache.Store("file-1", snapshotFixture()))
	cache.Delete("file-1")
	assert.False(t, cache.Has("file-1"))

	_, err = cache.Load("file-1")
	assert.Error(t, err)
}

func TestParsedCache_LoadUnknown(t *testing.T) {
	cache, err := NewParsedCache(t.TempDir())
	require.NoError(t, err)

	_, err = cache.Load("nope")
	assert.Error(t, err)
}
