package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/itchan-dev/gallery/backend/internal/storage/fs"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MockTempFileStorage struct {
	mu        sync.Mutex
	sweepFunc func(cutoff time.Time) (fs.SweepStats, error)
	cutoffs   []time.Time
}

func (m *MockTempFileStorage) SweepTempFiles(cutoff time.Time) (fs.SweepStats, error) {
	m.mu.Lock()
	m.cutoffs = append(m.cutoffs, cutoff)
	m.mu.Unlock()

	if m.sweepFunc != nil {
		return m.sweepFunc(cutoff)
	}
	return fs.SweepStats{}, nil
}

func (m *MockTempFileStorage) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.cutoffs)
}

func TestTempFileCollector_RunCleanup(t *testing.T) {
	t.Run("passes the safety threshold as cutoff", func(t *testing.T) {
		now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
		storage := &MockTempFileStorage{
			sweepFunc: func(time.Time) (fs.SweepStats, error) {
				return fs.SweepStats{GalleriesScanned: 3, FilesDeleted: 2, BytesReclaimed: 100}, nil
			},
		}
		c := NewTempFileCollector(storage, time.Hour)
		c.now = func() time.Time { return now }

		require.NoError(t, c.RunCleanup())

		require.Len(t, storage.cutoffs, 1)
		assert.Equal(t, now.Add(-time.Hour), storage.cutoffs[0])
		stats := c.LastCleanupStats()
		assert.Equal(t, now, stats.RunAt)
		assert.Equal(t, 2, stats.FilesDeleted)
		assert.Equal(t, int64(100), stats.BytesReclaimed)
	})

	t.Run("storage error keeps previous stats", func(t *testing.T) {
		boom := errors.New("read dir failed")
		storage := &MockTempFileStorage{
			sweepFunc: func(time.Time) (fs.SweepStats, error) { return fs.SweepStats{}, boom },
		}
		c := NewTempFileCollector(storage, time.Hour)

		assert.ErrorIs(t, c.RunCleanup(), boom)
		assert.True(t, c.LastCleanupStats().RunAt.IsZero())
	})
}

func TestTempFileCollector_Background(t *testing.T) {
	storage := &MockTempFileStorage{}
	c := NewTempFileCollector(storage, time.Minute)
	ctx, cancel := context.WithCancel(context.Background())

	c.StartBackgroundCleanup(ctx, 10*time.Millisecond)

	assert.Eventually(t, func() bool { return storage.calls() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()
}

func TestTempFileCollector_WithStorage(t *testing.T) {
	fsys := afero.NewMemMapFs()
	storage := fs.New(fsys, fs.Config{Root: "/srv", ImagesDir: "images"}, nil)
	stale := "/srv/images/g/.thumb-dead.tmp"
	require.NoError(t, afero.WriteFile(fsys, stale, []byte("partial"), 0644))
	old := time.Now().Add(-time.Hour)
	require.NoError(t, fsys.Chtimes(stale, old, old))

	c := NewTempFileCollector(storage, time.Minute)
	require.NoError(t, c.RunCleanup())

	exists, err := afero.Exists(fsys, stale)
	require.NoError(t, err)
	assert.False(t, exists)
	assert.Equal(t, 1, c.LastCleanupStats().FilesDeleted)
}
