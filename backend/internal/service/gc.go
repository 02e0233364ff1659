package service

import (
	"context"
	"sync"
	"time"

	"github.com/itchan-dev/gallery/backend/internal/storage/fs"
	"github.com/itchan-dev/gallery/shared/logger"
)

// TempFileStorage is the part of the store the collector needs.
type TempFileStorage interface {
	SweepTempFiles(cutoff time.Time) (fs.SweepStats, error)
}

// TempFileCollector removes temporary thumbnail files left behind when the
// process died between writing and renaming a thumbnail.
type TempFileCollector struct {
	storage         TempFileStorage
	safetyThreshold time.Duration
	now             func() time.Time

	mu        sync.Mutex
	lastStats CleanupStats
}

// CleanupStats tracks metrics from the last collection run.
type CleanupStats struct {
	RunAt time.Time
	fs.SweepStats
	DurationMs int64
}

// NewTempFileCollector creates a collector. safetyThreshold is the minimum age
// of a temporary file before it is deleted, so thumbnails being written right
// now are left alone.
func NewTempFileCollector(storage TempFileStorage, safetyThreshold time.Duration) *TempFileCollector {
	return &TempFileCollector{
		storage:         storage,
		safetyThreshold: safetyThreshold,
		now:             time.Now,
	}
}

// StartBackgroundCleanup runs RunCleanup every interval until ctx is done.
func (c *TempFileCollector) StartBackgroundCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	logger.Log.Info("started temp file collector",
		"interval", interval,
		"safety_threshold", c.safetyThreshold)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := c.RunCleanup(); err != nil {
					logger.Log.Error("temp file cleanup failed", "error", err)
					continue
				}
				stats := c.LastCleanupStats()
				logger.Log.Info("temp file cleanup completed",
					"galleries", stats.GalleriesScanned,
					"deleted", stats.FilesDeleted,
					"bytes_reclaimed", stats.BytesReclaimed,
					"duration_ms", stats.DurationMs,
					"errors", len(stats.Errors))
			case <-ctx.Done():
				logger.Log.Info("temp file collector shutting down")
				return
			}
		}
	}()
}

// RunCleanup executes a single collection cycle.
func (c *TempFileCollector) RunCleanup() error {
	start := c.now()

	sweep, err := c.storage.SweepTempFiles(start.Add(-c.safetyThreshold))
	if err != nil {
		return err
	}
	for _, e := range sweep.Errors {
		logger.Log.Warn("temp file cleanup error", "error", e)
	}

	c.mu.Lock()
	c.lastStats = CleanupStats{
		RunAt:      start,
		SweepStats: sweep,
		DurationMs: c.now().Sub(start).Milliseconds(),
	}
	c.mu.Unlock()
	return nil
}

// LastCleanupStats returns statistics from the last successful run.
func (c *TempFileCollector) LastCleanupStats() CleanupStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastStats
}
