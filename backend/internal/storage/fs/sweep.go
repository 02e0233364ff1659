package fs

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
)

// SweepStats describes one SweepTempFiles run.
type SweepStats struct {
	GalleriesScanned int
	FilesDeleted     int
	BytesReclaimed   int64
	Errors           []string
}

// SweepTempFiles removes temporary thumbnail files last modified before
// cutoff from every gallery. Younger files may belong to a thumbnail that is
// being written right now and are kept.
func (s *Storage) SweepTempFiles(cutoff time.Time) (SweepStats, error) {
	stats := SweepStats{Errors: []string{}}
	base := s.paths.Base()

	exists, err := afero.DirExists(s.fs, base)
	if err != nil {
		return stats, fmt.Errorf("failed to stat %s: %w", s.paths.PublicPath(base), err)
	}
	if !exists {
		return stats, nil
	}

	galleries, err := afero.ReadDir(s.fs, base)
	if err != nil {
		return stats, fmt.Errorf("failed to read %s: %w", s.paths.PublicPath(base), err)
	}

	for _, gallery := range galleries {
		if !gallery.IsDir() {
			continue
		}
		stats.GalleriesScanned++
		dir := filepath.Join(base, gallery.Name())

		entries, err := afero.ReadDir(s.fs, dir)
		if err != nil {
			stats.Errors = append(stats.Errors, err.Error())
			continue
		}
		for _, entry := range entries {
			if !entry.Mode().IsRegular() || !isTempFile(entry.Name()) || !entry.ModTime().Before(cutoff) {
				continue
			}
			if err := s.fs.Remove(filepath.Join(dir, entry.Name())); err != nil {
				stats.Errors = append(stats.Errors, err.Error())
				continue
			}
			stats.FilesDeleted++
			stats.BytesReclaimed += entry.Size()
		}
	}
	return stats, nil
}
