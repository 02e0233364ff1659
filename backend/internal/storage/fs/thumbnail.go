package fs

import (
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/itchan-dev/gallery/shared/logger"
	"github.com/spf13/afero"
	"golang.org/x/image/draw"
)

// Thumbnails are written under a temporary name first. Leftovers of a crash
// are removed by SweepTempFiles.
const (
	tempPrefix = ".thumb-"
	tempSuffix = ".tmp"
)

func isTempFile(name string) bool {
	return strings.HasPrefix(name, tempPrefix) && strings.HasSuffix(name, tempSuffix)
}

// CreateThumbnail scales the named image to fit the configured box, keeping
// the aspect ratio, and writes it as the gallery's thumb.jpg. An existing
// thumbnail is replaced only once the new one is fully written.
func (s *Storage) CreateThumbnail(directory, name string) error {
	src, err := s.paths.File(directory, name)
	if err != nil {
		return err
	}

	exists, err := afero.Exists(s.fs, src)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", s.paths.PublicPath(src), err)
	}
	if !exists {
		return fmt.Errorf("%w: file %s", ErrNotFound, s.paths.PublicPath(src))
	}

	img, err := s.decode(src)
	if err != nil {
		return err
	}

	b := img.Bounds()
	width, height := fitSize(b.Dx(), b.Dy(), s.thumb.Width, s.thumb.Height)
	thumb := image.NewRGBA(image.Rect(0, 0, width, height))
	// JPEG has no alpha, transparent areas end up white.
	draw.Draw(thumb, thumb.Bounds(), image.White, image.Point{}, draw.Src)
	draw.CatmullRom.Scale(thumb, thumb.Bounds(), img, b, draw.Over, nil)

	dst := filepath.Join(filepath.Dir(src), ThumbnailName)
	if err := s.writeJPEG(dst, thumb); err != nil {
		return err
	}
	logger.Log.Debug("thumbnail created",
		"source", s.paths.PublicPath(src),
		"width", width,
		"height", height)
	return nil
}

func (s *Storage) decode(path string) (image.Image, error) {
	f, err := s.fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open %s: %v", ErrImageProcessing, s.paths.PublicPath(path), err)
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return nil, decodeError(s.paths.PublicPath(path), err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("%w: %s has no pixels", ErrImageProcessing, s.paths.PublicPath(path))
	}
	if limit := s.thumb.MaxDecodedSize; limit > 0 && int64(cfg.Width)*int64(cfg.Height)*4 > limit {
		return nil, fmt.Errorf("%w: %s is too large (%dx%d)",
			ErrImageProcessing, s.paths.PublicPath(path), cfg.Width, cfg.Height)
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("%w: failed to rewind %s: %v", ErrImageProcessing, s.paths.PublicPath(path), err)
	}
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, decodeError(s.paths.PublicPath(path), err)
	}
	return img, nil
}

func decodeError(publicPath string, err error) error {
	if errors.Is(err, image.ErrFormat) {
		return fmt.Errorf("%w: %s", ErrUnknownImageFormat, publicPath)
	}
	return fmt.Errorf("%w: failed to decode %s: %v", ErrImageProcessing, publicPath, err)
}

// writeJPEG encodes img into a temporary file next to dst and renames it over dst.
func (s *Storage) writeJPEG(dst string, img image.Image) error {
	tmp := filepath.Join(filepath.Dir(dst), tempPrefix+uuid.NewString()+tempSuffix)

	f, err := s.fs.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0666)
	if err != nil {
		return fmt.Errorf("%w: failed to create temporary file: %v", ErrImageProcessing, err)
	}

	if err := jpeg.Encode(f, img, &jpeg.Options{Quality: s.thumb.Quality}); err != nil {
		f.Close()
		s.fs.Remove(tmp) // Best effort
		return fmt.Errorf("%w: failed to encode thumbnail: %v", ErrImageProcessing, err)
	}
	if err := f.Close(); err != nil {
		s.fs.Remove(tmp) // Best effort
		return fmt.Errorf("%w: failed to write thumbnail: %v", ErrImageProcessing, err)
	}
	if err := s.fs.Rename(tmp, dst); err != nil {
		s.fs.Remove(tmp) // Best effort
		return fmt.Errorf("%w: failed to replace thumbnail: %v", ErrImageProcessing, err)
	}
	return nil
}

// fitSize scales (w, h) by the single factor that makes it fit (maxW, maxH)
// as tightly as possible. Small sources are enlarged.
func fitSize(w, h, maxW, maxH int) (int, int) {
	scale := math.Min(float64(maxW)/float64(w), float64(maxH)/float64(h))
	return clamp(int(math.Round(float64(w)*scale)), maxW), clamp(int(math.Round(float64(h)*scale)), maxH)
}

func clamp(v, upper int) int {
	return max(1, min(v, upper))
}
