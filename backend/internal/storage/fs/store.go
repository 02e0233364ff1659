package fs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/itchan-dev/gallery/shared/domain"
	"github.com/itchan-dev/gallery/shared/imagetype"
	"github.com/itchan-dev/gallery/shared/logger"
	"github.com/spf13/afero"
)

// ThumbnailName is the reserved file name of a gallery's thumbnail. It never
// counts as a user image.
const ThumbnailName = "thumb.jpg"

const (
	DefaultDirectoryMode    os.FileMode = 0777
	DefaultThumbnailWidth               = 564
	DefaultThumbnailHeight              = 452
	DefaultThumbnailQuality             = 90
)

type Config struct {
	Root          string
	ImagesDir     string
	DirectoryMode os.FileMode
	Thumbnail     ThumbnailOptions
}

type ThumbnailOptions struct {
	Width   int
	Height  int
	Quality int
	// MaxDecodedSize caps width*height*4 of a thumbnail source. Zero disables the check.
	MaxDecodedSize int64
}

// Storage keeps each gallery's images in its own directory under
// root/imagesDir and serves them by public path.
type Storage struct {
	fs         afero.Fs
	paths      *Resolver
	classifier imagetype.Classifier
	dirMode    os.FileMode
	thumb      ThumbnailOptions
}

// New returns a Storage on fsys. A nil classifier sniffs file content on fsys.
// Nothing is created on disk until the first upload.
func New(fsys afero.Fs, cfg Config, classifier imagetype.Classifier) *Storage {
	if classifier == nil {
		classifier = imagetype.NewContentClassifier(fsys)
	}
	if cfg.DirectoryMode == 0 {
		cfg.DirectoryMode = DefaultDirectoryMode
	}
	if cfg.Thumbnail.Width <= 0 {
		cfg.Thumbnail.Width = DefaultThumbnailWidth
	}
	if cfg.Thumbnail.Height <= 0 {
		cfg.Thumbnail.Height = DefaultThumbnailHeight
	}
	if cfg.Thumbnail.Quality <= 0 || cfg.Thumbnail.Quality > 100 {
		cfg.Thumbnail.Quality = DefaultThumbnailQuality
	}

	return &Storage{
		fs:         fsys,
		paths:      NewResolver(cfg.Root, cfg.ImagesDir),
		classifier: classifier,
		dirMode:    cfg.DirectoryMode,
		thumb:      cfg.Thumbnail,
	}
}

func (s *Storage) Paths() *Resolver {
	return s.paths
}

// Ping reports whether the store root is reachable. Used by readiness probes.
func (s *Storage) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	info, err := s.fs.Stat(s.paths.Root())
	if err != nil {
		return fmt.Errorf("store root unavailable: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("store root %s is not a directory", s.paths.Root())
	}
	return nil
}

// ListImages returns the user images of a gallery sorted by file name.
// A gallery without a directory is empty.
func (s *Storage) ListImages(directory string) ([]domain.ImageRef, error) {
	dir, err := s.paths.Directory(directory)
	if err != nil {
		return nil, err
	}

	exists, err := afero.DirExists(s.fs, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to stat directory %s: %w", s.paths.PublicPath(dir), err)
	}
	if !exists {
		return []domain.ImageRef{}, nil
	}

	entries, err := afero.ReadDir(s.fs, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", s.paths.PublicPath(dir), err)
	}

	images := make([]domain.ImageRef, 0, len(entries))
	for _, entry := range entries {
		if !entry.Mode().IsRegular() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if !s.isUserImage(path) {
			continue
		}
		images = append(images, domain.ImageRef{
			Name:       entry.Name(),
			PublicPath: s.paths.PublicPath(path),
		})
	}
	return images, nil
}

// Thumbnail returns the gallery thumbnail, or nil when there is none.
func (s *Storage) Thumbnail(directory string) (*domain.ImageRef, error) {
	path, err := s.paths.File(directory, ThumbnailName)
	if err != nil {
		return nil, err
	}

	exists, err := afero.Exists(s.fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat thumbnail %s: %w", s.paths.PublicPath(path), err)
	}
	if !exists {
		return nil, nil
	}
	return &domain.ImageRef{Name: ThumbnailName, PublicPath: s.paths.PublicPath(path)}, nil
}

// DeleteImage removes a single user image. The thumbnail is not a user image.
func (s *Storage) DeleteImage(directory, name string) error {
	path, err := s.paths.File(directory, name)
	if err != nil {
		return err
	}

	exists, err := afero.Exists(s.fs, path)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", s.paths.PublicPath(path), err)
	}
	if !exists {
		return fmt.Errorf("%w: file %s", ErrNotFound, s.paths.PublicPath(path))
	}
	if !s.isUserImage(path) {
		return fmt.Errorf("%w: file %s", ErrNotAnImage, s.paths.PublicPath(path))
	}

	if err := s.fs.Remove(path); err != nil {
		return fmt.Errorf("failed to delete %s: %w", s.paths.PublicPath(path), err)
	}
	logger.Log.Debug("image deleted", "path", s.paths.PublicPath(path))
	return nil
}

// DeleteAllImages removes every user image of a gallery. With deleteDirectory
// set it then removes the directory, failing with *DirectoryNotEmptyError if
// anything else (the thumbnail, other files, subdirectories) is left.
// Images deleted before a failure stay deleted.
func (s *Storage) DeleteAllImages(directory string, deleteDirectory bool) error {
	dir, err := s.paths.Directory(directory)
	if err != nil {
		return err
	}

	exists, err := afero.DirExists(s.fs, dir)
	if err != nil {
		return fmt.Errorf("failed to stat directory %s: %w", s.paths.PublicPath(dir), err)
	}
	if !exists {
		return &missingDirectoryError{publicPath: s.paths.PublicPath(dir)}
	}

	entries, err := afero.ReadDir(s.fs, dir)
	if err != nil {
		return fmt.Errorf("failed to read directory %s: %w", s.paths.PublicPath(dir), err)
	}

	for _, entry := range entries {
		if !entry.Mode().IsRegular() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if !s.isUserImage(path) {
			continue
		}
		if err := s.fs.Remove(path); err != nil {
			return fmt.Errorf("failed to delete %s: %w", s.paths.PublicPath(path), err)
		}
	}

	if !deleteDirectory {
		return nil
	}

	remaining, err := afero.ReadDir(s.fs, dir)
	if err != nil {
		return fmt.Errorf("failed to read directory %s: %w", s.paths.PublicPath(dir), err)
	}
	if len(remaining) > 0 {
		return &DirectoryNotEmptyError{PublicPath: s.paths.PublicPath(dir)}
	}

	if err := s.fs.Remove(dir); err != nil {
		return fmt.Errorf("failed to delete directory %s: %w", s.paths.PublicPath(dir), err)
	}
	logger.Log.Debug("gallery directory deleted", "path", s.paths.PublicPath(dir))
	return nil
}

// DeleteThumbnail removes the gallery thumbnail. A missing thumbnail is not an error.
func (s *Storage) DeleteThumbnail(directory string) error {
	path, err := s.paths.File(directory, ThumbnailName)
	if err != nil {
		return err
	}
	if err := s.fs.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete thumbnail %s: %w", s.paths.PublicPath(path), err)
	}
	return nil
}

// SaveImages stores the accepted uploads in the gallery directory, creating it
// if needed. Failed uploads and non-images are skipped and reported in the
// results. An invalid name or I/O failure aborts the batch; uploads saved
// before it stay saved.
func (s *Storage) SaveImages(directory string, uploads []Upload) ([]UploadResult, error) {
	dir, err := s.paths.Directory(directory)
	if err != nil {
		return nil, err
	}
	if err := s.ensureDirectory(dir); err != nil {
		return nil, err
	}

	results := make([]UploadResult, 0, len(uploads))
	for _, upload := range uploads {
		result := UploadResult{Name: upload.Name()}
		switch {
		case !upload.OK():
			result.Skipped = SkipUploadFailed
		case !upload.IsImage():
			result.Skipped = SkipNotImage
		}
		if !result.Accepted() {
			results = append(results, result)
			continue
		}

		path, err := s.uniqueFileName(dir, upload.Name())
		if err != nil {
			return results, err
		}
		if err := upload.MoveTo(s.fs, path); err != nil {
			return results, fmt.Errorf("failed to save %s: %w", s.paths.PublicPath(path), err)
		}

		result.SavedAs = filepath.Base(path)
		results = append(results, result)
	}
	return results, nil
}

// ensureDirectory creates dir with the configured mode. MkdirAll is subject to
// the process umask, the explicit Chmod is not.
func (s *Storage) ensureDirectory(dir string) error {
	exists, err := afero.DirExists(s.fs, dir)
	if err != nil {
		return fmt.Errorf("failed to stat directory %s: %w", s.paths.PublicPath(dir), err)
	}
	if exists {
		return nil
	}

	if err := s.fs.MkdirAll(dir, s.dirMode); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", s.paths.PublicPath(dir), err)
	}
	if err := s.fs.Chmod(dir, s.dirMode); err != nil {
		return fmt.Errorf("failed to set mode on %s: %w", s.paths.PublicPath(dir), err)
	}
	logger.Log.Debug("gallery directory created", "path", s.paths.PublicPath(dir))
	return nil
}

// uniqueFileName returns dir/name, or dir/stem_N.ext with the smallest N >= 1
// that is free. The thumbnail name always counts as taken, and names in the
// thumbnail temp file pattern lose their leading dot.
// The probe is not atomic: concurrent uploads of the same name may collide.
func (s *Storage) uniqueFileName(dir, name string) (string, error) {
	if err := checkName("image", name); err != nil {
		return "", err
	}
	if isTempFile(name) {
		name = strings.TrimPrefix(name, ".")
	}

	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	candidate := name
	for i := 1; ; i++ {
		path := filepath.Join(dir, candidate)
		taken, err := s.taken(path)
		if err != nil {
			return "", err
		}
		if !taken {
			return path, nil
		}
		candidate = fmt.Sprintf("%s_%d%s", stem, i, ext)
	}
}

func (s *Storage) taken(path string) (bool, error) {
	if filepath.Base(path) == ThumbnailName {
		return true, nil
	}
	exists, err := afero.Exists(s.fs, path)
	if err != nil {
		return false, fmt.Errorf("failed to stat %s: %w", s.paths.PublicPath(path), err)
	}
	return exists, nil
}

// isUserImage excludes the thumbnail and in-flight thumbnail temp files, both
// of which hold JPEG data.
func (s *Storage) isUserImage(path string) bool {
	name := filepath.Base(path)
	return name != ThumbnailName && !isTempFile(name) && s.classifier.IsImage(path)
}
