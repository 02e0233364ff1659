package validation

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"

	"github.com/itchan-dev/gallery/shared/imagetype"
	"github.com/itchan-dev/gallery/shared/logger"
	"github.com/spf13/afero"
)

// FileUpload adapts one multipart file to the gallery store's upload contract.
type FileUpload struct {
	header  *multipart.FileHeader
	maxSize int64

	sniffed bool
	image   bool
}

// NewUploads wraps every header. Files larger than maxFileSize report !OK();
// a non-positive maxFileSize disables the limit.
func NewUploads(headers []*multipart.FileHeader, maxFileSize int64) []*FileUpload {
	uploads := make([]*FileUpload, 0, len(headers))
	for _, h := range headers {
		uploads = append(uploads, &FileUpload{header: h, maxSize: maxFileSize})
	}
	return uploads
}

func (u *FileUpload) Name() string {
	return u.header.Filename
}

func (u *FileUpload) Size() int64 {
	return u.header.Size
}

// OK reports whether the upload arrived intact and within limits.
func (u *FileUpload) OK() bool {
	if u.header.Size <= 0 {
		return false
	}
	if u.maxSize > 0 && u.header.Size > u.maxSize {
		return false
	}
	f, err := u.header.Open()
	if err != nil {
		return false
	}
	f.Close()
	return true
}

// IsImage sniffs the content once and caches the answer.
func (u *FileUpload) IsImage() bool {
	if u.sniffed {
		return u.image
	}
	u.sniffed = true

	f, err := u.header.Open()
	if err != nil {
		return false
	}
	defer f.Close()

	mime, err := imagetype.Detect(f)
	if err != nil {
		logger.Log.Debug("upload rejected by content sniffing", "file", u.header.Filename, "error", err)
		return false
	}
	logger.Log.Debug("upload sniffed", "file", u.header.Filename, "mime", mime)
	u.image = true
	return true
}

// MoveTo copies the upload to path on fsys, replacing any file there.
// A partially written file is removed.
func (u *FileUpload) MoveTo(fsys afero.Fs, path string) error {
	src, err := u.header.Open()
	if err != nil {
		return fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	dst, err := fsys.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0666)
	if err != nil {
		return fmt.Errorf("failed to create destination file: %w", err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		fsys.Remove(path) // Best effort
		return fmt.Errorf("failed to copy file data: %w", err)
	}
	if err := dst.Close(); err != nil {
		fsys.Remove(path) // Best effort
		return fmt.Errorf("failed to close destination file: %w", err)
	}
	return nil
}
