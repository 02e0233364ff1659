package fs

import "github.com/spf13/afero"

// Upload is a pending uploaded file as handed over by the transport layer.
type Upload interface {
	// Name is the client supplied file name.
	Name() string
	// OK is false when the upload itself failed (truncated, empty, too large).
	OK() bool
	// IsImage sniffs the uploaded content.
	IsImage() bool
	// MoveTo places the uploaded data at path on fsys.
	MoveTo(fsys afero.Fs, path string) error
}

type SkipReason string

const (
	SkipUploadFailed SkipReason = "upload failed"
	SkipNotImage     SkipReason = "not an image"
)

// UploadResult records what SaveImages did with one upload.
type UploadResult struct {
	Name    string
	SavedAs string     // final file name inside the gallery, empty when skipped
	Skipped SkipReason // empty when accepted
}

func (r UploadResult) Accepted() bool {
	return r.Skipped == ""
}
