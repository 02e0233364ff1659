// Package imagetype decides whether content is an image by sniffing its
// signature. File names and extensions are never consulted.
package imagetype

import (
	"errors"
	"fmt"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/afero"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrNotImage is returned by Detect when the content is not a supported image.
var ErrNotImage = errors.New("not a supported image")

// Supported maps every accepted MIME type to the image.Decode format name
// registered for it. Only formats we can also decode are accepted, so a file
// that classifies as an image can always be thumbnailed.
var Supported = map[string]string{
	"image/jpeg": "jpeg",
	"image/png":  "png",
	"image/gif":  "gif",
	"image/webp": "webp",
	"image/bmp":  "bmp",
	"image/tiff": "tiff",
}

// Detect reads the header of r and returns the detected image MIME type.
func Detect(r io.Reader) (string, error) {
	mime, err := mimetype.DetectReader(r)
	if err != nil {
		return "", fmt.Errorf("failed to read content: %w", err)
	}
	for m := mime; m != nil; m = m.Parent() {
		if _, ok := Supported[m.String()]; ok {
			return m.String(), nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrNotImage, mime.String())
}

// Classifier reports whether the file at path is a genuine image.
type Classifier interface {
	IsImage(path string) bool
}

// ClassifierFunc adapts a plain function to Classifier.
type ClassifierFunc func(path string) bool

func (f ClassifierFunc) IsImage(path string) bool { return f(path) }

// ContentClassifier sniffs files on an afero filesystem.
type ContentClassifier struct {
	fs afero.Fs
}

var _ Classifier = (*ContentClassifier)(nil)

func NewContentClassifier(fsys afero.Fs) *ContentClassifier {
	return &ContentClassifier{fs: fsys}
}

// IsImage never fails: a missing file, a directory or unreadable content are
// all simply "not an image".
func (c *ContentClassifier) IsImage(path string) bool {
	info, err := c.fs.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return false
	}

	f, err := c.fs.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	_, err = Detect(f)
	return err == nil
}
