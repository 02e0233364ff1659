package fs

import (
	"errors"
	"fmt"
)

// ErrBadRequest groups the errors caused by caller input: a malformed name or
// a reference to something that is missing or not an image. Callers driven by
// user actions may treat all of them as no-ops.
var ErrBadRequest = errors.New("bad request")

var (
	ErrInvalidName = fmt.Errorf("%w: invalid name", ErrBadRequest)
	ErrNotFound    = fmt.Errorf("%w: not found", ErrBadRequest)
	ErrNotAnImage  = fmt.Errorf("%w: not an image", ErrBadRequest)
)

var (
	ErrUnknownImageFormat = errors.New("unknown image format")
	ErrImageProcessing    = errors.New("image processing failed")
	ErrDirectoryNotEmpty  = errors.New("directory not empty")
)

// DirectoryNotEmptyError is returned when a gallery directory cannot be
// removed because something other than user images remains in it.
type DirectoryNotEmptyError struct {
	PublicPath string
}

func (e *DirectoryNotEmptyError) Error() string {
	return fmt.Sprintf("directory %s is not empty", e.PublicPath)
}

func (e *DirectoryNotEmptyError) Is(target error) bool {
	return target == ErrDirectoryNotEmpty
}

// missingDirectoryError reports a gallery directory that does not exist where
// one is required. It is both an invalid name and a not-found condition.
type missingDirectoryError struct {
	publicPath string
}

func (e *missingDirectoryError) Error() string {
	return fmt.Sprintf("directory %s does not exist", e.publicPath)
}

func (e *missingDirectoryError) Is(target error) bool {
	return target == ErrInvalidName || target == ErrNotFound || target == ErrBadRequest
}
