package service

import (
	"github.com/itchan-dev/gallery/backend/internal/storage/fs"
	"github.com/itchan-dev/gallery/shared/domain"
)

type ImageStorage interface {
	// ListImages returns the gallery's user images sorted by name.
	// A gallery without a directory is empty.
	ListImages(gallery string) ([]domain.ImageRef, error)

	// Thumbnail returns the gallery thumbnail or nil.
	Thumbnail(gallery string) (*domain.ImageRef, error)

	// DeleteImage removes one user image.
	DeleteImage(gallery, image string) error

	// DeleteAllImages removes every user image and optionally the directory.
	DeleteAllImages(gallery string, deleteDirectory bool) error

	// CreateThumbnail (re)builds thumb.jpg from one image.
	CreateThumbnail(gallery, image string) error

	// DeleteThumbnail removes thumb.jpg if present.
	DeleteThumbnail(gallery string) error

	// SaveImages stores accepted uploads under unique names.
	SaveImages(gallery string, uploads []fs.Upload) ([]fs.UploadResult, error)
}

// Ensure Storage struct implements the interface at compile time.
var _ ImageStorage = (*fs.Storage)(nil)
