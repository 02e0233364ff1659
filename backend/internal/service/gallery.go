package service

import (
	"errors"

	"github.com/itchan-dev/gallery/backend/internal/storage/fs"
	"github.com/itchan-dev/gallery/shared/domain"
	"github.com/itchan-dev/gallery/shared/logger"
)

const (
	opDeleteImage     = "delete_image"
	opCreateThumbnail = "create_thumbnail"
	opDeleteThumbnail = "delete_thumbnail"
	opSaveImages      = "save_images"
	opDeleteGallery   = "delete_gallery"
)

// to mock service in tests
type GalleryService interface {
	View(gallery string) (*domain.GalleryView, error)
	DeleteImage(gallery, image string) error
	CreateThumbnail(gallery, image string) error
	DeleteThumbnail(gallery string) error
	SaveImages(gallery string, uploads []fs.Upload) error
	DeleteGallery(gallery string, deleteDirectory bool) error
}

// Gallery drives one gallery from user actions. Actions caused by bad input
// (a stale image name, a non-image, an undecodable file) are logged and
// ignored so the caller simply re-renders the view.
type Gallery struct {
	storage ImageStorage
}

func NewGallery(storage ImageStorage) GalleryService {
	return &Gallery{storage: storage}
}

func (g *Gallery) View(gallery string) (*domain.GalleryView, error) {
	images, err := g.storage.ListImages(gallery)
	if err != nil {
		return nil, err
	}
	thumbnail, err := g.storage.Thumbnail(gallery)
	if err != nil {
		return nil, err
	}
	return &domain.GalleryView{Gallery: gallery, Images: images, Thumbnail: thumbnail}, nil
}

func (g *Gallery) DeleteImage(gallery, image string) error {
	err := g.storage.DeleteImage(gallery, image)
	return g.settle(opDeleteImage, err, []any{"gallery", gallery, "image", image}, fs.ErrBadRequest)
}

func (g *Gallery) CreateThumbnail(gallery, image string) error {
	err := g.storage.CreateThumbnail(gallery, image)
	return g.settle(opCreateThumbnail, err, []any{"gallery", gallery, "image", image},
		fs.ErrBadRequest, fs.ErrUnknownImageFormat, fs.ErrImageProcessing)
}

func (g *Gallery) DeleteThumbnail(gallery string) error {
	err := g.storage.DeleteThumbnail(gallery)
	return g.settle(opDeleteThumbnail, err, []any{"gallery", gallery}, fs.ErrBadRequest)
}

// SaveImages stores what it can. Skipped uploads are logged and counted, they
// never fail the batch.
func (g *Gallery) SaveImages(gallery string, uploads []fs.Upload) error {
	results, err := g.storage.SaveImages(gallery, uploads)
	for _, r := range results {
		if r.Accepted() {
			galleryUploadsTotal.WithLabelValues("saved").Inc()
			logger.Log.Info("image uploaded", "gallery", gallery, "file", r.Name, "saved_as", r.SavedAs)
			continue
		}
		galleryUploadsTotal.WithLabelValues(string(r.Skipped)).Inc()
		logger.Log.Info("upload skipped", "gallery", gallery, "file", r.Name, "reason", r.Skipped)
	}
	return g.settle(opSaveImages, err, []any{"gallery", gallery, "uploads", len(uploads)}, fs.ErrBadRequest)
}

// DeleteGallery is an administrative action, every failure reaches the caller.
func (g *Gallery) DeleteGallery(gallery string, deleteDirectory bool) error {
	err := g.storage.DeleteAllImages(gallery, deleteDirectory)
	return g.settle(opDeleteGallery, err, []any{"gallery", gallery, "delete_directory", deleteDirectory})
}

// settle records the outcome of operation and swallows err when it matches
// one of ignorable.
func (g *Gallery) settle(operation string, err error, attrs []any, ignorable ...error) error {
	if err == nil {
		galleryOperationsTotal.WithLabelValues(operation, resultOK).Inc()
		logger.Log.Debug("gallery operation done", append([]any{"operation", operation}, attrs...)...)
		return nil
	}

	attrs = append([]any{"operation", operation, "error", err}, attrs...)
	for _, target := range ignorable {
		if errors.Is(err, target) {
			galleryOperationsTotal.WithLabelValues(operation, resultIgnored).Inc()
			logger.Log.Warn("gallery operation ignored", attrs...)
			return nil
		}
	}

	galleryOperationsTotal.WithLabelValues(operation, resultError).Inc()
	logger.Log.Error("gallery operation failed", attrs...)
	return err
}
