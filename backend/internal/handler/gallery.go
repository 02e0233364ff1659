package handler

import (
	"net/http"

	"github.com/itchan-dev/gallery/shared/utils"
)

type createThumbnailRequest struct {
	Image string `json:"image" validate:"required"`
}

// GetGallery renders one gallery: its images and its thumbnail.
func (h *Handler) GetGallery(w http.ResponseWriter, r *http.Request) {
	gallery, err := pathParam(r, "gallery")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	h.writeView(w, gallery)
}

// UploadImages saves the files posted under the "images" field. Files that
// are not images or failed to upload are skipped.
func (h *Handler) UploadImages(w http.ResponseWriter, r *http.Request) {
	gallery, err := pathParam(r, "gallery")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	uploads, cleanup, err := h.parseUploads(w, r)
	defer cleanup()
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if err := h.gallery.SaveImages(gallery, uploads); err != nil {
		writeGalleryError(w, err)
		return
	}
	h.writeView(w, gallery)
}

func (h *Handler) DeleteImage(w http.ResponseWriter, r *http.Request) {
	gallery, err := pathParam(r, "gallery")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	image, err := pathParam(r, "image")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if err := h.gallery.DeleteImage(gallery, image); err != nil {
		writeGalleryError(w, err)
		return
	}
	h.writeView(w, gallery)
}

func (h *Handler) CreateThumbnail(w http.ResponseWriter, r *http.Request) {
	gallery, err := pathParam(r, "gallery")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	var body createThumbnailRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if err := h.gallery.CreateThumbnail(gallery, body.Image); err != nil {
		writeGalleryError(w, err)
		return
	}
	h.writeView(w, gallery)
}

func (h *Handler) DeleteThumbnail(w http.ResponseWriter, r *http.Request) {
	gallery, err := pathParam(r, "gallery")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if err := h.gallery.DeleteThumbnail(gallery); err != nil {
		writeGalleryError(w, err)
		return
	}
	h.writeView(w, gallery)
}

// DeleteGallery removes every image and, unless keep_directory=true, the
// gallery directory itself.
func (h *Handler) DeleteGallery(w http.ResponseWriter, r *http.Request) {
	gallery, err := pathParam(r, "gallery")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	keepDirectory, err := parseBoolQuery(r, "keep_directory", false)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if err := h.gallery.DeleteGallery(gallery, !keepDirectory); err != nil {
		writeGalleryError(w, err)
		return
	}
	h.writeView(w, gallery)
}

func (h *Handler) writeView(w http.ResponseWriter, gallery string) {
	view, err := h.gallery.View(gallery)
	if err != nil {
		writeGalleryError(w, err)
		return
	}
	writeJSON(w, view)
}
