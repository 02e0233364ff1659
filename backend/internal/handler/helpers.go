package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/itchan-dev/gallery/backend/internal/storage/fs"
	internal_errors "github.com/itchan-dev/gallery/shared/errors"
	"github.com/itchan-dev/gallery/shared/utils"
	"github.com/itchan-dev/gallery/shared/validation"
)

const uploadField = "images"

// pathParam returns the unescaped URL parameter so that encoded separators
// and dots reach the store's name checks.
func pathParam(r *http.Request, name string) (string, error) {
	value, err := url.PathUnescape(chi.URLParam(r, name))
	if err != nil {
		return "", &internal_errors.ErrorWithStatusCode{
			Message:    fmt.Sprintf("invalid %s: bad escaping", name),
			StatusCode: http.StatusBadRequest,
			Err:        err,
		}
	}
	return value, nil
}

// parseBoolQuery parses an optional boolean query parameter.
func parseBoolQuery(r *http.Request, name string, fallback bool) (bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	val, err := strconv.ParseBool(raw)
	if err != nil {
		return false, &internal_errors.ErrorWithStatusCode{
			Message:    fmt.Sprintf("invalid %s: must be a boolean", name),
			StatusCode: http.StatusBadRequest,
		}
	}
	return val, nil
}

// parseUploads reads the multipart body and wraps its files for the store.
// The caller must call cleanup once the uploads are saved.
func (h *Handler) parseUploads(w http.ResponseWriter, r *http.Request) (uploads []fs.Upload, cleanup func(), err error) {
	cleanup = func() {}

	maxRequestSize := validation.CalculateMaxRequestSize(h.cfg.Public.MaxTotalUploadSize, 1<<20)
	if err = validation.ValidateAndParseMultipart(r, w, maxRequestSize); err != nil {
		if errors.Is(err, validation.ErrNotMultipart) {
			err = internal_errors.WithStatus(err, http.StatusBadRequest)
			return
		}
		maxSizeMB := validation.FormatSizeMB(h.cfg.Public.MaxTotalUploadSize)
		err = internal_errors.WithStatus(
			fmt.Errorf("%w: total upload size exceeds the limit of %.0f MB", validation.ErrPayloadTooLarge, maxSizeMB),
			http.StatusRequestEntityTooLarge)
		return
	}
	cleanup = func() { r.MultipartForm.RemoveAll() }

	headers, err := validation.FileHeaders(r, uploadField)
	if err != nil {
		err = internal_errors.WithStatus(err, http.StatusBadRequest)
		return
	}

	for _, upload := range validation.NewUploads(headers, h.cfg.Public.MaxUploadSize) {
		uploads = append(uploads, upload)
	}
	return
}

// writeGalleryError maps store errors to HTTP statuses. Anything unknown is a 500.
func writeGalleryError(w http.ResponseWriter, err error) {
	var code int
	switch {
	case errors.Is(err, fs.ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, fs.ErrNotAnImage), errors.Is(err, fs.ErrUnknownImageFormat):
		code = http.StatusUnprocessableEntity
	case errors.Is(err, fs.ErrBadRequest):
		code = http.StatusBadRequest
	case errors.Is(err, fs.ErrDirectoryNotEmpty):
		code = http.StatusConflict
	default:
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteErrorAndStatusCode(w, internal_errors.WithStatus(err, code))
}
