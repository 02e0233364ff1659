package validation

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
)

// ValidateAndParseMultipart caps the request body at maxSize and parses the
// multipart form. Exceeding the limit makes the server stop reading and close
// the connection, which browsers report as a connection reset.
func ValidateAndParseMultipart(r *http.Request, w http.ResponseWriter, maxSize int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			return ErrNotMultipart
		}
		return fmt.Errorf("%w: failed to parse multipart form", ErrPayloadTooLarge)
	}

	return nil
}

// FileHeaders returns the files posted under field, failing with ErrNoFiles
// when there are none. The form must already be parsed.
func FileHeaders(r *http.Request, field string) ([]*multipart.FileHeader, error) {
	if r.MultipartForm == nil || len(r.MultipartForm.File[field]) == 0 {
		return nil, fmt.Errorf("%w: expected files in field %q", ErrNoFiles, field)
	}
	return r.MultipartForm.File[field], nil
}

// CalculateMaxRequestSize returns the maximum request size including overhead buffer.
// It adds a buffer (typically 1 MiB) for form fields and multipart overhead.
func CalculateMaxRequestSize(maxUploadSize int64, bufferSize int64) int64 {
	return maxUploadSize + bufferSize
}

// FormatSizeMB converts bytes to megabytes for user-friendly error messages.
func FormatSizeMB(bytes int64) float64 {
	return float64(bytes) / (1024 * 1024)
}
