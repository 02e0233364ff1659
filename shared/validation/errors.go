package validation

import "errors"

// ErrPayloadTooLarge is returned when the request body exceeds size limits
var ErrPayloadTooLarge = errors.New("payload too large")

// ErrNoFiles is returned when a multipart request carries no files in the expected field
var ErrNoFiles = errors.New("no files uploaded")

// ErrNotMultipart is returned when the request body is not multipart/form-data
var ErrNotMultipart = errors.New("request is not multipart/form-data")
