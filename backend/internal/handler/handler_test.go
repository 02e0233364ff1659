package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/itchan-dev/gallery/backend/internal/service"
	"github.com/itchan-dev/gallery/backend/internal/storage/fs"
	"github.com/itchan-dev/gallery/shared/config"
	"github.com/itchan-dev/gallery/shared/domain"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testRoot = "/srv/www"

type testEnv struct {
	fs      afero.Fs
	handler *Handler
	router  chi.Router
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	fsys := afero.NewMemMapFs()
	require.NoError(t, fsys.MkdirAll(testRoot, 0755))

	storage := fs.New(fsys, fs.Config{Root: testRoot, ImagesDir: "images"}, nil)
	cfg := &config.Config{Public: config.Public{
		Root:               testRoot,
		ImagesDir:          "images",
		MaxUploadSize:      1 << 20,
		MaxTotalUploadSize: 4 << 20,
		JwtTTL:             time.Hour,
	}}
	h := New(service.NewGallery(storage), storage, cfg)

	r := chi.NewRouter()
	r.Get("/v1/galleries/{gallery}", h.GetGallery)
	r.Post("/v1/admin/galleries/{gallery}/images", h.UploadImages)
	r.Delete("/v1/admin/galleries/{gallery}/images/{image}", h.DeleteImage)
	r.Post("/v1/admin/galleries/{gallery}/thumbnail", h.CreateThumbnail)
	r.Delete("/v1/admin/galleries/{gallery}/thumbnail", h.DeleteThumbnail)
	r.Delete("/v1/admin/galleries/{gallery}", h.DeleteGallery)

	return &testEnv{fs: fsys, handler: h, router: r}
}

func (e *testEnv) do(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

func (e *testEnv) writeImage(t *testing.T, gallery, name string, w, h int) {
	t.Helper()
	require.NoError(t, afero.WriteFile(e.fs, testRoot+"/images/"+gallery+"/"+name, pngBytes(t, w, h), 0644))
}

func decodeView(t *testing.T, rr *httptest.ResponseRecorder) domain.GalleryView {
	t.Helper()
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	var view domain.GalleryView
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &view))
	return view
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

type file struct {
	name string
	data []byte
}

func uploadRequest(t *testing.T, url, field string, files ...file) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for _, f := range files {
		fw, err := mw.CreateFormFile(field, f.name)
		require.NoError(t, err)
		_, err = fw.Write(f.data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, url, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestWriteJSON(t *testing.T) {
	tests := []struct {
		name             string
		input            interface{}
		expected         string
		status           int
		checkContentType bool
	}{
		{
			name:             "Valid JSON",
			input:            map[string]string{"message": "hello"},
			expected:         `{"message":"hello"}`,
			status:           http.StatusOK,
			checkContentType: true,
		},
		{
			name:     "Invalid JSON (channel)", // Test for encoding errors
			input:    make(chan int),
			expected: "Internal error",
			status:   http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()

			writeJSON(rr, tt.input)

			assert.Equal(t, tt.status, rr.Code, "handler returned wrong status code")
			if tt.checkContentType {
				assert.Equal(t, "application/json", rr.Header().Get("Content-Type"), "handler returned wrong content type")
			}
			assert.Equal(t, tt.expected+"\n", rr.Body.String(), "handler returned unexpected body")
		})
	}
}

func TestWriteGalleryError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"invalid name", fs.ErrInvalidName, http.StatusBadRequest},
		{"not found", fs.ErrNotFound, http.StatusNotFound},
		{"not an image", fs.ErrNotAnImage, http.StatusUnprocessableEntity},
		{"unknown format", fs.ErrUnknownImageFormat, http.StatusUnprocessableEntity},
		{"not empty", &fs.DirectoryNotEmptyError{PublicPath: "/images/g"}, http.StatusConflict},
		{"anything else", context.DeadlineExceeded, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			writeGalleryError(rr, tt.err)
			assert.Equal(t, tt.status, rr.Code)
		})
	}

	t.Run("conflict names the directory", func(t *testing.T) {
		rr := httptest.NewRecorder()
		writeGalleryError(rr, &fs.DirectoryNotEmptyError{PublicPath: "/images/g"})
		assert.Contains(t, rr.Body.String(), "/images/g")
	})
}
