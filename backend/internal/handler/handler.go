package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/itchan-dev/gallery/backend/internal/service"
	"github.com/itchan-dev/gallery/shared/config"
	"github.com/itchan-dev/gallery/shared/logger"
)

// HealthChecker reports whether the backing store can serve requests.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	gallery service.GalleryService
	health  HealthChecker
	cfg     *config.Config
}

func New(gallery service.GalleryService, health HealthChecker, cfg *config.Config) *Handler {
	return &Handler{gallery: gallery, health: health, cfg: cfg}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		logger.Log.Error("failed to encode response", "error", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
