package setup

import (
	"context"
	"io/fs"
	"time"

	"github.com/itchan-dev/gallery/backend/internal/handler"
	"github.com/itchan-dev/gallery/backend/internal/service"
	storagefs "github.com/itchan-dev/gallery/backend/internal/storage/fs"
	"github.com/itchan-dev/gallery/shared/config"
	"github.com/itchan-dev/gallery/shared/jwt"
	"github.com/itchan-dev/gallery/shared/logger"
	mw "github.com/itchan-dev/gallery/shared/middleware"
	"github.com/itchan-dev/gallery/shared/middleware/ratelimiter"
	"github.com/spf13/afero"
)

// Dependencies struct to hold all initialized dependencies.
type Dependencies struct {
	Config         *config.Config
	Fs             afero.Fs
	Storage        *storagefs.Storage
	Handler        *handler.Handler
	Jwt            jwt.JwtService
	AuthMiddleware *mw.Auth
	PublicLimiter  *ratelimiter.KeyedLimiter // keyed by client IP
	AdminLimiter   *ratelimiter.KeyedLimiter // keyed by token subject
	TempCollector  *service.TempFileCollector
}

// SetupDependencies initializes all dependencies required for the application.
// fsys is the filesystem the image root lives on, afero.NewOsFs() in production.
func SetupDependencies(cfg *config.Config, fsys afero.Fs) (*Dependencies, error) {
	storage := storagefs.New(fsys, storagefs.Config{
		Root:          cfg.Public.Root,
		ImagesDir:     cfg.Public.ImagesDir,
		DirectoryMode: fs.FileMode(cfg.Public.DirectoryMode),
		Thumbnail: storagefs.ThumbnailOptions{
			Width:          cfg.Public.Thumbnail.Width,
			Height:         cfg.Public.Thumbnail.Height,
			Quality:        cfg.Public.Thumbnail.Quality,
			MaxDecodedSize: cfg.Public.MaxDecodedImageSize,
		},
	}, nil)

	if err := storage.Ping(context.Background()); err != nil {
		// Not fatal: /ready reports it until the root shows up.
		logger.Log.Warn("image root is not reachable yet", "root", cfg.Public.Root, "error", err)
	}

	jwtService := jwt.New(cfg.JwtKey(), cfg.JwtTTL())
	gallery := service.NewGallery(storage)
	h := handler.New(gallery, storage, cfg)
	limits := cfg.Public.RateLimit

	return &Dependencies{
		Config:         cfg,
		Fs:             fsys,
		Storage:        storage,
		Handler:        h,
		Jwt:            jwtService,
		AuthMiddleware: mw.NewAuth(jwtService, cfg.Public.SecureCookies),
		PublicLimiter:  ratelimiter.New(limits.PublicRPS, limits.PublicBurst, time.Hour),
		AdminLimiter:   ratelimiter.New(limits.AdminRPS, limits.AdminBurst, time.Hour),
		TempCollector:  service.NewTempFileCollector(storage, cfg.Public.Cleanup.TempFileAge),
	}, nil
}
