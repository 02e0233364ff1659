package router

import (
	"net/http"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/afero"

	"github.com/itchan-dev/gallery/backend/internal/setup"
	mw "github.com/itchan-dev/gallery/shared/middleware"
	"github.com/itchan-dev/gallery/shared/middleware/metrics"
)

// New creates and configures a new chi router with all the routes.
func New(deps *setup.Dependencies) chi.Router {
	r := chi.NewRouter()
	cfg := deps.Config.Public

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware)

	// setup CORS for frontend
	allowedOrigins := cfg.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:8081"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	h := deps.Handler
	authMw := deps.AuthMiddleware

	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)
	r.Handle("/metrics", promhttp.Handler())

	// Images are served as files, public paths map 1:1 onto the store root.
	imagesPrefix := path.Join("/", cfg.ImagesDir)
	r.Handle(imagesPrefix+"/*", mw.StaticFileHeaders(staticFiles(deps.Fs, deps.Storage.Paths().Root())))

	r.Route("/v1", func(r chi.Router) {
		// Backend CSP: strict policy (JSON API only, no scripts/styles needed)
		r.Use(mw.SecurityHeadersWithCSP(cfg.SecureCookies, "default-src 'none'; frame-ancestors 'none'"))
		r.Use(middleware.Compress(5, "application/json"))

		r.With(mw.RateLimit(deps.PublicLimiter, mw.GetIP)).Get("/galleries/{gallery}", h.GetGallery)

		r.Route("/admin/galleries/{gallery}", func(r chi.Router) {
			r.Use(authMw.AdminOnly())
			r.Use(mw.RateLimit(deps.AdminLimiter, mw.GetSubjectFromContext))
			r.Delete("/", h.DeleteGallery)
			r.Post("/images", h.UploadImages)
			r.Delete("/images/{image}", h.DeleteImage)
			r.Post("/thumbnail", h.CreateThumbnail)
			r.Delete("/thumbnail", h.DeleteThumbnail)
		})
	})

	return r
}

// staticFiles serves files below root. Directory listings are refused.
func staticFiles(fsys afero.Fs, root string) http.Handler {
	httpFs := afero.NewHttpFs(afero.NewReadOnlyFs(afero.NewBasePathFs(fsys, root)))
	fileServer := http.FileServer(httpFs.Dir("/"))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		fileServer.ServeHTTP(w, r)
	})
}
