package handlers

import (
	"CaseKeeper/internal/blob"
	"CaseKeeper/internal/config"
	"CaseKeeper/internal/middleware"
	"CaseKeeper/internal/service"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type Handler struct {
	Router chi.Router
}

// NewHandler разводящий для хендлеров
func NewHandler(
	caseService *service.CaseService,
	accessService *service.AccessService,
	logger *zap.SugaredLogger,
	config *config.Config,
) *Handler {
	r := chi.NewRouter()
	metrics := middleware.NewMetrics()

	r.Use(metrics.Middleware)
	r.Use(middleware.WithGzip)
	r.Use(middleware.WithLogging)
	r.Use(middleware.WithAuth(config.AuthSecret))

	// Handlers
	authHandler := NewAuthHandler(accessService, logger, config)
	caseHandler := NewCaseHandler(caseService, logger, config)
	uploadHandler := NewUploadHandler(caseService.Images(), logger, config)

	// Auth routes
	r.Post("/api/login", authHandler.Login)
	r.Post("/api/logout", authHandler.Logout)
	r.Get("/api/status", authHandler.Status)

	r.Handle("/metrics", metrics.Handler())

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(accessService.Enabled()))

		r.Get("/api/records", caseHandler.List)
		r.Post("/api/records", caseHandler.Create)
		r.Get("/api/records/{id}", caseHandler.Get)
		r.Put("/api/records/{id}", caseHandler.Update)
		r.Post("/api/records/{id}/diagnoses", caseHandler.AddDiagnosis)
		r.Put("/api/records/{id}/diagnoses/{diagnosisID}", caseHandler.EditDiagnosis)
		r.Get("/api/search", caseHandler.Search)

		r.Post("/api/upload", uploadHandler.Upload)

		if blob.Driver(config.ImageStorage) == blob.DriverFilesystem {
			files := http.FileServer(http.Dir(config.UploadDir))
			r.Handle("/uploads/*", http.StripPrefix("/uploads/", files))
		}
	})

	return &Handler{Router: r}
}
