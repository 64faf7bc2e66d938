package serverhttp

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"invoice-recon/internal/catalog"
	"invoice-recon/internal/config"
	invHnd "invoice-recon/internal/invoice/handler"
	"invoice-recon/internal/middleware"
	"invoice-recon/internal/ocr"
	"invoice-recon/server/http/handlers"
)

func NewRouter(cfg config.Config, logger zerolog.Logger) *chi.Mux {
	r := chi.NewRouter()

	// порядок важен: recover -> requestID -> logging -> cors -> limit
	r.Use(middleware.Recover(logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS(cfg.AllowOrigins))
	r.Use(middleware.LimitBytes(int64(cfg.MaxUploadMB) * 1024 * 1024))

	store := catalog.NewStore()
	ocrClient := ocr.NewClient(cfg.OCRURL, cfg.OCRAPIKey, time.Duration(cfg.OCRTimeoutSec)*time.Second, logger)

	// health-check
	r.Get("/health", handlers.Health)

	// каталоги поставщиков
	r.Post("/catalog/{supplier}", invHnd.UploadCatalog(cfg, logger, store))
	r.Get("/catalog/{supplier}", invHnd.ListCatalog(logger, store))

	// сопоставление и выгрузка
	r.Post("/match", invHnd.Match(cfg, logger, store))
	r.Post("/reconcile", invHnd.Reconcile(cfg, logger, store))
	r.Post("/invoices/extract", invHnd.Extract(cfg, logger, ocrClient))
	r.Post("/export", invHnd.Export(logger))

	return r
}
