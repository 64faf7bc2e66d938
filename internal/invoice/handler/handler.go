package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"invoice-recon/internal/catalog"
	"invoice-recon/internal/config"
	"invoice-recon/internal/fileio"
	"invoice-recon/internal/invoice/model"
	invSvc "invoice-recon/internal/invoice/service"
	"invoice-recon/internal/ocr"
)

// UploadCatalog — загрузка/замена каталога поставщика из CSV/XLS/XLSX.
// Колонки задаются формой (code_col/name_col, с альтернативами через "|").
func UploadCatalog(cfg config.Config, logger zerolog.Logger, store *catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log := reqLogger(logger, r)

		supplier := chi.URLParam(r, "supplier")
		if supplier == "" {
			http.Error(w, "missing supplier", http.StatusBadRequest)
			return
		}

		defer r.Body.Close()
		if err := r.ParseMultipartForm(int64(cfg.MaxUploadMB) << 20); err != nil {
			http.Error(w, "bad multipart form: "+err.Error(), http.StatusBadRequest)
			return
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			http.Error(w, "missing file: "+err.Error(), http.StatusBadRequest)
			return
		}
		defer file.Close()

		rows, err := fileio.ReadTable(file, header.Filename, atoi(r.FormValue("header_row"), 1))
		if err != nil {
			http.Error(w, "failed to read table: "+err.Error(), http.StatusBadRequest)
			return
		}

		m := catalog.Mapping{
			CodeKey:   formValue(r, "code_col", "Артикул|Код|code|sku"),
			NameKey:   formValue(r, "name_col", "Наименование|Номенклатура|name"),
			HeaderRow: atoi(r.FormValue("header_row"), 1),
		}
		products := catalog.FromMaps(rows, m)
		if len(products) == 0 {
			http.Error(w, "no products found in table", http.StatusBadRequest)
			return
		}
		store.Replace(supplier, products)

		log.Info().
			Str("supplier", supplier).
			Str("file", header.Filename).
			Int("products", len(products)).
			Dur("elapsed", time.Since(start)).
			Msg("catalog loaded")

		writeJSON(w, log, map[string]any{"supplier": supplier, "products": len(products)})
	}
}

// ListCatalog — просмотр загруженного каталога.
func ListCatalog(logger zerolog.Logger, store *catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := reqLogger(logger, r)
		supplier := chi.URLParam(r, "supplier")
		products, ok := store.Products(supplier)
		if !ok {
			http.Error(w, "unknown supplier: "+supplier, http.StatusNotFound)
			return
		}
		writeJSON(w, log, map[string]any{"supplier": supplier, "products": products})
	}
}

type matchRequest struct {
	Supplier  string   `json:"supplier"`
	Query     string   `json:"query"`
	Threshold *float64 `json:"threshold,omitempty"`
}

type matchResponse struct {
	Match *catalog.Product `json:"match"`
	Score *float64         `json:"score,omitempty"`
}

// Match — одиночный запрос "свободный текст → товар каталога".
// Отсутствие совпадения — штатный ответ с match:null, не ошибка.
func Match(cfg config.Config, logger zerolog.Logger, store *catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := reqLogger(logger, r)
		defer r.Body.Close()

		var req matchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request: "+err.Error(), http.StatusBadRequest)
			return
		}
		products, ok := store.Products(req.Supplier)
		if !ok {
			http.Error(w, "unknown supplier: "+req.Supplier, http.StatusNotFound)
			return
		}

		threshold := cfg.MatchThreshold
		if req.Threshold != nil {
			threshold = *req.Threshold
		}

		var resp matchResponse
		if m, found := invSvc.BestMatch(req.Query, products, threshold); found {
			p := m.Candidate
			s := m.Score
			resp = matchResponse{Match: &p, Score: &s}
		}
		writeJSON(w, log, resp)
	}
}

type reconcileRequest struct {
	Supplier  string           `json:"supplier"`
	Items     []model.LineItem `json:"items"`
	Threshold *float64         `json:"threshold,omitempty"`
}

// Reconcile — привязка всех позиций счета к каталогу поставщика.
func Reconcile(cfg config.Config, logger zerolog.Logger, store *catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log := reqLogger(logger, r)
		defer r.Body.Close()

		var req reconcileRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request: "+err.Error(), http.StatusBadRequest)
			return
		}
		products, ok := store.Products(req.Supplier)
		if !ok {
			http.Error(w, "unknown supplier: "+req.Supplier, http.StatusNotFound)
			return
		}

		opt := model.Options{Threshold: cfg.MatchThreshold}
		if req.Threshold != nil {
			opt.Threshold = *req.Threshold
		}

		res := invSvc.Reconcile(req.Supplier, req.Items, products, opt)

		log.Info().
			Str("supplier", req.Supplier).
			Int("items", len(req.Items)).
			Int("matched", res.Matched).
			Int("unmatched", res.Unmatched).
			Dur("elapsed", time.Since(start)).
			Msg("reconcile done")

		writeJSON(w, log, res)
	}
}

// Extract — проксирование скана счета OCR-провайдеру.
func Extract(cfg config.Config, logger zerolog.Logger, client *ocr.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := reqLogger(logger, r)
		defer r.Body.Close()

		if err := r.ParseMultipartForm(int64(cfg.MaxUploadMB) << 20); err != nil {
			http.Error(w, "bad multipart form: "+err.Error(), http.StatusBadRequest)
			return
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			http.Error(w, "missing file: "+err.Error(), http.StatusBadRequest)
			return
		}
		defer file.Close()

		items, err := client.ExtractLines(r.Context(), header.Filename, file)
		if err != nil {
			log.Error().Err(err).Str("file", header.Filename).Msg("ocr extract")
			http.Error(w, "ocr extraction failed: "+err.Error(), http.StatusBadGateway)
			return
		}
		writeJSON(w, log, map[string]any{"items": items})
	}
}

// Export — выгрузка проверенного результата в CSV.
func Export(logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := reqLogger(logger, r)
		defer r.Body.Close()

		var res model.ReviewResult
		if err := json.NewDecoder(r.Body).Decode(&res); err != nil {
			http.Error(w, "bad request: "+err.Error(), http.StatusBadRequest)
			return
		}

		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="reconciled.csv"`)
		if err := invSvc.WriteCSV(w, res); err != nil {
			log.Error().Err(err).Msg("write csv")
		}
	}
}
