package handler

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoice-recon/internal/catalog"
	"invoice-recon/internal/config"
	"invoice-recon/internal/invoice/model"
	"invoice-recon/internal/match"
	"invoice-recon/internal/ocr"
)

func testConfig() config.Config {
	return config.Config{MaxUploadMB: 16, MatchThreshold: match.DefaultThreshold}
}

func newTestRouter(t *testing.T, store *catalog.Store) *chi.Mux {
	t.Helper()
	cfg := testConfig()
	logger := zerolog.Nop()

	r := chi.NewRouter()
	r.Post("/catalog/{supplier}", UploadCatalog(cfg, logger, store))
	r.Get("/catalog/{supplier}", ListCatalog(logger, store))
	r.Post("/match", Match(cfg, logger, store))
	r.Post("/reconcile", Reconcile(cfg, logger, store))
	r.Post("/export", Export(logger))
	return r
}

func uploadCSV(t *testing.T, r http.Handler, supplier, csv string) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "catalog.csv")
	require.NoError(t, err)
	_, err = fw.Write([]byte(csv))
	require.NoError(t, err)
	require.NoError(t, mw.WriteField("code_col", "code"))
	require.NoError(t, mw.WriteField("name_col", "name"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/catalog/"+supplier, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

const testCSV = "code,name\nP001,Delicious Apples\nP002,Fresh Bananas\n"

func TestUploadAndListCatalog(t *testing.T) {
	store := catalog.NewStore()
	r := newTestRouter(t, store)

	rec := uploadCSV(t, r, "acme", testCSV)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	products, ok := store.Products("acme")
	require.True(t, ok)
	require.Len(t, products, 2)
	assert.Equal(t, "Delicious Apples", products[0].Name)

	req := httptest.NewRequest(http.MethodGet, "/catalog/acme", nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "P002")

	req = httptest.NewRequest(http.MethodGet, "/catalog/nobody", nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMatchEndpoint(t *testing.T) {
	store := catalog.NewStore()
	r := newTestRouter(t, store)
	require.Equal(t, http.StatusOK, uploadCSV(t, r, "acme", testCSV).Code)

	body := `{"supplier":"acme","query":"Delicius Apples"}`
	req := httptest.NewRequest(http.MethodPost, "/match", strings.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp matchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Match)
	assert.Equal(t, "P001", resp.Match.Code)
	require.NotNil(t, resp.Score)
	assert.Greater(t, *resp.Score, 0.5)
}

func TestMatchEndpointNoMatch(t *testing.T) {
	store := catalog.NewStore()
	r := newTestRouter(t, store)
	require.Equal(t, http.StatusOK, uploadCSV(t, r, "acme", testCSV).Code)

	body := `{"supplier":"acme","query":"Random String"}`
	req := httptest.NewRequest(http.MethodPost, "/match", strings.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	// отсутствие совпадения — штатный ответ, не ошибка
	require.Equal(t, http.StatusOK, rec.Code)
	var resp matchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Nil(t, resp.Match)
}

func TestReconcileEndpoint(t *testing.T) {
	store := catalog.NewStore()
	r := newTestRouter(t, store)
	require.Equal(t, http.StatusOK, uploadCSV(t, r, "acme", testCSV).Code)

	body := `{"supplier":"acme","items":[
		{"description":"Delicius Apples","quantity":3,"unitPrice":10.5},
		{"description":"unknown stuff","quantity":1}
	]}`
	req := httptest.NewRequest(http.MethodPost, "/reconcile", strings.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var res model.ReviewResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, 1, res.Matched)
	assert.Equal(t, 1, res.Unmatched)
	require.Len(t, res.Rows, 2)
	assert.Equal(t, model.MethodFuzzy, res.Rows[0].Method)
	assert.Equal(t, model.MethodNone, res.Rows[1].Method)
}

func TestReconcileUnknownSupplier(t *testing.T) {
	store := catalog.NewStore()
	r := newTestRouter(t, store)

	body := `{"supplier":"ghost","items":[]}`
	req := httptest.NewRequest(http.MethodPost, "/reconcile", strings.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestExportEndpoint(t *testing.T) {
	store := catalog.NewStore()
	r := newTestRouter(t, store)

	score := 0.9375
	res := model.ReviewResult{
		Supplier: "acme",
		Rows: []model.ReviewRow{
			{
				Line:    model.LineItem{Description: "Delicius Apples", Quantity: 3},
				Method:  model.MethodFuzzy,
				Product: &catalog.Product{Code: "P001", Name: "Delicious Apples"},
				Score:   &score,
			},
		},
		Matched: 1,
	}
	b, err := json.Marshal(res)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/export", bytes.NewReader(b))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, rec.Body.String(), "P001")
	assert.Contains(t, rec.Body.String(), "0.9375")
}

func TestExtractEndpoint(t *testing.T) {
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/extract", r.URL.Path)
		_, _ = w.Write([]byte("```json\n[{\"description\":\"Delicious Apples\",\"quantity\":3}]\n```"))
	}))
	defer provider.Close()

	cfg := testConfig()
	client := ocr.NewClient(provider.URL, "", 5*time.Second, zerolog.Nop())

	r := chi.NewRouter()
	r.Post("/invoices/extract", Extract(cfg, zerolog.Nop(), client))

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "invoice.jpg")
	require.NoError(t, err)
	_, err = fw.Write([]byte("fake image bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/invoices/extract", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "Delicious Apples")
}

func TestExtractEndpointProviderError(t *testing.T) {
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer provider.Close()

	client := ocr.NewClient(provider.URL, "", 5*time.Second, zerolog.Nop())
	r := chi.NewRouter()
	r.Post("/invoices/extract", Extract(testConfig(), zerolog.Nop(), client))

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "invoice.jpg")
	require.NoError(t, err)
	_, _ = fw.Write([]byte("x"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/invoices/extract", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}
