// Прокси к внешнему OCR/LLM-провайдеру: отправляем скан счета,
// получаем построчные позиции. Сам провайдер — чёрный ящик за HTTP.
package ocr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
)

// LineItem — одна позиция счета, как её извлекла модель.
type LineItem struct {
	Description string  `json:"description"`
	Code        string  `json:"code,omitempty"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
}

// ProviderError — неуспешный ответ провайдера (не транзиент: без ретраев).
type ProviderError struct {
	Status int
	Body   string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("ocr provider: status %d: %s", e.Status, e.Body)
}

type Client struct {
	httpc   *http.Client
	baseURL string
	apiKey  string
	log     zerolog.Logger
}

func NewClient(baseURL, apiKey string, timeout time.Duration, log zerolog.Logger) *Client {
	return &Client{
		httpc:   &http.Client{Timeout: timeout},
		baseURL: baseURL,
		apiKey:  apiKey,
		log:     log,
	}
}

// ExtractLines отправляет файл счета провайдеру и разбирает ответ модели.
// Битый JSON в ответе чинится RepairJSON перед декодированием.
func (c *Client) ExtractLines(ctx context.Context, filename string, file io.Reader) ([]LineItem, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("build multipart: %w", err)
	}
	if _, err := io.Copy(fw, file); err != nil {
		return nil, fmt.Errorf("copy invoice: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close multipart: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/extract", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	start := time.Now()
	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ocr provider: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return nil, fmt.Errorf("ocr provider: read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &ProviderError{Status: resp.StatusCode, Body: truncate(string(body), 512)}
	}

	items, err := DecodeLines(body)
	if err != nil {
		return nil, err
	}
	c.log.Debug().
		Int("items", len(items)).
		Dur("elapsed", time.Since(start)).
		Msg("ocr extract")
	return items, nil
}

// DecodeLines принимает и голый массив позиций, и объект {"items":[...]} —
// модель отвечает то так, то так.
func DecodeLines(raw []byte) ([]LineItem, error) {
	repaired := RepairJSON(string(raw))

	var items []LineItem
	if err := json.Unmarshal([]byte(repaired), &items); err == nil {
		return items, nil
	}
	var wrapped struct {
		Items []LineItem `json:"items"`
	}
	if err := json.Unmarshal([]byte(repaired), &wrapped); err != nil {
		return nil, fmt.Errorf("decode ocr response: %w", err)
	}
	return wrapped.Items, nil
}

// срез по границе руны: тело ответа может быть любым UTF-8 текстом
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "…"
}
