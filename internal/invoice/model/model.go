package model

import "invoice-recon/internal/catalog"

// Способ привязки позиции к каталогу.
const (
	MethodCode  = "code"  // точное совпадение артикула
	MethodFuzzy = "fuzzy" // нечеткое совпадение наименования
	MethodNone  = "none"  // не привязана, требует ручного решения
)

// LineItem — позиция счета после OCR-извлечения.
type LineItem struct {
	Description string  `json:"description"`
	Code        string  `json:"code,omitempty"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
}

// ReviewRow — позиция с результатом привязки для экрана проверки.
// Score заполняется только для fuzzy.
type ReviewRow struct {
	Line    LineItem         `json:"line"`
	Method  string           `json:"method"`
	Product *catalog.Product `json:"product,omitempty"`
	Score   *float64         `json:"score,omitempty"`
}

type ReviewResult struct {
	Supplier  string      `json:"supplier"`
	Rows      []ReviewRow `json:"rows"`
	Matched   int         `json:"matched"`
	Unmatched int         `json:"unmatched"`
	Threshold float64     `json:"threshold"`
}

// Options — параметры привязки. Порог — политика precision/recall,
// задаётся отдельно от алгоритма.
type Options struct {
	Threshold float64 `json:"threshold"`
}
