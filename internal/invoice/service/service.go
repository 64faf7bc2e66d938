package service

import (
	"strings"

	"invoice-recon/internal/catalog"
	"invoice-recon/internal/invoice/model"
	"invoice-recon/internal/match"
)

// Reconcile — привязка позиций счета к каталогу поставщика.
// Для каждой позиции: (1) точный артикул, (2) fuzzy по наименованию,
// иначе явный "none" — недопривязка лучше тихой ошибочной привязки,
// дальше цифры идут в складскую сверку.
func Reconcile(supplier string, items []model.LineItem, products []catalog.Product, opt model.Options) model.ReviewResult {
	res := model.ReviewResult{
		Supplier:  supplier,
		Rows:      make([]model.ReviewRow, 0, len(items)),
		Threshold: opt.Threshold,
	}

	for _, it := range items {
		row := model.ReviewRow{Line: it, Method: model.MethodNone}

		// (1) Совпадение по артикулу
		if p := byCode(products, it.Code); p != nil {
			row.Method = model.MethodCode
			row.Product = p
		}

		// (2) Fuzzy по наименованию
		if row.Product == nil {
			if m, ok := BestMatch(it.Description, products, opt.Threshold); ok {
				row.Method = model.MethodFuzzy
				row.Product = &m.Candidate
				score := m.Score
				row.Score = &score
			}
		}

		if row.Product != nil {
			res.Matched++
		} else {
			res.Unmatched++
		}
		res.Rows = append(res.Rows, row)
	}
	return res
}

// BestMatch — нечеткий поиск товара по свободному тексту. Запрос проходит
// ту же очистку, что метки каталога при загрузке; регистр сведёт само ядро.
func BestMatch(query string, products []catalog.Product, threshold float64) (match.Match[catalog.Product], bool) {
	return match.FindBestMatchAbove(catalog.CleanLabel(query), products, catalog.Product.Label, threshold)
}

func byCode(products []catalog.Product, code string) *catalog.Product {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil
	}
	for i := range products {
		if strings.EqualFold(products[i].Code, code) {
			return &products[i]
		}
	}
	return nil
}
