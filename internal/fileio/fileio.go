// Чтение табличных файлов (каталоги поставщиков, товарные выгрузки).
// Формат выбирается по расширению; строки возвращаются как map[заголовок]значение.
package fileio

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// ReadTable — выбирает парсер по расширению файла и возвращает строки
// данных после строки заголовков. headerRow — 1-based.
func ReadTable(r io.Reader, filename string, headerRow int) ([]map[string]string, error) {
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".xlsx":
		return readXLSX(r, headerRow)
	case ".xls":
		return readXLS(r, headerRow)
	case ".csv":
		return readCSV(r, headerRow)
	default:
		return nil, fmt.Errorf("unsupported table format: %q", ext)
	}
}

// headerNames — берёт строку заголовков, пустым колонкам даёт имя "Column N",
// дубли различает суффиксом.
func headerNames(rows [][]string, headerRow int) []string {
	idx := headerRow - 1
	if idx < 0 || idx >= len(rows) {
		idx = 0
	}
	h := rows[idx]
	out := make([]string, len(h))
	used := make(map[string]int, len(h))
	for i, v := range h {
		v = strings.TrimSpace(v)
		if v == "" {
			v = fmt.Sprintf("Column %d", i+1)
		}
		if n := used[v]; n > 0 {
			out[i] = fmt.Sprintf("%s (%d)", v, n+1)
		} else {
			out[i] = v
		}
		used[v]++
	}
	return out
}

// rowsToMaps — конвертирует строки в []map по заголовкам,
// полностью пустые строки пропускаются.
func rowsToMaps(rows [][]string, headers []string, headerRow int) []map[string]string {
	var out []map[string]string
	for r := headerRow; r < len(rows); r++ {
		rec := rows[r]
		m := make(map[string]string, len(headers))
		empty := true
		for c := 0; c < len(headers); c++ {
			var v string
			if c < len(rec) {
				v = rec[c]
			}
			m[headers[c]] = v
			if strings.TrimSpace(v) != "" {
				empty = false
			}
		}
		if !empty {
			out = append(out, m)
		}
	}
	return out
}
