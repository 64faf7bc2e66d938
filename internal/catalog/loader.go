package catalog

import (
	"regexp"
	"strings"
)

// Mapping — привязка колонок загружаемой таблицы к полям каталога.
type Mapping struct {
	CodeKey   string // имя колонки с артикулом (опционально)
	NameKey   string // имя колонки с наименованием
	HeaderRow int    // строка заголовков (1-based)
}

var rxHeaderJunk = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// нормализуем имя колонки: нижний регистр, служ.символы → пробел, ё→е
func normHeaderKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer("\u00A0", " ", "\u202F", " ", "ё", "е").Replace(s)
	s = rxHeaderJunk.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}

// resolveKey ищет реальный ключ записи по желаемому имени колонки.
// Поддерживает альтернативы через "|" (например "Наименование|Номенклатура")
// и частичные совпадения для составных заголовков.
func resolveKey(rec map[string]string, want string) string {
	want = strings.TrimSpace(want)
	if want == "" {
		return ""
	}
	alts := strings.Split(want, "|")
	for i := range alts {
		alts[i] = strings.TrimSpace(alts[i])
	}

	// точное совпадение как есть
	for _, a := range alts {
		if _, ok := rec[a]; ok {
			return a
		}
	}

	var nWantAll []string
	for _, a := range alts {
		nWantAll = append(nWantAll, normHeaderKey(a))
	}

	bestKey := ""
	bestScore := 0
	for k := range rec {
		nk := normHeaderKey(k)
		for _, n := range nWantAll {
			if nk == n {
				return k
			}
		}
		// частичное: want ⊂ key или key ⊂ want
		score := 0
		for _, n := range nWantAll {
			if n != "" && (strings.Contains(nk, n) || strings.Contains(n, nk)) {
				score = max(score, len(n))
			}
		}
		if score > bestScore {
			bestScore, bestKey = score, k
		}
	}
	return bestKey
}

// FromMaps собирает каталог из строк таблицы (см. fileio.ReadAnyMaps).
// Пустые наименования и дубли артикулов (первый побеждает) отбрасываются.
func FromMaps(rows []map[string]string, m Mapping) []Product {
	out := make([]Product, 0, len(rows))
	seen := make(map[string]bool, len(rows))
	for _, rec := range rows {
		nameKey := resolveKey(rec, m.NameKey)
		codeKey := resolveKey(rec, m.CodeKey)

		name := CleanLabel(rec[nameKey])
		if name == "" {
			continue
		}
		code := strings.TrimSpace(rec[codeKey])
		if code != "" {
			if seen[code] {
				continue
			}
			seen[code] = true
		}
		out = append(out, Product{Code: code, Name: name})
	}
	return out
}
