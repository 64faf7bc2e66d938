package catalog

import (
	"regexp"
	"strings"
)

// Очистка меток — обязанность загрузчика каталога, НЕ ядра сопоставления:
// ядро не делает никакой нормализации кроме приведения регистра.

// 0,5 → 0.5
var decComma = regexp.MustCompile(`(\d),(\d)`)

// пунктуация → пробел, но сохраняем . , %
var punct = regexp.MustCompile(`[^\p{L}\p{N}\s.,%]+`)

// CleanLabel приводит сырое значение ячейки к сравнимой метке:
// спец-пробелы → обычные, ё→е, десятичная запятая → точка,
// пунктуация → пробел, схлопывание пробелов.
func CleanLabel(s string) string {
	if s == "" {
		return ""
	}
	out := strings.NewReplacer("\u00A0", " ", "\u2009", " ", "\u202F", " ", "ё", "е", "Ё", "Е").Replace(s)
	out = decComma.ReplaceAllString(out, "$1.$2")
	out = punct.ReplaceAllString(out, " ")
	return collapseSpaces(out)
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
