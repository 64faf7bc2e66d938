package ocr

import (
	"fmt"
	"strings"
)

// Модель периодически отдаёт "почти JSON": обёрнутый в markdown-заборы,
// с сырыми переводами строк внутри строковых значений, с висячими
// запятыми. Чиним до того, как отдать encoding/json.

// RepairJSON приводит сырой ответ модели к парсабельному JSON.
func RepairJSON(s string) string {
	s = stripCodeFence(s)
	s = trimToJSON(s)
	s = escapeControlChars(s)
	s = dropTrailingCommas(s)
	return s
}

// ```json ... ``` → внутренность
func stripCodeFence(s string) string {
	t := strings.TrimSpace(s)
	if !strings.HasPrefix(t, "```") {
		return s
	}
	t = strings.TrimPrefix(t, "```json")
	t = strings.TrimPrefix(t, "```")
	if i := strings.LastIndex(t, "```"); i >= 0 {
		t = t[:i]
	}
	return strings.TrimSpace(t)
}

// отрезаем преамбулу/постскриптум модели вокруг первого { или [
func trimToJSON(s string) string {
	start := -1
	for i, r := range s {
		if r == '{' || r == '[' {
			start = i
			break
		}
	}
	if start < 0 {
		return s
	}
	end := strings.LastIndexAny(s, "}]")
	if end < start {
		return s
	}
	return s[start : end+1]
}

// Сырые управляющие символы внутри строковых значений → экранированные.
// Идём посимвольно, отслеживая "внутри строки / после backslash".
func escapeControlChars(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inString := false
	escaped := false
	for _, r := range s {
		if escaped {
			b.WriteRune(r)
			escaped = false
			continue
		}
		switch {
		case inString && r == '\\':
			escaped = true
			b.WriteRune(r)
		case r == '"':
			inString = !inString
			b.WriteRune(r)
		case inString && r == '\n':
			b.WriteString(`\n`)
		case inString && r == '\r':
			b.WriteString(`\r`)
		case inString && r == '\t':
			b.WriteString(`\t`)
		case inString && r < 0x20:
			fmt.Fprintf(&b, `\u%04x`, r)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ", }" и ", ]" вне строк → "}" и "]"
func dropTrailingCommas(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inString := false
	escaped := false
	pendingComma := false
	var pendingWS []rune
	for _, r := range s {
		if inString {
			b.WriteRune(r)
			if escaped {
				escaped = false
			} else if r == '\\' {
				escaped = true
			} else if r == '"' {
				inString = false
			}
			continue
		}
		switch {
		case r == '"':
			flushComma(&b, &pendingComma, &pendingWS)
			inString = true
			b.WriteRune(r)
		case r == ',':
			flushComma(&b, &pendingComma, &pendingWS)
			pendingComma = true
		case r == ' ' || r == '\n' || r == '\r' || r == '\t':
			if pendingComma {
				pendingWS = append(pendingWS, r)
			} else {
				b.WriteRune(r)
			}
		case r == '}' || r == ']':
			// висячая запятая: пробелы сохраняем, запятую нет
			for _, w := range pendingWS {
				b.WriteRune(w)
			}
			pendingComma = false
			pendingWS = pendingWS[:0]
			b.WriteRune(r)
		default:
			flushComma(&b, &pendingComma, &pendingWS)
			b.WriteRune(r)
		}
	}
	flushComma(&b, &pendingComma, &pendingWS)
	return b.String()
}

func flushComma(b *strings.Builder, pending *bool, ws *[]rune) {
	if *pending {
		b.WriteRune(',')
		*pending = false
	}
	for _, w := range *ws {
		b.WriteRune(w)
	}
	*ws = (*ws)[:0]
}
