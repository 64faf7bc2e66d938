// Ядро нечеткого сопоставления: расстояние Левенштейна + выбор лучшего
// кандидата по нормированной схожести. Чистые функции без состояния,
// безопасны для конкурентных вызовов.
package match

import "strings"

// DefaultThreshold — порог принятия совпадения. Балл должен быть СТРОГО
// больше порога: лучше явный "не найдено", чем тихая ошибочная привязка.
const DefaultThreshold = 0.5

// Match — победивший кандидат и его балл схожести в (threshold, 1].
type Match[T any] struct {
	Candidate T
	Score     float64
}

// Similarity — нормированная схожесть в [0..1] по Левенштейну:
// 1 - d / max(len(a), len(b)). Две пустые строки считаются идентичными.
func Similarity(a, b string) float64 {
	la := len([]rune(a))
	lb := len([]rune(b))
	m := max(la, lb)
	if m == 0 {
		return 1
	}
	return 1 - float64(EditDistance(a, b))/float64(m)
}

// FindBestMatch ищет среди candidates запись с наибольшей схожестью метки
// (key возвращает сравниваемый текст) с query. Обе строки приводятся к
// нижнему регистру. Возвращает false, если query пуст, кандидатов нет или
// лучший балл не превысил DefaultThreshold.
//
// При равных баллах побеждает первый встреченный кандидат (строгое ">"),
// поэтому перестановка списка кандидатов — наблюдаемое изменение поведения.
func FindBestMatch[T any](query string, candidates []T, key func(T) string) (Match[T], bool) {
	return FindBestMatchAbove(query, candidates, key, DefaultThreshold)
}

// FindBestMatchAbove — то же, но с явным порогом. Порог — политика
// (precision vs recall), отделённая от самого алгоритма.
func FindBestMatchAbove[T any](query string, candidates []T, key func(T) string, threshold float64) (Match[T], bool) {
	var best Match[T]
	if query == "" || len(candidates) == 0 {
		return best, false
	}

	q := strings.ToLower(query)
	bestScore := -1.0
	for _, c := range candidates {
		label := strings.ToLower(key(c))
		if s := Similarity(q, label); s > bestScore {
			bestScore = s
			best = Match[T]{Candidate: c, Score: s}
		}
	}

	if bestScore > threshold {
		return best, true
	}
	return Match[T]{}, false
}
