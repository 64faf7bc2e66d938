package match

// EditDistance — классическое расстояние Левенштейна: минимальное число
// односимвольных вставок, удалений и замен (все по цене 1, без транспозиций).
// Сравнение чувствительно к регистру; работаем по рунам, не по байтам.
func EditDistance(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)
	al, bl := len(ra), len(rb)

	if al == 0 {
		return bl
	}
	if bl == 0 {
		return al
	}

	// Две скользящие строки DP-таблицы вместо полной матрицы:
	// потребителю нужна только правая нижняя ячейка.
	prev := make([]int, bl+1)
	curr := make([]int, bl+1)
	for j := 0; j <= bl; j++ {
		prev[j] = j
	}

	for i := 1; i <= al; i++ {
		curr[0] = i
		for j := 1; j <= bl; j++ {
			cost := 0
			if ra[i-1] != rb[j-1] {
				cost = 1
			}
			// вставка / удаление / замена
			curr[j] = min(curr[j-1]+1, prev[j]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[bl]
}
