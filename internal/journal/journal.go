// journal — чистые операции над списком записей дневника:
// стабильная многоколоночная сортировка и подстрочный поиск.
//
// Основные аспекты:
//   - функции не мутируют входной срез, а возвращают новый;
//   - сравнение дат идёт через нормализованный models.EventDate,
//     поэтому разнородные форматы бэкенда сортируются единообразно;
//   - пакет не ходит в сеть и не пишет логи — удобен для UI-слоя.
package journal

import (
	"sort"
	"strings"

	"github.com/sebwieland/concert-journal/internal/models"
)

// SortEntries возвращает новый срез записей, отсортированный по колонке.
//
// Правила:
//   - date — через EventDate.Compare (неразборные даты в стабильном конце);
//   - bandName/place — лексикографически, пустая строка для отсутствующих;
//   - rating — числовое сравнение, 0 для отсутствующих;
//   - неизвестная колонка — порядок не меняется (константа сравнения 0);
//   - order == desc инвертирует сравнение.
func SortEntries(entries []models.Entry, column models.SortColumn, order models.SortDirection) []models.Entry {
	out := make([]models.Entry, len(entries))
	copy(out, entries)

	cmp := comparatorFor(column)

	sort.SliceStable(out, func(i, j int) bool {
		c := cmp(out[i], out[j])
		if order == models.SortDesc {
			c = -c
		}

		return c < 0
	})

	return out
}

// SearchEntries фильтрует записи подстрокой без учёта регистра по
// bandName, place и comment (каждое поле проверяется независимо).
// Результат отсортирован по дате по убыванию. Пустой или пробельный
// запрос даёт пустой результат, а не полный список.
func SearchEntries(entries []models.Entry, term string) []models.Entry {
	needle := strings.ToLower(strings.TrimSpace(term))
	if needle == "" {
		return []models.Entry{}
	}

	var matched []models.Entry
	for _, e := range entries {
		if containsFold(e.BandName, needle) ||
			containsFold(e.Place, needle) ||
			containsFold(e.Comment, needle) {
			matched = append(matched, e)
		}
	}

	return SortEntries(matched, models.SortByDate, models.SortDesc)
}

// comparatorFor выбирает функцию сравнения для колонки.
func comparatorFor(column models.SortColumn) func(a, b models.Entry) int {
	switch column {
	case models.SortByDate:
		return func(a, b models.Entry) int { return a.Date.Compare(b.Date) }
	case models.SortByBand:
		return func(a, b models.Entry) int { return strings.Compare(a.BandName, b.BandName) }
	case models.SortByPlace:
		return func(a, b models.Entry) int { return strings.Compare(a.Place, b.Place) }
	case models.SortByRating:
		return func(a, b models.Entry) int { return a.Rating - b.Rating }
	}

	return func(a, b models.Entry) int { return 0 }
}

// containsFold — подстрочный поиск без учёта регистра; needle уже в
// нижнем регистре.
func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), needle)
}
