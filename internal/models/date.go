package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// DateKind — явная классификация формата даты, пришедшей от бэкенда.
// Дата события исторически сериализуется по-разному: массив [год, месяц, день],
// его JSON-строковая форма, ISO-строка, null или вовсе отсутствует.
// Классификация выполняется один раз (при декодировании), дальше все слои
// работают с готовым EventDate и не гадают о форме значения.
type DateKind int

const (
	// DateAbsent — поле отсутствовало в ответе (нулевое значение EventDate).
	DateAbsent DateKind = iota
	// DateMissing — поле присутствовало, но было null.
	DateMissing
	// DateArrayTriple — массив [год, месяц(1-базовый), день].
	DateArrayTriple
	// DateJSONArrayTriple — строка вида "[2023,5,15]", содержащая такой массив.
	DateJSONArrayTriple
	// DateISOString — строка, разобранная общим парсером дат.
	DateISOString
	// DateInvalid — значение присутствовало, но разобрать его не удалось.
	DateInvalid
)

// Человекочитаемые подписи для неразборных дат. UI показывает их как есть,
// поэтому три случая обязаны оставаться текстуально различимыми.
const (
	labelInvalidDate = "Invalid date"
	labelUnknownDate = "Unknown date"
	labelNoDate      = "No date"
)

// EventDate — дата концерта в нормализованном виде.
//
// Особенности:
//   - Kind фиксирует исходную форму значения;
//   - Time — UTC-полночь календарной даты; нулевое время для
//     Absent/Missing/Invalid (неразборные даты сортируются в стабильный
//     конец списка, а не «около сейчас»);
//   - Raw — исходное представление для диагностики.
type EventDate struct {
	Kind DateKind
	Time time.Time
	Raw  string
}

// Valid сообщает, несёт ли дата календарное значение.
func (d EventDate) Valid() bool {
	switch d.Kind {
	case DateArrayTriple, DateJSONArrayTriple, DateISOString:
		return true
	}

	return false
}

// Format возвращает дату в виде DD/MM/YYYY либо одну из трёх
// фиксированных подписей для неразборных значений.
func (d EventDate) Format() string {
	switch d.Kind {
	case DateAbsent:
		return labelNoDate
	case DateMissing:
		return labelUnknownDate
	case DateInvalid:
		return labelInvalidDate
	}

	return d.Time.Format("02/01/2006")
}

// Compare сравнивает две даты как значения для сортировки.
// Неразборные даты равны между собой и меньше любых валидных —
// сравнение никогда не «падает», максимум возвращает 0.
func (d EventDate) Compare(other EventDate) int {
	return d.Time.Compare(other.Time)
}

// UnmarshalJSON классифицирует значение поля даты.
// Никогда не возвращает ошибку классификации: любой мусор оседает
// как DateInvalid, чтобы одна битая запись не валила декодирование
// всего списка событий.
func (d *EventDate) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		*d = EventDate{Kind: DateInvalid, Raw: string(data)}
		return nil
	}

	*d = ClassifyDate(raw)
	return nil
}

// MarshalJSON сериализует дату обратно в канонический для бэкенда
// вид — массив [год, месяц, день]; неразборные даты уходят как null.
func (d EventDate) MarshalJSON() ([]byte, error) {
	if !d.Valid() {
		return []byte("null"), nil
	}

	y, m, day := d.Time.Date()
	return []byte(fmt.Sprintf("[%d,%d,%d]", y, int(m), day)), nil
}

// ClassifyDate — единственная точка классификации «сырого» значения даты.
//
// Приоритет разбора:
//  1. числовая последовательность из трёх элементов -> [год, месяц, день];
//  2. строка в квадратных скобках -> попытка JSON-разбора как (1);
//  3. прочая непустая строка -> общий парсер дат;
//  4. nil -> DateMissing.
//
// Функция тотальна: для любого входа возвращается определённый EventDate.
func ClassifyDate(v any) EventDate {
	switch val := v.(type) {
	case nil:
		return EventDate{Kind: DateMissing}

	case []any:
		if t, ok := tripleToTime(val); ok {
			return EventDate{Kind: DateArrayTriple, Time: t, Raw: fmt.Sprint(val)}
		}

		return EventDate{Kind: DateInvalid, Raw: fmt.Sprint(val)}

	case []int:
		anys := make([]any, len(val))
		for i, n := range val {
			anys[i] = n
		}

		d := ClassifyDate(anys)
		d.Raw = fmt.Sprint(val)
		return d

	case string:
		return classifyString(val)
	}

	return EventDate{Kind: DateInvalid, Raw: fmt.Sprint(v)}
}

// classifyString разбирает строковые представления даты.
func classifyString(s string) EventDate {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return EventDate{Kind: DateMissing, Raw: s}
	}

	// Строка-массив: "[2023,5,15]".
	if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
		var nums []any
		if err := json.Unmarshal([]byte(trimmed), &nums); err == nil {
			if t, ok := tripleToTime(nums); ok {
				return EventDate{Kind: DateJSONArrayTriple, Time: t, Raw: s}
			}
		}

		return EventDate{Kind: DateInvalid, Raw: s}
	}

	if t, err := parseDateString(trimmed); err == nil {
		return EventDate{Kind: DateISOString, Time: t, Raw: s}
	}

	return EventDate{Kind: DateInvalid, Raw: s}
}

// tripleToTime конвертирует последовательность [год, месяц, день] в UTC-время.
// Месяц 1-базовый; значения вне календарных диапазонов отвергаются,
// чтобы [2023,13,40] не «переполнялся» в соседние месяцы.
func tripleToTime(vals []any) (time.Time, bool) {
	if len(vals) != 3 {
		return time.Time{}, false
	}

	nums := make([]int, 3)
	for i, v := range vals {
		switch n := v.(type) {
		case float64:
			if n != float64(int(n)) {
				return time.Time{}, false
			}
			nums[i] = int(n)
		case int:
			nums[i] = n
		case json.Number:
			parsed, err := n.Int64()
			if err != nil {
				return time.Time{}, false
			}
			nums[i] = int(parsed)
		default:
			return time.Time{}, false
		}
	}

	year, month, day := nums[0], nums[1], nums[2]
	if year < 1 || month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day || t.Month() != time.Month(month) {
		return time.Time{}, false
	}

	return t, true
}

// parseDateString пробует набор популярных форматов и возвращает UTC-время.
func parseDateString(value string) (time.Time, error) {
	layouts := []string{
		time.RFC3339,          // 2006-01-02T15:04:05Z07:00
		"2006-01-02T15:04:05", // ISO без зоны
		"2006-01-02",          // календарная дата
		time.RFC1123Z,         // Mon, 02 Jan 2006 15:04:05 -0700
		time.RFC1123,          // Mon, 02 Jan 2006 15:04:05 MST
		"02.01.2006",          // запись руками
		"02/01/2006",          // формат отображения
	}

	var lastErr error
	for _, l := range layouts {
		if t, err := time.Parse(l, value); err == nil {
			return t.UTC(), nil
		} else {
			lastErr = err
		}
	}

	return time.Time{}, lastErr
}

// ParseDate — тотальный разбор «сырого» значения в сортируемое время.
// Неразборные значения дают нулевое время (стабильный экстремум).
func ParseDate(v any) time.Time {
	return ClassifyDate(v).Time
}

// CompareDates сравнивает два «сырых» значения дат.
// Возвращает отрицательное/0/положительное; структурно несравнимые
// значения дают 0, а не панику.
func CompareDates(a, b any) int {
	return ClassifyDate(a).Compare(ClassifyDate(b))
}

// FormatDate — тотальное форматирование «сырого» значения даты.
func FormatDate(v any) string {
	return ClassifyDate(v).Format()
}
