package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// Пакет unit-тестов для models/date.go.
//
// Покрытие:
//   - классификация всех форм даты (массив, строка-массив, ISO, null, мусор);
//   - эквивалентность [Y,M,D] и его JSON-строковой формы;
//   - тотальность ParseDate/CompareDates/FormatDate (ни одна ветка не паникует);
//   - фиксированные подписи трёх неразборных случаев;
//   - антисимметрия и рефлексивность CompareDates;
//   - Unmarshal/Marshal в составе Entry.

// TestClassifyDate_Table — классификация по всем веткам.
func TestClassifyDate_Table(t *testing.T) {
	t.Parallel()

	tcs := []struct {
		name     string
		in       any
		wantKind DateKind
	}{
		{"array_triple", []any{float64(2023), float64(5), float64(15)}, DateArrayTriple},
		{"int_triple", []int{2023, 5, 15}, DateArrayTriple},
		{"json_array_string", "[2023,5,15]", DateJSONArrayTriple},
		{"json_array_string_spaces", "  [2023, 5, 15]  ", DateJSONArrayTriple},
		{"iso_string", "2023-05-15", DateISOString},
		{"iso_datetime", "2023-05-15T19:30:00Z", DateISOString},
		{"nil", nil, DateMissing},
		{"empty_string", "", DateMissing},
		{"broken_bracket_string", "[invalid,json]", DateInvalid},
		{"wrong_arity", []any{float64(2023), float64(5)}, DateInvalid},
		{"non_numeric_triple", []any{"y", "m", "d"}, DateInvalid},
		{"month_out_of_range", []any{float64(2023), float64(13), float64(1)}, DateInvalid},
		{"day_overflow", []any{float64(2023), float64(2), float64(30)}, DateInvalid},
		{"garbage_string", "not a date", DateInvalid},
		{"garbage_type", 42, DateInvalid},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.wantKind, ClassifyDate(tc.in).Kind)
		})
	}
}

// TestParseDate_TripleAndStringForm_SameCalendarDate —
// массив и его JSON-строковая форма дают одну и ту же календарную дату.
func TestParseDate_TripleAndStringForm_SameCalendarDate(t *testing.T) {
	t.Parallel()

	arr := ParseDate([]any{float64(2023), float64(5), float64(15)})
	str := ParseDate("[2023,5,15]")

	require.Equal(t, arr, str)
	require.Equal(t, time.Date(2023, time.May, 15, 0, 0, 0, 0, time.UTC), arr)
	require.Equal(t, "15/05/2023", FormatDate([]any{float64(2023), float64(5), float64(15)}))
	require.Equal(t, "15/05/2023", FormatDate("[2023,5,15]"))
}

// TestFormatDate_FailureLabelsAreDistinct — три подписи различимы.
func TestFormatDate_FailureLabelsAreDistinct(t *testing.T) {
	t.Parallel()

	require.Equal(t, "Unknown date", FormatDate(nil))
	require.Equal(t, "Invalid date", FormatDate("[invalid,json]"))

	var absent EventDate
	require.Equal(t, "No date", absent.Format())

	labels := map[string]bool{
		FormatDate(nil):              true,
		FormatDate("[invalid,json]"): true,
		absent.Format():              true,
	}
	require.Len(t, labels, 3)
}

// TestCompareDates_AntisymmetryAndReflexivity — контракт сравнения.
func TestCompareDates_AntisymmetryAndReflexivity(t *testing.T) {
	t.Parallel()

	a := []any{float64(2023), float64(5), float64(15)}
	b := []any{float64(2023), float64(6), float64(20)}

	require.Negative(t, CompareDates(a, b))
	require.Positive(t, CompareDates(b, a))
	require.Zero(t, CompareDates(a, a))
	require.Zero(t, CompareDates("[2023,5,15]", a))
}

// TestCompareDates_IncomparableYieldsZero — структурно несравнимые значения
// дают 0, а не панику.
func TestCompareDates_IncomparableYieldsZero(t *testing.T) {
	t.Parallel()

	require.Zero(t, CompareDates(nil, "[broken"))
	require.Zero(t, CompareDates(42, struct{}{}))
}

// TestCompareDates_InvalidSortsBeforeValid — неразборные даты уходят
// в стабильный экстремум, а не «около сейчас».
func TestCompareDates_InvalidSortsBeforeValid(t *testing.T) {
	t.Parallel()

	require.Negative(t, CompareDates(nil, "[1971,1,1]"))
	require.Negative(t, CompareDates("[invalid,json]", "2023-05-15"))
}

// TestEventDate_UnmarshalJSON_InsideEntry — декодирование даты в составе
// записи для всех форм; битая дата не валит декодирование записи.
func TestEventDate_UnmarshalJSON_InsideEntry(t *testing.T) {
	t.Parallel()

	tcs := []struct {
		name     string
		payload  string
		wantKind DateKind
		wantFmt  string
	}{
		{"array", `{"id":1,"bandName":"A","date":[2023,5,15]}`, DateArrayTriple, "15/05/2023"},
		{"string_array", `{"id":2,"bandName":"B","date":"[2023,5,15]"}`, DateJSONArrayTriple, "15/05/2023"},
		{"iso", `{"id":3,"bandName":"C","date":"2023-05-15"}`, DateISOString, "15/05/2023"},
		{"null", `{"id":4,"bandName":"D","date":null}`, DateMissing, "Unknown date"},
		{"absent", `{"id":5,"bandName":"E"}`, DateAbsent, "No date"},
		{"broken", `{"id":6,"bandName":"F","date":"[oops"}`, DateInvalid, "Invalid date"},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var e Entry
			require.NoError(t, json.Unmarshal([]byte(tc.payload), &e))
			require.Equal(t, tc.wantKind, e.Date.Kind)
			require.Equal(t, tc.wantFmt, e.Date.Format())
		})
	}
}

// TestEventDate_MarshalJSON — валидная дата уходит как [Y,M,D], прочие как null.
func TestEventDate_MarshalJSON(t *testing.T) {
	t.Parallel()

	d := ClassifyDate("[2023,5,15]")
	data, err := json.Marshal(d)
	require.NoError(t, err)
	require.JSONEq(t, `[2023,5,15]`, string(data))

	invalid := ClassifyDate("garbage")
	data, err = json.Marshal(invalid)
	require.NoError(t, err)
	require.Equal(t, "null", string(data))
}
