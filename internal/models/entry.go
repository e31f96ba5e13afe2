// models содержит доменные сущности клиента концерт-дневника.
// Эти типы используются слоями API-клиента, сессии, журнала и UI.
package models

// Owner — краткая карточка владельца записи, как её отдаёт бэкенд.
type Owner struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Username  string `json:"username"`
}

// Entry — запись дневника о посещённом концерте.
//
// Особенности:
//   - записи создаёт и мутирует только бэкенд; клиент читает,
//     нормализует, сортирует и фильтрует;
//   - Date хранится в нормализованном виде (см. EventDate);
//   - Rating — целое 0..5.
type Entry struct {
	// ID — идентификатор записи на бэкенде.
	ID int64 `json:"id"`
	// BandName — исполнитель.
	BandName string `json:"bandName"`
	// Place — площадка/город.
	Place string `json:"place"`
	// Date — дата концерта (толерантная к формату бэкенда).
	Date EventDate `json:"date"`
	// Rating — оценка 0..5.
	Rating int `json:"rating"`
	// Comment — свободный комментарий.
	Comment string `json:"comment"`
	// Owner — владелец записи.
	Owner Owner `json:"owner"`
}

// SortColumn — колонка сортировки списка записей.
type SortColumn string

const (
	SortByDate   SortColumn = "date"
	SortByBand   SortColumn = "bandName"
	SortByPlace  SortColumn = "place"
	SortByRating SortColumn = "rating"
)

// Valid сообщает, известна ли колонка сортировки.
func (c SortColumn) Valid() bool {
	switch c {
	case SortByDate, SortByBand, SortByPlace, SortByRating:
		return true
	default:
		return false
	}
}

// SortDirection — направление сортировки.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// SortOrder — сохраняемое между сессиями предпочтение сортировки.
type SortOrder struct {
	Column SortColumn    `json:"column"`
	Order  SortDirection `json:"order"`
}

// DefaultSortOrder — сортировка по умолчанию: свежие концерты сверху.
func DefaultSortOrder() SortOrder {
	return SortOrder{Column: SortByDate, Order: SortDesc}
}
