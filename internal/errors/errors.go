// errors стандартизирует ошибки HTTP-слоя клиента концерт-дневника.
// На вход он принимает «сырой» результат запроса (транспортная ошибка
// либо HTTP-ответ с кодом), а на выход даёт классифицированную *Error
// с устойчивым Kind для UI.
//
// Все пути, зовущие API, пропускают ошибки через Classify: ни одна
// транспортная ошибка не доходит до слоёв состояния/рендера сырой.
// Повторных попыток на этом уровне нет — транзиентные сбои отдаются
// пользователю для ручного повтора.
package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Kind — короткий стабильный класс ошибки для машиночитаемой обработки в UI.
type Kind string

const (
	// KindNetwork — ответ не получен (DNS, таймаут, обрыв соединения).
	KindNetwork Kind = "network_error"
	// KindUnauthorized — 401: нет/просрочен/отозван токен.
	KindUnauthorized Kind = "unauthorized"
	// KindForbidden — 403: доступ к чужой записи.
	KindForbidden Kind = "forbidden"
	// KindNotFound — 404: запись или эндпойнт отсутствуют.
	KindNotFound Kind = "not_found"
	// KindConflict — 409: например, регистрация на занятый e-mail.
	// UI обязан уметь отличать его от прочих сбоев регистрации.
	KindConflict Kind = "conflict"
	// KindValidation — 422: с пополевыми деталями.
	KindValidation Kind = "validation_error"
	// KindServer — 5xx.
	KindServer Kind = "server_error"
	// KindUnknown — всё прочее, включая не-HTTP исключения.
	KindUnknown Kind = "unknown_error"
)

// FieldError — пополевая деталь ошибки валидации (422).
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error — единый тип классифицированной ошибки API.
type Error struct {
	// Kind — класс ошибки.
	Kind Kind
	// HTTPStatus — код ответа; 0, если ответа не было.
	HTTPStatus int
	// Message — краткое безопасное описание для пользователя.
	Message string
	// Fields — детали валидации (только для KindValidation).
	Fields []FieldError

	cause error
}

func (e *Error) Error() string {
	if e.HTTPStatus > 0 {
		return fmt.Sprintf("api: %s (http %d): %s", e.Kind, e.HTTPStatus, e.Message)
	}

	return fmt.Sprintf("api: %s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// KindOf возвращает класс ошибки; для неклассифицированных — KindUnknown.
func KindOf(err error) Kind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}

	return KindUnknown
}

// IsKind проверяет класс ошибки через цепочку errors.As.
func IsKind(err error, k Kind) bool {
	return KindOf(err) == k
}

// FromTransport конвертирует транспортную ошибку (ответа не было)
// в KindNetwork. err == nil — программная ошибка вызова: возвращаем
// KindUnknown, чтобы не замаскировать баг «успехом».
func FromTransport(err error) *Error {
	if err == nil {
		return &Error{Kind: KindUnknown, Message: "unexpected error"}
	}

	return &Error{
		Kind:    KindNetwork,
		Message: "network error",
		cause:   err,
	}
}

// serverError — толерантная форма тела ошибки бэкенда.
// Поддерживаются оба исторических формата:
//
//	{"message": "..."} и {"error": {"message": "..."}}.
type serverError struct {
	Message string `json:"message"`
	Error   *struct {
		Message string `json:"message"`
	} `json:"error"`
	Errors []FieldError `json:"errors"`
}

// FromStatus классифицирует HTTP-ответ с кодом >= 400.
//
// Маппинг:
//   - 401 -> unauthorized; 403 -> forbidden; 404 -> not_found;
//   - 409 -> conflict; 422 -> validation_error (+Fields из тела);
//   - 5xx -> server_error; прочее -> unknown_error.
//
// Тело разбирается толерантно: не-JSON тело не мешает классификации.
func FromStatus(status int, body []byte) *Error {
	kind, msg := baseFromStatus(status)

	out := &Error{
		Kind:       kind,
		HTTPStatus: status,
		Message:    msg,
	}

	var se serverError
	if err := json.Unmarshal(body, &se); err == nil {
		if se.Error != nil && se.Error.Message != "" {
			out.Message = se.Error.Message
		} else if se.Message != "" {
			out.Message = se.Message
		}

		if kind == KindValidation {
			out.Fields = se.Errors
		}
	}

	return out
}

// baseFromStatus — базовый маппинг HTTP -> Kind/сообщение.
func baseFromStatus(status int) (Kind, string) {
	switch {
	case status == http.StatusUnauthorized:
		return KindUnauthorized, "unauthorized"
	case status == http.StatusForbidden:
		return KindForbidden, "forbidden"
	case status == http.StatusNotFound:
		return KindNotFound, "not found"
	case status == http.StatusConflict:
		return KindConflict, "already exists"
	case status == http.StatusUnprocessableEntity:
		return KindValidation, "validation failed"
	case status >= 500:
		return KindServer, "server error"
	}

	return KindUnknown, "unexpected error"
}
