package apiclient

import (
	"net/http"

	"github.com/google/uuid"
)

// requestIDTransport обеспечивает наличие X-Request-Id на каждом
// исходящем запросе — бэкенд возвращает его в ошибках, что позволяет
// репортить баги с привязкой к конкретному вызову.
type requestIDTransport struct {
	next http.RoundTripper
}

func newRequestIDTransport(next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}

	return &requestIDTransport{next: next}
}

func (t *requestIDTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("X-Request-Id") == "" {
		// RoundTripper не должен мутировать исходный запрос.
		req = req.Clone(req.Context())
		req.Header.Set("X-Request-Id", uuid.NewString())
	}

	return t.next.RoundTrip(req)
}
