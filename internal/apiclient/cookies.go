package apiclient

import (
	"net/http"
	"strings"
)

// csrfCookieName — имя cookie с анти-CSRF токеном. Она НЕ относится к
// авторизационным и переживает логаут.
const csrfCookieName = "XSRF-TOKEN"

// authCookieMarkers — подстроки имён авторизационных cookie,
// подлежащих зачистке при логауте (без учёта регистра).
var authCookieMarkers = []string{"refreshtoken", "accesstoken", "auth", "session"}

// CSRFToken возвращает значение cookie XSRF-TOKEN из jar, если она есть.
func (c *Client) CSRFToken() (string, bool) {
	for _, ck := range c.http.Jar.Cookies(c.baseURL) {
		if ck.Name == csrfCookieName {
			return ck.Value, true
		}
	}

	return "", false
}

// ClearAuthCookies удаляет из jar авторизационные cookie по allow-list
// подстрок; прочие cookie (в первую очередь XSRF-TOKEN) сохраняются.
func (c *Client) ClearAuthCookies() {
	var expired []*http.Cookie

	for _, ck := range c.http.Jar.Cookies(c.baseURL) {
		if isAuthCookie(ck.Name) {
			expired = append(expired, &http.Cookie{
				Name:   ck.Name,
				Value:  "",
				Path:   "/",
				MaxAge: -1,
			})
		}
	}

	if len(expired) > 0 {
		c.http.Jar.SetCookies(c.baseURL, expired)
	}
}

// isAuthCookie — имя матчится подстрокой без учёта регистра.
// XSRF-TOKEN исключается явно: маркер "session" не должен зацепить её
// соседей, а сама она нужна для следующего входа.
func isAuthCookie(name string) bool {
	if name == csrfCookieName {
		return false
	}

	lower := strings.ToLower(name)
	for _, marker := range authCookieMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}

	return false
}
