package models

// Credentials — пара e-mail+пароль для входа.
type Credentials struct {
	Email    string
	Password string
}

// Registration — данные регистрации нового пользователя.
type Registration struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// TokenResponse — ответ бэкенда на login/register/refresh.
// Refresh-токен приходит отдельно, http-only cookie.
type TokenResponse struct {
	AccessToken string `json:"accessToken"`
}
