package tui

import (
	"context"
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	apierrors "github.com/sebwieland/concert-journal/internal/errors"
	"github.com/sebwieland/concert-journal/internal/models"
)

type authMode int

const (
	authModeLogin authMode = iota
	authModeSignUp
)

type authField int

const (
	authFieldEmail authField = iota
	authFieldPassword
	authFieldUsername
	authFieldFirstName
	authFieldLastName
	numAuthFields
)

// loginFields — видимые поля формы входа; регистрация показывает все.
var loginFields = []authField{authFieldEmail, authFieldPassword}

var signUpFields = []authField{
	authFieldUsername, authFieldEmail, authFieldPassword,
	authFieldFirstName, authFieldLastName,
}

var authFieldLabels = [numAuthFields]string{
	"email", "password", "username", "first name", "last name",
}

type authDoneMsg struct {
	mode authMode
	err  error
}

type authModel struct {
	session Session
	theme   theme

	mode       authMode
	fields     [numAuthFields]string
	focus      int
	submitting bool
	errMsg     string
	fieldErrs  map[string]string
	okMsg      string
}

func newAuthModel(s Session, th theme) authModel {
	return authModel{session: s, theme: th}
}

func (m authModel) visible() []authField {
	if m.mode == authModeSignUp {
		return signUpFields
	}
	return loginFields
}

func (m authModel) Update(msg tea.Msg) (authModel, tea.Cmd) {
	switch msg := msg.(type) {
	case authDoneMsg:
		m.submitting = false
		if msg.err != nil {
			m.errMsg, m.fieldErrs = authErrorText(msg.err)
			return m, nil
		}

		if msg.mode == authModeSignUp {
			// Регистрация не логинит: возвращаемся к форме входа
			// с заполненным email.
			m.mode = authModeLogin
			m.okMsg = "account created, sign in"
			m.fields[authFieldPassword] = ""
			m.focus = 0
			return m, nil
		}
		return m, nil

	case tea.KeyMsg:
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m authModel) updateKeys(msg tea.KeyMsg) (authModel, tea.Cmd) {
	if m.submitting {
		return m, nil
	}

	m.errMsg = ""
	m.okMsg = ""
	m.fieldErrs = nil

	visible := m.visible()

	switch msg.String() {
	case "tab", "down":
		m.focus = (m.focus + 1) % len(visible)
	case "shift+tab", "up":
		m.focus = (m.focus - 1 + len(visible)) % len(visible)
	case "ctrl+t":
		// Переключение вход/регистрация.
		if m.mode == authModeLogin {
			m.mode = authModeSignUp
		} else {
			m.mode = authModeLogin
		}
		m.focus = 0
	case "enter":
		if m.focus == len(visible)-1 {
			return m.submit()
		}
		m.focus++
	case "ctrl+s":
		return m.submit()
	default:
		f := &m.fields[visible[m.focus]]
		*f = editRune(*f, msg.String())
	}
	return m, nil
}

func (m authModel) submit() (authModel, tea.Cmd) {
	email := strings.TrimSpace(m.fields[authFieldEmail])
	password := m.fields[authFieldPassword]

	if email == "" || password == "" {
		m.errMsg = "email and password are required"
		return m, nil
	}

	m.submitting = true
	s := m.session

	if m.mode == authModeSignUp {
		reg := models.Registration{
			Username:  strings.TrimSpace(m.fields[authFieldUsername]),
			Email:     email,
			Password:  password,
			FirstName: strings.TrimSpace(m.fields[authFieldFirstName]),
			LastName:  strings.TrimSpace(m.fields[authFieldLastName]),
		}
		if reg.Username == "" {
			m.submitting = false
			m.errMsg = "username is required"
			return m, nil
		}

		return m, func() tea.Msg {
			return authDoneMsg{mode: authModeSignUp, err: s.SignUp(context.Background(), reg)}
		}
	}

	creds := models.Credentials{Email: email, Password: password}
	return m, func() tea.Msg {
		return authDoneMsg{mode: authModeLogin, err: s.Login(context.Background(), creds)}
	}
}

// authErrorText переводит классифицированную ошибку в сообщение формы;
// 422 дополнительно раскладывается по полям.
func authErrorText(err error) (string, map[string]string) {
	switch apierrors.KindOf(err) {
	case apierrors.KindUnauthorized:
		return "invalid email or password", nil
	case apierrors.KindConflict:
		return "user already exists", nil
	case apierrors.KindNetwork:
		return "cannot reach the server", nil
	case apierrors.KindValidation:
		fieldErrs := make(map[string]string)
		var apiErr *apierrors.Error
		if errors.As(err, &apiErr) {
			for _, fe := range apiErr.Fields {
				fieldErrs[fe.Field] = fe.Message
			}
		}
		return "please check the highlighted fields", fieldErrs
	case apierrors.KindServer:
		return "server error, try again later", nil
	default:
		return "something went wrong, try again", nil
	}
}

func (m authModel) View() string {
	th := m.theme
	var b strings.Builder

	if m.mode == authModeSignUp {
		b.WriteString(" " + th.title.Render("CREATE ACCOUNT") + "\n\n")
	} else {
		b.WriteString(" " + th.title.Render("SIGN IN") + "\n\n")
	}

	for i, f := range m.visible() {
		label := authFieldLabels[f]
		value := m.fields[f]
		if f == authFieldPassword {
			value = strings.Repeat("*", len([]rune(value)))
		}

		cursor := " "
		style := th.meta
		if i == m.focus {
			cursor = ">"
			style = th.selected
			value += "█"
		}

		b.WriteString(" " + cursor + " " + style.Render(label) + ": " + th.normal.Render(value))
		if msg, ok := m.fieldErrs[label]; ok {
			b.WriteString("  " + th.errText.Render(msg))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	switch {
	case m.submitting:
		b.WriteString(" " + th.dim.Render("signing in..."))
	case m.errMsg != "":
		b.WriteString(" " + th.errText.Render(m.errMsg))
	case m.okMsg != "":
		b.WriteString(" " + th.okText.Render(m.okMsg))
	}

	return b.String()
}

func (m authModel) helpLine() string {
	th := m.theme
	toggle := "sign up"
	if m.mode == authModeSignUp {
		toggle = "sign in"
	}
	return " " + th.helpEntry("tab", "next") + "  " +
		th.helpEntry("enter", "submit") + "  " +
		th.helpEntry("ctrl+t", toggle) + "  " +
		th.helpEntry("ctrl+c", "quit")
}
