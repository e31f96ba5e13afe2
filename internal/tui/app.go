// tui — терминальный интерфейс дневника концертов на Bubbletea.
//
// Корневая модель App владеет тремя экранами (вход, список, форма
// записи) и оверлеем подтверждения удаления. Сетевые вызовы уходят
// через tea.Cmd; сами модели остаются чистыми и проверяются юнит-
// тестами без запуска программы.
package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sebwieland/concert-journal/internal/models"
	"github.com/sebwieland/concert-journal/internal/prefs"
	"github.com/sebwieland/concert-journal/internal/session"
)

// Session — операции менеджера сессии, нужные интерфейсу
// (реализуется session.Manager).
type Session interface {
	Login(ctx context.Context, creds models.Credentials) error
	SignUp(ctx context.Context, reg models.Registration) error
	Logout()
	Current() session.State
	StartAutoRefresh(ctx context.Context) error
}

// JournalAPI — операции дневника (реализуется apiclient.Client).
type JournalAPI interface {
	Events(ctx context.Context, accessToken string) ([]models.Entry, error)
	CreateEvent(ctx context.Context, accessToken string, entry models.Entry) (models.Entry, error)
	UpdateEvent(ctx context.Context, accessToken string, id int64, entry models.Entry) (models.Entry, error)
	DeleteEvent(ctx context.Context, accessToken string, id int64) error
}

// PrefStore — сохранение настроек между сессиями
// (реализуется prefs.Store).
type PrefStore interface {
	Load() (prefs.Preferences, error)
	Save(prefs.Preferences) error
}

type view int

const (
	viewAuth view = iota
	viewJournal
	viewForm
)

// refreshLoopDoneMsg — фоновый цикл обновления токена завершился.
type refreshLoopDoneMsg struct{}

type prefsSavedMsg struct{ err error }

// App — корневая модель Bubbletea.
type App struct {
	session Session
	api     JournalAPI
	prefs   PrefStore

	theme theme
	sort  models.SortOrder

	view    view
	auth    authModel
	journal journalModel
	form    formModel

	confirm *models.Entry // цель удаления; nil — оверлей закрыт

	notice string // баннер над экраном входа (истёкшая сессия)

	width  int
	height int
}

// NewApp собирает интерфейс; настройки читаются толерантно,
// их отсутствие не мешает запуску.
func NewApp(s Session, api JournalAPI, store PrefStore) App {
	p, err := store.Load()
	if err != nil {
		p = prefs.Defaults()
	}

	th := themeByName(p.Theme)

	a := App{
		session: s,
		api:     api,
		prefs:   store,
		theme:   th,
		sort:    p.Sort,
		auth:    newAuthModel(s, th),
	}
	a.journal = newJournalModel(api, s, th, p.Sort)

	if s.Current().LoggedIn {
		a.view = viewJournal
	}

	return a
}

func (a App) Init() tea.Cmd {
	if a.view == viewJournal {
		return tea.Batch(a.journal.Init(), a.runRefreshLoop())
	}
	return nil
}

// runRefreshLoop запускает фоновое обновление токена; команда живёт
// до логаута или отмены и возвращает сигнал завершения цикла.
func (a App) runRefreshLoop() tea.Cmd {
	s := a.session
	return func() tea.Msg {
		_ = s.StartAutoRefresh(context.Background())
		return refreshLoopDoneMsg{}
	}
}

func (a App) savePrefs() tea.Cmd {
	store := a.prefs
	p := prefs.Preferences{Sort: a.sort, Theme: a.theme.name}
	return func() tea.Msg {
		return prefsSavedMsg{err: store.Save(p)}
	}
}

func (a *App) applyTheme(th theme) {
	a.theme = th
	a.auth.theme = th
	a.journal.theme = th
	a.form.theme = th
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// Хром: заголовок(2) + подсказки(1).
		bodyMsg := tea.WindowSizeMsg{Width: msg.Width, Height: msg.Height - 3}
		a.journal, _ = a.journal.Update(bodyMsg)
		return a, nil

	case refreshLoopDoneMsg:
		// Цикл мог закончиться принудительным логаутом (refresh-токен
		// отозван) — интерфейс возвращается ко входу.
		if !a.session.Current().LoggedIn && a.view != viewAuth {
			a.view = viewAuth
			a.auth = newAuthModel(a.session, a.theme)
			a.notice = "session expired, sign in again"
		}
		return a, nil

	case prefsSavedMsg:
		return a, nil

	case authDoneMsg:
		var cmd tea.Cmd
		a.auth, cmd = a.auth.Update(msg)
		if msg.err == nil && msg.mode == authModeLogin {
			a.notice = ""
			a.view = viewJournal
			a.journal = newJournalModel(a.api, a.session, a.theme, a.sort)
			return a, tea.Batch(a.journal.Init(), a.runRefreshLoop())
		}
		return a, cmd

	case editEntryMsg:
		a.view = viewForm
		a.form = newFormModel(a.api, a.session, a.theme, msg.entry)
		return a, nil

	case confirmDeleteMsg:
		e := msg.entry
		a.confirm = &e
		return a, nil

	case sortChangedMsg:
		a.sort = msg.order
		return a, a.savePrefs()

	case entrySavedMsg:
		if msg.err == nil {
			a.view = viewJournal
			a.journal.loading = true
			return a, a.journal.load()
		}
		var cmd tea.Cmd
		a.form, cmd = a.form.Update(msg)
		return a, cmd

	case tea.KeyMsg:
		return a.updateKeys(msg)
	}

	return a.route(msg)
}

func (a App) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return a, tea.Quit
	}

	// Оверлей подтверждения перехватывает ввод целиком.
	if a.confirm != nil {
		switch msg.String() {
		case "y", "enter":
			entry := *a.confirm
			a.confirm = nil
			a.journal.loading = true
			return a, a.journal.deleteCmd(entry.ID)
		case "n", "esc":
			a.confirm = nil
		}
		return a, nil
	}

	switch a.view {
	case viewJournal:
		if !a.journal.editing {
			switch msg.String() {
			case "q":
				return a, tea.Quit
			case "t":
				if a.theme.name == "dark" {
					a.applyTheme(lightTheme())
				} else {
					a.applyTheme(darkTheme())
				}
				return a, a.savePrefs()
			case "ctrl+l":
				a.session.Logout()
				a.view = viewAuth
				a.auth = newAuthModel(a.session, a.theme)
				return a, nil
			}
		}
	case viewForm:
		if msg.String() == "esc" {
			a.view = viewJournal
			return a, nil
		}
	}

	return a.route(msg)
}

// route передаёт сообщение модели активного экрана.
func (a App) route(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.view {
	case viewAuth:
		a.auth, cmd = a.auth.Update(msg)
	case viewJournal:
		a.journal, cmd = a.journal.Update(msg)
	case viewForm:
		a.form, cmd = a.form.Update(msg)
	}
	return a, cmd
}

func (a App) View() string {
	th := a.theme

	header := " " + th.title.Render("♪ CONCERT JOURNAL")
	if st := a.session.Current(); st.LoggedIn && a.view != viewAuth {
		header += "  " + th.meta.Render("signed in")
	}
	header += "\n"

	var body, help string
	switch a.view {
	case viewAuth:
		if a.notice != "" {
			body = " " + th.errText.Render(a.notice) + "\n" + a.auth.View()
		} else {
			body = a.auth.View()
		}
		help = a.auth.helpLine()
	case viewJournal:
		body = a.journal.View()
		help = a.journal.helpLine()
	case viewForm:
		body = a.form.View()
		help = a.form.helpLine()
	}

	if a.confirm != nil {
		body = a.confirmView()
		help = " " + th.helpEntry("y", "delete") + "  " + th.helpEntry("n", "keep")
	}

	body = strings.TrimRight(truncateToHeight(body, a.height-3), "\n")

	return header + "\n" + body + "\n" + help
}

func (a App) confirmView() string {
	th := a.theme
	e := a.confirm

	var b strings.Builder
	b.WriteString(" " + th.title.Render("DELETE ENTRY?") + "\n\n")
	b.WriteString(" " + th.normal.Render(e.BandName) + "  " +
		th.dim.Render(e.Place) + "  " + th.meta.Render(e.Date.Format()) + "\n\n")
	b.WriteString(" " + th.errText.Render("this cannot be undone") + "\n")
	return b.String()
}
