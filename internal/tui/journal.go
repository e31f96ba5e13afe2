package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sebwieland/concert-journal/internal/journal"
	"github.com/sebwieland/concert-journal/internal/models"
)

type entriesLoadedMsg struct {
	entries []models.Entry
	err     error
}

type entryDeletedMsg struct{ err error }

type yankResultMsg struct{ err error }

// sortChangedMsg всплывает к корневой модели для сохранения
// предпочтения между сессиями.
type sortChangedMsg struct{ order models.SortOrder }

// editEntryMsg — запрос открытия формы (nil — новая запись).
type editEntryMsg struct{ entry *models.Entry }

// confirmDeleteMsg — запрос подтверждения удаления.
type confirmDeleteMsg struct{ entry models.Entry }

type journalModel struct {
	api     JournalAPI
	session Session
	theme   theme

	entries []models.Entry // ответ бэкенда как есть
	visible []models.Entry // после поиска и сортировки
	sort    models.SortOrder

	cursor    int
	search    string
	editing   bool // набор в строке поиска
	loading   bool
	errMsg    string
	statusMsg string

	width  int
	height int
}

func newJournalModel(api JournalAPI, s Session, th theme, sort models.SortOrder) journalModel {
	if !sort.Column.Valid() {
		sort = models.DefaultSortOrder()
	}

	return journalModel{
		api:     api,
		session: s,
		theme:   th,
		sort:    sort,
		loading: true,
	}
}

func (m journalModel) load() tea.Cmd {
	api := m.api
	token := m.session.Current().AccessToken

	return func() tea.Msg {
		entries, err := api.Events(context.Background(), token)
		return entriesLoadedMsg{entries: entries, err: err}
	}
}

func (m journalModel) Init() tea.Cmd {
	return m.load()
}

// recompute пересобирает видимый список: сначала поиск (регистр не
// важен), затем сортировка по выбранной колонке.
func (m *journalModel) recompute() {
	if strings.TrimSpace(m.search) != "" {
		m.visible = journal.SearchEntries(m.entries, m.search)
		m.visible = journal.SortEntries(m.visible, m.sort.Column, m.sort.Order)
	} else {
		m.visible = journal.SortEntries(m.entries, m.sort.Column, m.sort.Order)
	}

	if m.cursor >= len(m.visible) {
		m.cursor = 0
	}
}

func (m journalModel) Update(msg tea.Msg) (journalModel, tea.Cmd) {
	switch msg := msg.(type) {
	case entriesLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.errMsg, _ = authErrorText(msg.err)
			return m, nil
		}
		m.errMsg = ""
		m.entries = msg.entries
		m.recompute()
		return m, nil

	case entryDeletedMsg:
		if msg.err != nil {
			m.statusMsg, _ = authErrorText(msg.err)
			return m, nil
		}
		m.statusMsg = "deleted"
		m.loading = true
		return m, m.load()

	case yankResultMsg:
		if msg.err != nil {
			m.statusMsg = "copy failed"
		} else {
			m.statusMsg = "copied!"
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		m.statusMsg = ""
		if m.editing {
			return m.updateSearch(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m journalModel) updateSearch(msg tea.KeyMsg) (journalModel, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.editing = false
		m.recompute()
	case "esc":
		m.editing = false
		m.search = ""
		m.recompute()
	default:
		m.search = editRune(m.search, msg.String())
		m.recompute()
	}
	return m, nil
}

// sortColumns — порядок циклического перебора по "s".
var sortColumns = []models.SortColumn{
	models.SortByDate, models.SortByBand, models.SortByPlace, models.SortByRating,
}

func (m journalModel) updateList(msg tea.KeyMsg) (journalModel, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		if m.cursor < len(m.visible)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "g":
		m.cursor = 0
	case "G":
		if len(m.visible) > 0 {
			m.cursor = len(m.visible) - 1
		}
	case "/":
		m.editing = true
		m.search = ""
	case "s":
		for i, c := range sortColumns {
			if c == m.sort.Column {
				m.sort.Column = sortColumns[(i+1)%len(sortColumns)]
				break
			}
		}
		m.recompute()
		order := m.sort
		return m, func() tea.Msg { return sortChangedMsg{order: order} }
	case "o":
		if m.sort.Order == models.SortAsc {
			m.sort.Order = models.SortDesc
		} else {
			m.sort.Order = models.SortAsc
		}
		m.recompute()
		order := m.sort
		return m, func() tea.Msg { return sortChangedMsg{order: order} }
	case "r":
		m.loading = true
		return m, m.load()
	case "y":
		if m.cursor < len(m.visible) {
			e := m.visible[m.cursor]
			text := fmt.Sprintf("%s, %s, %s", e.BandName, e.Place, e.Date.Format())
			return m, func() tea.Msg {
				return yankResultMsg{err: clipboard.WriteAll(text)}
			}
		}
	case "n":
		return m, func() tea.Msg { return editEntryMsg{} }
	case "e", "enter":
		if m.cursor < len(m.visible) {
			e := m.visible[m.cursor]
			return m, func() tea.Msg { return editEntryMsg{entry: &e} }
		}
	case "d":
		if m.cursor < len(m.visible) {
			e := m.visible[m.cursor]
			return m, func() tea.Msg { return confirmDeleteMsg{entry: e} }
		}
	}
	return m, nil
}

func (m journalModel) deleteCmd(id int64) tea.Cmd {
	api := m.api
	token := m.session.Current().AccessToken

	return func() tea.Msg {
		return entryDeletedMsg{err: api.DeleteEvent(context.Background(), token, id)}
	}
}

func (m journalModel) View() string {
	th := m.theme
	var b strings.Builder

	// Строка поиска и индикатор сортировки.
	if m.editing {
		b.WriteString(" " + th.accent.Render("/ "+m.search+"█"))
	} else if m.search != "" {
		b.WriteString(" " + th.accent.Render("/ "+m.search))
	} else {
		b.WriteString(" " + th.dim.Render("/ search..."))
	}

	arrow := "↓"
	if m.sort.Order == models.SortAsc {
		arrow = "↑"
	}
	b.WriteString("   " + th.accent.Render(string(m.sort.Column)+arrow) +
		" " + th.helpKey.Render("s/o") + "\n")

	sepW := m.width - 2
	if sepW < 4 {
		sepW = 4
	}
	b.WriteString(" " + th.meta.Render(strings.Repeat("─", sepW)) + "\n")

	if m.statusMsg != "" {
		b.WriteString(" " + th.okText.Render(m.statusMsg) + "\n")
	}

	if m.loading {
		b.WriteString(" " + th.dim.Render("loading..."))
		return b.String()
	}

	if m.errMsg != "" {
		b.WriteString(" " + th.errText.Render(m.errMsg))
		return b.String()
	}

	if len(m.visible) == 0 {
		if m.search != "" {
			b.WriteString(" " + th.dim.Render("nothing matches the search"))
		} else {
			b.WriteString(" " + th.dim.Render("no concerts yet — press n to add one"))
		}
		return b.String()
	}

	maxVisible := m.height - 8
	if maxVisible < 3 {
		maxVisible = 3
	}

	start := 0
	if m.cursor >= maxVisible {
		start = m.cursor - maxVisible + 1
	}

	// Колонки: дата(12) оценка(6) band(*) place(*)
	for i := start; i < len(m.visible) && i < start+maxVisible; i++ {
		e := m.visible[i]

		cursor := "  "
		rowStyle := th.dim
		if i == m.cursor {
			cursor = th.accent.Render("▸") + " "
			rowStyle = th.selected
		}

		dateCol := fmt.Sprintf("%-12s", e.Date.Format())
		starCol := th.stars.Render(renderStars(e.Rating))

		bandWidth := (m.width - 24) / 2
		if bandWidth < 10 {
			bandWidth = 10
		}
		bandCol := fmt.Sprintf("%-*s", bandWidth, truncStr(e.BandName, bandWidth))
		placeCol := truncStr(e.Place, bandWidth)

		line := cursor + th.meta.Render(dateCol) + " " +
			rowStyle.Render(bandCol) + " " + th.normal.Render(placeCol) + " " + starCol

		if i == m.cursor {
			pad := m.width - lipgloss.Width(line)
			if pad < 0 {
				pad = 0
			}
			b.WriteString(th.selectedRowBg.Render(line+strings.Repeat(" ", pad)) + "\n")
		} else {
			b.WriteString(line + "\n")
		}
	}

	// Превью комментария выбранной записи.
	if m.cursor < len(m.visible) {
		e := m.visible[m.cursor]
		if e.Comment != "" {
			b.WriteString("\n " + th.meta.Render(truncStr(e.Comment, m.width-2)) + "\n")
		}
	}

	return truncateToHeight(b.String(), m.height)
}

func (m journalModel) helpLine() string {
	th := m.theme
	if m.editing {
		return " " + th.helpEntry("enter", "apply") + "  " + th.helpEntry("esc", "clear")
	}
	return " " + th.helpEntry("j/k", "nav") + "  " +
		th.helpEntry("/", "search") + "  " +
		th.helpEntry("s/o", "sort") + "  " +
		th.helpEntry("n", "new") + "  " +
		th.helpEntry("e", "edit") + "  " +
		th.helpEntry("d", "delete") + "  " +
		th.helpEntry("y", "copy") + "  " +
		th.helpEntry("t", "theme") + "  " +
		th.helpEntry("ctrl+l", "logout") + "  " +
		th.helpEntry("q", "quit")
}
