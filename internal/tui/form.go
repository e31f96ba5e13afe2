package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sebwieland/concert-journal/internal/models"
)

type formField int

const (
	formFieldBand formField = iota
	formFieldPlace
	formFieldDate
	formFieldRating
	formFieldComment
	numFormFields
)

var formFieldLabels = [numFormFields]string{
	"band", "place", "date", "rating", "comment",
}

type entrySavedMsg struct{ err error }

type formModel struct {
	api     JournalAPI
	session Session
	theme   theme

	editID *int64 // nil — новая запись
	fields [numFormFields]string
	rating int
	focus  formField

	submitting bool
	errMsg     string
}

func newFormModel(api JournalAPI, s Session, th theme, entry *models.Entry) formModel {
	m := formModel{api: api, session: s, theme: th}

	if entry != nil {
		id := entry.ID
		m.editID = &id
		m.fields[formFieldBand] = entry.BandName
		m.fields[formFieldPlace] = entry.Place
		if entry.Date.Valid() {
			m.fields[formFieldDate] = entry.Date.Format()
		}
		m.fields[formFieldComment] = entry.Comment
		m.rating = entry.Rating
	}

	return m
}

func (m formModel) Update(msg tea.Msg) (formModel, tea.Cmd) {
	switch msg := msg.(type) {
	case entrySavedMsg:
		m.submitting = false
		if msg.err != nil {
			m.errMsg, _ = authErrorText(msg.err)
		}
		return m, nil

	case tea.KeyMsg:
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m formModel) updateKeys(msg tea.KeyMsg) (formModel, tea.Cmd) {
	if m.submitting {
		return m, nil
	}

	m.errMsg = ""

	switch msg.String() {
	case "tab", "down":
		m.focus = (m.focus + 1) % numFormFields
	case "shift+tab", "up":
		m.focus = (m.focus - 1 + numFormFields) % numFormFields
	case "ctrl+s":
		return m.submit()
	case "enter":
		if m.focus == numFormFields-1 {
			return m.submit()
		}
		m.focus = (m.focus + 1) % numFormFields
	default:
		if m.focus == formFieldRating {
			switch msg.String() {
			case "l", "right", "+":
				if m.rating < 5 {
					m.rating++
				}
			case "h", "left", "-":
				if m.rating > 0 {
					m.rating--
				}
			case "0", "1", "2", "3", "4", "5":
				m.rating = int(msg.String()[0] - '0')
			}
			return m, nil
		}

		f := &m.fields[m.focus]
		*f = editRune(*f, msg.String())
	}
	return m, nil
}

func (m formModel) submit() (formModel, tea.Cmd) {
	band := strings.TrimSpace(m.fields[formFieldBand])
	if band == "" {
		m.errMsg = "band is required"
		return m, nil
	}

	var date models.EventDate
	if raw := strings.TrimSpace(m.fields[formFieldDate]); raw != "" {
		date = models.ClassifyDate(raw)
		if !date.Valid() {
			m.errMsg = "date must look like 31/12/2024"
			return m, nil
		}
	}

	entry := models.Entry{
		BandName: band,
		Place:    strings.TrimSpace(m.fields[formFieldPlace]),
		Date:     date,
		Rating:   m.rating,
		Comment:  strings.TrimSpace(m.fields[formFieldComment]),
	}

	m.submitting = true
	api := m.api
	token := m.session.Current().AccessToken
	editID := m.editID

	return m, func() tea.Msg {
		var err error
		if editID != nil {
			_, err = api.UpdateEvent(context.Background(), token, *editID, entry)
		} else {
			_, err = api.CreateEvent(context.Background(), token, entry)
		}
		return entrySavedMsg{err: err}
	}
}

func (m formModel) View() string {
	th := m.theme
	var b strings.Builder

	if m.editID != nil {
		b.WriteString(" " + th.title.Render("EDIT CONCERT") + "\n\n")
	} else {
		b.WriteString(" " + th.title.Render("NEW CONCERT") + "\n\n")
	}

	for i := formField(0); i < numFormFields; i++ {
		label := formFieldLabels[i]
		cursor := " "
		style := th.meta
		if i == m.focus {
			cursor = ">"
			style = th.selected
		}

		if i == formFieldRating {
			hint := ""
			if i == m.focus {
				hint = "  " + th.dim.Render("(h/l or 0-5)")
			}
			fmt.Fprintf(&b, " %s %s: %s%s\n",
				cursor, style.Render(label), th.stars.Render(renderStars(m.rating)), hint)
			continue
		}

		value := m.fields[i]
		if i == m.focus {
			value += "█"
		}
		if i == formFieldDate && m.fields[i] == "" && i != m.focus {
			value = th.dim.Render("dd/mm/yyyy")
		}
		fmt.Fprintf(&b, " %s %s: %s\n", cursor, style.Render(label), th.normal.Render(value))
	}

	b.WriteString("\n")
	if m.submitting {
		b.WriteString(" " + th.dim.Render("saving..."))
	} else if m.errMsg != "" {
		b.WriteString(" " + th.errText.Render(m.errMsg))
	}

	return b.String()
}

func (m formModel) helpLine() string {
	th := m.theme
	return " " + th.helpEntry("tab", "next") + "  " +
		th.helpEntry("ctrl+s", "save") + "  " +
		th.helpEntry("esc", "cancel")
}
