package tui

import "github.com/charmbracelet/lipgloss"

// theme — палитра интерфейса. Две встроенные темы (dark/light),
// выбор сохраняется в настройках между сессиями.
type theme struct {
	name string

	title    lipgloss.Style
	normal   lipgloss.Style
	dim      lipgloss.Style
	meta     lipgloss.Style
	selected lipgloss.Style
	accent   lipgloss.Style
	errText  lipgloss.Style
	okText   lipgloss.Style
	stars    lipgloss.Style

	helpKey   lipgloss.Style
	helpLabel lipgloss.Style

	selectedRowBg lipgloss.Style
}

func darkTheme() theme {
	return theme{
		name: "dark",

		title:    lipgloss.NewStyle().Foreground(lipgloss.Color("#c8a84c")).Bold(true),
		normal:   lipgloss.NewStyle().Foreground(lipgloss.Color("#c0c4d0")),
		dim:      lipgloss.NewStyle().Foreground(lipgloss.Color("#8890a0")),
		meta:     lipgloss.NewStyle().Foreground(lipgloss.Color("#505868")),
		selected: lipgloss.NewStyle().Foreground(lipgloss.Color("#e4e4ec")).Bold(true),
		accent:   lipgloss.NewStyle().Foreground(lipgloss.Color("#34d474")),
		errText:  lipgloss.NewStyle().Foreground(lipgloss.Color("#e06060")),
		okText:   lipgloss.NewStyle().Foreground(lipgloss.Color("#4ade80")),
		stars:    lipgloss.NewStyle().Foreground(lipgloss.Color("#f0c040")),

		helpKey:   lipgloss.NewStyle().Foreground(lipgloss.Color("#8890a0")),
		helpLabel: lipgloss.NewStyle().Foreground(lipgloss.Color("#505868")),

		selectedRowBg: lipgloss.NewStyle().Background(lipgloss.Color("#1e1e2a")),
	}
}

func lightTheme() theme {
	return theme{
		name: "light",

		title:    lipgloss.NewStyle().Foreground(lipgloss.Color("#8a6d1a")).Bold(true),
		normal:   lipgloss.NewStyle().Foreground(lipgloss.Color("#30343c")),
		dim:      lipgloss.NewStyle().Foreground(lipgloss.Color("#6a7280")),
		meta:     lipgloss.NewStyle().Foreground(lipgloss.Color("#9aa2b0")),
		selected: lipgloss.NewStyle().Foreground(lipgloss.Color("#101218")).Bold(true),
		accent:   lipgloss.NewStyle().Foreground(lipgloss.Color("#157f4a")),
		errText:  lipgloss.NewStyle().Foreground(lipgloss.Color("#b03030")),
		okText:   lipgloss.NewStyle().Foreground(lipgloss.Color("#157f4a")),
		stars:    lipgloss.NewStyle().Foreground(lipgloss.Color("#b08a10")),

		helpKey:   lipgloss.NewStyle().Foreground(lipgloss.Color("#6a7280")),
		helpLabel: lipgloss.NewStyle().Foreground(lipgloss.Color("#9aa2b0")),

		selectedRowBg: lipgloss.NewStyle().Background(lipgloss.Color("#e4e6ec")),
	}
}

// themeByName возвращает тему по имени; неизвестное имя — dark.
func themeByName(name string) theme {
	if name == "light" {
		return lightTheme()
	}
	return darkTheme()
}

// helpEntry — пара «клавиша подпись» для строки подсказок.
func (t theme) helpEntry(key, label string) string {
	return t.helpKey.Render(key) + " " + t.helpLabel.Render(label)
}
