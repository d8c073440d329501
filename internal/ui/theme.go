package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nibzard/streak-go/internal/prefs"
)

// Theme holds the colors for one display mode.
type Theme struct {
	Name      string
	Text      lipgloss.Color
	Muted     lipgloss.Color
	Accent    lipgloss.Color
	Done      lipgloss.Color
	Border    lipgloss.Color
	Cursor    lipgloss.Color
	Milestone lipgloss.Color
	Error     lipgloss.Color
	Warning   lipgloss.Color
}

// LightTheme is the default theme.
func LightTheme() Theme {
	return Theme{
		Name:      "light",
		Text:      lipgloss.Color("#101F38"),
		Muted:     lipgloss.Color("#6b7280"),
		Accent:    lipgloss.Color("#2563eb"),
		Done:      lipgloss.Color("#16a34a"),
		Border:    lipgloss.Color("#d1d5db"),
		Cursor:    lipgloss.Color("#2563eb"),
		Milestone: lipgloss.Color("#d97706"),
		Error:     lipgloss.Color("#dc2626"),
		Warning:   lipgloss.Color("#b45309"),
	}
}

// DarkTheme is used when dark mode is on.
func DarkTheme() Theme {
	return Theme{
		Name:      "dark",
		Text:      lipgloss.Color("#f2f2f2"),
		Muted:     lipgloss.Color("#9ca3af"),
		Accent:    lipgloss.Color("#8BC34A"),
		Done:      lipgloss.Color("#8BC34A"),
		Border:    lipgloss.Color("#2a3850"),
		Cursor:    lipgloss.Color("#60a5fa"),
		Milestone: lipgloss.Color("#FFC107"),
		Error:     lipgloss.Color("#f87171"),
		Warning:   lipgloss.Color("#FFC107"),
	}
}

// HighContrastTheme overrides both light and dark mode.
func HighContrastTheme() Theme {
	return Theme{
		Name:      "high-contrast",
		Text:      lipgloss.Color("#ffffff"),
		Muted:     lipgloss.Color("#ffffff"),
		Accent:    lipgloss.Color("#ffff00"),
		Done:      lipgloss.Color("#00ff00"),
		Border:    lipgloss.Color("#ffffff"),
		Cursor:    lipgloss.Color("#ffff00"),
		Milestone: lipgloss.Color("#00ffff"),
		Error:     lipgloss.Color("#ff0000"),
		Warning:   lipgloss.Color("#ffff00"),
	}
}

// ThemeFor picks the theme for the given preferences.
func ThemeFor(p prefs.Prefs) Theme {
	switch {
	case p.HighContrast:
		return HighContrastTheme()
	case p.DarkMode:
		return DarkTheme()
	default:
		return LightTheme()
	}
}

// Styles are the lipgloss styles derived from a theme.
type Styles struct {
	Title      lipgloss.Style
	Muted      lipgloss.Style
	Bold       lipgloss.Style
	Card       lipgloss.Style
	CardCursor lipgloss.Style
	CardDone   lipgloss.Style
	Milestone  lipgloss.Style
	Today      lipgloss.Style
	Modal      lipgloss.Style
	ToastInfo  lipgloss.Style
	ToastWarn  lipgloss.Style
	ToastError lipgloss.Style
	ToastParty lipgloss.Style
}

const cardWidth = 12

func newStyles(t Theme) Styles {
	card := lipgloss.NewStyle().
		Width(cardWidth).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Foreground(t.Text).
		Padding(0, 1)
	toast := lipgloss.NewStyle().Padding(0, 1).Bold(true)

	return Styles{
		Title:      lipgloss.NewStyle().Bold(true).Foreground(t.Accent),
		Muted:      lipgloss.NewStyle().Foreground(t.Muted),
		Bold:       lipgloss.NewStyle().Bold(true).Foreground(t.Text),
		Card:       card,
		CardCursor: card.BorderForeground(t.Cursor).BorderStyle(lipgloss.ThickBorder()),
		CardDone:   card.Foreground(t.Done),
		Milestone:  lipgloss.NewStyle().Foreground(t.Milestone).Bold(true),
		Today:      lipgloss.NewStyle().Foreground(t.Accent).Underline(true),
		Modal: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Accent).
			Padding(0, 1),
		ToastInfo:  toast.Foreground(t.Accent),
		ToastWarn:  toast.Foreground(t.Warning),
		ToastError: toast.Foreground(t.Error),
		ToastParty: toast.Foreground(t.Milestone),
	}
}
