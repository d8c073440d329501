package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nibzard/streak-go/internal/tracker"
)

func (m *tuiModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	m.writeHeader(&b)

	if m.mode == modeHelp {
		writeHelp(&b, m.styles)
		return b.String()
	}

	m.writeStats(&b)
	m.writeGrid(&b)
	m.writeSelection(&b)
	m.writeModal(&b)
	m.writeToast(&b)
	b.WriteString(m.styles.Muted.Render("arrows move · space toggle · n note · e export · i import · R reset · d dark · c contrast · ? help · q quit"))
	b.WriteString("\n")
	return b.String()
}

func (m *tuiModel) writeHeader(b *strings.Builder) {
	days := m.store.Days()
	title := fmt.Sprintf("%d-Day Streak", m.store.Len())
	b.WriteString(m.styles.Title.Render(title))
	if len(days) > 0 {
		span := fmt.Sprintf("  %s → %s", tracker.FormatDisplay(days[0].Date), tracker.FormatDisplay(days[len(days)-1].Date))
		b.WriteString(m.styles.Muted.Render(span))
	}
	b.WriteString("\n")
	if n := len(m.cfg.Motivation); n > 0 {
		b.WriteString(m.styles.Muted.Render(m.cfg.Motivation[m.quote%n]))
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

func (m *tuiModel) writeStats(b *strings.Builder) {
	stats := m.store.ComputeStats()
	n := m.store.Len()
	fmt.Fprintf(b, "%s %d/%d   %s %d   %s %d\n",
		m.styles.Bold.Render("Completed"), stats.TotalCompleted, n,
		m.styles.Bold.Render("Current streak"), stats.CurrentStreak,
		m.styles.Bold.Render("Best"), stats.BestStreakEver,
	)
	b.WriteString(m.progress.ViewAs(float64(stats.TotalCompleted) / float64(n)))
	b.WriteString("\n\n")
}

func (m *tuiModel) writeGrid(b *strings.Builder) {
	days := m.store.Days()
	today, hasToday := m.store.TodayIndex()

	for start := 0; start < len(days); start += gridColumns {
		end := start + gridColumns
		if end > len(days) {
			end = len(days)
		}
		cards := make([]string, 0, end-start)
		for i := start; i < end; i++ {
			cards = append(cards, m.renderCard(i, days[i], hasToday && i == today))
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cards...))
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

func (m *tuiModel) renderCard(i int, day tracker.Day, isToday bool) string {
	number := i + 1
	check := "[ ]"
	if day.Done {
		check = "[x]"
	}
	head := fmt.Sprintf("%s %02d", check, number)
	if m.cfg.IsMilestone(number) {
		head += " " + m.styles.Milestone.Render("★")
	}

	date := shortDate(day.Date)
	if isToday {
		date = m.styles.Today.Render(date)
	}

	note := " "
	if day.Note != "" {
		note = "✎ " + truncate(day.Note, cardWidth-4)
	}

	style := m.styles.Card
	if day.Done {
		style = m.styles.CardDone
	}
	if i == m.cursor {
		style = style.BorderForeground(m.theme.Cursor).BorderStyle(lipgloss.ThickBorder())
	}
	return style.Render(strings.Join([]string{head, date, note}, "\n"))
}

func (m *tuiModel) writeSelection(b *strings.Builder) {
	day, err := m.store.Day(m.cursor)
	if err != nil {
		return
	}
	status := "not done"
	if day.Done {
		status = "done"
	}
	fmt.Fprintf(b, "%s  %s  %s\n",
		m.styles.Bold.Render(fmt.Sprintf("Day %d", m.cursor+1)),
		tracker.FormatDisplay(day.Date),
		m.styles.Muted.Render(status),
	)
	if day.Note != "" {
		b.WriteString(m.styles.Muted.Render("Note: " + day.Note))
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

func (m *tuiModel) writeModal(b *strings.Builder) {
	var title, hint string
	switch m.mode {
	case modeNote:
		title = fmt.Sprintf("Note for day %d (max %d characters)", m.cursor+1, tracker.MaxNoteLength)
		hint = "enter save · esc cancel"
	case modeImport:
		title = "Import a snapshot file"
		hint = "enter import · esc cancel"
	case modeReset:
		title = fmt.Sprintf("Reset all %d days? This clears every check, note and the best streak.", m.store.Len())
		hint = "type " + tracker.ResetConfirmation + " and press enter · esc cancel"
	default:
		return
	}
	body := strings.Join([]string{
		m.styles.Bold.Render(title),
		m.input.View(),
		m.styles.Muted.Render(hint),
	}, "\n")
	b.WriteString(m.styles.Modal.Render(body))
	b.WriteString("\n\n")
}

func (m *tuiModel) writeToast(b *strings.Builder) {
	if m.toast == nil {
		return
	}
	style := m.styles.ToastInfo
	switch m.toast.kind {
	case toastWarn:
		style = m.styles.ToastWarn
	case toastError:
		style = m.styles.ToastError
	case toastMilestone:
		style = m.styles.ToastParty
	}
	b.WriteString(style.Render(m.toast.text))
	b.WriteString("\n\n")
}

func writeHelp(b *strings.Builder, s Styles) {
	b.WriteString(s.Bold.Render("Keyboard Shortcuts"))
	b.WriteString("\n\n")
	b.WriteString("  arrows, hjkl   Move between days\n")
	b.WriteString("  g / G, t       First day, last day, today\n")
	b.WriteString("  space, enter   Toggle the selected day\n")
	b.WriteString("  n              Edit the note for the selected day\n")
	b.WriteString("  e              Export a snapshot file\n")
	b.WriteString("  i              Import a snapshot file\n")
	b.WriteString("  R              Reset the tracker\n")
	b.WriteString("  d              Toggle dark mode\n")
	b.WriteString("  c              Toggle high contrast\n")
	b.WriteString("  ?              Toggle this help screen\n")
	b.WriteString("  q, ctrl+c      Quit\n\n")
	b.WriteString(s.Muted.Render("Press any key to return"))
	b.WriteString("\n")
}

// shortDate renders 2025-08-17 as "Sun 17 Aug".
func shortDate(date string) string {
	display := tracker.FormatDisplay(date)
	if len(display) < 11 {
		return display
	}
	return strings.Replace(display[:11], ",", "", 1)
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 1 {
		return string(runes[:max])
	}
	return string(runes[:max-1]) + "…"
}
