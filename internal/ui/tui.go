// Package ui provides the interactive terminal interface.
package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/nibzard/streak-go/internal/config"
	"github.com/nibzard/streak-go/internal/kv"
	"github.com/nibzard/streak-go/internal/prefs"
	"github.com/nibzard/streak-go/internal/tracker"
)

const (
	toastDuration      = 3 * time.Second
	motivationInterval = 10 * time.Second
	gridColumns        = 7
)

// Options wires the TUI to its collaborators.
type Options struct {
	Config *config.Config
	Store  *tracker.Store
	// KV holds the display preferences; usually the same store the tracker uses.
	KV     kv.Store
	Logger *log.Logger
	Now    func() time.Time
}

// RunTUI starts the interactive tracker and blocks until the user quits or
// ctx is cancelled.
func RunTUI(ctx context.Context, opts Options) error {
	if !IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}
	model, err := newTUIModel(opts)
	if err != nil {
		return err
	}
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = program.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

type mode int

const (
	modeGrid mode = iota
	modeNote
	modeImport
	modeReset
	modeHelp
)

type toastKind int

const (
	toastInfo toastKind = iota
	toastWarn
	toastError
	toastMilestone
)

type toast struct {
	id   int
	kind toastKind
	text string
}

type toastExpiredMsg struct{ id int }

type motivationTickMsg time.Time

type tuiModel struct {
	cfg    *config.Config
	store  *tracker.Store
	kv     kv.Store
	logger *log.Logger
	now    func() time.Time

	cursor   int
	mode     mode
	input    textinput.Model
	progress progress.Model

	prefs  prefs.Prefs
	theme  Theme
	styles Styles

	toast    *toast
	toastSeq int
	quote    int
	width    int
	quitting bool
}

func newTUIModel(opts Options) (*tuiModel, error) {
	if opts.Config == nil || opts.Store == nil {
		return nil, errors.New("tui needs a config and a store")
	}
	m := &tuiModel{
		cfg:    opts.Config,
		store:  opts.Store,
		kv:     opts.KV,
		logger: opts.Logger,
		now:    opts.Now,
	}
	if m.kv == nil {
		m.kv = kv.NewMemory()
	}
	if m.logger == nil {
		m.logger = log.New(io.Discard)
	}
	if m.now == nil {
		m.now = time.Now
	}

	p, err := prefs.Load(m.kv)
	if err != nil {
		m.logger.Warn("display preferences unreadable, using defaults", "err", err)
	}
	m.applyPrefs(p)

	m.input = textinput.New()
	m.input.CharLimit = tracker.MaxNoteLength
	m.input.Width = 60

	m.progress = progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage())
	m.progress.Width = gridColumns * (cardWidth + 2)

	if idx, ok := m.store.TodayIndex(); ok {
		m.cursor = idx
	}
	return m, nil
}

func (m *tuiModel) Init() tea.Cmd {
	return motivationTick()
}

func motivationTick() tea.Cmd {
	return tea.Tick(motivationInterval, func(t time.Time) tea.Msg {
		return motivationTickMsg(t)
	})
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case motivationTickMsg:
		if n := len(m.cfg.Motivation); n > 0 {
			m.quote = (m.quote + 1) % n
		}
		return m, motivationTick()
	case toastExpiredMsg:
		if m.toast != nil && m.toast.id == msg.id {
			m.toast = nil
		}
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
		switch m.mode {
		case modeGrid:
			return m.updateGrid(msg)
		case modeHelp:
			m.mode = modeGrid
			return m, nil
		default:
			return m.updateInput(msg)
		}
	}
	return m, nil
}

func (m *tuiModel) updateGrid(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := m.store.Len()
	switch msg.String() {
	case "q":
		m.quitting = true
		return m, tea.Quit
	case "left", "h":
		if m.cursor > 0 {
			m.cursor--
		}
	case "right", "l":
		if m.cursor < n-1 {
			m.cursor++
		}
	case "up", "k":
		if m.cursor-gridColumns >= 0 {
			m.cursor -= gridColumns
		}
	case "down", "j":
		if m.cursor+gridColumns < n {
			m.cursor += gridColumns
		}
	case "home", "g":
		m.cursor = 0
	case "end", "G":
		m.cursor = n - 1
	case "t":
		if idx, ok := m.store.TodayIndex(); ok {
			m.cursor = idx
		}
	case " ", "enter":
		return m, m.toggle()
	case "n":
		day, _ := m.store.Day(m.cursor)
		return m, m.openInput(modeNote, day.Note, "Note for this day")
	case "i":
		return m, m.openInput(modeImport, "", "path/to/"+tracker.ExportFileName(m.now()))
	case "R":
		return m, m.openInput(modeReset, "", "type "+tracker.ResetConfirmation+" to confirm")
	case "e":
		return m, m.export()
	case "d":
		p := m.prefs
		p.DarkMode = !p.DarkMode
		return m, m.savePrefs(p)
	case "c":
		p := m.prefs
		p.HighContrast = !p.HighContrast
		return m, m.savePrefs(p)
	case "?":
		m.mode = modeHelp
	}
	return m, nil
}

func (m *tuiModel) openInput(md mode, value, placeholder string) tea.Cmd {
	m.mode = md
	m.input.Reset()
	m.input.SetValue(value)
	m.input.Placeholder = placeholder
	m.input.CursorEnd()
	return m.input.Focus()
}

func (m *tuiModel) closeInput() {
	m.mode = modeGrid
	m.input.Blur()
	m.input.Reset()
}

func (m *tuiModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.closeInput()
		return m, nil
	case tea.KeyEnter:
		return m, m.submit()
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *tuiModel) submit() tea.Cmd {
	value := m.input.Value()
	switch m.mode {
	case modeNote:
		m.closeInput()
		err := m.store.SetNote(m.cursor, strings.TrimSpace(value))
		var tooLong *tracker.NoteTooLongError
		switch {
		case errors.As(err, &tooLong):
			return m.notify(toastWarn, fmt.Sprintf("Note trimmed to %d characters", tooLong.Limit))
		case err != nil:
			return m.fail("Could not save note", err)
		}
		return m.notify(toastInfo, fmt.Sprintf("Note saved for day %d", m.cursor+1))

	case modeImport:
		path := strings.TrimSpace(value)
		if path == "" {
			return m.notify(toastWarn, "Enter a file path to import")
		}
		m.closeInput()
		if err := m.store.ReadImportFile(expandHome(path)); err != nil {
			var invalid *tracker.ImportValidationError
			if errors.As(err, &invalid) {
				m.logger.Warn("import rejected", "path", path, "err", err)
				return m.notify(toastError, "Import rejected: "+invalid.Error())
			}
			return m.fail("Import failed", err)
		}
		m.syncPrefsFromState()
		m.clampCursor()
		return m.notify(toastInfo, "Imported "+filepath.Base(path))

	case modeReset:
		if value != tracker.ResetConfirmation {
			return m.notify(toastWarn, "Type "+tracker.ResetConfirmation+" to confirm reset")
		}
		m.closeInput()
		if err := m.store.Reset(); err != nil {
			return m.fail("Reset failed", err)
		}
		m.cursor = 0
		if idx, ok := m.store.TodayIndex(); ok {
			m.cursor = idx
		}
		return m.notify(toastInfo, "Tracker reset")
	}
	m.closeInput()
	return nil
}

func (m *tuiModel) toggle() tea.Cmd {
	if err := m.store.ToggleDay(m.cursor); err != nil {
		return m.fail("Could not save", err)
	}
	day, _ := m.store.Day(m.cursor)
	number := m.cursor + 1
	switch {
	case day.Done && m.cfg.IsMilestone(number):
		return m.notify(toastMilestone, fmt.Sprintf("Milestone! Day %d complete. Keep the streak alive!", number))
	case day.Done:
		return m.notify(toastInfo, fmt.Sprintf("Day %d complete", number))
	default:
		return m.notify(toastInfo, fmt.Sprintf("Day %d unmarked", number))
	}
}

func (m *tuiModel) export() tea.Cmd {
	path := filepath.Join(m.cfg.ExportDir, tracker.ExportFileName(m.now()))
	if err := m.store.WriteExport(path); err != nil {
		return m.fail("Export failed", err)
	}
	return m.notify(toastInfo, "Exported to "+path)
}

func (m *tuiModel) savePrefs(p prefs.Prefs) tea.Cmd {
	m.applyPrefs(p)
	if err := prefs.Save(m.kv, p); err != nil {
		return m.fail("Could not save preferences", err)
	}
	if err := m.store.SetDisplayPrefs(p.DarkMode, p.HighContrast); err != nil {
		return m.fail("Could not save preferences", err)
	}
	return m.notify(toastInfo, "Theme: "+m.theme.Name)
}

// syncPrefsFromState adopts display preferences carried by an imported
// snapshot.
func (m *tuiModel) syncPrefsFromState() {
	dark, contrast := m.store.DisplayPrefs()
	p := prefs.Prefs{DarkMode: dark, HighContrast: contrast}
	if p == m.prefs {
		return
	}
	m.applyPrefs(p)
	if err := prefs.Save(m.kv, p); err != nil {
		m.logger.Warn("save display preferences", "err", err)
	}
}

func (m *tuiModel) applyPrefs(p prefs.Prefs) {
	m.prefs = p
	m.theme = ThemeFor(p)
	m.styles = newStyles(m.theme)
}

func (m *tuiModel) clampCursor() {
	if m.cursor >= m.store.Len() {
		m.cursor = m.store.Len() - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *tuiModel) notify(kind toastKind, text string) tea.Cmd {
	m.toastSeq++
	id := m.toastSeq
	m.toast = &toast{id: id, kind: kind, text: text}
	return tea.Tick(toastDuration, func(time.Time) tea.Msg {
		return toastExpiredMsg{id: id}
	})
}

func (m *tuiModel) fail(text string, err error) tea.Cmd {
	m.logger.Error(text, "err", err)
	return m.notify(toastError, text+": "+err.Error())
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
