package tracker

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/log"

	"github.com/nibzard/streak-go/internal/kv"
)

// Options configures a Store.
type Options struct {
	// Days is the fixed calendar length N.
	Days int
	// StartDate is the first tracked day (YYYY-MM-DD) for freshly generated state.
	StartDate string
	// Key is the key the document is stored under.
	Key string
	// KV is the backing store. Defaults to an in-memory store.
	KV kv.Store
	// Logger receives debug and warning output. Defaults to a discarding logger.
	Logger *log.Logger
	// Now and Location decide which day is "today".
	Now      func() time.Time
	Location *time.Location
}

// Store owns the tracker state and its persistence. It is not safe for
// concurrent use; callers drive it from a single event loop.
type Store struct {
	n         int
	startDate string
	key       string
	kv        kv.Store
	logger    *log.Logger
	now       func() time.Time
	loc       *time.Location
	validator *Validator

	state State
}

// New returns a store holding a freshly generated calendar. Call Load to
// rehydrate persisted state.
func New(opts Options) (*Store, error) {
	if opts.Days < 1 {
		return nil, fmt.Errorf("days must be positive, got %d", opts.Days)
	}
	if _, err := ParseDate(opts.StartDate); err != nil {
		return nil, fmt.Errorf("start date: %w", err)
	}
	if opts.Key == "" {
		return nil, errors.New("storage key is empty")
	}
	s := &Store{
		n:         opts.Days,
		startDate: opts.StartDate,
		key:       opts.Key,
		kv:        opts.KV,
		logger:    opts.Logger,
		now:       opts.Now,
		loc:       opts.Location,
		validator: NewValidator(opts.Days),
	}
	if s.kv == nil {
		s.kv = kv.NewMemory()
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.loc == nil {
		s.loc = time.UTC
	}
	s.state = s.freshState()
	return s, nil
}

func (s *Store) freshState() State {
	// startDate was validated in New.
	days, _ := GenerateDays(s.startDate, s.n)
	return State{Start: s.startDate, Days: days}
}

// Load rehydrates state from the key-value store. It never leaves the store
// unusable: an absent payload yields a fresh calendar and a nil error, and a
// payload that cannot be used yields a fresh calendar plus a
// *StorageReadError for the caller to log.
func (s *Store) Load() error {
	s.state = s.freshState()

	data, err := s.kv.Get(s.key)
	if errors.Is(err, kv.ErrNotFound) {
		s.logger.Debug("no stored state, starting fresh", "key", s.key)
		return nil
	}
	if err != nil {
		return s.readFailure(err)
	}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return s.readFailure(fmt.Errorf("parse: %w", err))
	}
	if result := s.validator.Validate(raw); !result.Valid {
		return s.readFailure(&ImportValidationError{Errors: result.Errors})
	}

	obj, ok := raw.(map[string]any)
	if !ok {
		return s.readFailure(errors.New("stored payload is not an object"))
	}
	merged, err := s.merge(obj)
	if err != nil {
		return s.readFailure(err)
	}
	s.state = merged
	s.ComputeStats()
	s.logger.Debug("loaded stored state", "key", s.key, "completed", s.state.CompletedCount())
	return nil
}

func (s *Store) readFailure(err error) error {
	s.state = s.freshState()
	rerr := &StorageReadError{Key: s.key, Err: err}
	s.logger.Warn("stored state unusable, starting fresh", "key", s.key, "err", err)
	return rerr
}

// Persist writes the full document to the key-value store.
func (s *Store) Persist() error {
	data, err := Marshal(s.state)
	if err != nil {
		return err
	}
	if err := s.kv.Set(s.key, data); err != nil {
		s.logger.Error("persist failed", "key", s.key, "err", err)
		return fmt.Errorf("persist state: %w", err)
	}
	s.logger.Debug("persisted state", "key", s.key, "bytes", len(data))
	return nil
}

func (s *Store) checkIndex(index int) error {
	if index < 0 || index >= s.n {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, index, s.n)
	}
	return nil
}

// ToggleDay flips the done flag of the day at index.
func (s *Store) ToggleDay(index int) error {
	if err := s.checkIndex(index); err != nil {
		return err
	}
	day := &s.state.Days[index]
	day.Done = !day.Done
	stats := s.ComputeStats()
	s.logger.Debug("toggled day", "day", index+1, "done", day.Done,
		"current_streak", stats.CurrentStreak, "best_streak", stats.BestStreakEver)
	return s.Persist()
}

// SetNote stores text as the note of the day at index. Text longer than
// MaxNoteLength characters is cut to the limit; the cut note is stored and a
// *NoteTooLongError is returned to report it.
func (s *Store) SetNote(index int, text string) error {
	if err := s.checkIndex(index); err != nil {
		return err
	}
	note, length := truncateNote(text)
	s.state.Days[index].Note = note
	if err := s.Persist(); err != nil {
		return err
	}
	if length > MaxNoteLength {
		return &NoteTooLongError{Index: index, Length: length, Limit: MaxNoteLength}
	}
	return nil
}

func truncateNote(text string) (string, int) {
	length := utf8.RuneCountInString(text)
	if length <= MaxNoteLength {
		return text, length
	}
	runes := []rune(text)
	return string(runes[:MaxNoteLength]), length
}

// ComputeStats derives the statistics and ratchets the stored best streak.
// Calling it repeatedly without a mutation in between returns the same value.
func (s *Store) ComputeStats() Stats {
	total, current, runBest := ComputeStreaks(s.state.Days)
	if runBest > s.state.Stats.BestStreak {
		s.state.Stats.BestStreak = runBest
	}
	return Stats{
		TotalCompleted: total,
		CurrentStreak:  current,
		RunBestStreak:  runBest,
		BestStreakEver: s.state.Stats.BestStreak,
	}
}

// Reset regenerates every day from the start date and clears the best
// streak. It does not ask for confirmation; callers collect
// ResetConfirmation first.
func (s *Store) Reset() error {
	days, err := GenerateDays(s.state.Start, s.n)
	if err != nil {
		days, _ = GenerateDays(s.startDate, s.n)
		s.state.Start = s.startDate
	}
	s.state.Days = days
	s.state.Stats = PersistedStats{}
	s.logger.Info("tracker reset", "start", s.state.Start, "days", s.n)
	return s.Persist()
}

// SetDisplayPrefs mirrors the presentation preferences into the document so
// exports carry them.
func (s *Store) SetDisplayPrefs(darkMode, highContrast bool) error {
	if s.state.DarkMode == darkMode && s.state.HighContrast == highContrast {
		return nil
	}
	s.state.DarkMode = darkMode
	s.state.HighContrast = highContrast
	return s.Persist()
}

// Days returns a copy of the day sequence.
func (s *Store) Days() []Day {
	return s.state.Clone().Days
}

// Day returns the day at index.
func (s *Store) Day(index int) (Day, error) {
	if err := s.checkIndex(index); err != nil {
		return Day{}, err
	}
	return s.state.Days[index], nil
}

// Len returns the calendar length N.
func (s *Store) Len() int { return s.n }

// StartDate returns the start date of the current state.
func (s *Store) StartDate() string { return s.state.Start }

// Key returns the storage key.
func (s *Store) Key() string { return s.key }

// DisplayPrefs returns the mirrored presentation preferences.
func (s *Store) DisplayPrefs() (darkMode, highContrast bool) {
	return s.state.DarkMode, s.state.HighContrast
}

// TodayIndex returns the index of today's date in the configured location,
// and false when today is outside the tracked range.
func (s *Store) TodayIndex() (int, bool) {
	offset, err := DayOffset(s.state.Start, s.now(), s.loc)
	if err != nil || offset < 0 || offset >= s.n {
		return 0, false
	}
	return offset, true
}
