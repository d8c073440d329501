package tracker

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Marshal encodes a state with 2-space indentation and a trailing newline.
func Marshal(state State) ([]byte, error) {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal state: %w", err)
	}
	return append(data, '\n'), nil
}

// ExportSnapshot returns a deep copy of the full state.
func (s *Store) ExportSnapshot() State {
	return s.state.Clone()
}

// ImportSnapshot replaces the state with raw shallow-merged over it. raw is
// any decoded JSON value (or a Go value that marshals to one). Every day
// entry is validated; on failure an *ImportValidationError is returned and
// the state is unchanged. On success imported top-level fields win, notes
// are cut to MaxNoteLength, dates are re-derived from the start date, and the
// result is persisted. The imported stats.bestStreak replaces the stored one,
// so besides Reset this is the only way the best streak can go down.
func (s *Store) ImportSnapshot(raw any) error {
	doc, err := normalizeJSON(raw)
	if err != nil {
		return &ImportValidationError{Errors: []error{&FieldError{Err: err}}}
	}
	if result := s.validator.Validate(doc); !result.Valid {
		s.logger.Warn("import rejected", "problems", len(result.Errors))
		return &ImportValidationError{Errors: result.Errors}
	}
	obj, ok := doc.(map[string]any)
	if !ok {
		return &ImportValidationError{Errors: []error{&FieldError{Err: fmt.Errorf("expected a JSON object")}}}
	}

	merged, err := s.merge(obj)
	if err != nil {
		return &ImportValidationError{Errors: []error{&FieldError{Err: err}}}
	}
	s.state = merged
	stats := s.ComputeStats()
	s.logger.Info("imported snapshot", "start", s.state.Start,
		"completed", stats.TotalCompleted, "best_streak", stats.BestStreakEver)
	return s.Persist()
}

// ImportJSON parses data and imports it. Parse failures are reported as an
// *ImportValidationError.
func (s *Store) ImportJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return &ImportValidationError{Errors: []error{&FieldError{Err: fmt.Errorf("parse: %w", err)}}}
	}
	return s.ImportSnapshot(raw)
}

// ReadImportFile imports the snapshot stored at path.
func (s *Store) ReadImportFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read import file: %w", err)
	}
	return s.ImportJSON(data)
}

// WriteExport writes the current snapshot to path.
func (s *Store) WriteExport(path string) error {
	data, err := Marshal(s.ExportSnapshot())
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create export dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write export file: %w", err)
	}
	s.logger.Info("exported snapshot", "path", path)
	return nil
}

// ExportFileName returns the date-stamped export file name for now (UTC).
func ExportFileName(now time.Time) string {
	return fmt.Sprintf("streak-tracker-%s.json", now.UTC().Format(time.DateOnly))
}

// merge overlays the top-level fields of raw on the current state and
// normalizes the result.
func (s *Store) merge(raw map[string]any) (State, error) {
	base, err := json.Marshal(s.state)
	if err != nil {
		return State{}, fmt.Errorf("marshal current state: %w", err)
	}
	fields := make(map[string]any)
	if err := json.Unmarshal(base, &fields); err != nil {
		return State{}, fmt.Errorf("decode current state: %w", err)
	}
	for k, v := range raw {
		fields[k] = v
	}
	data, err := json.Marshal(fields)
	if err != nil {
		return State{}, fmt.Errorf("marshal merged state: %w", err)
	}
	var out State
	if err := json.Unmarshal(data, &out); err != nil {
		return State{}, fmt.Errorf("decode merged state: %w", err)
	}
	if len(out.Days) != s.n {
		return State{}, fmt.Errorf("expected %d days, got %d", s.n, len(out.Days))
	}
	s.normalize(&out)
	return out, nil
}

func (s *Store) normalize(state *State) {
	start, err := ParseDate(state.Start)
	if err != nil {
		state.Start = s.startDate
		start, _ = ParseDate(s.startDate)
	}
	for i := range state.Days {
		state.Days[i].Date = start.AddDate(0, 0, i).Format(time.DateOnly)
		state.Days[i].Note, _ = truncateNote(state.Days[i].Note)
	}
	if state.Stats.BestStreak < 0 {
		state.Stats.BestStreak = 0
	}
}
