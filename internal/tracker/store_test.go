package tracker

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/nibzard/streak-go/internal/kv"
)

const testKey = "streak40:v1"

func newTestStore(t *testing.T, n int, store kv.Store) *Store {
	t.Helper()
	s, err := New(Options{Days: n, StartDate: "2025-08-17", Key: testKey, KV: store})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return s
}

// failingKV accepts reads and rejects writes.
type failingKV struct{ *kv.Memory }

func (failingKV) Set(string, []byte) error { return errors.New("disk full") }

func TestNewValidatesOptions(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{name: "zero days", opts: Options{Days: 0, StartDate: "2025-08-17", Key: "k"}},
		{name: "bad start", opts: Options{Days: 3, StartDate: "tomorrow", Key: "k"}},
		{name: "empty key", opts: Options{Days: 3, StartDate: "2025-08-17"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.opts); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestToggleScenario(t *testing.T) {
	s := newTestStore(t, 3, nil)

	for _, i := range []int{0, 1, 2} {
		if err := s.ToggleDay(i); err != nil {
			t.Fatalf("ToggleDay(%d) failed: %v", i, err)
		}
	}
	got := s.ComputeStats()
	want := Stats{TotalCompleted: 3, CurrentStreak: 3, RunBestStreak: 3, BestStreakEver: 3}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("stats after three toggles (-want +got):\n%s", diff)
	}

	if err := s.ToggleDay(1); err != nil {
		t.Fatalf("ToggleDay(1) failed: %v", err)
	}
	got = s.ComputeStats()
	want = Stats{TotalCompleted: 2, CurrentStreak: 1, RunBestStreak: 1, BestStreakEver: 3}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("stats after untoggle (-want +got):\n%s", diff)
	}
}

func TestToggleOutOfRange(t *testing.T) {
	s := newTestStore(t, 5, nil)
	for _, i := range []int{-1, 5, 100} {
		if err := s.ToggleDay(i); !errors.Is(err, ErrIndexOutOfRange) {
			t.Errorf("ToggleDay(%d): got %v, want ErrIndexOutOfRange", i, err)
		}
		if err := s.SetNote(i, "x"); !errors.Is(err, ErrIndexOutOfRange) {
			t.Errorf("SetNote(%d): got %v, want ErrIndexOutOfRange", i, err)
		}
	}
}

func TestToggleAndNotePersist(t *testing.T) {
	mem := kv.NewMemory()
	s := newTestStore(t, 40, mem)

	if err := s.ToggleDay(4); err != nil {
		t.Fatalf("ToggleDay failed: %v", err)
	}
	if err := s.SetNote(4, "ran 5k"); err != nil {
		t.Fatalf("SetNote failed: %v", err)
	}

	reloaded := newTestStore(t, 40, mem)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	day, err := reloaded.Day(4)
	if err != nil {
		t.Fatalf("Day failed: %v", err)
	}
	want := Day{Date: "2025-08-21", Done: true, Note: "ran 5k"}
	if diff := cmp.Diff(want, day); diff != "" {
		t.Errorf("reloaded day (-want +got):\n%s", diff)
	}
	if got := reloaded.ComputeStats().BestStreakEver; got != 1 {
		t.Errorf("best streak: got %d, want 1", got)
	}
}

func TestSetNoteTruncates(t *testing.T) {
	s := newTestStore(t, 3, nil)

	long := strings.Repeat("é", MaxNoteLength+5)
	err := s.SetNote(0, long)
	var tooLong *NoteTooLongError
	if !errors.As(err, &tooLong) {
		t.Fatalf("got %v, want *NoteTooLongError", err)
	}
	if tooLong.Length != MaxNoteLength+5 || tooLong.Limit != MaxNoteLength {
		t.Errorf("unexpected error fields: %+v", tooLong)
	}
	day, _ := s.Day(0)
	if got := len([]rune(day.Note)); got != MaxNoteLength {
		t.Errorf("stored note length: got %d, want %d", got, MaxNoteLength)
	}

	exact := strings.Repeat("a", MaxNoteLength)
	if err := s.SetNote(1, exact); err != nil {
		t.Errorf("note at limit: unexpected error %v", err)
	}
}

func TestSetNoteDoesNotAffectStats(t *testing.T) {
	s := newTestStore(t, 3, nil)
	_ = s.ToggleDay(2)
	before := s.ComputeStats()
	_ = s.SetNote(2, "hello")
	if diff := cmp.Diff(before, s.ComputeStats()); diff != "" {
		t.Errorf("stats changed (-before +after):\n%s", diff)
	}
}

func TestResetScenario(t *testing.T) {
	s := newTestStore(t, 40, nil)
	for i := 0; i < 10; i++ {
		_ = s.ToggleDay(i)
	}
	_ = s.SetNote(3, "keep going")
	_ = s.SetDisplayPrefs(true, false)

	if err := s.Reset(); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}

	got := s.ComputeStats()
	if diff := cmp.Diff(Stats{}, got); diff != "" {
		t.Errorf("stats after reset (-want +got):\n%s", diff)
	}
	want, _ := GenerateDays("2025-08-17", 40)
	if diff := cmp.Diff(want, s.Days()); diff != "" {
		t.Errorf("days after reset (-want +got):\n%s", diff)
	}
	if dark, _ := s.DisplayPrefs(); !dark {
		t.Error("reset should keep display preferences")
	}
}

func TestLoadAbsentIsFresh(t *testing.T) {
	s := newTestStore(t, 40, kv.NewMemory())
	if err := s.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got := s.ComputeStats(); got != (Stats{}) {
		t.Errorf("fresh stats: got %+v", got)
	}
	if s.Len() != 40 || len(s.Days()) != 40 {
		t.Errorf("expected 40 days, got %d", len(s.Days()))
	}
}

func TestLoadFailsSoft(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{name: "not json", payload: "{days: nope"},
		{name: "not an object", payload: `[1,2,3]`},
		{name: "missing days", payload: `{"start":"2025-08-17"}`},
		{name: "wrong length", payload: `{"days":[{"date":"2025-08-17","done":true,"note":""}]}`},
		{name: "bad day entry", payload: `{"days":[` + strings.TrimSuffix(strings.Repeat(`{"date":"2025-08-17","done":"yes"},`, 3), ",") + `]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mem := kv.NewMemory()
			s := newTestStore(t, 3, mem)
			if err := s.ToggleDay(0); err != nil {
				t.Fatal(err)
			}
			// Corrupt the stored document after the in-memory change.
			if err := mem.Set(testKey, []byte(tt.payload)); err != nil {
				t.Fatal(err)
			}

			err := s.Load()
			var readErr *StorageReadError
			if !errors.As(err, &readErr) {
				t.Fatalf("got %v, want *StorageReadError", err)
			}
			if readErr.Key != testKey {
				t.Errorf("key: got %q", readErr.Key)
			}
			want, _ := GenerateDays("2025-08-17", 3)
			if diff := cmp.Diff(want, s.Days()); diff != "" {
				t.Errorf("expected fresh days (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoadRederivesDates(t *testing.T) {
	mem := kv.NewMemory()
	payload := `{"start":"2025-01-01","days":[
		{"date":"1999-01-01","done":true,"note":"a"},
		{"date":"1999-01-01","done":true},
		{"date":"1999-01-01","done":false,"note":""}
	],"stats":{"bestStreak":7}}`
	if err := mem.Set(testKey, []byte(payload)); err != nil {
		t.Fatal(err)
	}
	s := newTestStore(t, 3, mem)
	if err := s.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	want := []Day{
		{Date: "2025-01-01", Done: true, Note: "a"},
		{Date: "2025-01-02", Done: true},
		{Date: "2025-01-03"},
	}
	if diff := cmp.Diff(want, s.Days()); diff != "" {
		t.Errorf("days (-want +got):\n%s", diff)
	}
	if got := s.ComputeStats().BestStreakEver; got != 7 {
		t.Errorf("stored best streak: got %d, want 7", got)
	}
	if s.StartDate() != "2025-01-01" {
		t.Errorf("start: got %s", s.StartDate())
	}
}

func TestPersistFailureKeepsMutation(t *testing.T) {
	s := newTestStore(t, 3, failingKV{kv.NewMemory()})
	if err := s.ToggleDay(0); err == nil {
		t.Fatal("expected persist error")
	}
	day, _ := s.Day(0)
	if !day.Done {
		t.Error("in-memory toggle should survive a failed write")
	}
}

func TestComputeStatsIdempotent(t *testing.T) {
	s := newTestStore(t, 10, nil)
	for _, i := range []int{1, 2, 3, 7, 9} {
		_ = s.ToggleDay(i)
	}
	first := s.ComputeStats()
	second := s.ComputeStats()
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("second call differs (-first +second):\n%s", diff)
	}
}

func TestTodayIndex(t *testing.T) {
	now := time.Date(2025, 8, 20, 9, 0, 0, 0, time.UTC)
	s, err := New(Options{
		Days:      40,
		StartDate: "2025-08-17",
		Key:       testKey,
		Now:       func() time.Time { return now },
	})
	if err != nil {
		t.Fatal(err)
	}
	if idx, ok := s.TodayIndex(); !ok || idx != 3 {
		t.Errorf("got (%d, %v), want (3, true)", idx, ok)
	}

	now = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	if _, ok := s.TodayIndex(); ok {
		t.Error("expected today outside range")
	}
}

func TestDaysReturnsCopy(t *testing.T) {
	s := newTestStore(t, 3, nil)
	d := s.Days()
	d[0].Done = true
	if day, _ := s.Day(0); day.Done {
		t.Error("mutating Days() result changed the store")
	}
}
