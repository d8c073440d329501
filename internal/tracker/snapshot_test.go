package tracker

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/nibzard/streak-go/internal/kv"
)

func TestExportSnapshotIsDeepCopy(t *testing.T) {
	s := newTestStore(t, 3, nil)
	snap := s.ExportSnapshot()
	snap.Days[0].Done = true
	snap.Stats.BestStreak = 99
	if day, _ := s.Day(0); day.Done {
		t.Error("export shares day storage with the store")
	}
	if s.ComputeStats().BestStreakEver != 0 {
		t.Error("export shares stats with the store")
	}
}

func TestImportRoundTrip(t *testing.T) {
	src := newTestStore(t, 40, nil)
	for _, i := range []int{0, 1, 2, 3, 10, 38, 39} {
		_ = src.ToggleDay(i)
	}
	_ = src.SetNote(10, "felt good")
	want := src.ComputeStats()

	dst := newTestStore(t, 40, nil)
	if err := dst.ImportSnapshot(src.ExportSnapshot()); err != nil {
		t.Fatalf("ImportSnapshot failed: %v", err)
	}
	if diff := cmp.Diff(want, dst.ComputeStats()); diff != "" {
		t.Errorf("stats after import (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(src.ExportSnapshot(), dst.ExportSnapshot()); diff != "" {
		t.Errorf("state after import (-want +got):\n%s", diff)
	}
}

func TestImportWrongLengthLeavesStateUnchanged(t *testing.T) {
	for _, n := range []int{39, 41, 0} {
		s := newTestStore(t, 40, nil)
		_ = s.ToggleDay(5)
		before := s.ExportSnapshot()

		doc := map[string]any{"days": make([]Day, n)}
		err := s.ImportSnapshot(doc)
		var ive *ImportValidationError
		if !errors.As(err, &ive) {
			t.Fatalf("len %d: got %v, want *ImportValidationError", n, err)
		}
		if diff := cmp.Diff(before, s.ExportSnapshot()); diff != "" {
			t.Errorf("len %d: state changed (-before +after):\n%s", n, diff)
		}
	}
}

func TestImportRejects(t *testing.T) {
	tests := []struct {
		name     string
		doc      string
		wantPath string
	}{
		{name: "array", doc: `[]`},
		{name: "missing days", doc: `{"start":"2025-08-17"}`},
		{name: "days not array", doc: `{"days":"all of them"}`, wantPath: "days"},
		{name: "done not bool", doc: `{"days":[{"date":"2025-08-17","done":1},{"date":"2025-08-18","done":false}]}`, wantPath: "days[0].done"},
		{name: "missing date", doc: `{"days":[{"done":true},{"date":"2025-08-18","done":false}]}`, wantPath: "days[0]"},
		{name: "note not string", doc: `{"days":[{"date":"2025-08-17","done":true},{"date":"2025-08-18","done":false,"note":5}]}`, wantPath: "days[1].note"},
		{name: "bad start", doc: `{"start":"someday","days":[{"date":"2025-08-17","done":true},{"date":"2025-08-18","done":false}]}`, wantPath: "start"},
		{name: "negative best", doc: `{"stats":{"bestStreak":-1},"days":[{"date":"2025-08-17","done":true},{"date":"2025-08-18","done":false}]}`, wantPath: "stats.bestStreak"},
		{name: "not json", doc: `{"days": [`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore(t, 2, nil)
			before := s.ExportSnapshot()

			err := s.ImportJSON([]byte(tt.doc))
			var ive *ImportValidationError
			if !errors.As(err, &ive) {
				t.Fatalf("got %v, want *ImportValidationError", err)
			}
			if tt.wantPath != "" {
				found := false
				for _, e := range ive.Errors {
					var fe *FieldError
					if errors.As(e, &fe) && fe.Path == tt.wantPath {
						found = true
					}
				}
				if !found {
					t.Errorf("no problem reported at %q: %v", tt.wantPath, err)
				}
			}
			if diff := cmp.Diff(before, s.ExportSnapshot()); diff != "" {
				t.Errorf("state changed (-before +after):\n%s", diff)
			}
		})
	}
}

func TestImportMergesAndNormalizes(t *testing.T) {
	mem := kv.NewMemory()
	s := newTestStore(t, 3, mem)
	_ = s.SetDisplayPrefs(true, true)

	long := strings.Repeat("n", MaxNoteLength+10)
	doc := `{"start":"2025-09-01","days":[
		{"date":"2000-01-01","done":true,"note":"` + long + `"},
		{"date":"2000-01-01","done":true},
		{"date":"2000-01-01","done":false}
	],"darkMode":false}`
	if err := s.ImportJSON([]byte(doc)); err != nil {
		t.Fatalf("ImportJSON failed: %v", err)
	}

	got := s.ExportSnapshot()
	if got.Start != "2025-09-01" {
		t.Errorf("start: got %s", got.Start)
	}
	wantDates := []string{"2025-09-01", "2025-09-02", "2025-09-03"}
	for i, d := range got.Days {
		if d.Date != wantDates[i] {
			t.Errorf("day %d date: got %s, want %s", i, d.Date, wantDates[i])
		}
	}
	if n := len([]rune(got.Days[0].Note)); n != MaxNoteLength {
		t.Errorf("note length: got %d, want %d", n, MaxNoteLength)
	}
	if got.DarkMode {
		t.Error("imported darkMode should win")
	}
	if !got.HighContrast {
		t.Error("highContrast absent from import should keep current value")
	}
	if got.Stats.BestStreak != 2 {
		t.Errorf("best streak: got %d, want 2", got.Stats.BestStreak)
	}

	stored, err := mem.Get(testKey)
	if err != nil {
		t.Fatalf("import was not persisted: %v", err)
	}
	var persisted State
	if err := json.Unmarshal(stored, &persisted); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(got, persisted); diff != "" {
		t.Errorf("persisted state (-want +got):\n%s", diff)
	}
}

func TestImportStatsWin(t *testing.T) {
	s := newTestStore(t, 2, nil)
	_ = s.ToggleDay(0)
	_ = s.ToggleDay(1)

	doc := `{"days":[{"date":"2025-08-17","done":false},{"date":"2025-08-18","done":false}],"stats":{"bestStreak":0}}`
	if err := s.ImportJSON([]byte(doc)); err != nil {
		t.Fatalf("ImportJSON failed: %v", err)
	}
	if got := s.ComputeStats().BestStreakEver; got != 0 {
		t.Errorf("imported best streak should replace current: got %d", got)
	}
}

func TestWriteExportAndReadImportFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "exports", ExportFileName(time.Date(2025, 9, 3, 22, 0, 0, 0, time.UTC)))

	src := newTestStore(t, 5, nil)
	_ = src.ToggleDay(4)
	_ = src.SetNote(4, "done")
	if err := src.WriteExport(path); err != nil {
		t.Fatalf("WriteExport failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(string(data), "}\n") || !strings.Contains(string(data), "\n  \"days\": [") {
		t.Errorf("unexpected export layout:\n%s", data)
	}

	dst := newTestStore(t, 5, nil)
	if err := dst.ReadImportFile(path); err != nil {
		t.Fatalf("ReadImportFile failed: %v", err)
	}
	if diff := cmp.Diff(src.ExportSnapshot(), dst.ExportSnapshot()); diff != "" {
		t.Errorf("imported state (-want +got):\n%s", diff)
	}

	if err := dst.ReadImportFile(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestExportFileName(t *testing.T) {
	kolkata := time.FixedZone("IST", 5*3600+1800)
	got := ExportFileName(time.Date(2025, 8, 18, 2, 0, 0, 0, kolkata))
	if got != "streak-tracker-2025-08-17.json" {
		t.Errorf("got %s", got)
	}
}
