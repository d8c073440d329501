package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want log.Level
	}{
		{"debug", log.DebugLevel},
		{"INFO", log.InfoLevel},
		{"warn", log.WarnLevel},
		{"warning", log.WarnLevel},
		{" error ", log.ErrorLevel},
		{"fatal", log.FatalLevel},
		{"loud", log.InfoLevel},
		{"", log.InfoLevel},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q): got %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseFormatter(t *testing.T) {
	tests := []struct {
		in   string
		want log.Formatter
	}{
		{"json", log.JSONFormatter},
		{"logfmt", log.LogfmtFormatter},
		{"text", log.TextFormatter},
		{"", log.TextFormatter},
	}
	for _, tt := range tests {
		if got := ParseFormatter(tt.in); got != tt.want {
			t.Errorf("ParseFormatter(%q): got %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewFromConfigHonorsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewFromConfig(&buf, "warn", "logfmt", false, false)
	logger.Info("hidden")
	logger.Warn("shown", "day", 3)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info message should be filtered: %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "day=3") {
		t.Errorf("unexpected output: %q", out)
	}
}

func TestNewSession(t *testing.T) {
	t.Run("creates nested dir and file", func(t *testing.T) {
		base := filepath.Join(t.TempDir(), "logs", "nested")
		workDir := filepath.Join(t.TempDir(), "my habits")
		if err := os.Mkdir(workDir, 0o755); err != nil {
			t.Fatal(err)
		}

		s, err := NewSession(base, workDir)
		if err != nil {
			t.Fatalf("NewSession failed: %v", err)
		}
		defer s.Close()

		if !strings.HasPrefix(filepath.Base(s.Dir), "my_habits-") {
			t.Errorf("log dir should carry the project slug: %s", s.Dir)
		}
		if _, err := os.Stat(s.LogPath); err != nil {
			t.Errorf("log file not created: %v", err)
		}
		if filepath.Base(s.LogPath) != s.SessionID+".jsonl" {
			t.Errorf("log path %s does not match session %s", s.LogPath, s.SessionID)
		}
	})

	t.Run("empty base dir", func(t *testing.T) {
		if _, err := NewSession("", t.TempDir()); err == nil || !strings.Contains(err.Error(), "empty") {
			t.Errorf("expected empty dir error, got %v", err)
		}
	})
}

func TestSessionLoggerWritesJSONL(t *testing.T) {
	s, err := NewSession(t.TempDir(), t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	logger := s.Logger("debug", false)
	logger.Debug("toggled day", "day", 4, "done", true)
	logger.Info("persisted state")
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(s.LogPath)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), data)
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("line is not JSON: %v", err)
	}
	if entry["msg"] != "toggled day" {
		t.Errorf("msg: got %v", entry["msg"])
	}
	if entry["day"] != float64(4) {
		t.Errorf("day: got %v", entry["day"])
	}
}

func TestSessionCloseNil(t *testing.T) {
	var s *Session
	if err := s.Close(); err != nil {
		t.Errorf("nil session close: %v", err)
	}
}

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"":              "project",
		"   ":           "project",
		"streak":        "streak",
		"my habits":     "my_habits",
		"a//b  c":       "a_b_c",
		"***":           "project",
		"v1.2_final-ok": "v1.2_final-ok",
	}
	for in, want := range tests {
		if got := slugify(in); got != want {
			t.Errorf("slugify(%q): got %q, want %q", in, got, want)
		}
	}
}

func TestHashPath(t *testing.T) {
	a := hashPath("/home/a/project")
	if len(a) != 8 {
		t.Errorf("hash length: got %d, want 8", len(a))
	}
	if a != hashPath("/home/a/project") {
		t.Error("hash not deterministic")
	}
	if a == hashPath("/home/b/project") {
		t.Error("different paths should hash differently")
	}
}

func TestSessionID(t *testing.T) {
	now := time.Date(2025, 8, 17, 6, 30, 0, 0, time.UTC)
	a, b := sessionID(now), sessionID(now)
	if !strings.HasPrefix(a, "20250817-063000-") {
		t.Errorf("unexpected prefix: %s", a)
	}
	if a == b {
		t.Error("session IDs should be unique")
	}
}

func TestFindLogDir(t *testing.T) {
	workDir := t.TempDir()
	dir, err := FindLogDir("logs", workDir)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(dir, filepath.Join(workDir, "logs")) {
		t.Errorf("relative base should resolve against work dir: %s", dir)
	}

	abs := t.TempDir()
	dir, _ = FindLogDir(abs, workDir)
	if filepath.Dir(dir) != abs {
		t.Errorf("absolute base: got %s", dir)
	}

	if _, err := FindLogDir("", workDir); err == nil {
		t.Error("expected error for empty base dir")
	}
}

func TestFindLatestLog(t *testing.T) {
	dir := t.TempDir()

	got, err := FindLatestLog(filepath.Join(dir, "missing"))
	if err != nil || got != "" {
		t.Fatalf("missing dir: got (%q, %v)", got, err)
	}

	old := filepath.Join(dir, "20250101-000000-aaaaaaaa.jsonl")
	newer := filepath.Join(dir, "20250102-000000-bbbbbbbb.jsonl")
	other := filepath.Join(dir, "notes.txt")
	for _, p := range []string{old, newer, other} {
		if err := os.WriteFile(p, []byte("{}\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	past := time.Now().Add(-time.Hour)
	if err := os.Chtimes(old, past, past); err != nil {
		t.Fatal(err)
	}

	got, err = FindLatestLog(dir)
	if err != nil {
		t.Fatal(err)
	}
	if got != newer {
		t.Errorf("got %s, want %s", got, newer)
	}

	sessions, err := FindSessions(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(sessions))
	}
	if sessions[1].SessionID != "20250101-000000-aaaaaaaa" {
		t.Errorf("older session: got %s", sessions[1].SessionID)
	}
}

func TestTailLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.jsonl")
	var content strings.Builder
	for i := 1; i <= 10; i++ {
		content.WriteString("line")
		content.WriteString(strings.Repeat("x", i))
		content.WriteString("\n")
	}
	if err := os.WriteFile(path, []byte(content.String()), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name      string
		n         int
		wantLines int
	}{
		{name: "all", n: 0, wantLines: 10},
		{name: "last three", n: 3, wantLines: 3},
		{name: "more than file", n: 50, wantLines: 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := TailLog(context.Background(), &buf, path, tt.n, false); err != nil {
				t.Fatalf("TailLog failed: %v", err)
			}
			lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
			if len(lines) != tt.wantLines {
				t.Errorf("got %d lines, want %d: %q", len(lines), tt.wantLines, buf.String())
			}
			if lines[len(lines)-1] != "line"+strings.Repeat("x", 10) {
				t.Errorf("last line: got %q", lines[len(lines)-1])
			}
		})
	}

	if err := TailLog(context.Background(), &bytes.Buffer{}, filepath.Join(t.TempDir(), "nope"), 0, false); err == nil {
		t.Error("expected error for missing file")
	}
}

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestTailLogFollow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.jsonl")
	if err := os.WriteFile(path, []byte("first\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	out := &lockedBuffer{}
	done := make(chan error, 1)
	go func() { done <- TailLog(ctx, out, path, 0, true) }()

	deadline := time.Now().Add(5 * time.Second)
	for !strings.Contains(out.String(), "first") && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0)
	if err != nil {
		t.Fatal(err)
	}
	for !strings.Contains(out.String(), "second") && time.Now().Before(deadline) {
		if _, err := f.WriteString("second\n"); err != nil {
			t.Fatal(err)
		}
		time.Sleep(50 * time.Millisecond)
	}
	f.Close()

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("TailLog returned %v", err)
	}
	if !strings.Contains(out.String(), "second") {
		t.Errorf("appended line not followed: %q", out.String())
	}
}
