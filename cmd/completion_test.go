package cmd

import (
	"io"
	"os"
	"strings"
	"testing"

	"github.com/nibzard/streak-go/internal/config"
)

func captureStdout(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	oldStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe() error = %v", err)
	}
	os.Stdout = w
	defer func() {
		os.Stdout = oldStdout
	}()

	done := make(chan []byte)
	go func() {
		data, _ := io.ReadAll(r)
		done <- data
	}()

	runErr := fn()
	_ = w.Close()
	output := <-done
	_ = r.Close()

	return string(output), runErr
}

func TestCompletionCommandOutputsScripts(t *testing.T) {
	cfg := &config.Config{}

	tests := []struct {
		name    string
		shell   string
		needle  string
		wantErr bool
	}{
		{name: "bash", shell: "bash", needle: "# streak bash completion"},
		{name: "zsh", shell: "zsh", needle: "#compdef streak"},
		{name: "fish", shell: "fish", needle: "# streak fish completion"},
		{name: "powershell", shell: "powershell", needle: "# streak PowerShell completion"},
		{name: "pwsh alias", shell: "pwsh", needle: "# streak PowerShell completion"},
		{name: "unknown shell", shell: "tcsh", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := captureStdout(t, func() error {
				return completionCommand(cfg, []string{tt.shell})
			})
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for shell %q, got nil", tt.shell)
				}
				return
			}
			if err != nil {
				t.Fatalf("completionCommand(%q) error = %v", tt.shell, err)
			}
			if !strings.Contains(output, tt.needle) {
				t.Errorf("output missing %q:\n%s", tt.needle, output)
			}
			for _, sub := range []string{"toggle", "export", "import"} {
				if !strings.Contains(output, sub) {
					t.Errorf("output missing subcommand %q", sub)
				}
			}
		})
	}
}

func TestCompletionCommandRequiresShell(t *testing.T) {
	if err := completionCommand(&config.Config{}, nil); err == nil {
		t.Fatal("expected error without a shell")
	}
}
