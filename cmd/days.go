package cmd

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/nibzard/streak-go/internal/config"
	"github.com/nibzard/streak-go/internal/tracker"
)

// statusCommand prints the derived statistics.
func statusCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("streak status", flag.ContinueOnError)
	asJSON := fs.Bool("json", false, "Print statistics as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if len(fs.Args()) > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	store, tr, err := openTracker(cfg, newLogger(cfg))
	if err != nil {
		return err
	}
	defer store.Close()

	stats := tr.ComputeStats()
	if *asJSON {
		out := struct {
			tracker.Stats
			Days  int    `json:"days"`
			Start string `json:"start"`
			Today int    `json:"today,omitempty"`
		}{Stats: stats, Days: tr.Len(), Start: tr.StartDate()}
		if idx, ok := tr.TodayIndex(); ok {
			out.Today = idx + 1
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	fmt.Printf("%d-day streak from %s to %s\n", tr.Len(), tracker.FormatDisplay(tr.StartDate()), tracker.FormatDisplay(lastDate(tr)))
	if idx, ok := tr.TodayIndex(); ok {
		day, _ := tr.Day(idx)
		state := "not done yet"
		if day.Done {
			state = "done"
		}
		fmt.Printf("Today is day %d (%s)\n", idx+1, state)
	}
	fmt.Println()
	fmt.Printf("  Completed:      %d/%d\n", stats.TotalCompleted, tr.Len())
	fmt.Printf("  Current streak: %d\n", stats.CurrentStreak)
	fmt.Printf("  Best streak:    %d\n", stats.BestStreakEver)
	return nil
}

// listCommand prints every day.
func listCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("streak list", flag.ContinueOnError)
	onlyDone := fs.Bool("done", false, "Only completed days")
	onlyPending := fs.Bool("pending", false, "Only days not yet completed")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *onlyDone && *onlyPending {
		return fmt.Errorf("-done and -pending are mutually exclusive")
	}

	store, tr, err := openTracker(cfg, newLogger(cfg))
	if err != nil {
		return err
	}
	defer store.Close()

	today, hasToday := tr.TodayIndex()
	for i, day := range tr.Days() {
		if (*onlyDone && !day.Done) || (*onlyPending && day.Done) {
			continue
		}
		fmt.Println(formatDayLine(cfg, i, day, hasToday && i == today))
	}
	return nil
}

func formatDayLine(cfg *config.Config, i int, day tracker.Day, isToday bool) string {
	check := "[ ]"
	if day.Done {
		check = "[x]"
	}
	marker := " "
	if cfg.IsMilestone(i + 1) {
		marker = "*"
	}
	line := fmt.Sprintf("%3d%s %s %s", i+1, marker, check, tracker.FormatDisplay(day.Date))
	if isToday {
		line += "  <- today"
	}
	if day.Note != "" {
		line += "  " + day.Note
	}
	return line
}

// toggleCommand flips one or more days.
func toggleCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("streak toggle", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if len(fs.Args()) == 0 {
		return fmt.Errorf("toggle requires at least one day")
	}

	store, tr, err := openTracker(cfg, newLogger(cfg))
	if err != nil {
		return err
	}
	defer store.Close()

	indexes := make([]int, 0, len(fs.Args()))
	for _, arg := range fs.Args() {
		idx, err := parseDay(tr, arg)
		if err != nil {
			return err
		}
		indexes = append(indexes, idx)
	}
	for _, idx := range indexes {
		if err := tr.ToggleDay(idx); err != nil {
			return fmt.Errorf("toggling day %d: %w", idx+1, err)
		}
		day, _ := tr.Day(idx)
		state := "not done"
		if day.Done {
			state = "done"
		}
		fmt.Printf("Day %d (%s): %s\n", idx+1, tracker.FormatDisplay(day.Date), state)
		if day.Done && cfg.IsMilestone(idx+1) {
			fmt.Printf("Milestone reached: day %d!\n", idx+1)
		}
	}
	stats := tr.ComputeStats()
	fmt.Printf("Current streak %d, best %d\n", stats.CurrentStreak, stats.BestStreakEver)
	return nil
}

// noteCommand sets the note of a day. Missing text clears it.
func noteCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("streak note", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if len(fs.Args()) == 0 {
		return fmt.Errorf("note requires a day")
	}

	logger := newLogger(cfg)
	store, tr, err := openTracker(cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	idx, err := parseDay(tr, fs.Arg(0))
	if err != nil {
		return err
	}
	text := strings.TrimSpace(strings.Join(fs.Args()[1:], " "))
	err = tr.SetNote(idx, text)
	var tooLong *tracker.NoteTooLongError
	if errors.As(err, &tooLong) {
		logger.Warn("note truncated", "day", idx+1, "length", tooLong.Length, "limit", tooLong.Limit)
	} else if err != nil {
		return err
	}
	if text == "" {
		fmt.Printf("Cleared note for day %d\n", idx+1)
		return nil
	}
	fmt.Printf("Saved note for day %d\n", idx+1)
	return nil
}

// resetCommand clears the tracker after the type-to-confirm check.
func resetCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("streak reset", flag.ContinueOnError)
	confirm := fs.String("confirm", "", "Type "+tracker.ResetConfirmation+" to confirm")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *confirm != tracker.ResetConfirmation {
		return fmt.Errorf("reset clears every day and the best streak; rerun with -confirm %s", tracker.ResetConfirmation)
	}

	store, tr, err := openTracker(cfg, newLogger(cfg))
	if err != nil {
		return err
	}
	defer store.Close()

	if err := tr.Reset(); err != nil {
		return err
	}
	fmt.Printf("Reset %d days starting %s\n", tr.Len(), tracker.FormatDisplay(tr.StartDate()))
	return nil
}

// printCommand renders a printable calendar.
func printCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("streak print", flag.ContinueOnError)
	raw := fs.Bool("raw", false, "Print the Markdown source instead of rendering it")
	width := fs.Int("width", 100, "Word wrap width for rendered output")
	if err := fs.Parse(args); err != nil {
		return err
	}

	store, tr, err := openTracker(cfg, newLogger(cfg))
	if err != nil {
		return err
	}
	defer store.Close()

	md := calendarMarkdown(cfg, tr)
	if *raw {
		fmt.Print(md)
		return nil
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(*width),
	)
	if err != nil {
		return fmt.Errorf("creating renderer: %w", err)
	}
	out, err := renderer.Render(md)
	if err != nil {
		return fmt.Errorf("rendering calendar: %w", err)
	}
	fmt.Print(out)
	return nil
}

// tableCell keeps a note inside its Markdown table row.
var tableCell = strings.NewReplacer("|", `\|`, "\r\n", " ", "\r", " ", "\n", " ")

func calendarMarkdown(cfg *config.Config, tr *tracker.Store) string {
	stats := tr.ComputeStats()
	var b strings.Builder
	fmt.Fprintf(&b, "# %d-Day Streak\n\n", tr.Len())
	fmt.Fprintf(&b, "%s to %s\n\n", tracker.FormatDisplay(tr.StartDate()), tracker.FormatDisplay(lastDate(tr)))
	fmt.Fprintf(&b, "**Completed** %d/%d · **Current streak** %d · **Best** %d\n\n",
		stats.TotalCompleted, tr.Len(), stats.CurrentStreak, stats.BestStreakEver)
	b.WriteString("| Day | Date | Done | Note |\n")
	b.WriteString("|---:|---|:---:|---|\n")
	for i, day := range tr.Days() {
		number := fmt.Sprintf("%d", i+1)
		if cfg.IsMilestone(i + 1) {
			number += " ★"
		}
		done := " "
		if day.Done {
			done = "✓"
		}
		note := tableCell.Replace(day.Note)
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", number, tracker.FormatDisplay(day.Date), done, note)
	}
	return b.String()
}
