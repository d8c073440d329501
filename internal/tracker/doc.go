// Package tracker owns the habit calendar state: a fixed number of days
// starting at a configured date, each with a done flag and a short note, plus
// the derived completion and streak statistics.
//
// The persisted document (also the export/import file format) looks like:
//
//	{
//	  "start": "2025-08-17",
//	  "days": [
//	    {"date": "2025-08-17", "done": true, "note": "first run"},
//	    {"date": "2025-08-18", "done": false, "note": ""}
//	  ],
//	  "stats": {"bestStreak": 1},
//	  "darkMode": false,
//	  "highContrast": false
//	}
//
// The days array always has exactly N entries. A stored payload that fails to
// parse or has the wrong shape is replaced by a freshly generated calendar;
// an import with the wrong shape is rejected and the current state is kept.
//
// # Statistics
//
//   - Total completed: number of days marked done.
//   - Current streak: the trailing run of done days counted back from the last day.
//   - Best streak: the longest run anywhere, ratcheted into the stored
//     stats.bestStreak so it never decreases until Reset.
//
// # Writes
//
// Every mutating call (ToggleDay, SetNote, Reset, ImportSnapshot,
// SetDisplayPrefs) recomputes statistics and writes the whole document to the
// key-value store before returning. Documents are written with 2-space
// indentation and a trailing newline.
package tracker
