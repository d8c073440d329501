package tracker

const (
	// MaxNoteLength is the maximum note length in characters.
	MaxNoteLength = 120

	// ResetConfirmation is the text callers must collect before calling Reset.
	ResetConfirmation = "RESET"
)

// Day is a single tracked day. Its identity is its index in State.Days; Date
// is always StartDate plus that index.
type Day struct {
	Date string `json:"date"`
	Done bool   `json:"done"`
	Note string `json:"note"`
}

// PersistedStats holds the statistics stored alongside the days.
type PersistedStats struct {
	BestStreak int `json:"bestStreak"`
}

// State is the full tracker document.
type State struct {
	Start        string         `json:"start"`
	Days         []Day          `json:"days"`
	Stats        PersistedStats `json:"stats"`
	DarkMode     bool           `json:"darkMode"`
	HighContrast bool           `json:"highContrast"`
}

// Clone returns a deep copy of the state.
func (s State) Clone() State {
	out := s
	if s.Days != nil {
		out.Days = make([]Day, len(s.Days))
		copy(out.Days, s.Days)
	}
	return out
}

// CompletedCount returns the number of done days.
func (s State) CompletedCount() int {
	n := 0
	for _, d := range s.Days {
		if d.Done {
			n++
		}
	}
	return n
}

// Stats are the derived statistics returned by ComputeStats.
type Stats struct {
	TotalCompleted int `json:"totalCompleted"`
	CurrentStreak  int `json:"currentStreak"`
	RunBestStreak  int `json:"runBestStreak"`
	BestStreakEver int `json:"bestStreakEver"`
}
